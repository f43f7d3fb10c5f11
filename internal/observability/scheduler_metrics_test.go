package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSchedulerCollectorRecordsCallbackActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSchedulerCollector(reg)
	if err != nil {
		t.Fatalf("NewSchedulerCollector: %v", err)
	}

	collector.SetPendingCallbacks(7)
	collector.IncCallbacksFired()
	collector.IncCallbacksFired()
	collector.IncRecurringReschedules()
	collector.ObserveLeadTicks(12)

	if got := testutil.ToFloat64(collector.PendingCallbacks); got != 7 {
		t.Fatalf("aim_scheduler_pending_callbacks = %v, want 7", got)
	}
	if got := testutil.ToFloat64(collector.CallbacksFiredTotal); got != 2 {
		t.Fatalf("aim_scheduler_callbacks_fired_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.RecurringReschedules); got != 1 {
		t.Fatalf("aim_scheduler_recurring_reschedules_total = %v, want 1", got)
	}
	if count := testutil.CollectAndCount(collector.CallbackLeadTicks); count != 1 {
		t.Fatalf("aim_scheduler_callback_lead_ticks sample count = %d, want 1", count)
	}
}

func TestSchedulerCollectorNilReceiverIsSafe(t *testing.T) {
	var collector *SchedulerCollector
	collector.SetPendingCallbacks(1)
	collector.IncCallbacksFired()
	collector.IncRecurringReschedules()
	collector.ObserveLeadTicks(1)
	if got := collector.Gatherer(); got != nil {
		t.Fatalf("Gatherer() on nil receiver = %v, want nil", got)
	}
}
