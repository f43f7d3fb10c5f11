package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSimulatorCollectorRecordsTickDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulatorCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulatorCollector: %v", err)
	}

	collector.ObserveTick(10 * time.Millisecond)

	count := testutil.CollectAndCount(collector.TickDuration)
	if count != 1 {
		t.Fatalf("aim_tick_duration_seconds sample count = %d, want 1", count)
	}
}

func TestSimulatorCollectorTracksHeldAgentsAndRejections(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulatorCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulatorCollector: %v", err)
	}

	collector.SetHeldAgents("queue-1", 4)
	collector.IncRejection("gate-1", "closed")
	collector.IncRejection("gate-1", "closed")
	collector.IncSinkCount("sink-1")
	collector.SetRestrictedAreaActive("area-1", 2)
	collector.SetConveyorOccupancy("conveyor-1", 1)

	if got := testutil.ToFloat64(collector.HeldAgents.WithLabelValues("queue-1")); got != 4 {
		t.Fatalf("aim_block_held_agents = %v, want 4", got)
	}
	if got := testutil.ToFloat64(collector.RejectionsTotal.WithLabelValues("gate-1", "closed")); got != 2 {
		t.Fatalf("aim_rejections_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.SinkCount.WithLabelValues("sink-1")); got != 1 {
		t.Fatalf("aim_sink_agents_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.RestrictedAreaActive.WithLabelValues("area-1")); got != 2 {
		t.Fatalf("aim_restricted_area_active_agents = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ConveyorOccupancy.WithLabelValues("conveyor-1")); got != 1 {
		t.Fatalf("aim_conveyor_entity_occupancy = %v, want 1", got)
	}
}

func TestSimulatorCollectorHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulatorCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulatorCollector: %v", err)
	}
	collector.SetHeldAgents("queue-1", 3)
	// A CounterVec is only exported once it has a labelled child.
	collector.IncRejection("gate-1", "closed")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"aim_tick_duration_seconds",
		"aim_block_held_agents",
		"aim_rejections_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestNewSimulatorCollectorReusesExistingRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimulatorCollector(reg)
	if err != nil {
		t.Fatalf("first NewSimulatorCollector: %v", err)
	}
	second, err := NewSimulatorCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimulatorCollector: %v", err)
	}
	second.SetHeldAgents("queue-1", 5)
	if got := testutil.ToFloat64(first.HeldAgents.WithLabelValues("queue-1")); got != 5 {
		t.Fatalf("expected second registration to reuse first's collector, got %v", got)
	}
}
