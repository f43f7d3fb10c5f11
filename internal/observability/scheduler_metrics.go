package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulerCollector exposes Prometheus metrics for core.Scheduler's
// callback queue: how deep it runs, how often callbacks fire, and how long
// callbacks sit queued before they do.
type SchedulerCollector struct {
	gatherer prometheus.Gatherer

	PendingCallbacks     prometheus.Gauge
	CallbacksFiredTotal  prometheus.Counter
	RecurringReschedules prometheus.Counter
	CallbackLeadTicks    prometheus.Histogram
}

// NewSchedulerCollector registers scheduler metrics against reg.
func NewSchedulerCollector(reg prometheus.Registerer) (*SchedulerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	pending, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aim_scheduler_pending_callbacks",
		Help: "Number of scheduled callbacks currently queued, cancelled or not.",
	}), "aim_scheduler_pending_callbacks")
	if err != nil {
		return nil, err
	}

	fired, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aim_scheduler_callbacks_fired_total",
		Help: "Cumulative number of scheduled callbacks the scheduler has invoked.",
	}), "aim_scheduler_callbacks_fired_total")
	if err != nil {
		return nil, err
	}

	rescheduled, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aim_scheduler_recurring_reschedules_total",
		Help: "Cumulative number of times a recurring callback was re-inserted after firing.",
	}), "aim_scheduler_recurring_reschedules_total")
	if err != nil {
		return nil, err
	}

	leadTicks, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aim_scheduler_callback_lead_ticks",
		Help:    "Number of ticks between a callback's scheduling and its firing.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	}), "aim_scheduler_callback_lead_ticks")
	if err != nil {
		return nil, err
	}

	return &SchedulerCollector{
		gatherer:             gatherer,
		PendingCallbacks:     pending,
		CallbacksFiredTotal:  fired,
		RecurringReschedules: rescheduled,
		CallbackLeadTicks:    leadTicks,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SchedulerCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// SetPendingCallbacks updates the queue-depth gauge.
func (c *SchedulerCollector) SetPendingCallbacks(count int) {
	if c == nil || c.PendingCallbacks == nil {
		return
	}
	c.PendingCallbacks.Set(float64(count))
}

// IncCallbacksFired increments the fired-callback counter.
func (c *SchedulerCollector) IncCallbacksFired() {
	if c == nil || c.CallbacksFiredTotal == nil {
		return
	}
	c.CallbacksFiredTotal.Inc()
}

// IncRecurringReschedules increments the recurring-reschedule counter.
func (c *SchedulerCollector) IncRecurringReschedules() {
	if c == nil || c.RecurringReschedules == nil {
		return
	}
	c.RecurringReschedules.Inc()
}

// ObserveLeadTicks records the number of ticks a callback waited before it
// fired.
func (c *SchedulerCollector) ObserveLeadTicks(ticks int64) {
	if c == nil || c.CallbackLeadTicks == nil {
		return
	}
	c.CallbackLeadTicks.Observe(float64(ticks))
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
