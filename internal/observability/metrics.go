package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulatorCollector bundles the Prometheus metrics a running Simulator
// updates each tick: timing, per-block occupancy, and rejection counts.
//
// Grounded on the teacher's NewNBICollector shape (a constructor that
// registers every metric against a provided registerer, with the same
// register-or-reuse helper pattern), repointed from gRPC request/response
// metrics to tick-loop metrics.
type SimulatorCollector struct {
	gatherer prometheus.Gatherer

	TickDuration         prometheus.Histogram
	HeldAgents           *prometheus.GaugeVec
	SinkCount            *prometheus.CounterVec
	RejectionsTotal      *prometheus.CounterVec
	RestrictedAreaActive *prometheus.GaugeVec
	ConveyorOccupancy    *prometheus.GaugeVec
}

// NewSimulatorCollector registers simulator metrics against reg, defaulting
// to the global Prometheus registry when reg is nil.
func NewSimulatorCollector(reg prometheus.Registerer) (*SimulatorCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	tickDuration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aim_tick_duration_seconds",
		Help:    "Wall-clock duration of a single Simulator tick, across all five phases.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	}), "aim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	heldAgents, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aim_block_held_agents",
		Help: "Number of agents currently held by a block, labeled by block ID.",
	}, []string{"block"}), "aim_block_held_agents")
	if err != nil {
		return nil, err
	}

	sinkCount, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aim_sink_agents_total",
		Help: "Cumulative number of agents absorbed by a Sink, labeled by sink ID.",
	}, []string{"sink"}), "aim_sink_agents_total")
	if err != nil {
		return nil, err
	}

	rejections, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aim_rejections_total",
		Help: "Cumulative number of RejectionError returns, labeled by the rejecting block and a short reason tag.",
	}, []string{"block", "reason"}), "aim_rejections_total")
	if err != nil {
		return nil, err
	}

	restrictedArea, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aim_restricted_area_active_agents",
		Help: "Current number of agents inside a RestrictedAreaStart/End pair, labeled by the start block's ID.",
	}, []string{"area"}), "aim_restricted_area_active_agents")
	if err != nil {
		return nil, err
	}

	conveyorOccupancy, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aim_conveyor_entity_occupancy",
		Help: "Number of agents currently occupying a conveyor-graph entity, labeled by entity ID.",
	}, []string{"entity"}), "aim_conveyor_entity_occupancy")
	if err != nil {
		return nil, err
	}

	return &SimulatorCollector{
		gatherer:             gatherer,
		TickDuration:         tickDuration,
		HeldAgents:           heldAgents,
		SinkCount:            sinkCount,
		RejectionsTotal:      rejections,
		RestrictedAreaActive: restrictedArea,
		ConveyorOccupancy:    conveyorOccupancy,
	}, nil
}

// ObserveTick records how long a tick took to run.
func (c *SimulatorCollector) ObserveTick(d time.Duration) {
	if c == nil || c.TickDuration == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
}

// SetHeldAgents updates the held-agent gauge for blockID.
func (c *SimulatorCollector) SetHeldAgents(blockID string, count int) {
	if c == nil || c.HeldAgents == nil {
		return
	}
	c.HeldAgents.WithLabelValues(blockID).Set(float64(count))
}

// IncSinkCount increments the absorbed-agent counter for sinkID.
func (c *SimulatorCollector) IncSinkCount(sinkID string) {
	if c == nil || c.SinkCount == nil {
		return
	}
	c.SinkCount.WithLabelValues(sinkID).Inc()
}

// IncRejection increments the rejection counter for a block/reason pair.
func (c *SimulatorCollector) IncRejection(blockID, reason string) {
	if c == nil || c.RejectionsTotal == nil {
		return
	}
	c.RejectionsTotal.WithLabelValues(blockID, reason).Inc()
}

// SetRestrictedAreaActive updates the active-agent gauge for a restricted
// area, identified by its start block's ID.
func (c *SimulatorCollector) SetRestrictedAreaActive(areaID string, count int) {
	if c == nil || c.RestrictedAreaActive == nil {
		return
	}
	c.RestrictedAreaActive.WithLabelValues(areaID).Set(float64(count))
}

// SetConveyorOccupancy updates the occupancy gauge for a conveyor-graph
// entity.
func (c *SimulatorCollector) SetConveyorOccupancy(entityID string, count int) {
	if c == nil || c.ConveyorOccupancy == nil {
		return
	}
	c.ConveyorOccupancy.WithLabelValues(entityID).Set(float64(count))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimulatorCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
