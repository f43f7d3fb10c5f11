package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalsfoundry/aim-sim/blocks"
	"github.com/signalsfoundry/aim-sim/core"
	"github.com/signalsfoundry/aim-sim/internal/logging"
	"github.com/signalsfoundry/aim-sim/internal/observability"
	"github.com/signalsfoundry/aim-sim/spatial"
	"github.com/signalsfoundry/aim-sim/timectrl"
)

func main() {
	maxTicks := flag.Int64("max-ticks", 200, "number of ticks to run")
	seed := flag.Int64("seed", 1, "RNG seed")
	metricsAddr := flag.String("metrics-addr", "", "address to serve /metrics on (empty disables)")
	scenarioPath := flag.String("scenario", "", "path to a scenario config JSON file (optional; a built-in demo network runs if empty)")
	tickPace := flag.Duration("tick-pace", 0, "pace each tick against wall-clock time by this duration (0 runs as fast as possible)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracingCfg := observability.TracingConfigFromEnv()
	shutdownTracing, err := observability.InitTracing(ctx, tracingCfg, log)
	if err != nil {
		log.Error(ctx, "init tracing failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewSimulatorCollector(nil)
	if err != nil {
		log.Error(ctx, "init metrics failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	schedCollector, err := observability.NewSchedulerCollector(nil)
	if err != nil {
		log.Error(ctx, "init scheduler metrics failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		server := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn(ctx, "metrics server exited", logging.String("error", err.Error()))
			}
		}()
		defer server.Close()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	name := "builtin-demo"
	effectiveMaxTicks := *maxTicks
	effectiveSeed := *seed
	if *scenarioPath != "" {
		f, err := os.Open(*scenarioPath)
		if err != nil {
			log.Error(ctx, "open scenario file failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		cfg, err := core.LoadScenarioConfig(f)
		f.Close()
		if err != nil {
			log.Error(ctx, "load scenario config failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		name, effectiveMaxTicks, effectiveSeed = cfg.Name, cfg.MaxTicks, cfg.Seed
		log.Info(ctx, "loaded scenario", logging.String("summary", cfg.Summary()))
	}

	sim := core.NewSimulator(effectiveMaxTicks, effectiveSeed)
	wireDemoNetwork(sim)
	wireObservability(sim, collector, schedCollector, log)
	if *tickPace > 0 {
		wirePacing(sim, *tickPace, log)
	}

	log.Info(ctx, "starting run",
		logging.String("scenario", name),
		logging.Int64("max_ticks", effectiveMaxTicks),
	)

	start := time.Now()
	if err := sim.Run(ctx); err != nil {
		log.Error(ctx, "run failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "run complete", logging.Duration("wall_clock", time.Since(start)))

	for _, b := range sim.Blocks() {
		fmt.Printf("%-24s held=%d\n", b.ID(), len(b.Agents()))
	}
}

// wireDemoNetwork builds a small Source -> Queue -> Delay -> Sink network
// exercising the core tick loop end to end, used when no scenario file is
// given.
func wireDemoNetwork(sim *core.Simulator) {
	spawnEvery := func(period int64) blocks.SpawnSchedule {
		return func(tick int64) int {
			if tick%period == 0 {
				return 1
			}
			return 0
		}
	}

	source := blocks.NewSource("source-1", spawnEvery(3), core.NewAgent)
	queue := blocks.NewQueue("queue-1")
	delay, err := blocks.NewDelay("delay-1", sim, 5)
	if err != nil {
		panic(err)
	}
	sink := blocks.NewSink("sink-1")

	source.Connect(queue, 0)
	queue.Connect(delay, 0)
	delay.Connect(sink, 0)

	sim.AddBlock(source)
	sim.AddBlock(queue)
	sim.AddBlock(delay)
	sim.AddBlock(sink)
}

// wireObservability attaches SimulatorHooks and SchedulerHooks that drive
// per-tick metrics and tracing from outside the core package, per this
// repository's layering: core never imports internal/observability
// directly.
func wireObservability(sim *core.Simulator, collector *observability.SimulatorCollector, schedCollector *observability.SchedulerCollector, log logging.Logger) {
	lastSinkCount := make(map[string]int)
	lastRejectionCount := make(map[string]int)

	sim.Hooks.BeginTick = func(ctx context.Context, tick int64) context.Context {
		ctx, _ = observability.StartTickSpan(ctx, tick)
		return ctx
	}
	sim.Hooks.BeginPhase = func(ctx context.Context, phase core.Phase) func() {
		_, span := observability.StartPhaseSpan(ctx, observability.TickPhase(phase))
		return func() { span.End() }
	}
	sim.Hooks.EndTick = func(ctx context.Context, tick int64, dur time.Duration, err error) {
		collector.ObserveTick(dur)
		schedCollector.SetPendingCallbacks(sim.PendingCallbacks())
		if err != nil {
			log.Debug(ctx, "tick failed", logging.Int64("tick", tick), logging.String("error", err.Error()))
			return
		}
		for _, b := range sim.Blocks() {
			collector.SetHeldAgents(b.ID(), len(b.Agents()))
			if sink, ok := b.(*blocks.Sink); ok {
				count := sink.Count()
				if delta := count - lastSinkCount[sink.ID()]; delta > 0 {
					for i := 0; i < delta; i++ {
						collector.IncSinkCount(sink.ID())
					}
				}
				lastSinkCount[sink.ID()] = count
			}
			if rb, ok := b.(interface{ RejectionCount() int }); ok {
				count := rb.RejectionCount()
				if delta := count - lastRejectionCount[b.ID()]; delta > 0 {
					for i := 0; i < delta; i++ {
						collector.IncRejection(b.ID(), "downstream-reject")
					}
				}
				lastRejectionCount[b.ID()] = count
			}
			if area, ok := b.(*blocks.RestrictedAreaStart); ok {
				collector.SetRestrictedAreaActive(area.ID(), area.ActiveAgents())
			}
		}
		for _, sp := range sim.Spaces() {
			cs, ok := sp.(*spatial.ConveyorSpace)
			if !ok {
				continue
			}
			for _, entityID := range cs.EntityIDs() {
				collector.SetConveyorOccupancy(entityID, cs.Occupancy(entityID))
			}
		}
	}

	sim.SetSchedulerHooks(core.SchedulerHooks{
		OnFired: func(leadTicks int64) {
			schedCollector.IncCallbacksFired()
			schedCollector.ObserveLeadTicks(leadTicks)
		},
		OnRescheduled: func() {
			schedCollector.IncRecurringReschedules()
		},
	})
}

// wirePacing makes the run advance no faster than one tick per interval of
// wall-clock time, by chaining a timectrl.Pacer listener in front of
// whatever BeginTick hook wireObservability already installed. Useful for
// watching a demo run unfold live rather than as fast as the tick loop can
// go.
func wirePacing(sim *core.Simulator, interval time.Duration, log logging.Logger) {
	pacer := timectrl.NewPacer(time.Now(), interval, timectrl.RealTime)

	pulse := make(chan struct{}, 1)
	pacer.AddListener(func(time.Time) {
		select {
		case pulse <- struct{}{}:
		default:
		}
	})
	pacer.Start(0)

	prevBeginTick := sim.Hooks.BeginTick
	sim.Hooks.BeginTick = func(ctx context.Context, tick int64) context.Context {
		if prevBeginTick != nil {
			ctx = prevBeginTick(ctx, tick)
		}
		select {
		case <-pulse:
		case <-ctx.Done():
		}
		return ctx
	}

	log.Info(context.Background(), "pacing run against wall clock", logging.Duration("tick_interval", interval))
}
