package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	poke "github.com/AshkanYarmoradi/go-poke"
	"github.com/AshkanYarmoradi/go-poke/adapters"
	"github.com/AshkanYarmoradi/go-poke/adapters/memory"
	"github.com/AshkanYarmoradi/go-poke/adapters/pokeapi"
	"github.com/AshkanYarmoradi/go-poke/api"
	"github.com/AshkanYarmoradi/go-poke/cli/config"
	"github.com/AshkanYarmoradi/go-poke/logging"
	"github.com/AshkanYarmoradi/go-poke/middleware/metrics"
	"github.com/AshkanYarmoradi/go-poke/middleware/tracing"
	"github.com/AshkanYarmoradi/go-poke/pokemon"
	"github.com/AshkanYarmoradi/go-poke/serializer/msgpack"
	"github.com/AshkanYarmoradi/go-poke/trainer"
)

// CommandTimeout bounds a single command dispatched through the bus.
const CommandTimeout = 30 * time.Second

// App is the assembled poke service.
type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	Router   http.Handler
	Bus      *poke.CommandBus
	Trainers *trainer.Dispatcher
	Pokedex  pokemon.Repository
	Cache    *memory.CacheLayer

	closers []func(context.Context) error
}

// NewApp wires the event log, the cached Pokédex, the trainer dispatcher and
// the HTTP router from cfg. Spans are written to traceOut when tracing is
// enabled. The cache writer stops when ctx ends or Close is called.
func NewApp(ctx context.Context, cfg *config.Config, logger *logging.Logger, traceOut io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if traceOut == nil {
		traceOut = io.Discard
	}
	app := &App{Config: cfg, Logger: logger}

	serializer, err := newSerializer(cfg.EventStore.Serializer)
	if err != nil {
		return nil, err
	}

	var (
		m      *metrics.Metrics
		tracer *tracing.Tracer
		router = api.RouterConfig{Logger: logger.Named("http"), CORSOrigins: cfg.Server.CORSOrigins}
	)

	if cfg.Telemetry.MetricsEnabled {
		m = metrics.New(metrics.WithMetricsServiceName(cfg.Telemetry.ServiceName))
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if err := m.Register(registry); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		router.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	if cfg.Telemetry.TracingEnabled {
		tp, err := tracing.NewStdoutProvider(cfg.Telemetry.ServiceName, traceOut)
		if err != nil {
			return nil, fmt.Errorf("create tracer provider: %w", err)
		}
		otel.SetTracerProvider(tp)
		app.closers = append(app.closers, tp.Shutdown)
		tracer = tracing.NewTracer(
			tracing.WithTracerProvider(tp),
			tracing.WithServiceName(cfg.Telemetry.ServiceName),
		)
		router.TracingService = cfg.Telemetry.ServiceName
	}

	// Event log
	var log adapters.EventStoreAdapter = memory.NewAdapter()
	if m != nil {
		log = m.WrapEventStore(log)
	}
	if tracer != nil {
		log = tracing.NewEventStoreMiddleware(log, tracer)
	}
	if err := log.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize event store: %w", err)
	}
	app.closers = append(app.closers, func(context.Context) error { return log.Close() })
	store := poke.New(log, poke.WithSerializer(serializer), poke.WithLogger(logger.Named("eventstore")))

	// Pokédex: PokeAPI behind the in-memory cache
	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.PokeAPI.URL),
		pokeapi.WithTimeout(cfg.PokeAPI.Timeout),
	)
	var upstream pokemon.Repository = pokeapi.NewRepository(client)
	if m != nil {
		upstream = m.WrapRepository("pokeapi", upstream)
	}
	if tracer != nil {
		upstream = tracing.NewRepositoryMiddleware("pokeapi", upstream, tracer)
	}
	app.Cache = memory.NewCacheLayer(ctx, upstream, memory.WithCacheLogger(logger.Named("cache")))
	app.closers = append(app.closers, func(context.Context) error { return app.Cache.Close() })

	var pokedex pokemon.Repository = app.Cache
	if m != nil {
		pokedex = m.WrapRepository("cache", pokedex)
	}
	app.Pokedex = pokedex

	// Trainers
	app.Trainers = trainer.NewDispatcher(store, pokedex, poke.WithDispatcherLogger(logger.Named("trainer")))

	busMiddleware := []poke.Middleware{
		poke.RecoveryMiddleware(),
		poke.CorrelationIDMiddleware(uuid.NewString),
		poke.LoggingMiddleware(logger.Named("bus")),
		poke.TimeoutMiddleware(CommandTimeout),
	}
	if m != nil {
		busMiddleware = append(busMiddleware, m.CommandMiddleware())
	}
	if tracer != nil {
		busMiddleware = append(busMiddleware, tracing.CommandMiddleware(tracer))
	}
	busMiddleware = append(busMiddleware, poke.ValidationMiddleware())

	app.Bus = poke.NewCommandBus(poke.WithMiddleware(busMiddleware...))
	trainer.RegisterHandlers(app.Bus, app.Trainers)

	router.Pokedex = pokedex
	router.Bus = app.Bus
	router.Trainers = app.Trainers
	app.Router = api.NewRouter(router)

	return app, nil
}

// Close releases everything NewApp started, newest first.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newSerializer(name string) (poke.Serializer, error) {
	switch name {
	case "", config.SerializerJSON:
		return poke.NewJSONSerializer(), nil
	case config.SerializerMsgpack:
		return msgpack.NewSerializer(), nil
	}
	return nil, fmt.Errorf("unknown serializer %q", name)
}
