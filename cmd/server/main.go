package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"isdialogmote/internal/clients"
	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/dispatch"
	"isdialogmote/internal/dialogmote/handler"
	dmetrics "isdialogmote/internal/dialogmote/metrics"
	"isdialogmote/internal/dialogmote/service"
	"isdialogmote/internal/dialogmote/store"
	"isdialogmote/internal/platform/config"
	"isdialogmote/internal/platform/httpserver"
	"isdialogmote/internal/platform/kafka"
	"isdialogmote/internal/platform/logger"
	"isdialogmote/internal/platform/metrics"
	"isdialogmote/internal/platform/natsutil"
	"isdialogmote/internal/platform/postgres"
	"isdialogmote/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "isdialogmote: %v\n", err)
		os.Exit(1)
	}
}

// run wires the dependencies and blocks until SIGINT/SIGTERM or a fatal
// component error. Business logic lives in internal packages.
func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	st := store.NewPostgres(db)
	if err := st.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rc.Close()
	if rc == nil {
		log.Warn("REDIS_URL not set, name cache is process local")
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		return err
	}
	defer producer.Close()
	if err := producer.EnsureTopics(ctx, 1, 1,
		cfg.Kafka.StatusEndringTopic, cfg.Kafka.MotesvarTopic, cfg.Kafka.InAppTopic); err != nil {
		log.Warn("could not ensure kafka topics", "error", err.Error())
	}

	nc, err := natsutil.ConnectJetStreamWithRetry(ctx, cfg.NATS.URL, cfg.NATS.BehandlerSubject, 30*time.Second)
	if err != nil {
		return err
	}
	defer nc.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	nameCache := clients.NewNameCache(rc.Cmdable(),
		clients.WithNameTTL(cfg.Clients.NameCacheTTL),
		clients.WithCacheLogger(log),
	)
	persons := clients.NewCachedPersons(clients.NewPdl(cfg.Clients.PdlURL), nameCache)
	deps := jobDeps{
		store:     st,
		persons:   persons,
		orgs:      clients.NewCachedOrganizations(clients.NewEreg(cfg.Clients.EregURL), nameCache),
		archive:   clients.NewDokarkiv(cfg.Clients.DokarkivURL),
		dist:      clients.NewDokdist(cfg.Clients.DokdistURL),
		channels:  dispatch.NewRouter(persons, clients.NewNarmesteleder(cfg.Clients.NarmestelederURL)),
		events:    producer,
		behandler: natsutil.NewBehandlerBus(nc.JS, cfg.NATS.BehandlerSubject),
		logger:    log,
	}

	svc := service.New(st,
		clients.NewPdfgen(cfg.Clients.PdfgenURL),
		persons,
		clients.NewVarselbus(producer, cfg.Kafka.InAppTopic, cfg.Kafka.InAppLink),
		service.WithLogger(log),
		service.WithMetrics(dmetrics.New(reg)),
		service.WithDevMode(cfg.Server.DevMode),
	)
	deps.closer = svc

	elector, releaseElector, err := newElector(cfg.LeaderElection, cfg.Database.URL, rc)
	if err != nil {
		return err
	}
	defer releaseElector()

	runner := cronjob.NewRunner(elector,
		cronjob.WithLogger(log),
		cronjob.WithMetrics(cronjob.NewMetrics(reg)),
	)
	schedule := cronjob.Schedule{
		InitialDelay: cfg.Cronjob.InitialDelay,
		Interval:     cfg.Cronjob.Interval,
	}
	for _, job := range buildJobs(cfg.Cronjob, cfg.Kafka, deps) {
		runner.Register(job, schedule)
	}

	r := chi.NewRouter()
	r.Get("/internal/is_alive", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/internal/is_ready", readiness(log, db.PingContext, producer.Ping, rc.Ready))
	r.Handle("/internal/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	handler.New(svc, log, metrics.New(reg)).Register(r)

	srv := httpserver.New(cfg.Server.Addr, r, httpserver.ForHandlerTimeout(handler.RequestTimeout))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting isdialogmote", "addr", cfg.Server.Addr, "leader_election", string(cfg.LeaderElection.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return runner.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// readiness reports 503 until every dependency check passes.
func readiness(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", "error", err.Error())
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
