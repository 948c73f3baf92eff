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

	// Drivers
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/cenackle/services/social-service/config"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/primary/events"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/assets"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/graph"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/repository/memory"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/repository/mongodb"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/repository/postgres"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/security"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/services"
)

// stores regroupe les repositories du driver choisi.
type stores struct {
	users         ports.UserRepository
	posts         ports.PostRepository
	notifications ports.NotificationRepository
	tx            ports.Transactor
	close         func()
}

func main() {
	// 1. Config & Logger
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)
	slog.Info("🚀 Starting Social Service", "env", cfg.Env, "store", cfg.StoreDriver, "port", cfg.HTTPPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Télémétrie (Tracing)
	if cfg.OtelEndpoint != "" {
		tp, err := initTracer(ctx, cfg)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// 3. Infrastructure: Entity Store
	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("Unable to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	// 4. Infrastructure: Redis (compteur de non-lus)
	var counter ports.UnreadCounter = cache.NewMemoryUnreadCounter()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			slog.Error("Failed to instrument Redis", "error", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Unable to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		counter = cache.NewRedisUnreadCounter(rdb)
		slog.Info("✅ Connected to Redis")
	}

	// 5. Infrastructure: Neo4j (projection du graphe + suggestions)
	var graphRepo *graph.Neo4jRepo
	if cfg.Neo4jURI != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			slog.Error("Unable to create Neo4j driver", "error", err)
			os.Exit(1)
		}
		defer driver.Close(context.Background())

		if err := driver.VerifyConnectivity(ctx); err != nil {
			slog.Error("Unable to connect to Neo4j", "error", err)
			os.Exit(1)
		}
		graphRepo = graph.NewNeo4jRepo(driver)
		if err := graphRepo.EnsureSchema(ctx); err != nil {
			slog.Error("Failed to ensure Neo4j schema", "error", err)
			os.Exit(1)
		}
		slog.Info("✅ Connected to Neo4j")
	}

	// 6. Infrastructure: Event Broker NATS
	var publisher ports.EventPublisher = eventbroker.NoopPublisher{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			slog.Error("Unable to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()

		broker, err := eventbroker.NewNatsBroker(ctx, nc)
		if err != nil {
			slog.Error("Unable to init JetStream", "error", err)
			os.Exit(1)
		}
		publisher = broker
		slog.Info("✅ Connected to NATS")

		// Consumer : alimente Neo4j à partir des follow/unfollow
		if graphRepo != nil {
			handler := events.NewEventHandler(graphRepo)
			if _, err := nc.Subscribe(events.FollowSubject, handler.HandleFollowChanged); err != nil {
				slog.Error("Failed to subscribe to NATS", "error", err)
				os.Exit(1)
			}
			slog.Info("👂 Listening for events (NATS)", "subject", events.FollowSubject)
		}
	}

	// 7. Infrastructure: Asset Host
	var host ports.AssetHost = assets.NewMemoryHost()
	if cfg.S3Enabled() {
		s3Host, err := assets.NewS3Host(ctx, assets.S3Config{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3Endpoint,
			PublicURL:    cfg.S3PublicURL,
			Prefix:       cfg.S3Prefix,
		})
		if err != nil {
			slog.Error("Unable to init S3 asset host", "error", err)
			os.Exit(1)
		}
		host = s3Host
		slog.Info("✅ S3 asset host ready", "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("S3_BUCKET not set, images are kept in memory")
	}

	// 8. Security
	tokens, err := security.NewJWTProvider(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		slog.Error("Invalid JWT configuration", "error", err)
		os.Exit(1)
	}
	hasher := security.NewArgon2Hasher(nil)

	// 9. Initialisation du Core
	var suggestions ports.SuggestionSource
	if graphRepo != nil {
		suggestions = graphRepo
	}
	notifier := services.NewNotifier(st.notifications, counter, publisher)
	svc := rest.Services{
		Identity:      services.NewIdentityService(st.users, hasher, tokens),
		Users:         services.NewUserService(st.users, host, hasher, suggestions),
		Graph:         services.NewGraphService(st.users, st.posts, st.tx, notifier, publisher),
		Feed:          services.NewFeedService(st.posts, st.users, host, services.NewMentionResolver(st.users), notifier),
		Notifications: services.NewNotificationService(st.notifications, counter, st.users),
	}

	// 10. Serveur HTTP (Driving Adapter)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewServer(svc, rest.CookieConfig{TTL: tokens.TTL(), Secure: !cfg.IsLocal()}).Router()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           corsHandler.Handler(otelhttp.NewHandler(router, "social-http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("📡 Social Service HTTP listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("👋 Server exited")
}

// --- Helpers ---

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("parse db url: %w", err)
		}
		dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

		pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		slog.Info("✅ Connected to Postgres")

		return &stores{
			users:         postgres.NewUserRepo(pool),
			posts:         postgres.NewPostRepo(pool),
			notifications: postgres.NewNotificationRepo(pool),
			tx:            postgres.NewTransactor(pool),
			close:         pool.Close,
		}, nil

	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		slog.Info("✅ Connected to MongoDB", "database", cfg.MongoDB, "transactions", cfg.MongoTransactions)

		return &stores{
			users:         store.Users(),
			posts:         store.Posts(),
			notifications: store.Notifications(),
			tx:            store.Transactor(cfg.MongoTransactions),
			close:         func() { _ = store.Close(context.Background()) },
		}, nil

	default:
		slog.Warn("Using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			users:         store.Users(),
			posts:         store.Posts(),
			notifications: store.Notifications(),
			tx:            store.Transactor(),
			close:         func() {},
		}, nil
	}
}

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsLocal() {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.IsLocal() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("social-service"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
