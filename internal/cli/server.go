package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"survey-service/internal/app"
	"survey-service/internal/auth"
	"survey-service/internal/config"
	"survey-service/internal/infra/memory"
	pgstore "survey-service/internal/infra/postgres"
	rediscache "survey-service/internal/infra/redis"
	"survey-service/internal/infra/sqlite"
	"survey-service/internal/log"
	transport "survey-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the survey server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

type stores struct {
	surveys   app.SurveyRepository
	responses app.ResponseRepository
	close     func()
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.DSN)
		if err != nil {
			return stores{}, err
		}
		return stores{surveys: store, responses: store, close: func() { _ = store.Close() }}, nil

	case config.DriverPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return stores{}, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Storage.DSN)
		if err != nil {
			return stores{}, err
		}
		store := pgstore.NewStore(pool)
		return stores{surveys: store, responses: store, close: pool.Close}, nil

	default:
		log.Warnf("using in-memory storage; surveys are lost on restart")
		return stores{
			surveys:   memory.NewSurveyStore(),
			responses: memory.NewResponseStore(),
			close:     func() {},
		}, nil
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	backing, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer backing.close()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	surveyTTL := config.TTLDuration(cfg.Survey.CacheTTL, 10*time.Minute)

	var surveys app.SurveyRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		surveys = rediscache.NewSurveyCache(redisClient, backing.surveys, surveyTTL)
		sessions = rediscache.NewSessionStore(redisClient, redisTTL)
	} else {
		surveys = memory.NewSurveyCache(backing.surveys, surveyTTL)
		sessions = memory.NewSessionStore()
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warnf("auth.jwt_secret not set; using an ephemeral secret, issued tokens stop working on restart")
	}
	verifier := auth.NewVerifier(secret, cfg.Auth.Issuer)

	editor := app.NewSurveyService(surveys)
	respond := app.NewResponseService(surveys, backing.responses, sessions)
	analytics := app.NewAnalyticsService(surveys, backing.responses, app.NewResultsHub())
	respond.SetListener(analytics)

	handler := transport.NewHandler(editor, respond, analytics, verifier)

	// No WriteTimeout: websocket connections stay open for the whole session.
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler.Routes(cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Infof("starting survey service on :%s (storage=%s)", finalPort, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
