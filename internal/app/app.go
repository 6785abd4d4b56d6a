// Package app wires the configuration, storage and servers together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/MSSkowron/CareAuth/internal/config"
	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/internal/events"
	"github.com/MSSkowron/CareAuth/internal/metrics"
	"github.com/MSSkowron/CareAuth/internal/repository"
	"github.com/MSSkowron/CareAuth/internal/repository/memory"
	"github.com/MSSkowron/CareAuth/internal/revocation"
	grpcserver "github.com/MSSkowron/CareAuth/internal/server/grpc"
	"github.com/MSSkowron/CareAuth/internal/server/rest"
	"github.com/MSSkowron/CareAuth/internal/service"
	"github.com/MSSkowron/CareAuth/pkg/crypto"
	"github.com/MSSkowron/CareAuth/pkg/logger"
	"github.com/MSSkowron/CareAuth/pkg/token"
)

// App holds the running components of the service.
type App struct {
	cfg        *config.Config
	restServer *rest.Server
	grpcServer *grpcserver.Server
	closers    []func() error
}

// New builds every dependency described by cfg. Postgres storage is migrated before use.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

func (a *App) init(ctx context.Context) error {
	secret, err := token.DecodeSecret(a.cfg.JWTSecretKey)
	if err != nil {
		return fmt.Errorf("failed to decode jwt secret: %w", err)
	}

	hasher, err := crypto.NewHasher(a.cfg.BcryptCost)
	if err != nil {
		return err
	}

	repos, err := a.repositories(ctx)
	if err != nil {
		return err
	}

	revoked, err := a.revocationStore(ctx)
	if err != nil {
		return err
	}

	publisher, err := a.publisher()
	if err != nil {
		return err
	}

	trustedProxies, err := rest.ParseTrustedProxies(a.cfg.TrustedProxies)
	if err != nil {
		return err
	}

	m := metrics.New()
	tokenService := service.NewTokenService(secret, a.cfg.JWTExpiration)
	authService := service.NewAuthService(repos, hasher, tokenService, revoked, publisher, m)

	a.restServer = rest.NewServer(rest.Services{
		Auth:                authService,
		Profile:             service.NewProfileService(repos, hasher, tokenService, revoked, publisher, m),
		Data:                service.NewDataService(repos, m),
		ConsultationHistory: service.NewConsultationHistoryService(repos),
	}, m,
		rest.WithAddress(a.cfg.ServerAddress+":"+strconv.Itoa(a.cfg.ServerPort)),
		rest.WithRateLimit(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst),
		rest.WithTrustedProxies(trustedProxies),
		rest.WithAllowedOrigins(a.cfg.CORSAllowedOrigins),
	)

	if a.cfg.GRPCPort != 0 {
		a.grpcServer = grpcserver.NewServer(authService,
			grpcserver.WithAddress(a.cfg.ServerAddress),
			grpcserver.WithPort(a.cfg.GRPCPort),
		)
	}

	return nil
}

func (a *App) repositories(ctx context.Context) (service.Repositories, error) {
	if a.cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")

		store := memory.NewStore()
		return service.Repositories{
			Users:                 store.Users(),
			Pacilians:             store.Pacilians(),
			Caregivers:            store.Caregivers(),
			Schedules:             store.Schedules(),
			ConsultationHistories: store.ConsultationHistories(),
			Tx:                    database.NoopTxManager{},
		}, nil
	}

	db, err := database.NewPostgresDatabase(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return service.Repositories{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	if err := database.NewSQLMigrator(db, database.MigrationsFS(), database.MigrationsDir).Up(ctx); err != nil {
		return service.Repositories{}, fmt.Errorf("failed to migrate database: %w", err)
	}

	return service.Repositories{
		Users:                 repository.NewUserRepository(db),
		Pacilians:             repository.NewPacilianRepository(db),
		Caregivers:            repository.NewCaregiverRepository(db),
		Schedules:             repository.NewScheduleRepository(db),
		ConsultationHistories: repository.NewConsultationHistoryRepository(db),
		Tx:                    database.NewTransactionManager(db),
	}, nil
}

func (a *App) revocationStore(ctx context.Context) (revocation.Store, error) {
	if a.cfg.RedisAddr == "" {
		return revocation.NewMemoryStore(), nil
	}

	store, err := revocation.NewRedisStore(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	return store, nil
}

func (a *App) publisher() (events.Publisher, error) {
	if a.cfg.NATSURL == "" {
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(a.cfg.NATSURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, publisher.Close)

	return publisher, nil
}

// Handler returns the HTTP handler of the REST API.
func (a *App) Handler() http.Handler {
	return a.restServer.Handler
}

// Run serves REST and gRPC until ctx is cancelled or a server fails, then shuts both down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(fmt.Sprintf("REST server listening on %s", a.restServer.Addr))
		if err := a.restServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to run rest server: %w", err)
		}
		return nil
	})

	if a.grpcServer != nil {
		g.Go(func() error {
			return a.grpcServer.ListenAndServe()
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if a.grpcServer != nil {
			a.grpcServer.GracefulStop()
		}
		if err := a.restServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down rest server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := a.Close(); closeErr != nil {
		logger.Error(fmt.Sprintf("Failed to release resources: %s", closeErr))
	}
	return err
}

// Close releases database, Redis and NATS connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
