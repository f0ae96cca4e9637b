package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/totegamma/filmpulse/internal/config"
	"github.com/totegamma/filmpulse/internal/infra/database"
	"github.com/totegamma/filmpulse/internal/infra/repository"
	"github.com/totegamma/filmpulse/internal/observability"
	"github.com/totegamma/filmpulse/internal/present/rest"
	authmw "github.com/totegamma/filmpulse/internal/present/rest/middleware"
	"github.com/totegamma/filmpulse/internal/service"
	"github.com/totegamma/filmpulse/internal/usecase"
)

const serviceName = "filmpulse"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, err := config.Load(config.Path())
	if err != nil {
		panic(err)
	}

	observability.InitLogger(serviceName, conf.Server.Env)

	program, err := conf.ToDomain()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid program config")
	}

	if conf.Server.EnableTrace {
		shutdown, err := observability.SetupTracing(ctx, serviceName, rest.Version, conf.Server.TraceEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to setup tracing")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown tracer")
			}
		}()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	rdb, err := database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	accountRepo := repository.NewAccountRepository(db, mc)
	ledgerRepo := repository.NewLedgerRepository(db)
	commitRepo := repository.NewCommitRepository(db)

	signalService := service.NewSignalService(rdb)
	authService := service.NewAuthService(program)

	reviewUsecase := usecase.NewReviewUsecase(accountRepo, program, nil)
	verificationUsecase := usecase.NewVerificationUsecase(accountRepo, program, nil)
	transferUsecase := usecase.NewTransferUsecase(ledgerRepo)
	commitUsecase := usecase.NewCommitUsecase(
		commitRepo,
		signalService,
		reviewUsecase,
		verificationUsecase,
		transferUsecase,
		program,
		nil,
	)
	accountUsecase := usecase.NewAccountUsecase(accountRepo, ledgerRepo)
	faucetUsecase := usecase.NewFaucetUsecase(ledgerRepo)

	handler := rest.NewHandler(
		program,
		commitUsecase,
		reviewUsecase,
		accountUsecase,
		faucetUsecase,
		authmw.NewAuthMiddleware(authService),
		signalService,
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(serviceName))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	handler.RegisterRoutes(e)

	log.Info().
		Str("programID", program.ProgramID.String()).
		Str("listen", conf.Server.Listen).
		Bool("faucet", program.Faucet).
		Msg("starting filmpulse")

	go func() {
		if err := e.Start(conf.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server")
	}
}
