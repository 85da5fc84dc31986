package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/campusreport/identity-server/internal/anoncode"
	"github.com/campusreport/identity-server/internal/api/http/handler"
	"github.com/campusreport/identity-server/internal/api/http/middleware"
	"github.com/campusreport/identity-server/internal/api/http/router"
	"github.com/campusreport/identity-server/internal/config"
	"github.com/campusreport/identity-server/internal/hasher"
	"github.com/campusreport/identity-server/internal/logger"
	"github.com/campusreport/identity-server/internal/mailer"
	"github.com/campusreport/identity-server/internal/repository/postgres"
	"github.com/campusreport/identity-server/internal/service"
	"github.com/campusreport/identity-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	secretHasher := hasher.NewBcrypt(cfg.Hasher.Cost)
	accountRepo := postgres.NewAccountRepository(db, secretHasher)
	codeGenerator := anoncode.NewGenerator(accountRepo)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Timeout)

	authService := service.NewAuth(accountRepo, secretHasher, codeGenerator, tokenManager, smtpMailer, service.Settings{
		DomainSuffix:    cfg.Verification.DomainSuffix,
		VerificationTTL: cfg.Verification.TokenTTL,
		LinkBaseURL:     cfg.Verification.LinkBaseURL,
	}, logger)

	authHandler := handler.NewAuth(authService, logger)
	authenticate := middleware.NewAuthenticate(tokenManager, logger)
	logging := middleware.NewLogging(logger)

	app := router.New(authHandler, authenticate, logging, db)
	addr := fmt.Sprintf(":%s", cfg.HTTP.Port)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", addr)

		var err error
		if cfg.HTTP.EnableHTTPS {
			err = app.Listen(addr, fiber.ListenConfig{
				CertFile:    cfg.HTTP.CertFileName,
				CertKeyFile: cfg.HTTP.KeyFileName,
			})
		} else {
			err = app.Listen(addr)
		}
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", addr)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
