package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joaovitorrios/gerenciador-gastos/internal/amqp"
	"github.com/joaovitorrios/gerenciador-gastos/internal/auth"
	"github.com/joaovitorrios/gerenciador-gastos/internal/cli"
	apphttp "github.com/joaovitorrios/gerenciador-gastos/internal/http"
	"github.com/joaovitorrios/gerenciador-gastos/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// AMQP is optional, the API runs fine without the export pipeline
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(sqliteRepo, authService)
	transactionService := services.NewTransactionService(sqliteRepo, amqpClient)

	srv := apphttp.NewServer(cfg, userService, transactionService, authService, sqliteRepo.Ping)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	done := cli.GracefulShutdown(logger, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting gastos server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
