package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hugohenrick/gestao-obras/internal/config"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Erro ao configurar logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Criar aplicação
	app, err := NewApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("erro ao inicializar aplicação", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Error("servidor encerrado com erro", "error", err)
		}
		app.Close()
	case <-ctx.Done():
		appLogger.Info("encerrando servidor")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("erro ao encerrar servidor", "error", err)
		}
	}
}
