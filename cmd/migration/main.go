package main

import (
	"flag"
	"log"
	"os"

	"github.com/hugohenrick/gestao-obras/internal/config"
	"github.com/hugohenrick/gestao-obras/internal/infrastructure/database"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

func main() {
	direction := flag.String("direction", "up", "up aplica as migrações pendentes, down desfaz")
	steps := flag.Int("steps", 1, "quantidade de migrações a desfazer (apenas com -direction=down)")
	path := flag.String("path", "", "diretório das migrações (padrão: MIGRATIONS_PATH)")
	flag.Parse()

	cfg, err := config.Read()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Log.Level, "console")
	if err != nil {
		log.Fatalf("Erro ao configurar logger: %v", err)
	}
	defer appLogger.Sync()

	migrationsPath := cfg.Database.MigrationsPath
	if *path != "" {
		migrationsPath = *path
	}

	migrator, err := database.NewMigrator(migrationsPath, cfg.Database.ConnectionURL(), appLogger)
	if err != nil {
		appLogger.Error("erro ao preparar migrações", "error", err)
		os.Exit(1)
	}
	defer migrator.Close()

	switch *direction {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down(*steps)
	default:
		appLogger.Error("direção inválida", "direction", *direction)
		os.Exit(2)
	}
	if err != nil {
		appLogger.Error("erro ao executar migrações", "error", err)
		os.Exit(1)
	}

	appLogger.Info("Migrações executadas com sucesso!")
}
