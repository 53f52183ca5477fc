package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
)

// Migrator aplica e desfaz as migrações do diretório configurado
type Migrator struct {
	m      *migrate.Migrate
	logger logger.Logger
}

// NewMigrator cria o migrator para o banco dbURL usando os arquivos em path
func NewMigrator(path, dbURL string, log logger.Logger) (*Migrator, error) {
	sourceURL := fmt.Sprintf("file://%s", path)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}
	return &Migrator{m: m, logger: log}, nil
}

// Up aplica todas as migrações pendentes
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("nenhuma migração pendente")
			return nil
		}
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	mg.logVersion("migrações aplicadas")
	return nil
}

// Down desfaz a quantidade informada de migrações
func (mg *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("quantidade de passos inválida: %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil {
		return fmt.Errorf("erro ao desfazer migrações: %w", err)
	}
	mg.logVersion("migrações desfeitas")
	return nil
}

// Version retorna a versão atual e se o banco está em estado inconsistente
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close libera as conexões usadas pelo migrator
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, err := mg.Version()
	if err != nil {
		mg.logger.Warn("não foi possível obter a versão das migrações", "error", err)
		return
	}
	mg.logger.Info(msg, "versao", version, "dirty", dirty)
}
