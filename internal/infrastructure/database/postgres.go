package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/gestao-obras/internal/config"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDB gerencia a conexão com o PostgreSQL
type PostgresDB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresDB cria uma nova conexão com o banco de dados PostgreSQL
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionURL())
	if err != nil {
		return nil, fmt.Errorf("erro ao analisar configuração do pool: %w", err)
	}

	// Ajustar configurações do pool
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar pool de conexões: %w", err)
	}

	// Testar conexão
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erro ao verificar conexão com o banco de dados: %w", err)
	}

	return &PostgresDB{pool: pool, logger: log}, nil
}

// Pool retorna o pool de conexões
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// Ping verifica se o banco está acessível
func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close fecha o pool de conexões
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Transaction executa uma função dentro de uma transação
func (db *PostgresDB) Transaction(ctx context.Context, txFunc func(tx pgx.Tx) error) error {
	return RunInTx(ctx, db.pool, db.logger, txFunc)
}

// TxBeginner é satisfeito por *pgxpool.Pool e *pgx.Conn
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RunInTx inicia uma transação, executa txFunc e faz commit; qualquer erro desfaz a transação
func RunInTx(ctx context.Context, db TxBeginner, log logger.Logger, txFunc func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	// após o commit o rollback devolve pgx.ErrTxClosed e não faz nada
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error("erro ao fazer rollback", "error", rbErr)
		}
	}()

	// Executar função dentro da transação
	if err := txFunc(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}

	return nil
}
