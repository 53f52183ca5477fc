package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE tratados pelos repositórios
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidTextRepr      = "22P02"
	codeNumericOutOfRange    = "22003"
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// querier é satisfeito tanto por *pgxpool.Pool quanto por pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// translateError converte erros do driver nos erros do domínio.
// entity e id identificam o registro procurado quando a consulta não retorna linhas.
func translateError(err error, op, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFoundError(entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable:
			return domain.NewConflictError(id, "registro bloqueado por outra transação")
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.NewConflictError(id, "alteração concorrente detectada")
		case codeInvalidTextRepr:
			// um identificador mal formado nunca corresponde a um registro
			return domain.NewNotFoundError(entity, id)
		case codeForeignKeyViolation:
			return domain.NewNotFoundError("referência", pgErr.Detail)
		case codeNumericOutOfRange:
			return domain.NewValidationError(pgErr.ColumnName, "valor excede a capacidade da coluna")
		case codeCheckViolation:
			return domain.NewValidationError(pgErr.ConstraintName, "restrição do banco violada")
		case codeUniqueViolation:
			return domain.NewConflictError(id, "registro duplicado")
		}
	}

	return fmt.Errorf("erro ao %s: %w", op, err)
}
