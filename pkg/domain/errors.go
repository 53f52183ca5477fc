package domain

import (
	"errors"
	"fmt"
)

// ErrForbidden indica que o usuário não pode alterar registros financeiros
var ErrForbidden = errors.New("usuário sem permissão para alterar registros financeiros")

// ValidationError indica que um dado informado viola uma regra do domínio.
// Field identifica o campo (ex.: "items[2].quantity") e Reason descreve a regra violada.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError cria um novo erro de validação
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError indica que a entidade referenciada não existe
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError cria um novo erro de entidade não encontrada
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado(a): %s", e.Entity, e.ID)
}

// ConflictError indica uma alteração concorrente sobre o mesmo registro.
// O chamador deve repetir a operação inteira.
type ConflictError struct {
	ID     string
	Reason string
}

// NewConflictError cria um novo erro de conflito
func NewConflictError(id, reason string) *ConflictError {
	return &ConflictError{ID: id, Reason: reason}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflito ao alterar %s: %s", e.ID, e.Reason)
}

// IsValidation verifica se err é (ou embrulha) um ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound verifica se err é (ou embrulha) um NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict verifica se err é (ou embrulha) um ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
