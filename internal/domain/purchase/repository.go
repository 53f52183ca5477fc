package purchase

import (
	"context"
	"time"
)

// Repository define a interface para operações de repositório de compras
type Repository interface {
	// FindByID busca uma compra com itens e parcelas
	FindByID(ctx context.Context, id string) (*Purchase, error)

	// List lista as compras (sem itens e parcelas) com paginação
	List(ctx context.Context, filter ListFilter) ([]*Purchase, error)

	// Count conta as compras que atendem ao filtro
	Count(ctx context.Context, filter ListFilter) (int, error)

	// ListWithoutItems lista compras sem nenhum item (dados corrompidos)
	ListWithoutItems(ctx context.Context) ([]*Purchase, error)

	// DeleteWithoutItems remove compras sem nenhum item e retorna quantas foram removidas
	DeleteWithoutItems(ctx context.Context) (int64, error)

	// MarkOverdue marca como vencidas as parcelas em aberto com vencimento anterior a ref
	MarkOverdue(ctx context.Context, ref time.Time) (int64, error)

	// WithinTx executa fn dentro de uma transação; qualquer erro desfaz tudo
	WithinTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository define as operações disponíveis dentro de uma transação
type TxRepository interface {
	// LockByID busca a compra com itens e parcelas e bloqueia o registro até o fim da transação.
	// Se o registro já estiver bloqueado por outra transação retorna ConflictError.
	LockByID(ctx context.Context, id string) (*Purchase, error)

	// Create insere a compra com seus itens e parcelas
	Create(ctx context.Context, p *Purchase) error

	// UpdateHeader atualiza os dados da compra se a versão gravada for expectedVersion
	UpdateHeader(ctx context.Context, p *Purchase, expectedVersion int) error

	// ReplaceItems remove os itens da compra e insere p.Items
	ReplaceItems(ctx context.Context, p *Purchase) error

	// ReplaceInstallments remove as parcelas da compra e insere p.Installments
	ReplaceInstallments(ctx context.Context, p *Purchase) error

	// UpdateInstallment atualiza situação e data de pagamento de uma parcela
	UpdateInstallment(ctx context.Context, inst *Installment) error

	// Delete remove a compra, seus itens e parcelas
	Delete(ctx context.Context, id string) error
}
