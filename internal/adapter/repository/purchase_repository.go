package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/gestao-obras/internal/domain/purchase"
	"github.com/hugohenrick/gestao-obras/internal/infrastructure/database"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

const purchaseColumns = `
	p.id, p.obra_id, p.supplier_name, p.purchase_date, p.gross_total, p.discount,
	p.net_total, p.down_payment, p.payment_mode, p.installment_count, p.schedule_start,
	p.frequency_unit, p.frequency_interval, p.type, p.budget_status, p.notes, p.version,
	p.created_by, p.updated_by, p.created_at, p.updated_at`

// PurchaseRepository implementa a interface purchase.Repository usando PostgreSQL
type PurchaseRepository struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

// NewPurchaseRepository cria uma nova instância de PurchaseRepository
func NewPurchaseRepository(db *pgxpool.Pool, log logger.Logger) *PurchaseRepository {
	return &PurchaseRepository{db: db, logger: log}
}

// FindByID implementa purchase.Repository.FindByID
func (r *PurchaseRepository) FindByID(ctx context.Context, id string) (*purchase.Purchase, error) {
	return findPurchase(ctx, r.db, id, "")
}

// List implementa purchase.Repository.List
func (r *PurchaseRepository) List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, error) {
	where, args := buildPurchaseFilter(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM purchases p %s
		ORDER BY p.purchase_date DESC, p.created_at DESC
		LIMIT $%d OFFSET $%d`, purchaseColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar compras: %w", err)
	}
	defer rows.Close()

	return scanPurchaseRows(rows)
}

// Count implementa purchase.Repository.Count
func (r *PurchaseRepository) Count(ctx context.Context, filter purchase.ListFilter) (int, error) {
	where, args := buildPurchaseFilter(filter)

	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM purchases p "+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("erro ao contar compras: %w", err)
	}
	return count, nil
}

// ListWithoutItems implementa purchase.Repository.ListWithoutItems
func (r *PurchaseRepository) ListWithoutItems(ctx context.Context) ([]*purchase.Purchase, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM purchases p
		WHERE NOT EXISTS (SELECT 1 FROM purchase_items i WHERE i.purchase_id = p.id)
		ORDER BY p.created_at`, purchaseColumns))
	if err != nil {
		return nil, fmt.Errorf("erro ao listar compras sem itens: %w", err)
	}
	defer rows.Close()

	return scanPurchaseRows(rows)
}

// DeleteWithoutItems implementa purchase.Repository.DeleteWithoutItems
func (r *PurchaseRepository) DeleteWithoutItems(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM purchases p
		WHERE NOT EXISTS (SELECT 1 FROM purchase_items i WHERE i.purchase_id = p.id)`)
	if err != nil {
		return 0, fmt.Errorf("erro ao remover compras sem itens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkOverdue implementa purchase.Repository.MarkOverdue
func (r *PurchaseRepository) MarkOverdue(ctx context.Context, ref time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE installments SET status = $1 WHERE status = $2 AND due_date < $3`,
		purchase.InstallmentOverdue, purchase.InstallmentPending, ref)
	if err != nil {
		return 0, fmt.Errorf("erro ao marcar parcelas vencidas: %w", err)
	}
	return tag.RowsAffected(), nil
}

// WithinTx implementa purchase.Repository.WithinTx
func (r *PurchaseRepository) WithinTx(ctx context.Context, fn func(tx purchase.TxRepository) error) error {
	return database.RunInTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		return fn(&purchaseTx{q: tx})
	})
}

// purchaseTx implementa purchase.TxRepository sobre uma transação aberta
type purchaseTx struct {
	q querier
}

// LockByID implementa purchase.TxRepository.LockByID
func (t *purchaseTx) LockByID(ctx context.Context, id string) (*purchase.Purchase, error) {
	return findPurchase(ctx, t.q, id, "FOR UPDATE NOWAIT")
}

// Create implementa purchase.TxRepository.Create
func (t *purchaseTx) Create(ctx context.Context, p *purchase.Purchase) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO purchases (
			id, obra_id, supplier_name, purchase_date, gross_total, discount,
			net_total, down_payment, payment_mode, installment_count, schedule_start,
			frequency_unit, frequency_interval, type, budget_status, notes, version,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21
		)`,
		p.ID, p.ObraID, p.SupplierName, p.PurchaseDate, p.GrossTotal, p.Discount,
		p.NetTotal, p.DownPayment, p.PaymentMode, p.InstallmentCount, p.ScheduleStart,
		p.Frequency.Unit, p.Frequency.Interval, p.Type, p.BudgetStatus, p.Notes, p.Version,
		p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return translateError(err, "criar compra", "compra", p.ID)
	}

	if err := insertItems(ctx, t.q, p); err != nil {
		return err
	}
	return insertInstallments(ctx, t.q, p)
}

// UpdateHeader implementa purchase.TxRepository.UpdateHeader
func (t *purchaseTx) UpdateHeader(ctx context.Context, p *purchase.Purchase, expectedVersion int) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE purchases SET
			obra_id = $2, supplier_name = $3, purchase_date = $4, gross_total = $5,
			discount = $6, net_total = $7, down_payment = $8, payment_mode = $9,
			installment_count = $10, schedule_start = $11, frequency_unit = $12,
			frequency_interval = $13, type = $14, budget_status = $15, notes = $16,
			version = $17, updated_by = $18, updated_at = $19
		WHERE id = $1 AND version = $20`,
		p.ID, p.ObraID, p.SupplierName, p.PurchaseDate, p.GrossTotal,
		p.Discount, p.NetTotal, p.DownPayment, p.PaymentMode,
		p.InstallmentCount, p.ScheduleStart, p.Frequency.Unit,
		p.Frequency.Interval, p.Type, p.BudgetStatus, p.Notes,
		p.Version, p.UpdatedBy, p.UpdatedAt, expectedVersion)
	if err != nil {
		return translateError(err, "atualizar compra", "compra", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewConflictError(p.ID, fmt.Sprintf("versão %d não é mais a atual", expectedVersion))
	}
	return nil
}

// ReplaceItems implementa purchase.TxRepository.ReplaceItems
func (t *purchaseTx) ReplaceItems(ctx context.Context, p *purchase.Purchase) error {
	if _, err := t.q.Exec(ctx, `DELETE FROM purchase_items WHERE purchase_id = $1`, p.ID); err != nil {
		return translateError(err, "remover itens", "compra", p.ID)
	}
	return insertItems(ctx, t.q, p)
}

// ReplaceInstallments implementa purchase.TxRepository.ReplaceInstallments
func (t *purchaseTx) ReplaceInstallments(ctx context.Context, p *purchase.Purchase) error {
	if _, err := t.q.Exec(ctx, `DELETE FROM installments WHERE purchase_id = $1`, p.ID); err != nil {
		return translateError(err, "remover parcelas", "compra", p.ID)
	}
	return insertInstallments(ctx, t.q, p)
}

// UpdateInstallment implementa purchase.TxRepository.UpdateInstallment
func (t *purchaseTx) UpdateInstallment(ctx context.Context, inst *purchase.Installment) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE installments SET status = $3, paid_at = $4 WHERE purchase_id = $1 AND sequence = $2`,
		inst.PurchaseID, inst.Sequence, inst.Status, inst.PaidAt)
	if err != nil {
		return translateError(err, "atualizar parcela", "parcela", inst.ID)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("parcela", fmt.Sprintf("%s#%d", inst.PurchaseID, inst.Sequence))
	}
	return nil
}

// Delete implementa purchase.TxRepository.Delete
func (t *purchaseTx) Delete(ctx context.Context, id string) error {
	// itens e parcelas são removidos em cascata
	tag, err := t.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "remover compra", "compra", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("compra", id)
	}
	return nil
}

func findPurchase(ctx context.Context, q querier, id, lock string) (*purchase.Purchase, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchases p WHERE p.id = $1 %s`, purchaseColumns, lock)

	p, err := scanPurchase(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "buscar compra", "compra", id)
	}

	if err := loadItems(ctx, q, p); err != nil {
		return nil, err
	}
	if err := loadInstallments(ctx, q, p); err != nil {
		return nil, err
	}
	return p, nil
}

func loadItems(ctx context.Context, q querier, p *purchase.Purchase) error {
	rows, err := q.Query(ctx,
		`SELECT id, purchase_id, material_id, quantity, unit_price, line_total, category
		FROM purchase_items WHERE purchase_id = $1 ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar itens da compra: %w", err)
	}
	defer rows.Close()

	p.Items = nil
	for rows.Next() {
		var it purchase.LineItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.MaterialID, &it.Quantity,
			&it.UnitPrice, &it.LineTotal, &it.Category); err != nil {
			return fmt.Errorf("erro ao ler item da compra: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	return rows.Err()
}

func loadInstallments(ctx context.Context, q querier, p *purchase.Purchase) error {
	rows, err := q.Query(ctx,
		`SELECT id, purchase_id, sequence, amount, due_date, status, paid_at
		FROM installments WHERE purchase_id = $1 ORDER BY sequence`, p.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar parcelas da compra: %w", err)
	}
	defer rows.Close()

	p.Installments = nil
	for rows.Next() {
		var inst purchase.Installment
		if err := rows.Scan(&inst.ID, &inst.PurchaseID, &inst.Sequence, &inst.Amount,
			&inst.DueDate, &inst.Status, &inst.PaidAt); err != nil {
			return fmt.Errorf("erro ao ler parcela: %w", err)
		}
		p.Installments = append(p.Installments, inst)
	}
	return rows.Err()
}

func insertItems(ctx context.Context, q querier, p *purchase.Purchase) error {
	if len(p.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range p.Items {
		batch.Queue(
			`INSERT INTO purchase_items (
				id, purchase_id, material_id, quantity, unit_price, line_total, category, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, p.ID, it.MaterialID, it.Quantity, it.UnitPrice, it.LineTotal, it.Category, i)
	}
	return runBatch(ctx, q, batch, "inserir itens", p.ID)
}

func insertInstallments(ctx context.Context, q querier, p *purchase.Purchase) error {
	if len(p.Installments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, inst := range p.Installments {
		batch.Queue(
			`INSERT INTO installments (
				id, purchase_id, sequence, amount, due_date, status, paid_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			inst.ID, p.ID, inst.Sequence, inst.Amount, inst.DueDate, inst.Status, inst.PaidAt)
	}
	return runBatch(ctx, q, batch, "inserir parcelas", p.ID)
}

func runBatch(ctx context.Context, q querier, batch *pgx.Batch, op, id string) error {
	results := q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return translateError(err, op, "compra", id)
		}
	}
	if err := results.Close(); err != nil {
		return translateError(err, op, "compra", id)
	}
	return nil
}

func buildPurchaseFilter(filter purchase.ListFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("p.type = $%d", len(args)))
	}
	if filter.ObraID != "" {
		args = append(args, filter.ObraID)
		conds = append(conds, fmt.Sprintf("p.obra_id = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanPurchase(row pgx.Row) (*purchase.Purchase, error) {
	var p purchase.Purchase
	err := row.Scan(
		&p.ID, &p.ObraID, &p.SupplierName, &p.PurchaseDate, &p.GrossTotal, &p.Discount,
		&p.NetTotal, &p.DownPayment, &p.PaymentMode, &p.InstallmentCount, &p.ScheduleStart,
		&p.Frequency.Unit, &p.Frequency.Interval, &p.Type, &p.BudgetStatus, &p.Notes, &p.Version,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPurchaseRows(rows pgx.Rows) ([]*purchase.Purchase, error) {
	var purchases []*purchase.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler compra: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar compras: %w", err)
	}
	return purchases, nil
}
