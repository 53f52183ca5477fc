package purchase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/gestao-obras/internal/domain/material"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/identity"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/shopspring/decimal"
)

// ItemInput representa um item informado pelo chamador
type ItemInput struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Category   string
}

// CreateInput reúne os dados para criação de uma compra ou orçamento
type CreateInput struct {
	ObraID           string
	SupplierName     string
	PurchaseDate     time.Time
	Type             Type
	Discount         decimal.Decimal
	DownPayment      decimal.Decimal
	PaymentMode      PaymentMode
	InstallmentCount int
	ScheduleStart    *time.Time // padrão: data da compra
	Frequency        *Frequency // padrão: configuração do sistema
	Notes            string
	Items            []ItemInput
}

// UpdateInput reúne as alterações parciais de uma compra. Campos nil não são alterados.
type UpdateInput struct {
	ExpectedVersion  *int
	ObraID           *string
	SupplierName     *string
	PurchaseDate     *time.Time
	Notes            *string
	Items            *[]ItemInput
	Discount         *decimal.Decimal
	DownPayment      *decimal.Decimal
	PaymentMode      *PaymentMode
	InstallmentCount *int
	ScheduleStart    *time.Time
	Frequency        *Frequency
	Type             *Type
}

// Manager controla o ciclo de vida das compras: criação, edição, transições de tipo
// e regeneração das parcelas. Toda alteração acontece em uma única transação com
// a compra bloqueada.
type Manager struct {
	repo      Repository
	materials material.Repository
	frequency Frequency
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewManager cria uma nova instância de Manager
func NewManager(repo Repository, materials material.Repository, defaultFrequency Frequency, log logger.Logger) *Manager {
	if defaultFrequency.IsZero() {
		defaultFrequency = Monthly()
	}
	return &Manager{
		repo:      repo,
		materials: materials,
		frequency: defaultFrequency,
		logger:    log,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Create cria uma compra ou orçamento e, se parcelado, gera o plano de parcelas
func (m *Manager) Create(ctx context.Context, actor identity.Actor, in CreateInput) (*Purchase, error) {
	if !actor.CanMutateFinancial() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.SupplierName) == "" {
		return nil, domain.NewValidationError("supplier_name", "fornecedor não pode ser vazio")
	}
	if in.PurchaseDate.IsZero() {
		return nil, domain.NewValidationError("purchase_date", "data da compra não informada")
	}

	now := m.now()
	p := &Purchase{
		ID:               m.newID(),
		ObraID:           strings.TrimSpace(in.ObraID),
		SupplierName:     strings.TrimSpace(in.SupplierName),
		PurchaseDate:     dateOnly(in.PurchaseDate),
		Discount:         in.Discount,
		DownPayment:      in.DownPayment,
		PaymentMode:      in.PaymentMode,
		InstallmentCount: in.InstallmentCount,
		Frequency:        m.frequency,
		Type:             in.Type,
		Notes:            in.Notes,
		Version:          1,
		CreatedBy:        actor.UserID,
		UpdatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.Type == "" {
		p.Type = TypePurchase
	}
	if p.PaymentMode == "" {
		p.PaymentMode = PaymentSingle
	}
	p.ScheduleStart = p.PurchaseDate
	if in.ScheduleStart != nil {
		p.ScheduleStart = dateOnly(*in.ScheduleStart)
	}
	if in.Frequency != nil {
		p.Frequency = *in.Frequency
	}

	if err := p.initState(); err != nil {
		return nil, err
	}

	p.Items = m.buildItems(p.ID, in.Items)
	if err := p.recalculate(); err != nil {
		return nil, err
	}
	if err := p.validateTerms(); err != nil {
		return nil, err
	}
	if err := m.checkMaterials(ctx, p.Items); err != nil {
		return nil, err
	}
	if err := p.regenerateInstallments(m.newID); err != nil {
		return nil, err
	}

	err := m.repo.WithinTx(ctx, func(tx TxRepository) error {
		return tx.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("compra criada", "id", p.ID, "tipo", p.Type, "total_liquido", p.NetTotal.String(), "parcelas", len(p.Installments), "usuario", actor.UserID)
	return p, nil
}

// Update aplica alterações parciais. Totais são recalculados quando itens ou desconto mudam;
// se a compra é ou era parcelada, todas as parcelas são descartadas e geradas novamente.
func (m *Manager) Update(ctx context.Context, actor identity.Actor, id string, in UpdateInput) (*Purchase, error) {
	if !actor.CanMutateFinancial() {
		return nil, domain.ErrForbidden
	}

	var result *Purchase
	err := m.repo.WithinTx(ctx, func(tx TxRepository) error {
		p, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != p.Version {
			return domain.NewConflictError(id, fmt.Sprintf("versão esperada %d, versão atual %d", *in.ExpectedVersion, p.Version))
		}

		wasInstallment := p.IsInstallment()

		if err := m.applyHeader(p, in); err != nil {
			return err
		}

		itemsChanged := false
		if in.Items != nil {
			p.Items = m.buildItems(p.ID, *in.Items)
			itemsChanged = true
		}
		if in.Discount != nil {
			p.Discount = *in.Discount
		}

		recompute := itemsChanged || in.Discount != nil
		if recompute {
			if err := p.recalculate(); err != nil {
				return err
			}
		}
		if itemsChanged {
			if err := m.checkMaterials(ctx, p.Items); err != nil {
				return err
			}
		}

		if in.Type != nil {
			if err := p.ConvertTo(*in.Type); err != nil {
				return err
			}
		}

		if err := p.validateTerms(); err != nil {
			return err
		}

		regenerate := wasInstallment || p.IsInstallment()
		if regenerate {
			if err := p.regenerateInstallments(m.newID); err != nil {
				return err
			}
		}

		if err := m.saveHeader(ctx, tx, actor, p); err != nil {
			return err
		}
		if recompute {
			if err := tx.ReplaceItems(ctx, p); err != nil {
				return err
			}
		}
		if regenerate {
			if err := tx.ReplaceInstallments(ctx, p); err != nil {
				return err
			}
		}

		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("compra atualizada", "id", id, "versao", result.Version, "parcelas", len(result.Installments), "usuario", actor.UserID)
	return result, nil
}

// ConvertType converte entre orçamento e compra seguindo as regras de ConvertTo
func (m *Manager) ConvertType(ctx context.Context, actor identity.Actor, id string, target Type) (*Purchase, error) {
	if !actor.CanMutateFinancial() {
		return nil, domain.ErrForbidden
	}

	var result *Purchase
	err := m.repo.WithinTx(ctx, func(tx TxRepository) error {
		p, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}

		before := p.Type
		if err := p.ConvertTo(target); err != nil {
			return err
		}
		result = p
		if before == p.Type {
			return nil
		}
		return m.saveHeader(ctx, tx, actor, p)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("tipo da compra convertido", "id", id, "tipo", result.Type, "situacao", result.BudgetStatus, "usuario", actor.UserID)
	return result, nil
}

// ApproveBudget aprova um orçamento pendente
func (m *Manager) ApproveBudget(ctx context.Context, actor identity.Actor, id string) (*Purchase, error) {
	if !actor.CanMutateFinancial() {
		return nil, domain.ErrForbidden
	}

	var result *Purchase
	err := m.repo.WithinTx(ctx, func(tx TxRepository) error {
		p, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}

		before := p.BudgetStatus
		if err := p.ApproveBudget(); err != nil {
			return err
		}
		result = p
		if before == p.BudgetStatus {
			return nil
		}
		return m.saveHeader(ctx, tx, actor, p)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("orçamento aprovado", "id", id, "usuario", actor.UserID)
	return result, nil
}

// PayInstallment registra o pagamento de uma parcela
func (m *Manager) PayInstallment(ctx context.Context, actor identity.Actor, id string, sequence int, paidAt time.Time) (*Purchase, error) {
	if !actor.CanMutateFinancial() {
		return nil, domain.ErrForbidden
	}

	var result *Purchase
	err := m.repo.WithinTx(ctx, func(tx TxRepository) error {
		p, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}

		inst := p.FindInstallment(sequence)
		if inst == nil {
			return domain.NewNotFoundError("parcela", fmt.Sprintf("%s#%d", id, sequence))
		}
		if !inst.IsOpen() {
			return domain.NewValidationError("status", fmt.Sprintf("parcela com situação %s não pode ser paga", inst.Status))
		}

		if paidAt.IsZero() {
			paidAt = m.now()
		}
		inst.Status = InstallmentPaid
		inst.PaidAt = &paidAt

		if err := tx.UpdateInstallment(ctx, inst); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("parcela paga", "id", id, "parcela", sequence, "usuario", actor.UserID)
	return result, nil
}

// Delete remove a compra com seus itens e parcelas
func (m *Manager) Delete(ctx context.Context, actor identity.Actor, id string) error {
	if !actor.CanMutateFinancial() {
		return domain.ErrForbidden
	}

	err := m.repo.WithinTx(ctx, func(tx TxRepository) error {
		if _, err := tx.LockByID(ctx, id); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	m.logger.Info("compra removida", "id", id, "usuario", actor.UserID)
	return nil
}

// Get retorna a compra com itens e parcelas
func (m *Manager) Get(ctx context.Context, id string) (*Purchase, error) {
	return m.repo.FindByID(ctx, id)
}

// List lista as compras e o total de registros do filtro
func (m *Manager) List(ctx context.Context, filter ListFilter) ([]*Purchase, int, error) {
	purchases, err := m.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := m.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// ListWithoutItems lista compras inválidas por não possuírem itens
func (m *Manager) ListWithoutItems(ctx context.Context) ([]*Purchase, error) {
	return m.repo.ListWithoutItems(ctx)
}

// DeleteWithoutItems remove compras sem itens (reparo de integridade)
func (m *Manager) DeleteWithoutItems(ctx context.Context, actor identity.Actor) (int64, error) {
	if !actor.CanMutateFinancial() {
		return 0, domain.ErrForbidden
	}

	n, err := m.repo.DeleteWithoutItems(ctx)
	if err != nil {
		return 0, err
	}

	m.logger.Warn("compras sem itens removidas", "quantidade", n, "usuario", actor.UserID)
	return n, nil
}

// MarkOverdue marca como vencidas as parcelas em aberto com vencimento anterior a ref
func (m *Manager) MarkOverdue(ctx context.Context, ref time.Time) (int64, error) {
	return m.repo.MarkOverdue(ctx, dateOnly(ref))
}

func (m *Manager) applyHeader(p *Purchase, in UpdateInput) error {
	if in.SupplierName != nil {
		name := strings.TrimSpace(*in.SupplierName)
		if name == "" {
			return domain.NewValidationError("supplier_name", "fornecedor não pode ser vazio")
		}
		p.SupplierName = name
	}
	if in.PurchaseDate != nil {
		if in.PurchaseDate.IsZero() {
			return domain.NewValidationError("purchase_date", "data da compra não informada")
		}
		p.PurchaseDate = dateOnly(*in.PurchaseDate)
	}
	if in.ObraID != nil {
		p.ObraID = strings.TrimSpace(*in.ObraID)
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	if in.DownPayment != nil {
		p.DownPayment = *in.DownPayment
	}
	if in.PaymentMode != nil {
		p.PaymentMode = *in.PaymentMode
	}
	if in.InstallmentCount != nil {
		p.InstallmentCount = *in.InstallmentCount
	}
	if in.ScheduleStart != nil {
		p.ScheduleStart = dateOnly(*in.ScheduleStart)
	}
	if in.Frequency != nil {
		p.Frequency = *in.Frequency
	}
	return nil
}

func (m *Manager) saveHeader(ctx context.Context, tx TxRepository, actor identity.Actor, p *Purchase) error {
	expected := p.Version
	p.Version++
	p.UpdatedBy = actor.UserID
	p.UpdatedAt = m.now()
	return tx.UpdateHeader(ctx, p, expected)
}

func (m *Manager) buildItems(purchaseID string, in []ItemInput) []LineItem {
	items := make([]LineItem, 0, len(in))
	for _, it := range in {
		items = append(items, LineItem{
			ID:         m.newID(),
			PurchaseID: purchaseID,
			MaterialID: strings.TrimSpace(it.MaterialID),
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Category:   strings.TrimSpace(it.Category),
		})
	}
	return items
}

func (m *Manager) checkMaterials(ctx context.Context, items []LineItem) error {
	ids := make([]string, 0, len(items))
	for i, it := range items {
		if it.MaterialID == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].material_id", i), "material não informado")
		}
		ids = append(ids, it.MaterialID)
	}

	missing, err := m.materials.FindMissing(ctx, ids)
	if err != nil {
		return fmt.Errorf("erro ao verificar materiais: %w", err)
	}
	if len(missing) > 0 {
		return domain.NewNotFoundError("material", missing[0])
	}
	return nil
}

// dateOnly descarta o horário, mantendo apenas a data em UTC
func dateOnly(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
