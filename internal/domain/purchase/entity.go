package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type define se o registro é uma compra confirmada ou um orçamento
type Type string

const (
	TypeBudget   Type = "BUDGET"   // Orçamento
	TypePurchase Type = "PURCHASE" // Compra confirmada
)

// BudgetStatus representa a situação de aprovação de um orçamento
type BudgetStatus string

const (
	BudgetStatusNone     BudgetStatus = ""         // Não se aplica (compra confirmada)
	BudgetStatusPending  BudgetStatus = "PENDING"  // Aguardando aprovação
	BudgetStatusApproved BudgetStatus = "APPROVED" // Aprovado
)

// PaymentMode define a forma de pagamento
type PaymentMode string

const (
	PaymentSingle      PaymentMode = "SINGLE"      // À vista
	PaymentInstallment PaymentMode = "INSTALLMENT" // Parcelado
)

// Valid verifica se o tipo é conhecido
func (t Type) Valid() bool {
	return t == TypeBudget || t == TypePurchase
}

// Valid verifica se a forma de pagamento é conhecida
func (m PaymentMode) Valid() bool {
	return m == PaymentSingle || m == PaymentInstallment
}

// LineItem representa um material comprado em determinada quantidade e preço
type LineItem struct {
	ID         string          `json:"id"`
	PurchaseID string          `json:"purchase_id"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
	Category   string          `json:"category"` // Categoria de uso (livre)
}

// Purchase representa uma compra ou orçamento de materiais para uma obra
type Purchase struct {
	ID               string          `json:"id"`
	ObraID           string          `json:"obra_id"`
	SupplierName     string          `json:"supplier_name"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	GrossTotal       decimal.Decimal `json:"gross_total"`
	Discount         decimal.Decimal `json:"discount"`
	NetTotal         decimal.Decimal `json:"net_total"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	PaymentMode      PaymentMode     `json:"payment_mode"`
	InstallmentCount int             `json:"installment_count"`
	ScheduleStart    time.Time       `json:"schedule_start"` // Data base do parcelamento
	Frequency        Frequency       `json:"frequency"`
	Type             Type            `json:"type"`
	BudgetStatus     BudgetStatus    `json:"budget_status"`
	Notes            string          `json:"notes"`
	Items            []LineItem      `json:"items"`
	Installments     []Installment   `json:"installments"`
	Version          int             `json:"version"`
	CreatedBy        string          `json:"created_by"`
	UpdatedBy        string          `json:"updated_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PayableAmount retorna o saldo a parcelar (total líquido menos entrada)
func (p *Purchase) PayableAmount() decimal.Decimal {
	return p.NetTotal.Sub(p.DownPayment)
}

// IsBudget verifica se o registro é um orçamento
func (p *Purchase) IsBudget() bool {
	return p.Type == TypeBudget
}

// IsInstallment verifica se o pagamento é parcelado
func (p *Purchase) IsInstallment() bool {
	return p.PaymentMode == PaymentInstallment
}

// InstallmentSum soma os valores de todas as parcelas
func (p *Purchase) InstallmentSum() decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range p.Installments {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

// FindInstallment retorna a parcela com o número de sequência informado
func (p *Purchase) FindInstallment(sequence int) *Installment {
	for i := range p.Installments {
		if p.Installments[i].Sequence == sequence {
			return &p.Installments[i]
		}
	}
	return nil
}

// ListFilter define os filtros de listagem de compras
type ListFilter struct {
	Type   Type
	ObraID string
	Limit  int
	Offset int
}
