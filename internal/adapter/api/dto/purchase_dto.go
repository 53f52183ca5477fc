package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/gestao-obras/internal/domain/purchase"
	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/money"
	"github.com/shopspring/decimal"
)

// ItemRequest representa um item da compra.
// Valores numéricos podem ser enviados como número ou string ("10.50").
type ItemRequest struct {
	MaterialID string     `json:"material_id" example:"6f1c2a4e-1b7d-4c1e-9f1a-3e2b1c0d9a8b"`
	Quantity   money.Text `json:"quantity" swaggertype:"string" example:"10.5"`
	UnitPrice  money.Text `json:"unit_price" swaggertype:"string" example:"32.90"`
	Category   string     `json:"category" example:"fundação"`
}

// FrequencyRequest representa a periodicidade das parcelas
type FrequencyRequest struct {
	Unit     string `json:"unit" example:"MONTH"`
	Interval int    `json:"interval" example:"1"`
}

// CreatePurchaseRequest representa os dados para criação de uma compra ou orçamento
type CreatePurchaseRequest struct {
	ObraID           string            `json:"obra_id" example:"obra-centro"`
	SupplierName     string            `json:"supplier_name" binding:"required" example:"Depósito Central"`
	PurchaseDate     string            `json:"purchase_date" binding:"required" example:"2024-01-10"`
	Type             string            `json:"type" example:"PURCHASE"`
	Discount         money.Text        `json:"discount" swaggertype:"string" example:"0"`
	DownPayment      money.Text        `json:"down_payment" swaggertype:"string" example:"0"`
	PaymentMode      string            `json:"payment_mode" example:"INSTALLMENT"`
	InstallmentCount int               `json:"installment_count" example:"3"`
	ScheduleStart    string            `json:"schedule_start,omitempty" example:"2024-01-10"`
	Frequency        *FrequencyRequest `json:"frequency,omitempty"`
	Notes            string            `json:"notes"`
	Items            []ItemRequest     `json:"items"`
}

// UpdatePurchaseRequest representa alterações parciais; campos omitidos não são alterados
type UpdatePurchaseRequest struct {
	ExpectedVersion  *int              `json:"expected_version,omitempty" example:"1"`
	ObraID           *string           `json:"obra_id,omitempty"`
	SupplierName     *string           `json:"supplier_name,omitempty"`
	PurchaseDate     *string           `json:"purchase_date,omitempty"`
	Notes            *string           `json:"notes,omitempty"`
	Items            *[]ItemRequest    `json:"items,omitempty"`
	Discount         *money.Text       `json:"discount,omitempty" swaggertype:"string"`
	DownPayment      *money.Text       `json:"down_payment,omitempty" swaggertype:"string"`
	PaymentMode      *string           `json:"payment_mode,omitempty"`
	InstallmentCount *int              `json:"installment_count,omitempty"`
	ScheduleStart    *string           `json:"schedule_start,omitempty"`
	Frequency        *FrequencyRequest `json:"frequency,omitempty"`
	Type             *string           `json:"type,omitempty"`
}

// ConvertTypeRequest representa a conversão entre orçamento e compra
type ConvertTypeRequest struct {
	Type string `json:"type" binding:"required" example:"PURCHASE"`
}

// PayInstallmentRequest representa o pagamento de uma parcela
type PayInstallmentRequest struct {
	PaidAt string `json:"paid_at,omitempty" example:"2024-02-10"`
}

// ToInput converte a requisição em dados do domínio
func (r CreatePurchaseRequest) ToInput() (purchase.CreateInput, error) {
	in := purchase.CreateInput{
		ObraID:           r.ObraID,
		SupplierName:     r.SupplierName,
		Type:             purchase.Type(strings.ToUpper(r.Type)),
		PaymentMode:      purchase.PaymentMode(strings.ToUpper(r.PaymentMode)),
		InstallmentCount: r.InstallmentCount,
		Notes:            r.Notes,
	}

	var err error
	if in.PurchaseDate, err = parseDate("purchase_date", r.PurchaseDate); err != nil {
		return in, err
	}
	if r.ScheduleStart != "" {
		start, err := parseDate("schedule_start", r.ScheduleStart)
		if err != nil {
			return in, err
		}
		in.ScheduleStart = &start
	}
	if in.Discount, err = optionalAmount("discount", r.Discount); err != nil {
		return in, err
	}
	if in.DownPayment, err = optionalAmount("down_payment", r.DownPayment); err != nil {
		return in, err
	}
	if r.Frequency != nil {
		f := r.Frequency.toDomain()
		in.Frequency = &f
	}
	if in.Items, err = toItemInputs(r.Items); err != nil {
		return in, err
	}

	return in, nil
}

// ToInput converte a requisição em alterações do domínio
func (r UpdatePurchaseRequest) ToInput() (purchase.UpdateInput, error) {
	in := purchase.UpdateInput{
		ExpectedVersion:  r.ExpectedVersion,
		ObraID:           r.ObraID,
		SupplierName:     r.SupplierName,
		Notes:            r.Notes,
		InstallmentCount: r.InstallmentCount,
	}

	if r.PurchaseDate != nil {
		d, err := parseDate("purchase_date", *r.PurchaseDate)
		if err != nil {
			return in, err
		}
		in.PurchaseDate = &d
	}
	if r.ScheduleStart != nil {
		d, err := parseDate("schedule_start", *r.ScheduleStart)
		if err != nil {
			return in, err
		}
		in.ScheduleStart = &d
	}
	if r.Discount != nil {
		d, err := optionalAmount("discount", *r.Discount)
		if err != nil {
			return in, err
		}
		in.Discount = &d
	}
	if r.DownPayment != nil {
		d, err := optionalAmount("down_payment", *r.DownPayment)
		if err != nil {
			return in, err
		}
		in.DownPayment = &d
	}
	if r.PaymentMode != nil {
		mode := purchase.PaymentMode(strings.ToUpper(*r.PaymentMode))
		in.PaymentMode = &mode
	}
	if r.Type != nil {
		t := purchase.Type(strings.ToUpper(*r.Type))
		in.Type = &t
	}
	if r.Frequency != nil {
		f := r.Frequency.toDomain()
		in.Frequency = &f
	}
	if r.Items != nil {
		items, err := toItemInputs(*r.Items)
		if err != nil {
			return in, err
		}
		in.Items = &items
	}

	return in, nil
}

// PaidAtTime converte a data de pagamento; vazio significa "agora"
func (r PayInstallmentRequest) PaidAtTime() (time.Time, error) {
	if r.PaidAt == "" {
		return time.Time{}, nil
	}
	return parseDate("paid_at", r.PaidAt)
}

func (f FrequencyRequest) toDomain() purchase.Frequency {
	return purchase.Frequency{Unit: purchase.FrequencyUnit(strings.ToUpper(f.Unit)), Interval: f.Interval}
}

func toItemInputs(items []ItemRequest) ([]purchase.ItemInput, error) {
	out := make([]purchase.ItemInput, 0, len(items))
	for i, it := range items {
		q, err := it.Quantity.Quantity()
		if err != nil {
			return nil, numberError(fmt.Sprintf("items[%d].quantity", i), err)
		}
		p, err := it.UnitPrice.Amount()
		if err != nil {
			return nil, numberError(fmt.Sprintf("items[%d].unit_price", i), err)
		}
		out = append(out, purchase.ItemInput{
			MaterialID: it.MaterialID,
			Quantity:   q,
			UnitPrice:  p,
			Category:   it.Category,
		})
	}
	return out, nil
}

// optionalAmount trata ausência como zero
func optionalAmount(field string, t money.Text) (decimal.Decimal, error) {
	if !t.IsSet() {
		return decimal.Zero, nil
	}
	d, err := t.Amount()
	if err != nil {
		return decimal.Zero, numberError(field, err)
	}
	return d, nil
}

func numberError(field string, err error) error {
	switch {
	case errors.Is(err, money.ErrEmpty):
		return domain.NewValidationError(field, "valor não informado")
	case errors.Is(err, money.ErrNotFinite):
		return domain.NewValidationError(field, "valor deve ser finito")
	case errors.Is(err, money.ErrTooManyDecimals):
		return domain.NewValidationError(field, "valor com casas decimais demais")
	case errors.Is(err, money.ErrOutOfRange):
		return domain.NewValidationError(field, "valor fora do intervalo permitido")
	default:
		return domain.NewValidationError(field, "valor numérico inválido")
	}
}

// ItemResponse representa um item na resposta
type ItemResponse struct {
	ID         string `json:"id"`
	MaterialID string `json:"material_id"`
	Quantity   string `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	LineTotal  string `json:"line_total"`
	Category   string `json:"category"`
}

// InstallmentResponse representa uma parcela na resposta
type InstallmentResponse struct {
	ID       string     `json:"id"`
	Sequence int        `json:"sequence"`
	Amount   string     `json:"amount"`
	DueDate  string     `json:"due_date"`
	Status   string     `json:"status"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`
}

// PurchaseResponse representa uma compra na resposta. Valores monetários são strings com duas casas.
type PurchaseResponse struct {
	ID               string                `json:"id"`
	ObraID           string                `json:"obra_id"`
	SupplierName     string                `json:"supplier_name"`
	PurchaseDate     string                `json:"purchase_date"`
	Type             string                `json:"type"`
	BudgetStatus     string                `json:"budget_status,omitempty"`
	GrossTotal       string                `json:"gross_total"`
	Discount         string                `json:"discount"`
	NetTotal         string                `json:"net_total"`
	DownPayment      string                `json:"down_payment"`
	PaymentMode      string                `json:"payment_mode"`
	InstallmentCount int                   `json:"installment_count"`
	ScheduleStart    string                `json:"schedule_start"`
	Frequency        FrequencyRequest      `json:"frequency"`
	Notes            string                `json:"notes"`
	Version          int                   `json:"version"`
	Items            []ItemResponse        `json:"items,omitempty"`
	Installments     []InstallmentResponse `json:"installments,omitempty"`
	CreatedBy        string                `json:"created_by"`
	UpdatedBy        string                `json:"updated_by"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// PurchaseListResponse representa a resposta paginada de compras
type PurchaseListResponse struct {
	Items      []PurchaseResponse `json:"items"`
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// MaintenanceResponse representa o resultado de uma operação de reparo
type MaintenanceResponse struct {
	Removed int64 `json:"removed"`
}

// ToPurchaseResponse converte uma compra do domínio em resposta
func ToPurchaseResponse(p *purchase.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:               p.ID,
		ObraID:           p.ObraID,
		SupplierName:     p.SupplierName,
		PurchaseDate:     formatDate(p.PurchaseDate),
		Type:             string(p.Type),
		BudgetStatus:     string(p.BudgetStatus),
		GrossTotal:       p.GrossTotal.StringFixed(money.Scale),
		Discount:         p.Discount.StringFixed(money.Scale),
		NetTotal:         p.NetTotal.StringFixed(money.Scale),
		DownPayment:      p.DownPayment.StringFixed(money.Scale),
		PaymentMode:      string(p.PaymentMode),
		InstallmentCount: p.InstallmentCount,
		ScheduleStart:    formatDate(p.ScheduleStart),
		Frequency:        FrequencyRequest{Unit: string(p.Frequency.Unit), Interval: p.Frequency.Interval},
		Notes:            p.Notes,
		Version:          p.Version,
		CreatedBy:        p.CreatedBy,
		UpdatedBy:        p.UpdatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}

	for _, it := range p.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:         it.ID,
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity.String(),
			UnitPrice:  it.UnitPrice.StringFixed(money.Scale),
			LineTotal:  it.LineTotal.StringFixed(money.Scale),
			Category:   it.Category,
		})
	}
	for _, inst := range p.Installments {
		resp.Installments = append(resp.Installments, InstallmentResponse{
			ID:       inst.ID,
			Sequence: inst.Sequence,
			Amount:   inst.Amount.StringFixed(money.Scale),
			DueDate:  formatDate(inst.DueDate),
			Status:   string(inst.Status),
			PaidAt:   inst.PaidAt,
		})
	}

	return resp
}

// ToPurchaseListResponse monta a resposta paginada
func ToPurchaseListResponse(purchases []*purchase.Purchase, total int, page PaginationParams) PurchaseListResponse {
	items := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, ToPurchaseResponse(p))
	}
	return PurchaseListResponse{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: calculateTotalPages(total, page.PageSize),
	}
}
