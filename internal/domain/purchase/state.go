package purchase

import (
	"fmt"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/money"
)

// ConvertTo aplica a transição de tipo.
//
//	BUDGET(APPROVED) -> PURCHASE: permitido, totais mantidos, situação limpa
//	BUDGET(PENDING)  -> PURCHASE: rejeitado
//	PURCHASE         -> BUDGET:   situação passa a APPROVED (nunca PENDING)
//
// Converter para o tipo atual não altera nada.
func (p *Purchase) ConvertTo(target Type) error {
	if !target.Valid() {
		return domain.NewValidationError("type", "tipo desconhecido")
	}
	if p.Type == target {
		return nil
	}

	switch target {
	case TypePurchase:
		if p.BudgetStatus != BudgetStatusApproved {
			return domain.NewValidationError("type", "somente orçamentos aprovados podem virar compra")
		}
		p.Type = TypePurchase
		p.BudgetStatus = BudgetStatusNone
	case TypeBudget:
		// PENDING é apenas o estado de nascimento de um orçamento novo
		p.Type = TypeBudget
		p.BudgetStatus = BudgetStatusApproved
	}

	return nil
}

// ApproveBudget aprova um orçamento pendente. Aprovar um orçamento já aprovado não tem efeito.
func (p *Purchase) ApproveBudget() error {
	if !p.IsBudget() {
		return domain.NewValidationError("type", "apenas orçamentos podem ser aprovados")
	}
	p.BudgetStatus = BudgetStatusApproved
	return nil
}

// initState define a situação inicial de acordo com o tipo
func (p *Purchase) initState() error {
	switch p.Type {
	case TypeBudget:
		p.BudgetStatus = BudgetStatusPending
	case TypePurchase:
		p.BudgetStatus = BudgetStatusNone
	default:
		return domain.NewValidationError("type", "tipo desconhecido")
	}
	return nil
}

// recalculate recalcula totais a partir dos itens e valida desconto e entrada
func (p *Purchase) recalculate() error {
	gross, err := RecomputeTotals(p.Items)
	if err != nil {
		return err
	}
	p.GrossTotal = gross
	return p.applyDiscount()
}

func (p *Purchase) applyDiscount() error {
	if p.Discount.IsNegative() {
		return domain.NewValidationError("discount", "desconto não pode ser negativo")
	}
	if !money.HasScale(p.Discount, money.Scale) {
		return domain.NewValidationError("discount", "desconto deve ter precisão de centavos")
	}
	if p.Discount.GreaterThan(p.GrossTotal) {
		return domain.NewValidationError("discount", "desconto maior que o total bruto")
	}
	p.NetTotal = p.GrossTotal.Sub(p.Discount)
	return nil
}

// validateTerms valida entrada, forma de pagamento e número de parcelas
func (p *Purchase) validateTerms() error {
	if p.DownPayment.IsNegative() {
		return domain.NewValidationError("down_payment", "entrada não pode ser negativa")
	}
	if !money.HasScale(p.DownPayment, money.Scale) {
		return domain.NewValidationError("down_payment", "entrada deve ter precisão de centavos")
	}
	if p.DownPayment.GreaterThan(p.NetTotal) {
		return domain.NewValidationError("down_payment", "entrada maior que o total líquido")
	}

	switch p.PaymentMode {
	case PaymentSingle:
		p.InstallmentCount = 1
	case PaymentInstallment:
		if p.InstallmentCount < 1 {
			return domain.NewValidationError("installment_count", "número de parcelas deve ser maior ou igual a 1")
		}
		if p.InstallmentCount > MaxInstallments {
			return domain.NewValidationError("installment_count", fmt.Sprintf("número de parcelas deve ser no máximo %d", MaxInstallments))
		}
		if err := p.Frequency.Validate(); err != nil {
			return err
		}
	default:
		return domain.NewValidationError("payment_mode", "forma de pagamento desconhecida")
	}

	return nil
}

// regenerateInstallments descarta as parcelas atuais e gera o plano do zero.
// newID fornece o identificador de cada parcela nova.
func (p *Purchase) regenerateInstallments(newID func() string) error {
	if !p.IsInstallment() {
		p.Installments = nil
		return nil
	}

	installments, err := Allocate(p.PayableAmount(), p.InstallmentCount, p.ScheduleStart, p.Frequency)
	if err != nil {
		return err
	}
	for i := range installments {
		installments[i].ID = newID()
		installments[i].PurchaseID = p.ID
	}

	p.Installments = installments

	if !p.InstallmentSum().Equal(p.PayableAmount()) {
		return domain.NewValidationError("installments", "soma das parcelas difere do valor líquido a pagar")
	}
	return nil
}
