package purchase

import (
	"fmt"
	"time"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/money"
	"github.com/shopspring/decimal"
)

// MaxInstallments é o maior número de parcelas aceito em um plano (30 anos mensais)
const MaxInstallments = 360

// Allocate divide o valor a pagar em count parcelas.
//
// Regras:
//   - count == 1: uma única parcela com o valor integral, vencendo em start;
//   - payable == 0: count parcelas de valor zero;
//   - 0 < payable < count centavos: rejeitado, nenhuma parcela pode ficar zerada;
//   - caso geral: o cálculo é feito em centavos inteiros; cada parcela recebe
//     floor(centavos/count) e o resto é distribuído um centavo por parcela a partir
//     da primeira (1000,00 em 3 = 333,34 + 333,33 + 333,33).
//
// Com mais de uma parcela, a parcela i vence i períodos após start.
// A função é pura: mesma entrada, mesma saída.
func Allocate(payable decimal.Decimal, count int, start time.Time, freq Frequency) ([]Installment, error) {
	if count < 1 {
		return nil, domain.NewValidationError("installment_count", "número de parcelas deve ser maior ou igual a 1")
	}
	if count > MaxInstallments {
		return nil, domain.NewValidationError("installment_count", fmt.Sprintf("número de parcelas deve ser no máximo %d", MaxInstallments))
	}
	if payable.IsNegative() {
		return nil, domain.NewValidationError("payable_amount", "valor a parcelar não pode ser negativo")
	}
	if !money.HasScale(payable, money.Scale) {
		return nil, domain.NewValidationError("payable_amount", "valor a parcelar deve ter precisão de centavos")
	}

	if count == 1 {
		return []Installment{newInstallment(1, payable, start)}, nil
	}

	if err := freq.Validate(); err != nil {
		return nil, err
	}

	cents := money.ToCents(payable)
	n := int64(count)
	if cents > 0 && cents < n {
		return nil, domain.NewValidationError("installment_count", "valor a parcelar menor que um centavo por parcela")
	}

	installments := make([]Installment, count)

	if cents == 0 {
		for i := range installments {
			installments[i] = newInstallment(i+1, decimal.Zero, freq.Advance(start, i+1))
		}
		return installments, nil
	}

	base := cents / n
	remainder := cents % n

	for i := range installments {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		installments[i] = newInstallment(i+1, money.FromCents(amount), freq.Advance(start, i+1))
	}

	return installments, nil
}

func newInstallment(sequence int, amount decimal.Decimal, due time.Time) Installment {
	return Installment{
		Sequence: sequence,
		Amount:   amount,
		DueDate:  due,
		Status:   InstallmentPending,
	}
}
