package purchase

import (
	"fmt"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/hugohenrick/gestao-obras/pkg/money"
	"github.com/shopspring/decimal"
)

// RecomputeTotals recalcula o total de cada item (quantidade × preço unitário,
// arredondado ao centavo) e devolve o total bruto, que é a soma exata desses totais.
// Os LineTotal gravados nos itens são sobrescritos.
func RecomputeTotals(items []LineItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, domain.NewValidationError("items", "a compra deve ter pelo menos um item")
	}

	gross := decimal.Zero
	for i := range items {
		if !items[i].Quantity.IsPositive() {
			return decimal.Zero, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "quantidade deve ser maior que zero")
		}
		if items[i].UnitPrice.IsNegative() {
			return decimal.Zero, domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "preço unitário não pode ser negativo")
		}

		items[i].LineTotal = money.Round(items[i].Quantity.Mul(items[i].UnitPrice))
		if !money.InRange(items[i].LineTotal) {
			return decimal.Zero, domain.NewValidationError(fmt.Sprintf("items[%d].line_total", i), "total do item excede o valor máximo permitido")
		}
		gross = gross.Add(items[i].LineTotal)
	}

	if !money.InRange(gross) {
		return decimal.Zero, domain.NewValidationError("gross_total", "total bruto excede o valor máximo permitido")
	}

	return gross, nil
}
