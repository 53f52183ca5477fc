package purchase

import (
	"testing"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeTotals(t *testing.T) {
	items := []LineItem{
		{MaterialID: "cimento", Quantity: dec("10"), UnitPrice: dec("32.90"), LineTotal: dec("0")},
		{MaterialID: "areia", Quantity: dec("2.5"), UnitPrice: dec("120.00"), LineTotal: dec("999")},
		{MaterialID: "brinde", Quantity: dec("1"), UnitPrice: dec("0")},
	}

	gross, err := RecomputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, "329.00", items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "300.00", items[1].LineTotal.StringFixed(2))
	assert.True(t, items[2].LineTotal.IsZero())
	assert.Equal(t, "629.00", gross.StringFixed(2))
}

func TestRecomputeTotals_GrossEqualsSumOfLineTotals(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("0.333"), UnitPrice: dec("10.00")},
		{Quantity: dec("0.333"), UnitPrice: dec("10.00")},
		{Quantity: dec("0.334"), UnitPrice: dec("10.00")},
	}

	gross, err := RecomputeTotals(items)
	require.NoError(t, err)

	lineSum := decimal.Zero
	for _, it := range items {
		lineSum = lineSum.Add(it.LineTotal)
	}
	assert.True(t, gross.Equal(lineSum))
	assert.Equal(t, "10.00", gross.StringFixed(2))
}

func TestRecomputeTotals_NoFloatDrift(t *testing.T) {
	items := make([]LineItem, 1000)
	for i := range items {
		items[i] = LineItem{Quantity: dec("1"), UnitPrice: dec("0.10")}
	}

	gross, err := RecomputeTotals(items)
	require.NoError(t, err)
	assert.True(t, gross.Equal(dec("100")))
}

func TestRecomputeTotals_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		field string
	}{
		{"sem itens", nil, "items"},
		{"quantidade zero", []LineItem{{Quantity: dec("0"), UnitPrice: dec("1")}}, "items[0].quantity"},
		{"quantidade negativa", []LineItem{{Quantity: dec("1"), UnitPrice: dec("1")}, {Quantity: dec("-1"), UnitPrice: dec("1")}}, "items[1].quantity"},
		{"preço negativo", []LineItem{{Quantity: dec("1"), UnitPrice: dec("-0.01")}}, "items[0].unit_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecomputeTotals(tt.items)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRecomputeTotals_RejectsOverflow(t *testing.T) {
	items := []LineItem{
		{Quantity: dec("1"), UnitPrice: dec("10")},
		{Quantity: dec("999999999999"), UnitPrice: dec("999999999999.99")},
	}
	_, err := RecomputeTotals(items)
	assertField(t, err, "items[1].line_total")

	// cada item cabe, a soma não
	items = []LineItem{
		{Quantity: dec("1"), UnitPrice: dec("600000000000")},
		{Quantity: dec("1"), UnitPrice: dec("400000000000")},
	}
	_, err = RecomputeTotals(items)
	assertField(t, err, "gross_total")

	items = []LineItem{
		{Quantity: dec("1"), UnitPrice: dec("999999999999.99")},
	}
	gross, err := RecomputeTotals(items)
	require.NoError(t, err)
	assert.Equal(t, "999999999999.99", gross.StringFixed(2))
}
