package purchase

import (
	"testing"
	"time"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amounts(installments []Installment) []string {
	out := make([]string, len(installments))
	for i, inst := range installments {
		out[i] = inst.Amount.StringFixed(2)
	}
	return out
}

func sum(installments []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		total = total.Add(inst.Amount)
	}
	return total
}

func TestAllocate_RemainderGoesToFirstInstallments(t *testing.T) {
	got, err := Allocate(dec("1000.00"), 3, day(2024, 1, 10), Monthly())
	require.NoError(t, err)

	assert.Equal(t, []string{"333.34", "333.33", "333.33"}, amounts(got))
	assert.True(t, sum(got).Equal(dec("1000.00")))
}

func TestAllocate_RemainderSpreadsLeftToRight(t *testing.T) {
	// 100,00 em 7 = 14,28 * 7 = 99,96, resto de 4 centavos
	got, err := Allocate(dec("100.00"), 7, day(2024, 1, 10), Monthly())
	require.NoError(t, err)

	assert.Equal(t, []string{"14.29", "14.29", "14.29", "14.29", "14.28", "14.28", "14.28"}, amounts(got))
	assert.True(t, sum(got).Equal(dec("100")))
}

func TestAllocate_ExactDivision(t *testing.T) {
	got, err := Allocate(dec("900"), 3, day(2024, 1, 10), Monthly())
	require.NoError(t, err)
	assert.Equal(t, []string{"300.00", "300.00", "300.00"}, amounts(got))
}

func TestAllocate_SmallerThanOneCentPerInstallment(t *testing.T) {
	_, err := Allocate(dec("0.02"), 5, day(2024, 1, 10), Monthly())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "installment_count", ve.Field)

	// exatamente um centavo por parcela ainda é aceito
	got, err := Allocate(dec("0.05"), 5, day(2024, 1, 10), Monthly())
	require.NoError(t, err)
	assert.Equal(t, []string{"0.01", "0.01", "0.01", "0.01", "0.01"}, amounts(got))
}

func TestAllocate_MaxInstallments(t *testing.T) {
	got, err := Allocate(dec("3600.00"), MaxInstallments, day(2024, 1, 10), Monthly())
	require.NoError(t, err)
	assert.Len(t, got, MaxInstallments)
	assert.Equal(t, day(2054, 1, 10), got[MaxInstallments-1].DueDate)

	_, err = Allocate(dec("100"), 20_000_000, day(2024, 1, 10), Monthly())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "installment_count", ve.Field)
}

func TestAllocate_ZeroPayable(t *testing.T) {
	got, err := Allocate(decimal.Zero, 3, day(2024, 1, 10), Monthly())
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, inst := range got {
		assert.True(t, inst.Amount.IsZero())
		assert.Equal(t, i+1, inst.Sequence)
		assert.Equal(t, InstallmentPending, inst.Status)
	}
}

func TestAllocate_SingleInstallmentDueAtStart(t *testing.T) {
	start := day(2024, 3, 15)
	got, err := Allocate(dec("100"), 1, start, Monthly())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 1, got[0].Sequence)
	assert.True(t, got[0].Amount.Equal(dec("100")))
	assert.Equal(t, start, got[0].DueDate)
}

func TestAllocate_SingleInstallmentIgnoresFrequency(t *testing.T) {
	got, err := Allocate(dec("50"), 1, day(2024, 3, 15), Frequency{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAllocate_DueDatesMonthly(t *testing.T) {
	got, err := Allocate(dec("300"), 3, day(2024, 1, 10), Monthly())
	require.NoError(t, err)

	assert.Equal(t, day(2024, 2, 10), got[0].DueDate)
	assert.Equal(t, day(2024, 3, 10), got[1].DueDate)
	assert.Equal(t, day(2024, 4, 10), got[2].DueDate)
}

func TestAllocate_DueDatesClampToMonthEnd(t *testing.T) {
	got, err := Allocate(dec("400"), 4, day(2024, 1, 31), Monthly())
	require.NoError(t, err)

	assert.Equal(t, day(2024, 2, 29), got[0].DueDate)
	assert.Equal(t, day(2024, 3, 31), got[1].DueDate)
	assert.Equal(t, day(2024, 4, 30), got[2].DueDate)
	assert.Equal(t, day(2024, 5, 31), got[3].DueDate)
}

func TestAllocate_DueDatesWeeklyAndDaily(t *testing.T) {
	weekly, err := Allocate(dec("20"), 2, day(2024, 1, 1), Frequency{Unit: FrequencyWeek, Interval: 2})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 15), weekly[0].DueDate)
	assert.Equal(t, day(2024, 1, 29), weekly[1].DueDate)

	daily, err := Allocate(dec("20"), 2, day(2024, 1, 1), Frequency{Unit: FrequencyDay, Interval: 30})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 31), daily[0].DueDate)
	assert.Equal(t, day(2024, 3, 1), daily[1].DueDate)
}

func TestAllocate_SequenceFollowsDueDateOrder(t *testing.T) {
	got, err := Allocate(dec("1234.56"), 12, day(2024, 1, 31), Monthly())
	require.NoError(t, err)

	for i := range got {
		assert.Equal(t, i+1, got[i].Sequence)
		if i > 0 {
			assert.True(t, got[i].DueDate.After(got[i-1].DueDate))
		}
	}
	assert.True(t, sum(got).Equal(dec("1234.56")))
}

func TestAllocate_Idempotent(t *testing.T) {
	first, err := Allocate(dec("999.99"), 7, day(2024, 5, 31), Monthly())
	require.NoError(t, err)
	second, err := Allocate(dec("999.99"), 7, day(2024, 5, 31), Monthly())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAllocate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		payable decimal.Decimal
		count   int
		freq    Frequency
		field   string
	}{
		{"zero parcelas", dec("100"), 0, Monthly(), "installment_count"},
		{"parcelas negativas", dec("100"), -2, Monthly(), "installment_count"},
		{"parcelas acima do limite", dec("100"), MaxInstallments + 1, Monthly(), "installment_count"},
		{"valor negativo", dec("-0.01"), 2, Monthly(), "payable_amount"},
		{"fração de centavo", dec("10.001"), 2, Monthly(), "payable_amount"},
		{"intervalo zero", dec("10"), 2, Frequency{Unit: FrequencyMonth}, "frequency.interval"},
		{"unidade desconhecida", dec("10"), 2, Frequency{Unit: "YEAR", Interval: 1}, "frequency.unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.payable, tt.count, day(2024, 1, 1), tt.freq)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestAllocate_SumInvariantAcrossManyInputs(t *testing.T) {
	for cents := int64(0); cents < 2000; cents += 37 {
		payable := decimal.New(cents, -2)
		for count := 1; count <= 13; count++ {
			got, err := Allocate(payable, count, day(2024, 1, 1), Monthly())
			require.NoError(t, err)
			require.Len(t, got, count)
			require.True(t, sum(got).Equal(payable), "payable=%s count=%d", payable, count)

			// nenhuma parcela difere da outra em mais de um centavo
			min, max := got[0].Amount, got[0].Amount
			for _, inst := range got {
				if inst.Amount.LessThan(min) {
					min = inst.Amount
				}
				if inst.Amount.GreaterThan(max) {
					max = inst.Amount
				}
			}
			require.True(t, max.Sub(min).LessThanOrEqual(dec("0.01")))
		}
	}
}
