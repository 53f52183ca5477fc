package purchase

import (
	"testing"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedBudget() *Purchase {
	return &Purchase{
		Type:         TypeBudget,
		BudgetStatus: BudgetStatusApproved,
		GrossTotal:   dec("1000"),
		Discount:     dec("100"),
		NetTotal:     dec("900"),
	}
}

func TestConvertTo_ApprovedBudgetRoundTrip(t *testing.T) {
	p := approvedBudget()

	require.NoError(t, p.ConvertTo(TypePurchase))
	assert.Equal(t, TypePurchase, p.Type)
	assert.Equal(t, BudgetStatusNone, p.BudgetStatus)

	require.NoError(t, p.ConvertTo(TypeBudget))
	assert.Equal(t, TypeBudget, p.Type)
	assert.Equal(t, BudgetStatusApproved, p.BudgetStatus)

	// totais preservados
	assert.True(t, p.GrossTotal.Equal(dec("1000")))
	assert.True(t, p.NetTotal.Equal(dec("900")))
}

func TestConvertTo_PendingBudgetCannotBecomePurchase(t *testing.T) {
	p := &Purchase{Type: TypeBudget, BudgetStatus: BudgetStatusPending}

	err := p.ConvertTo(TypePurchase)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, TypeBudget, p.Type)
	assert.Equal(t, BudgetStatusPending, p.BudgetStatus)
}

func TestConvertTo_PurchaseBecomesApprovedBudget(t *testing.T) {
	p := &Purchase{Type: TypePurchase}

	require.NoError(t, p.ConvertTo(TypeBudget))
	assert.Equal(t, BudgetStatusApproved, p.BudgetStatus)
}

func TestConvertTo_SameTypeIsNoop(t *testing.T) {
	p := &Purchase{Type: TypeBudget, BudgetStatus: BudgetStatusPending}

	require.NoError(t, p.ConvertTo(TypeBudget))
	assert.Equal(t, BudgetStatusPending, p.BudgetStatus)
}

func TestConvertTo_UnknownType(t *testing.T) {
	p := &Purchase{Type: TypePurchase}
	assert.True(t, domain.IsValidation(p.ConvertTo("QUOTE")))
}

func TestApproveBudget(t *testing.T) {
	p := &Purchase{Type: TypeBudget, BudgetStatus: BudgetStatusPending}
	require.NoError(t, p.ApproveBudget())
	assert.Equal(t, BudgetStatusApproved, p.BudgetStatus)

	require.NoError(t, p.ApproveBudget())
	assert.Equal(t, BudgetStatusApproved, p.BudgetStatus)

	purchase := &Purchase{Type: TypePurchase}
	assert.True(t, domain.IsValidation(purchase.ApproveBudget()))
}

func TestValidateTerms(t *testing.T) {
	base := func() *Purchase {
		return &Purchase{
			NetTotal:         dec("500"),
			PaymentMode:      PaymentInstallment,
			InstallmentCount: 2,
			Frequency:        Monthly(),
		}
	}

	p := base()
	p.DownPayment = dec("500.01")
	assertField(t, p.validateTerms(), "down_payment")

	p = base()
	p.DownPayment = dec("-1")
	assertField(t, p.validateTerms(), "down_payment")

	p = base()
	p.InstallmentCount = 0
	assertField(t, p.validateTerms(), "installment_count")

	p = base()
	p.InstallmentCount = MaxInstallments + 1
	assertField(t, p.validateTerms(), "installment_count")

	p = base()
	p.InstallmentCount = MaxInstallments
	require.NoError(t, p.validateTerms())

	p = base()
	p.PaymentMode = "BOLETO"
	assertField(t, p.validateTerms(), "payment_mode")

	p = base()
	p.PaymentMode = PaymentSingle
	p.InstallmentCount = 0
	require.NoError(t, p.validateTerms())
	assert.Equal(t, 1, p.InstallmentCount)
}

func TestApplyDiscount(t *testing.T) {
	p := &Purchase{GrossTotal: dec("100"), Discount: dec("100")}
	require.NoError(t, p.applyDiscount())
	assert.True(t, p.NetTotal.IsZero())

	p = &Purchase{GrossTotal: dec("100"), Discount: dec("100.01")}
	assertField(t, p.applyDiscount(), "discount")

	p = &Purchase{GrossTotal: dec("100"), Discount: dec("-5")}
	assertField(t, p.applyDiscount(), "discount")
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
}
