package purchase

import (
	"time"

	"github.com/hugohenrick/gestao-obras/pkg/domain"
	"github.com/shopspring/decimal"
)

// InstallmentStatus representa a situação de uma parcela
type InstallmentStatus string

const (
	InstallmentPending  InstallmentStatus = "PENDING"  // Em aberto
	InstallmentPaid     InstallmentStatus = "PAID"     // Paga
	InstallmentOverdue  InstallmentStatus = "OVERDUE"  // Vencida e não paga
	InstallmentCanceled InstallmentStatus = "CANCELED" // Cancelada
)

// Installment representa uma parcela do plano de pagamento de uma compra
type Installment struct {
	ID         string            `json:"id"`
	PurchaseID string            `json:"purchase_id"`
	Sequence   int               `json:"sequence"`
	Amount     decimal.Decimal   `json:"amount"`
	DueDate    time.Time         `json:"due_date"`
	Status     InstallmentStatus `json:"status"`
	PaidAt     *time.Time        `json:"paid_at,omitempty"`
}

// IsOpen verifica se a parcela ainda pode ser paga
func (i *Installment) IsOpen() bool {
	return i.Status == InstallmentPending || i.Status == InstallmentOverdue
}

// FrequencyUnit é a unidade de periodicidade das parcelas
type FrequencyUnit string

const (
	FrequencyDay   FrequencyUnit = "DAY"
	FrequencyWeek  FrequencyUnit = "WEEK"
	FrequencyMonth FrequencyUnit = "MONTH"
)

// Frequency define o intervalo entre vencimentos consecutivos
type Frequency struct {
	Unit     FrequencyUnit `json:"unit"`
	Interval int           `json:"interval"`
}

// Monthly retorna a periodicidade mensal
func Monthly() Frequency {
	return Frequency{Unit: FrequencyMonth, Interval: 1}
}

// IsZero verifica se a periodicidade não foi informada
func (f Frequency) IsZero() bool {
	return f.Unit == "" && f.Interval == 0
}

// Validate verifica se a periodicidade é utilizável
func (f Frequency) Validate() error {
	switch f.Unit {
	case FrequencyDay, FrequencyWeek, FrequencyMonth:
	default:
		return domain.NewValidationError("frequency.unit", "unidade de periodicidade desconhecida")
	}
	if f.Interval < 1 {
		return domain.NewValidationError("frequency.interval", "intervalo deve ser maior ou igual a 1")
	}
	return nil
}

// Advance calcula a data que fica n períodos após start.
// Períodos mensais são sempre contados a partir de start, limitando o dia ao último
// dia do mês de destino (31/01 + 1 mês = 28 ou 29/02; 31/01 + 2 meses = 31/03).
func (f Frequency) Advance(start time.Time, n int) time.Time {
	switch f.Unit {
	case FrequencyDay:
		return start.AddDate(0, 0, n*f.Interval)
	case FrequencyWeek:
		return start.AddDate(0, 0, 7*n*f.Interval)
	default:
		return addMonthsClamped(start, n*f.Interval)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
