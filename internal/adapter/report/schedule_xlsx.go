package report

import (
	"fmt"

	"github.com/hugohenrick/gestao-obras/internal/domain/purchase"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const scheduleSheet = "Parcelas"

var scheduleHeaders = []string{"Parcela", "Vencimento", "Valor", "Situação", "Pago em"}

var statusLabels = map[purchase.InstallmentStatus]string{
	purchase.InstallmentPending:  "Em aberto",
	purchase.InstallmentPaid:     "Paga",
	purchase.InstallmentOverdue:  "Vencida",
	purchase.InstallmentCanceled: "Cancelada",
}

// ScheduleExporter gera a planilha do plano de parcelas de uma compra
type ScheduleExporter struct{}

// NewScheduleExporter cria uma nova instância de ScheduleExporter
func NewScheduleExporter() *ScheduleExporter {
	return &ScheduleExporter{}
}

// Export monta a planilha e retorna o arquivo junto com o nome sugerido para download
func (e *ScheduleExporter) Export(p *purchase.Purchase) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, "", fmt.Errorf("erro ao criar aba: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#8EA9DB", Style: 1},
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("erro ao criar estilo: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, "", fmt.Errorf("erro ao criar estilo: %w", err)
	}

	// Cabeçalho da compra
	f.SetCellValue(scheduleSheet, "A1", "Fornecedor")
	f.SetCellValue(scheduleSheet, "B1", p.SupplierName)
	f.SetCellValue(scheduleSheet, "A2", "Data da compra")
	f.SetCellValue(scheduleSheet, "B2", p.PurchaseDate.Format("02/01/2006"))
	f.SetCellValue(scheduleSheet, "A3", "Total líquido")
	setMoney(f, "B3", p.NetTotal, moneyStyle)
	f.SetCellValue(scheduleSheet, "A4", "Entrada")
	setMoney(f, "B4", p.DownPayment, moneyStyle)
	f.SetCellStyle(scheduleSheet, "A1", "A4", boldStyle)

	const headerRow = 6
	for i, h := range scheduleHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(scheduleSheet, cell, h)
		f.SetCellStyle(scheduleSheet, cell, cell, boldStyle)
	}

	row := headerRow + 1
	for _, inst := range p.Installments {
		f.SetCellValue(scheduleSheet, fmt.Sprintf("A%d", row), inst.Sequence)
		f.SetCellValue(scheduleSheet, fmt.Sprintf("B%d", row), inst.DueDate.Format("02/01/2006"))
		setMoney(f, fmt.Sprintf("C%d", row), inst.Amount, moneyStyle)
		f.SetCellValue(scheduleSheet, fmt.Sprintf("D%d", row), statusLabel(inst.Status))
		if inst.PaidAt != nil {
			f.SetCellValue(scheduleSheet, fmt.Sprintf("E%d", row), inst.PaidAt.Format("02/01/2006"))
		}
		row++
	}

	// Linha de total
	f.SetCellValue(scheduleSheet, fmt.Sprintf("A%d", row), "Total")
	setMoney(f, fmt.Sprintf("C%d", row), p.InstallmentSum(), moneyStyle)
	f.SetCellStyle(scheduleSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)

	widths := []float64{12, 14, 16, 14, 14}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(scheduleSheet, col, col, w)
	}

	filename := fmt.Sprintf("parcelas_%s.xlsx", p.ID)
	return f, filename, nil
}

// setMoney grava o valor como número com duas casas; os cálculos já foram feitos em decimal
func setMoney(f *excelize.File, cell string, amount decimal.Decimal, style int) {
	f.SetCellFloat(scheduleSheet, cell, amount.Round(2).InexactFloat64(), 2, 64)
	f.SetCellStyle(scheduleSheet, cell, cell, style)
}

func statusLabel(s purchase.InstallmentStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
