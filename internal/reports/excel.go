package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/infra/metrics"
)

// Row — одна строка отчёта: подпись + уже посчитанная сводка.
// Какая именно сущность за строкой (букинг, инструктор, пакет, инвентарь) —
// решает вызывающий код, здесь только раскладка в лист.
type Row struct {
	Label string
	Stats economics.StatBundle
}

// Workbook собирает xlsx со строками и итогом. Итог — Combine по уже
// посчитанным сводкам, исходные записи повторно не обходим.
func Workbook(title string, rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		title,
		"строк",
		"событий",
		"минут",
		"длительность",
		"приход",
		"расход",
		"итог",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	rowN := 2
	for _, r := range rows {
		cells := []interface{}{
			r.Label,
			r.Stats.Count,
			r.Stats.EventCount,
			r.Stats.TotalMinutes,
			economics.FormatMinutes(r.Stats.TotalMinutes),
			r.Stats.MoneyIn,
			r.Stats.MoneyOut,
			r.Stats.Net,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowN)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowN, err)
		}
		rowN++
	}

	total := economics.Rollup(rows, func(r Row) economics.StatBundle { return r.Stats })
	cells := []interface{}{
		"ИТОГО",
		total.Count,
		total.EventCount,
		total.TotalMinutes,
		economics.FormatMinutes(total.TotalMinutes),
		total.MoneyIn,
		total.MoneyOut,
		total.Net,
	}
	cell, err := excelize.CoordinatesToCellName(1, rowN)
	if err != nil {
		return nil, fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	metrics.ReportExports.Inc()
	return f, nil
}
