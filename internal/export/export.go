// Package export собирает xlsx-артефакты в памяти: файл завершённого
// заказа и полный список остатков. Чистый «сток»: принимает строки,
// возвращает байты документа.
package export

import (
	"bytes"
	"fmt"

	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
	"github.com/xuri/excelize/v2"
)

// OrderWorkbook переносит строки блока заказа в отдельную книгу.
func OrderWorkbook(block [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []any{"Название заказа", "Товар", "Количество", "Цена", "Сумма"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("order header: %w", err)
	}
	for i, row := range block {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, fmt.Errorf("order row %d: %w", i+2, err)
		}
	}
	return write(f)
}

// RemainsWorkbook — книга с остатками склада (товар/количество).
func RemainsWorkbook(items []stock.Remain) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []any{"Товар", "Количество"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("remains header: %w", err)
	}
	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		vals := []any{it.Name, it.Qty}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return nil, fmt.Errorf("remains row %d: %w", i+2, err)
		}
	}
	return write(f)
}

func write(f *excelize.File) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
