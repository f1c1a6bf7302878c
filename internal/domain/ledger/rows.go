package ledger

import (
	"strconv"
	"strings"
)

// cellAt достаёт значение колонки (1-based) из строки переменной длины.
func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

// PadRow дополняет строку до n колонок пустыми ячейками.
func PadRow(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

// ParseAmount разбирает денежную ячейку: допускает запятую как разделитель
// и суффикс валюты, пустое значение и «-» считает нулём.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "₽"))
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// ShiftAfterDelete возвращает номер, на который сместится строка r после
// удаления строк from..to включительно. Строки внутри диапазона исчезают,
// для них возвращается from.
func ShiftAfterDelete(r, from, to int) int {
	if r < from {
		return r
	}
	if r <= to {
		return from
	}
	return r - (to - from + 1)
}

// ShiftAfterInsert возвращает номер строки r после вставки n строк перед at.
func ShiftAfterInsert(r, at, n int) int {
	if r < at {
		return r
	}
	return r + n
}

// Items отбирает позиции из снимка блока: строки между шапкой и итоговой,
// у которых заполнена ячейка товара.
func Items(block [][]string) []ItemRow {
	if len(block) < 2 {
		return nil
	}
	var items []ItemRow
	for i := 1; i < len(block)-1; i++ {
		row := block[i]
		name := strings.TrimPrefix(cellAt(row, colItem), ItemPrefix)
		if name == "" {
			continue
		}
		items = append(items, ItemRow{
			Offset: i,
			Name:   name,
			Qty:    cellAt(row, colQty),
			Price:  cellAt(row, colPrice),
			Sum:    cellAt(row, colSum),
		})
	}
	return items
}

// SumItems пересчитывает итог блока по текущему содержимому строк:
// складываются суммы всех строк с заполненным товаром. Итог никогда не
// накапливается инкрементально, только пересчитывается заново.
func SumItems(block [][]string) float64 {
	var total float64
	for _, row := range block {
		if cellAt(row, colItem) == "" || cellAt(row, colPrice) == TotalMarker {
			continue
		}
		v, err := ParseAmount(cellAt(row, colSum))
		if err != nil {
			continue
		}
		total += v
	}
	return total
}

// BlockTotal читает текущее значение итоговой строки снимка блока.
func BlockTotal(block [][]string) float64 {
	if len(block) == 0 {
		return 0
	}
	last := block[len(block)-1]
	if cellAt(last, colPrice) != TotalMarker {
		return 0
	}
	v, err := ParseAmount(cellAt(last, colSum))
	if err != nil {
		return 0
	}
	return v
}
