package stock

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Repo — доступ к складскому листу. Лист не индексирован, все выборки —
// линейный скан; остаток всегда читается заново в момент проверки, потому
// что таблица может измениться между шагами диалога.
type Repo struct {
	store RowStore
	hint  string // подстрока в названии складского листа
}

func NewRepo(store RowStore, hint string) *Repo {
	return &Repo{store: store, hint: hint}
}

func (r *Repo) sheet() (string, error) {
	name, ok := r.store.SheetNameContaining(r.hint)
	if !ok {
		return "", ErrNoWarehouse
	}
	return name, nil
}

// Search ищет товары, чьё название начинается с запроса (без учёта
// регистра), и возвращает снимки строк с их номерами.
func (r *Repo) Search(query string) ([]Match, error) {
	sheet, err := r.sheet()
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Rows(sheet)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Match
	for i, row := range rows {
		if len(row) < colName {
			continue
		}
		if strings.HasPrefix(strings.ToLower(row[colName-1]), q) && row[colName-1] != "" {
			out = append(out, Match{Row: i + 1, Cells: padRow(row)})
		}
	}
	return out, nil
}

// Get заново читает строку товара (после правок снимок устаревает).
func (r *Repo) Get(row int) (Match, error) {
	sheet, err := r.sheet()
	if err != nil {
		return Match{}, err
	}
	rows, err := r.store.Rows(sheet)
	if err != nil {
		return Match{}, err
	}
	if row < 1 || row > len(rows) {
		return Match{}, ErrNotFound
	}
	return Match{Row: row, Cells: padRow(rows[row-1])}, nil
}

// CurrentQuantity — живой остаток товара по точному совпадению названия.
// Источник истины для всех проверок количества: не кешируется между
// шагами диалога.
func (r *Repo) CurrentQuantity(name string) (int, error) {
	sheet, err := r.sheet()
	if err != nil {
		return 0, err
	}
	rows, err := r.store.Rows(sheet)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if len(row) >= colName && row[colName-1] == name {
			return parseQty(cell(row, colQuantity)), nil
		}
	}
	return 0, ErrNotFound
}

// UnitPrice читает цену товара из снимка строки: обычную или дилерскую.
func UnitPrice(m Match, dealer bool) (float64, error) {
	col := colPrice
	if dealer {
		col = colDealerPrice
	}
	s := cell(m.Cells, col)
	if s == Empty {
		s = "0"
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "₽"))
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, validationf("Некорректная цена товара: %q", s)
	}
	return v, nil
}

// UpdateField применяет правку поля карточки. Брони — относительные
// (ввод — подписанная дельта), остальные поля — замена. Любая правка,
// задевающая количество, проверяется против живого остатка.
func (r *Repo) UpdateField(m Match, f Field, input string) error {
	sheet, err := r.sheet()
	if err != nil {
		return err
	}
	col, ok := fieldColumns[f]
	if !ok {
		return fmt.Errorf("unknown field %q", f)
	}
	input = strings.TrimSpace(input)

	var value any
	switch f {
	case FieldName:
		if input == "" {
			return validationf("Название не может быть пустым!")
		}
		value = input

	case FieldQuantity:
		n, err := strconv.Atoi(input)
		if err != nil {
			return validationf("Введи целое число!")
		}
		if n < 0 {
			return validationf("Количество не может быть меньше 0!")
		}
		value = n

	case FieldReserve, FieldReserve2:
		delta, err := strconv.Atoi(input)
		if err != nil {
			return validationf("Введи целое число (например, 20 или -20)!")
		}
		current := parseQty(cell(m.Cells, col))
		onHand, err := r.CurrentQuantity(m.Name())
		if err != nil {
			return err
		}
		nv, err := applyDelta(current, delta, onHand)
		if err != nil {
			return err
		}
		value = nv

	case FieldPrice, FieldDealerPrice:
		p, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
		if err != nil {
			return validationf("Введи цену числом (например, 150.50)!")
		}
		if p < 0 {
			return validationf("Цена не может быть отрицательной!")
		}
		value = p
	}

	return r.store.UpdateCell(sheet, m.Row, col, value)
}

// Remains — товары с положительным остатком, по алфавиту без учёта
// регистра (для выгрузки).
func (r *Repo) Remains() ([]Remain, error) {
	sheet, err := r.sheet()
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Rows(sheet)
	if err != nil {
		return nil, err
	}
	var out []Remain
	for i, row := range rows {
		if i == 0 || len(row) < colName || row[colName-1] == "" {
			continue
		}
		qty := parseQty(cell(row, colQuantity))
		if qty > 0 {
			out = append(out, Remain{Name: row[colName-1], Qty: qty})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// applyDelta применяет подписанную дельту брони к текущему значению и
// проверяет результат против остатка.
func applyDelta(current, delta, onHand int) (int, error) {
	nv := current + delta
	if nv < 0 {
		return 0, validationf("Значение должно быть больше 0. Сейчас: %d", current)
	}
	if nv > onHand {
		return 0, validationf("На складе только %d шт. Введи меньшее значение!", onHand)
	}
	return nv, nil
}

func parseQty(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == Empty {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func cell(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

func padRow(row []string) []string {
	out := make([]string, RowWidth)
	for i := range out {
		out[i] = Empty
	}
	for i, v := range row {
		if i >= RowWidth {
			break
		}
		if v != "" {
			out[i] = v
		}
	}
	return out
}
