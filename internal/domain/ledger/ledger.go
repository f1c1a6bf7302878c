package ledger

import (
	"fmt"
	"strings"
)

// Ledger — модель листа заказов поверх хранилища строк. Транзакций у
// хранилища нет, поэтому каждая многошаговая мутация заново ищет границы
// блока и заново пересчитывает итог — никаких закешированных смещений.
type Ledger struct {
	store RowStore
	sheet string
}

func New(store RowStore, sheet string) *Ledger {
	return &Ledger{store: store, sheet: sheet}
}

func (l *Ledger) Sheet() string { return l.sheet }

// FindBlock ищет блок заказа сканом сверху вниз: начало — первая строка,
// чья шапка совпала с именем; конец — строка перед следующей шапкой,
// пустой строкой-разделителем или итоговая строка (она входит в блок).
// Блок без итоговой строки тянется до конца листа.
func (l *Ledger) FindBlock(name string) (start, end int, err error) {
	rows, err := l.store.Rows(l.sheet)
	if err != nil {
		return 0, 0, err
	}
	for i, row := range rows {
		num := i + 1
		head := cellAt(row, colHead)
		if start == 0 {
			if head != "" && strings.TrimPrefix(head, HeadPrefix) == name {
				start = num
			}
			continue
		}
		if rowEmpty(row) || head != "" || cellAt(row, colPrice) == TotalMarker {
			end = num - 1
			break
		}
	}
	if start == 0 {
		return 0, 0, ErrNotFound
	}
	if end == 0 {
		end = len(rows)
	}
	// итоговая строка, остановившая скан, принадлежит блоку
	if end < len(rows) && cellAt(rows[end], colPrice) == TotalMarker {
		end++
	}
	if end < start {
		return 0, 0, fmt.Errorf("%w: %q rows %d..%d", ErrCorrupted, name, start, end)
	}
	return start, end, nil
}

// ListOrders собирает названия заказов по шапкам блоков. Строки с маркером
// «Итого» в колонке D пропускаются, чтобы кривой блок не выдал итоговую
// строку за шапку.
func (l *Ledger) ListOrders() ([]string, error) {
	rows, err := l.store.Rows(l.sheet)
	if err != nil {
		return nil, err
	}
	var names []string
	seen := map[string]bool{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		head := cellAt(row, colHead)
		if head == "" || cellAt(row, colPrice) == TotalMarker {
			continue
		}
		name := strings.TrimPrefix(head, HeadPrefix)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// Block возвращает снимок строк блока, выровненный по ширине листа.
func (l *Ledger) Block(start, end int) ([][]string, error) {
	rows, err := l.store.Range(l.sheet, start, end)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = PadRow(row, SheetWidth)
	}
	return out, nil
}

// CreateOrder добавляет в конец листа новый блок: шапку и нулевую итоговую
// строку. Совпадение имени с существующим заказом — ошибка.
func (l *Ledger) CreateOrder(name string) error {
	orders, err := l.ListOrders()
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o == name {
			return fmt.Errorf("%w: %q", ErrDuplicate, name)
		}
	}
	rows, err := l.store.Rows(l.sheet)
	if err != nil {
		return err
	}
	head := len(rows) + 1
	if len(rows) <= 1 {
		head = 2
	}
	if err := l.store.SetRow(l.sheet, head, []any{HeadPrefix + name, "", "", "", ""}); err != nil {
		return err
	}
	if err := l.store.SetRow(l.sheet, head+1, []any{"", "", "", TotalMarker, 0.0}); err != nil {
		return err
	}
	return l.store.Emphasize(l.sheet, head+1, colPrice, colSum)
}

// DeleteOrder удаляет блок заказа целиком, одной операцией.
func (l *Ledger) DeleteOrder(name string) error {
	start, end, err := l.FindBlock(name)
	if err != nil {
		return err
	}
	return l.store.DeleteRows(l.sheet, start, end)
}

// AppendItem вставляет позицию перед итоговой строкой блока (или сразу
// после последней строки, создавая итоговую, если её ещё нет) и
// пересчитывает итог. Валидация количества против остатка — на вызывающем.
func (l *Ledger) AppendItem(orderName, itemName string, qty int, price float64) error {
	start, end, err := l.FindBlock(orderName)
	if err != nil {
		return err
	}
	block, err := l.Block(start, end)
	if err != nil {
		return err
	}
	lineTotal := float64(qty) * price
	vals := []any{"", ItemPrefix + itemName, qty, price, lineTotal}

	hasTotal := len(block) > 0 && cellAt(block[len(block)-1], colPrice) == TotalMarker
	if hasTotal {
		if err := l.store.InsertRow(l.sheet, end, vals); err != nil {
			return err
		}
		_, err = l.RecomputeTotal(start, end+1)
		return err
	}
	// итоговой строки нет: позиция и новый итог вставляются, а не
	// перезаписываются — ниже может начинаться следующий блок
	if err := l.store.InsertRow(l.sheet, end+1, vals); err != nil {
		return err
	}
	if err := l.store.InsertRow(l.sheet, end+2, []any{"", "", "", TotalMarker, 0.0}); err != nil {
		return err
	}
	_, err = l.RecomputeTotal(start, end+2)
	return err
}

// DeleteItem удаляет строку позиции, подтягивает конец блока на единицу
// вверх и пересчитывает итог. Последнюю позицию удалить можно: итоговая
// строка остаётся с нулём.
func (l *Ledger) DeleteItem(start, end, row int) (newEnd int, err error) {
	if err := l.store.DeleteRows(l.sheet, row, row); err != nil {
		return 0, err
	}
	newEnd = ShiftAfterDelete(end, row, row)
	if _, err := l.RecomputeTotal(start, newEnd); err != nil {
		return 0, err
	}
	return newEnd, nil
}

// UpdateItemQty перезаписывает количество позиции и её сумму строки.
// Итог блока пересчитывает вызывающий через RecomputeTotal.
func (l *Ledger) UpdateItemQty(row, qty int) error {
	rows, err := l.store.Range(l.sheet, row, row)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	price, err := ParseAmount(cellAt(rows[0], colPrice))
	if err != nil {
		return fmt.Errorf("item price: %w", err)
	}
	if err := l.store.UpdateCell(l.sheet, row, colQty, qty); err != nil {
		return err
	}
	return l.store.UpdateCell(l.sheet, row, colSum, float64(qty)*price)
}

// RecomputeTotal заново суммирует строки позиций блока и записывает
// результат в итоговую строку, возвращая его. Единственный источник
// правды для отображаемого итога.
func (l *Ledger) RecomputeTotal(start, end int) (float64, error) {
	block, err := l.Block(start, end)
	if err != nil {
		return 0, err
	}
	total := SumItems(block)
	for i := len(block) - 1; i >= 0; i-- {
		if cellAt(block[i], colPrice) != TotalMarker {
			continue
		}
		row := start + i
		if err := l.store.UpdateCell(l.sheet, row, colSum, total); err != nil {
			return 0, err
		}
		if err := l.store.Emphasize(l.sheet, row, colPrice, colSum); err != nil {
			return 0, err
		}
		break
	}
	return total, nil
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
