package ledger

import "errors"

// Лист «Заказы» устроен блоками: строка-шапка с названием заказа в колонке A,
// под ней строки позиций (товар, количество, цена, сумма), внизу итоговая
// строка с маркером «Итого» в колонке D и суммой блока в колонке E.
// Блоки не пересекаются; границы каждый раз ищутся сканом заново.

const (
	HeadPrefix  = "📋 "
	ItemPrefix  = "🛒 "
	TotalMarker = "Итого"
)

// Колонки листа заказов, 1-based.
const (
	colHead  = 1 // A — название заказа (только в шапке)
	colItem  = 2 // B — товар
	colQty   = 3 // C — количество
	colPrice = 4 // D — цена (в итоговой строке — маркер «Итого»)
	colSum   = 5 // E — сумма строки / итог блока
)

// SheetWidth — ширина строки листа заказов.
const SheetWidth = 5

var (
	ErrNotFound  = errors.New("order not found")
	ErrDuplicate = errors.New("order already exists")
	// ErrCorrupted — структура блока нарушена (конец раньше начала).
	// Не чинится автоматически: лист должен поправить человек.
	ErrCorrupted = errors.New("order block corrupted")
)

// Header — заголовок листа заказов, создаётся вместе с листом.
func Header() []any {
	return []any{"📋 Название заказа", "🛒 Товар", "📦 Количество", "💰 Цена", "💵 Сумма"}
}

// ItemRow — позиция заказа с её смещением внутри снимка блока.
type ItemRow struct {
	Offset int // индекс строки внутри блока (0 — шапка)
	Name   string
	Qty    string
	Price  string
	Sum    string
}

// RowStore — срез операций хранилища, нужных модели заказов.
type RowStore interface {
	Rows(sheet string) ([][]string, error)
	Range(sheet string, from, to int) ([][]string, error)
	UpdateCell(sheet string, row, col int, v any) error
	SetRow(sheet string, row int, vs []any) error
	InsertRow(sheet string, row int, vs []any) error
	DeleteRows(sheet string, from, to int) error
	Emphasize(sheet string, row, fromCol, toCol int) error
}
