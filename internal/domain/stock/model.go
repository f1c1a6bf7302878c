package stock

import (
	"errors"
	"fmt"
)

// Лист склада: A — №, B — товар, C — количество, D — бронь, E — цена,
// F — бронь2, G — дилерская цена. Пустые ячейки показываются как «-».

const (
	colName        = 2
	colQuantity    = 3
	colReserve     = 4
	colPrice       = 5
	colReserve2    = 6
	colDealerPrice = 7
)

// RowWidth — ширина карточки товара после выравнивания.
const RowWidth = 7

// Empty — маркер пустой ячейки склада.
const Empty = "-"

var (
	ErrNotFound    = errors.New("stock item not found")
	ErrNoWarehouse = errors.New("warehouse sheet not found")
)

// Field — редактируемое поле карточки товара.
type Field string

const (
	FieldName        Field = "name"
	FieldQuantity    Field = "quantity"
	FieldReserve     Field = "reserve"
	FieldReserve2    Field = "reserve2"
	FieldPrice       Field = "price"
	FieldDealerPrice Field = "dealer_price"
)

var fieldColumns = map[Field]int{
	FieldName:        colName,
	FieldQuantity:    colQuantity,
	FieldReserve:     colReserve,
	FieldReserve2:    colReserve2,
	FieldPrice:       colPrice,
	FieldDealerPrice: colDealerPrice,
}

// Relative сообщает, вводится ли поле как подписанная дельта к текущему
// значению (брони), а не как замена.
func (f Field) Relative() bool {
	return f == FieldReserve || f == FieldReserve2
}

// Match — найденная строка склада: номер строки и выровненный снимок ячеек.
type Match struct {
	Row   int
	Cells []string
}

func (m Match) Name() string { return m.Cells[colName-1] }

// Remain — позиция остатков для выгрузки.
type Remain struct {
	Name string
	Qty  int
}

// ValidationError — отказ по пользовательскому вводу: состояние не
// меняется, текст показывается как есть.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RowStore — операции хранилища, нужные складу.
type RowStore interface {
	Rows(sheet string) ([][]string, error)
	UpdateCell(sheet string, row, col int, v any) error
	SheetNameContaining(substr string) (string, bool)
}
