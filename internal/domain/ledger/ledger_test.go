package ledger

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore — табличное хранилище в памяти с той же 1-based адресацией,
// что у книги; мутации сдвигают последующие строки как в настоящем листе.
type fakeStore struct {
	rows [][]string
}

func newFakeSheet(rows [][]string) *fakeStore {
	return &fakeStore{rows: rows}
}

func (f *fakeStore) Rows(string) ([][]string, error) { return f.rows, nil }

func (f *fakeStore) Range(_ string, from, to int) ([][]string, error) {
	if from < 1 {
		from = 1
	}
	if to > len(f.rows) {
		to = len(f.rows)
	}
	if from > to {
		return nil, nil
	}
	out := make([][]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, f.rows[i-1])
	}
	return out, nil
}

func (f *fakeStore) UpdateCell(_ string, row, col int, v any) error {
	f.grow(row)
	for len(f.rows[row-1]) < col {
		f.rows[row-1] = append(f.rows[row-1], "")
	}
	f.rows[row-1][col-1] = toCell(v)
	return nil
}

func (f *fakeStore) SetRow(_ string, row int, vs []any) error {
	f.grow(row)
	for col, v := range vs {
		for len(f.rows[row-1]) < col+1 {
			f.rows[row-1] = append(f.rows[row-1], "")
		}
		f.rows[row-1][col] = toCell(v)
	}
	return nil
}

func (f *fakeStore) InsertRow(_ string, row int, vs []any) error {
	f.grow(row - 1)
	f.rows = append(f.rows[:row-1], append([][]string{nil}, f.rows[row-1:]...)...)
	f.rows[row-1] = nil
	return f.SetRow("", row, vs)
}

func (f *fakeStore) DeleteRows(_ string, from, to int) error {
	if from < 1 || to > len(f.rows) || from > to {
		return fmt.Errorf("bad range %d..%d", from, to)
	}
	f.rows = append(f.rows[:from-1], f.rows[to:]...)
	return nil
}

func (f *fakeStore) Emphasize(string, int, int, int) error { return nil }

func (f *fakeStore) grow(row int) {
	for len(f.rows) < row {
		f.rows = append(f.rows, nil)
	}
}

func toCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func headerRow() []string {
	return []string{"📋 Название заказа", "🛒 Товар", "📦 Количество", "💰 Цена", "💵 Сумма"}
}

func TestCreateOrder(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")

	require.NoError(t, l.CreateOrder("Batch1"))
	require.Len(t, st.rows, 3)
	assert.Equal(t, "📋 Batch1", st.rows[1][0])
	assert.Equal(t, TotalMarker, st.rows[2][3])
	assert.Equal(t, "0", st.rows[2][4])

	orders, err := l.ListOrders()
	require.NoError(t, err)
	assert.Equal(t, []string{"Batch1"}, orders)
}

func TestCreateOrderDuplicate(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")
	require.NoError(t, l.CreateOrder("Batch1"))

	before := len(st.rows)
	err := l.CreateOrder("Batch1")
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, st.rows, before, "duplicate must not touch the sheet")
}

func TestFindBlock(t *testing.T) {
	st := newFakeSheet([][]string{
		headerRow(),
		{"📋 A", "", "", "", ""},
		{"", "🛒 Стол", "2", "100", "200"},
		{"", "", "", TotalMarker, "200"},
		{"📋 B", "", "", "", ""},
		{"", "", "", TotalMarker, "0"},
	})
	l := New(st, "Заказы")

	start, end, err := l.FindBlock("A")
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 4, end)

	start, end, err = l.FindBlock("B")
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, 6, end)

	_, _, err = l.FindBlock("C")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindBlockWithoutTotalRunsToEnd(t *testing.T) {
	st := newFakeSheet([][]string{
		headerRow(),
		{"📋 A", "", "", "", ""},
		{"", "🛒 Стол", "2", "100", "200"},
	})
	l := New(st, "Заказы")

	start, end, err := l.FindBlock("A")
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
}

func TestAppendItem(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")
	require.NoError(t, l.CreateOrder("Batch1"))

	require.NoError(t, l.AppendItem("Batch1", "Chair-Blue", 3, 100))

	// позиция встала между шапкой и итоговой строкой
	require.Len(t, st.rows, 4)
	assert.Equal(t, "🛒 Chair-Blue", st.rows[2][1])
	assert.Equal(t, "3", st.rows[2][2])
	assert.Equal(t, "300", st.rows[2][4])
	assert.Equal(t, TotalMarker, st.rows[3][3])
	assert.Equal(t, "300", st.rows[3][4])

	require.NoError(t, l.AppendItem("Batch1", "Стол", 1, 50.5))
	assert.Equal(t, "350.5", st.rows[4][4], "block total is the sum of line totals")
}

func TestAppendItemCreatesMissingTotalRow(t *testing.T) {
	st := newFakeSheet([][]string{
		headerRow(),
		{"📋 A", "", "", "", ""},
	})
	l := New(st, "Заказы")

	require.NoError(t, l.AppendItem("A", "Стол", 2, 10))
	require.Len(t, st.rows, 4)
	assert.Equal(t, "🛒 Стол", st.rows[2][1])
	assert.Equal(t, TotalMarker, st.rows[3][3])
	assert.Equal(t, "20", st.rows[3][4])
}

func TestAppendItemWithoutTotalLeavesNextBlockIntact(t *testing.T) {
	st := newFakeSheet([][]string{
		headerRow(),
		{"📋 A", "", "", "", ""},
		{"", "🛒 Стол", "2", "100", "200"},
		{"📋 B", "", "", "", ""},
		{"", "", "", TotalMarker, "0"},
	})
	l := New(st, "Заказы")

	require.NoError(t, l.AppendItem("A", "Стул", 1, 50))

	// оба заказа на месте: достройка A не перезаписала шапку B
	orders, err := l.ListOrders()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, orders)

	start, end, err := l.FindBlock("A")
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
	block, err := l.Block(start, end)
	require.NoError(t, err)
	assert.Equal(t, "🛒 Стул", block[2][1])
	assert.Equal(t, TotalMarker, block[3][3])
	assert.Equal(t, 250.0, BlockTotal(block))

	// блок B сдвинулся целиком вниз
	start, end, err = l.FindBlock("B")
	require.NoError(t, err)
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)
}

func TestAppendItemUnknownOrder(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")
	err := l.AppendItem("ghost", "Стол", 1, 10)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItemKeepsZeroTotal(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")
	require.NoError(t, l.CreateOrder("Batch1"))
	require.NoError(t, l.AppendItem("Batch1", "Стол", 2, 100))

	start, end, err := l.FindBlock("Batch1")
	require.NoError(t, err)

	newEnd, err := l.DeleteItem(start, end, start+1)
	require.NoError(t, err)
	assert.Equal(t, end-1, newEnd)

	// блок остался из шапки и нулевой итоговой строки
	block, err := l.Block(start, newEnd)
	require.NoError(t, err)
	require.Len(t, block, 2)
	assert.Equal(t, TotalMarker, block[1][3])
	assert.Equal(t, "0", block[1][4])
}

func TestDeleteOrder(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")
	require.NoError(t, l.CreateOrder("A"))
	require.NoError(t, l.CreateOrder("B"))
	require.NoError(t, l.AppendItem("A", "Стол", 1, 10))

	require.NoError(t, l.DeleteOrder("A"))

	orders, err := l.ListOrders()
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, orders)

	// блок B остался валидным после сдвига строк
	start, end, err := l.FindBlock("B")
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
}

func TestListOrdersSkipsTotalRows(t *testing.T) {
	st := newFakeSheet([][]string{
		headerRow(),
		{"📋 A", "", "", "", ""},
		{"битое", "", "", TotalMarker, "0"}, // кривая итоговая с заполненной A
	})
	l := New(st, "Заказы")
	orders, err := l.ListOrders()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, orders)
}

func TestRecomputeTotalAfterQtyEdit(t *testing.T) {
	st := newFakeSheet([][]string{headerRow()})
	l := New(st, "Заказы")
	require.NoError(t, l.CreateOrder("A"))
	require.NoError(t, l.AppendItem("A", "Стол", 2, 100))
	require.NoError(t, l.AppendItem("A", "Стул", 1, 50))

	start, end, err := l.FindBlock("A")
	require.NoError(t, err)

	// правим количество первой позиции: 2 → 5
	require.NoError(t, l.UpdateItemQty(start+1, 5))
	total, err := l.RecomputeTotal(start, end)
	require.NoError(t, err)
	assert.Equal(t, 550.0, total)

	block, err := l.Block(start, end)
	require.NoError(t, err)
	assert.Equal(t, "500", block[1][4], "line total = qty × price")
	assert.Equal(t, 550.0, BlockTotal(block))
	assert.Equal(t, SumItems(block), BlockTotal(block), "total row always equals the recomputed sum")
}
