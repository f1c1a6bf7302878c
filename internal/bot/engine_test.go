package bot

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
)

// fakeAPI записывает всё отправленное в Telegram.
type fakeAPI struct {
	nextID  int
	sent    []tgbotapi.Chattable
	notices []string // тексты ответов на callback
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.notices = append(f.notices, cb.Text)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func lastEdit(api *fakeAPI) string {
	for i := len(api.sent) - 1; i >= 0; i-- {
		if e, ok := api.sent[i].(tgbotapi.EditMessageTextConfig); ok {
			return e.Text
		}
	}
	return ""
}

func lastReply(api *fakeAPI) string {
	for i := len(api.sent) - 1; i >= 0; i-- {
		if m, ok := api.sent[i].(tgbotapi.MessageConfig); ok {
			return m.Text
		}
	}
	return ""
}

// fakeWorkbook — книга в памяти с реальной семантикой сдвига строк,
// обслуживает и лист заказов, и склад.
type fakeWorkbook struct {
	sheets map[string][][]string
}

func (f *fakeWorkbook) Rows(sheet string) ([][]string, error) { return f.sheets[sheet], nil }

func (f *fakeWorkbook) SheetNameContaining(substr string) (string, bool) {
	for name := range f.sheets {
		if strings.Contains(name, substr) {
			return name, true
		}
	}
	return "", false
}

func (f *fakeWorkbook) Range(sheet string, from, to int) ([][]string, error) {
	rows := f.sheets[sheet]
	if from < 1 {
		from = 1
	}
	if to > len(rows) {
		to = len(rows)
	}
	if from > to {
		return nil, nil
	}
	return rows[from-1 : to], nil
}

func (f *fakeWorkbook) UpdateCell(sheet string, row, col int, v any) error {
	f.grow(sheet, row)
	rows := f.sheets[sheet]
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = cellText(v)
	return nil
}

func (f *fakeWorkbook) SetRow(sheet string, row int, vs []any) error {
	f.grow(sheet, row)
	rows := f.sheets[sheet]
	for col, v := range vs {
		for len(rows[row-1]) < col+1 {
			rows[row-1] = append(rows[row-1], "")
		}
		rows[row-1][col] = cellText(v)
	}
	return nil
}

func (f *fakeWorkbook) InsertRow(sheet string, row int, vs []any) error {
	f.grow(sheet, row-1)
	rows := f.sheets[sheet]
	f.sheets[sheet] = append(rows[:row-1], append([][]string{nil}, rows[row-1:]...)...)
	return f.SetRow(sheet, row, vs)
}

func (f *fakeWorkbook) DeleteRows(sheet string, from, to int) error {
	rows := f.sheets[sheet]
	if from < 1 || to > len(rows) || from > to {
		return fmt.Errorf("bad range %d..%d", from, to)
	}
	f.sheets[sheet] = append(rows[:from-1], rows[to:]...)
	return nil
}

func (f *fakeWorkbook) Emphasize(string, int, int, int) error { return nil }

func (f *fakeWorkbook) grow(sheet string, row int) {
	rows := f.sheets[sheet]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	f.sheets[sheet] = rows
}

func cellText(v any) string {
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

// newTestBot — движок над книгой с одним заказом («Партия-1»: Стул 2×100)
// и одним товаром на складе (Стул, остаток 10).
func newTestBot(t *testing.T) (*Bot, *fakeAPI, *fakeWorkbook) {
	t.Helper()
	wb := &fakeWorkbook{sheets: map[string][][]string{
		"Заказы": {
			{"📋 Название заказа", "🛒 Товар", "📦 Количество", "💰 Цена", "💵 Сумма"},
			{"📋 Партия-1", "", "", "", ""},
			{"", "🛒 Стул", "2", "100", "200"},
			{"", "", "", ledger.TotalMarker, "200"},
		},
		"СКЛАД основной": {
			{"№", "Товар", "Кол-во", "Бронь", "Цена", "Бронь2", "Дилерская"},
			{"1", "Стул", "10", "-", "100", "-", "80"},
		},
	}}
	api := &fakeAPI{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := New(api, log, dialog.NewStore(), ledger.New(wb, "Заказы"), stock.NewRepo(wb, "СКЛАД"))
	return b, api, wb
}

func chairMatch(t *testing.T, b *Bot) stock.Match {
	t.Helper()
	got, err := b.stock.Search("стул")
	require.NoError(t, err)
	require.Len(t, got, 1)
	return got[0]
}

func pressed(data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: 1}},
	}
}

func typed(text string) *tgbotapi.Message {
	return &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: text}
}

func TestBackUnwindsAddToOrderChain(t *testing.T) {
	b, api, _ := newTestBot(t)
	sess := &dialog.Session{
		ChatID: 1,
		State:  dialog.StateSearching,
		Search: &dialog.SearchFlow{
			Results:       []stock.Match{chairMatch(t, b)},
			MsgID:         10,
			SelectedOrder: "Партия-1",
			AwaitQty:      true,
		},
	}
	b.sessions.Set(sess)

	// из ввода количества — к выбору цены, заказ остаётся выбран
	b.onCallback(pressed("nav:back"))
	require.NotNil(t, b.sessions.Get(1))
	assert.False(t, sess.Search.AwaitQty)
	assert.Equal(t, "Партия-1", sess.Search.SelectedOrder)
	assert.Contains(t, lastEdit(api), "По какой цене")

	// из выбора цены — к списку заказов
	b.onCallback(pressed("nav:back"))
	assert.Empty(t, sess.Search.SelectedOrder)
	assert.True(t, sess.Search.SelectingOrder)
	assert.Contains(t, lastEdit(api), "Куда положим?")

	// из списка заказов — к карточке выдачи
	b.onCallback(pressed("nav:back"))
	assert.False(t, sess.Search.SelectingOrder)
	assert.Contains(t, lastEdit(api), "Результат 1 из 1")

	// с карточки — в меню, диалог завершён
	b.onCallback(pressed("nav:back"))
	assert.Nil(t, b.sessions.Get(1))
	assert.Contains(t, lastEdit(api), "главное меню")
}

func TestBackUnwindsFieldEdit(t *testing.T) {
	b, api, _ := newTestBot(t)
	sess := &dialog.Session{
		ChatID: 1,
		State:  dialog.StateSearching,
		Search: &dialog.SearchFlow{
			Results:   []stock.Match{chairMatch(t, b)},
			MsgID:     10,
			EditField: stock.FieldPrice,
		},
	}
	b.sessions.Set(sess)

	b.onCallback(pressed("nav:back"))
	require.NotNil(t, b.sessions.Get(1))
	assert.Empty(t, string(sess.Search.EditField))
	assert.Contains(t, lastEdit(api), "Результат 1 из 1")
}

func TestBackUnwindsOrderEditing(t *testing.T) {
	b, api, _ := newTestBot(t)
	start, end, err := b.ledger.FindBlock("Партия-1")
	require.NoError(t, err)
	block, err := b.ledger.Block(start, end)
	require.NoError(t, err)
	sess := &dialog.Session{
		ChatID: 1,
		State:  dialog.StateEditingOrder,
		Order: &dialog.OrderFlow{
			Name: "Партия-1", Start: start, End: end, Block: block,
			MsgID: 10, AwaitQty: true, ItemIndex: 0,
		},
	}
	b.sessions.Set(sess)

	// из ввода количества — обратно к таблице заказа
	b.onCallback(pressed("nav:back"))
	require.NotNil(t, b.sessions.Get(1))
	assert.False(t, sess.Order.AwaitQty)
	assert.Contains(t, lastEdit(api), "Итого:")

	// из выбора позиции — тоже к таблице
	sess.Order.SelectingItem = true
	b.onCallback(pressed("nav:back"))
	require.NotNil(t, b.sessions.Get(1))
	assert.False(t, sess.Order.SelectingItem)

	// с таблицы — в меню
	b.onCallback(pressed("nav:back"))
	assert.Nil(t, b.sessions.Get(1))
	assert.Contains(t, lastEdit(api), "главное меню")
}

func TestSearchPagingBoundaryIsNoOp(t *testing.T) {
	b, api, _ := newTestBot(t)
	sess := &dialog.Session{
		ChatID: 1,
		State:  dialog.StateSearching,
		Search: &dialog.SearchFlow{Results: []stock.Match{chairMatch(t, b)}, MsgID: 10},
	}
	b.sessions.Set(sess)

	b.onCallback(pressed("search:next"))
	require.NotEmpty(t, api.notices)
	assert.Equal(t, "🔚 Больше товаров нет!", api.notices[len(api.notices)-1])
	assert.Equal(t, 0, sess.Search.Index)

	b.onCallback(pressed("search:prev"))
	assert.Equal(t, "🔚 Больше товаров нет!", api.notices[len(api.notices)-1])
	assert.Equal(t, 0, sess.Search.Index)
	assert.Equal(t, dialog.StateSearching, sess.State)
}

func TestAddQuantityCheckedAgainstLiveStock(t *testing.T) {
	b, api, wb := newTestBot(t)
	sess := &dialog.Session{
		ChatID: 1,
		State:  dialog.StateSearching,
		Search: &dialog.SearchFlow{
			Results:       []stock.Match{chairMatch(t, b)},
			MsgID:         10,
			SelectedOrder: "Партия-1",
			AwaitQty:      true,
		},
	}
	b.sessions.Set(sess)

	// больше остатка: отказ на месте, шаг и лист не меняются
	b.onMessage(typed("15"))
	assert.Contains(t, lastReply(api), "только 10 шт.")
	assert.True(t, sess.Search.AwaitQty)
	assert.Equal(t, "Партия-1", sess.Search.SelectedOrder)
	assert.Len(t, wb.sheets["Заказы"], 4)

	b.onMessage(typed("0"))
	assert.Contains(t, lastReply(api), "больше 0")
	assert.Len(t, wb.sheets["Заказы"], 4)

	// в пределах остатка: позиция встала перед итоговой строкой
	b.onMessage(typed("3"))
	require.Len(t, wb.sheets["Заказы"], 5)
	assert.Equal(t, "🛒 Стул", wb.sheets["Заказы"][3][1])
	assert.Equal(t, "500", wb.sheets["Заказы"][4][4])
	assert.False(t, sess.Search.AwaitQty)
	assert.Empty(t, sess.Search.SelectedOrder)
}

func TestNewQuantityCheckedAgainstLiveStock(t *testing.T) {
	b, api, wb := newTestBot(t)
	start, end, err := b.ledger.FindBlock("Партия-1")
	require.NoError(t, err)
	block, err := b.ledger.Block(start, end)
	require.NoError(t, err)
	sess := &dialog.Session{
		ChatID: 1,
		State:  dialog.StateEditingOrder,
		Order: &dialog.OrderFlow{
			Name: "Партия-1", Start: start, End: end, Block: block,
			MsgID: 10, AwaitQty: true, ItemIndex: 0,
		},
	}
	b.sessions.Set(sess)

	// больше остатка: количество и итог не тронуты
	b.onMessage(typed("15"))
	assert.Contains(t, lastReply(api), "только 10 шт.")
	assert.True(t, sess.Order.AwaitQty)
	assert.Equal(t, "2", wb.sheets["Заказы"][2][2])

	// допустимое значение: строка и итог пересчитаны
	b.onMessage(typed("5"))
	assert.Equal(t, "5", wb.sheets["Заказы"][2][2])
	assert.Equal(t, "500", wb.sheets["Заказы"][2][4])
	assert.Equal(t, "500", wb.sheets["Заказы"][3][4])
	assert.False(t, sess.Order.AwaitQty)
}
