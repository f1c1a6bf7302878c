package dialog

import "github.com/vkozyrev/sklad-bot/internal/domain/stock"

type State string

const (
	StateIdle State = "idle"

	// Ввод текста на верхнем уровне
	StateAwaitOrderName State = "await_order_name" // название нового заказа
	StateAwaitSearch    State = "await_search"     // поисковый запрос

	// Просмотр результатов поиска (подрежимы — в SearchFlow)
	StateSearching State = "searching"

	// Выбор заказа для редактирования
	StatePickOrder State = "pick_order"

	// Работа с блоком заказа (подрежимы — в OrderFlow)
	StateEditingOrder State = "editing_order"
)

// Session — запись о прогрессе пользователя в диалоге. Каждое состояние
// владеет ровно теми полями, которые нужны его переходам; живёт только
// в памяти процесса и теряется на рестарте.
type Session struct {
	ChatID int64
	State  State

	Search   *SearchFlow // только для StateSearching
	Order    *OrderFlow  // только для StateEditingOrder
	PickPage int         // страница списка в StatePickOrder
}

// SearchFlow — накопленные поля режима поиска и его подрежимов.
type SearchFlow struct {
	Results []stock.Match
	Index   int
	MsgID   int // сообщение с карточкой, редактируется на месте

	// Подрежим правки поля карточки: какое поле ждёт ввода.
	EditField stock.Field

	// Подрежим «в заказ»: выбор заказа, цены, количества.
	SelectingOrder bool
	OrderPage      int
	SelectedOrder  string
	DealerPrice    bool
	AwaitQty       bool
}

// Current — карточка, на которой стоит курсор.
func (f *SearchFlow) Current() stock.Match { return f.Results[f.Index] }

// OrderFlow — накопленные поля режима редактирования заказа.
type OrderFlow struct {
	Name  string
	Start int
	End   int
	Block [][]string // снимок блока; после каждой мутации перечитывается
	MsgID int

	// Подрежим выбора позиции: для правки количества или удаления.
	SelectingItem bool
	ItemPage      int
	Intent        string // IntentEdit | IntentDelete

	// Подрежим ввода нового количества выбранной позиции.
	AwaitQty  bool
	ItemIndex int
}

const (
	IntentEdit   = "edit"
	IntentDelete = "delete"
)
