package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
)

const infoText = "✨ <b>Привет! Я твой складской помощник!</b> ✨\n\n" +
	"Я создан, чтобы помочь тебе управлять складом и заказами. Вот что я умею:\n\n" +
	"📋 <b>Создать заказ</b> — Добавить новый заказ, куда можно положить товары.\n" +
	"📦 <b>Выгрузить остатки</b> — Показать, сколько товаров есть на складе, сгруппированных по буквам, и дать файл со списком.\n" +
	"✏️ <b>Редактировать заказ</b> — Изменить или удалить товары в заказе, завершить его и скачать файл.\n" +
	"🔍 <b>Найти товар</b> — Найти товар на складе, посмотреть его количество, цену, бронь и даже изменить данные.\n" +
	"ℹ️ <b>Инфо</b> — Это ты сейчас читаешь! Инструкция для тебя.\n\n" +
	"<b>Как пользоваться?</b>\n" +
	"1. Нажми кнопку ниже, чтобы начать.\n" +
	"2. Или введи команду внизу чата (например, /search для поиска).\n" +
	"3. Следуй моим подсказкам — я всё объясню!"

func (b *Bot) onMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	b.handleStateMessage(msg)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.sessions.Delete(chatID)
		b.replyHTML(chatID, "👋 Привет! Я твой складской помощник! 😊\nВыбери, что хочешь сделать:", mainMenuKeyboard())
	case "search":
		b.sessions.Set(&dialog.Session{ChatID: chatID, State: dialog.StateAwaitSearch})
		b.replyHTML(chatID, "🔍 Какой товар ищем? Введи название:", backKeyboard())
	default:
		b.replyHTML(chatID, "👇 Выбери действие из меню:", mainMenuKeyboard())
	}
}

// handleStateMessage — свободный текст: интерпретируется только когда
// текущее состояние его ждёт, иначе возвращаем меню.
func (b *Bot) handleStateMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	sess := b.sessions.Get(chatID)
	if sess == nil {
		b.replyHTML(chatID, "👇 Выбери действие из меню:", mainMenuKeyboard())
		return
	}

	switch {
	case sess.State == dialog.StateAwaitOrderName:
		b.createOrder(chatID, msg.Text)
	case sess.State == dialog.StateAwaitSearch:
		b.runSearch(chatID, msg.Text)
	case sess.State == dialog.StateSearching && sess.Search.EditField != "":
		b.applyFieldEdit(sess, msg.Text)
	case sess.State == dialog.StateSearching && sess.Search.AwaitQty:
		b.applyAddQuantity(sess, msg.Text)
	case sess.State == dialog.StateEditingOrder && sess.Order.AwaitQty:
		b.applyNewQuantity(sess, msg.Text)
	default:
		b.replyHTML(chatID, "👇 Выбери действие из меню:", mainMenuKeyboard())
	}
}

func (b *Bot) onCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answerCallback(cb, "")
		return
	}
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	sess := b.sessions.Get(chatID)

	parts := strings.SplitN(cb.Data, ":", 2)
	prefix := parts[0]
	rest := ""
	if len(parts) > 1 {
		rest = parts[1]
	}

	switch prefix {
	case "menu":
		b.answerCallback(cb, "")
		b.handleMenu(chatID, msgID, rest)

	case "nav":
		b.answerCallback(cb, "")
		switch rest {
		case "back":
			b.unwind(chatID, msgID, sess)
		case "menu":
			b.toMenu(chatID, msgID)
		}

	case "search":
		b.handleSearchAction(cb, sess, chatID, msgID, rest)

	case "fld":
		b.answerCallback(cb, "")
		if sess == nil || sess.State != dialog.StateSearching {
			return
		}
		b.promptFieldEdit(sess, chatID, msgID, stock.Field(rest))

	case "price":
		b.answerCallback(cb, "")
		if sess == nil || sess.State != dialog.StateSearching || sess.Search.SelectedOrder == "" {
			return
		}
		b.pickPriceKind(sess, chatID, msgID, rest == "dealer")

	case "ord":
		b.answerCallback(cb, "")
		b.handleOrderAction(sess, chatID, msgID, rest)

	case "oe":
		b.answerCallback(cb, "")
		if sess == nil || sess.State != dialog.StateEditingOrder {
			return
		}
		switch rest {
		case "qty":
			b.startPickItem(sess, chatID, msgID, dialog.IntentEdit)
		case "delitem":
			b.startPickItem(sess, chatID, msgID, dialog.IntentDelete)
		case "delorder":
			b.deleteOrder(sess, chatID, msgID)
		case "complete":
			b.completeOrder(sess, chatID, msgID)
		}

	case "item":
		b.answerCallback(cb, "")
		if sess == nil || sess.State != dialog.StateEditingOrder {
			return
		}
		b.handleItemAction(sess, chatID, msgID, rest)

	default:
		b.answerCallback(cb, "")
	}
}

func (b *Bot) handleMenu(chatID int64, msgID int, action string) {
	switch action {
	case "new":
		b.sessions.Set(&dialog.Session{ChatID: chatID, State: dialog.StateAwaitOrderName})
		b.editHTML(chatID, msgID, "📋 Давай создадим новый заказ! Введи его название:", backKeyboard())
	case "search":
		b.sessions.Set(&dialog.Session{ChatID: chatID, State: dialog.StateAwaitSearch})
		b.editHTML(chatID, msgID, "🔍 Какой товар ищем? Введи название:", backKeyboard())
	case "edit":
		b.startPickOrder(chatID, msgID)
	case "export":
		b.exportStock(chatID, msgID)
	case "info":
		b.editHTML(chatID, msgID, infoText, mainMenuKeyboard())
	}
}

func (b *Bot) handleSearchAction(cb *tgbotapi.CallbackQuery, sess *dialog.Session, chatID int64, msgID int, action string) {
	if sess == nil || sess.State != dialog.StateSearching {
		b.answerCallback(cb, "")
		return
	}
	f := sess.Search
	switch action {
	case "next", "prev":
		// границы списка — no-op с всплывающей подсказкой, не мутация
		moved := false
		if action == "next" && f.Index < len(f.Results)-1 {
			f.Index++
			moved = true
		}
		if action == "prev" && f.Index > 0 {
			f.Index--
			moved = true
		}
		if !moved {
			b.answerCallback(cb, "🔚 Больше товаров нет!")
			return
		}
		b.answerCallback(cb, "")
		b.showSearchResult(sess, chatID)
	case "edit":
		b.answerCallback(cb, "")
		m := f.Current()
		b.editHTML(chatID, msgID,
			"✏️ Редактируем товар:\n"+itemCard(m)+"\nЧто хочешь изменить?", editFieldKeyboard())
	case "add":
		b.answerCallback(cb, "")
		b.startAddToOrder(sess, chatID, msgID)
	default:
		b.answerCallback(cb, "")
	}
}

func (b *Bot) handleOrderAction(sess *dialog.Session, chatID int64, msgID int, rest string) {
	parts := strings.SplitN(rest, ":", 2)
	switch parts[0] {
	case "pick":
		if len(parts) < 2 {
			return
		}
		name := parts[1]
		switch {
		case sess != nil && sess.State == dialog.StateSearching && sess.Search.SelectingOrder:
			b.pickOrderForAdd(sess, chatID, msgID, name)
		case sess != nil && sess.State == dialog.StatePickOrder:
			b.openOrder(chatID, msgID, name)
		}
	case "page":
		if len(parts) < 2 {
			return
		}
		args := strings.SplitN(parts[1], ":", 2)
		if len(args) < 2 {
			return
		}
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return
		}
		b.pageOrders(sess, chatID, msgID, page, args[1])
	}
}

func (b *Bot) handleItemAction(sess *dialog.Session, chatID int64, msgID int, rest string) {
	parts := strings.SplitN(rest, ":", 3)
	if len(parts) < 3 {
		return
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	switch parts[0] {
	case "pick":
		b.pickItem(sess, chatID, msgID, n, parts[2])
	case "page":
		b.pageItems(sess, chatID, msgID, n, parts[2])
	}
}

// unwind разматывает ровно один логический уровень: из подрежима — в его
// родительский экран, с верхнего уровня — в меню. Безусловного сброса нет,
// чтобы не выбрасывать пользователя из середины сценария.
func (b *Bot) unwind(chatID int64, msgID int, sess *dialog.Session) {
	if sess == nil {
		b.toMenu(chatID, msgID)
		return
	}
	switch sess.State {
	case dialog.StateAwaitOrderName, dialog.StateAwaitSearch, dialog.StatePickOrder:
		b.toMenu(chatID, msgID)

	case dialog.StateSearching:
		f := sess.Search
		switch {
		case f.AwaitQty:
			// из ввода количества — назад к выбору цены
			f.AwaitQty = false
			b.pickedOrderPrompt(sess, chatID, msgID)
		case f.SelectedOrder != "":
			// из выбора цены — назад к списку заказов
			f.SelectedOrder = ""
			f.SelectingOrder = true
			b.startAddToOrder(sess, chatID, msgID)
		case f.SelectingOrder:
			f.SelectingOrder = false
			b.showSearchResult(sess, chatID)
		case f.EditField != "":
			f.EditField = ""
			b.showSearchResult(sess, chatID)
		default:
			b.toMenu(chatID, msgID)
		}

	case dialog.StateEditingOrder:
		o := sess.Order
		switch {
		case o.AwaitQty:
			o.AwaitQty = false
			b.showOrderItems(sess, chatID)
		case o.SelectingItem:
			o.SelectingItem = false
			b.showOrderItems(sess, chatID)
		default:
			b.toMenu(chatID, msgID)
		}

	default:
		b.toMenu(chatID, msgID)
	}
}
