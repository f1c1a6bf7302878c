package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
	"github.com/vkozyrev/sklad-bot/internal/infra/metrics"
	"github.com/vkozyrev/sklad-bot/internal/view"
)

// createOrder обрабатывает введённое название нового заказа. Пустое или
// занятое название отклоняется на месте: состояние не меняется, вопрос
// повторяется.
func (b *Bot) createOrder(chatID int64, input string) {
	name := strings.TrimSpace(input)
	if name == "" {
		b.replyHTML(chatID, "📛 Название не может быть пустым! Попробуй ещё раз:", backKeyboard())
		return
	}
	err := b.ledger.CreateOrder(name)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrDuplicate):
		b.replyHTML(chatID, fmt.Sprintf("⚠️ Заказ «%s» уже есть. Придумай другое название:", name), backKeyboard())
		return
	default:
		b.storeErrorReply(chatID, "create order", err)
		return
	}
	b.sessions.Delete(chatID)
	b.replyHTML(chatID, fmt.Sprintf("✅ Заказ «%s» успешно создан! Теперь можно добавлять товары 🛒", name), mainMenuKeyboard())
}

func (b *Bot) startPickOrder(chatID int64, msgID int) {
	orders, err := b.ledger.ListOrders()
	if err != nil {
		b.storeErrorEdit(chatID, msgID, "list orders", err)
		return
	}
	if len(orders) == 0 {
		b.editHTML(chatID, msgID, "🛒 Нет заказов для редактирования.", backKeyboard())
		return
	}
	b.sessions.Set(&dialog.Session{ChatID: chatID, State: dialog.StatePickOrder})
	b.editHTML(chatID, msgID, "📋 Выбери заказ для редактирования:", orderListKeyboard(orders, 0, "edit"))
}

// pageOrders листает список заказов; список каждый раз пересобирается из
// текущих шапок, страница зажимается в границы.
func (b *Bot) pageOrders(sess *dialog.Session, chatID int64, msgID int, page int, mode string) {
	orders, err := b.ledger.ListOrders()
	if err != nil {
		b.storeErrorEdit(chatID, msgID, "list orders", err)
		return
	}
	page = view.ClampPage(len(orders), view.PageSizeOrders, page)

	var text string
	switch {
	case mode == "add" && sess != nil && sess.State == dialog.StateSearching && sess.Search.SelectingOrder:
		sess.Search.OrderPage = page
		text = fmt.Sprintf("🛒 Добавляем товар:\n%s\nКуда положим?", itemCard(sess.Search.Current()))
	case mode == "edit" && sess != nil && sess.State == dialog.StatePickOrder:
		sess.PickPage = page
		text = "📋 Выбери заказ для редактирования:"
	default:
		return
	}
	b.editHTML(chatID, msgID, text, orderListKeyboard(orders, page, mode))
}

// openOrder находит блок выбранного заказа, снимает его и открывает экран
// редактирования. Повреждённый блок — блокирующая ошибка без авторемонта.
func (b *Bot) openOrder(chatID int64, msgID int, name string) {
	start, end, err := b.ledger.FindBlock(name)
	if err != nil {
		b.sessions.Delete(chatID)
		if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, ledger.ErrCorrupted) {
			b.editHTML(chatID, msgID, fmt.Sprintf("❌ Заказ «%s» не найден или повреждён.", name), backKeyboard())
			return
		}
		b.storeErrorEdit(chatID, msgID, "find block", err)
		return
	}
	block, err := b.ledger.Block(start, end)
	if err != nil {
		b.storeErrorEdit(chatID, msgID, "read block", err)
		return
	}
	sess := &dialog.Session{
		ChatID: chatID,
		State:  dialog.StateEditingOrder,
		Order:  &dialog.OrderFlow{Name: name, Start: start, End: end, Block: block, MsgID: msgID},
	}
	b.sessions.Set(sess)
	b.showOrderItems(sess, chatID)
}

func (b *Bot) showOrderItems(sess *dialog.Session, chatID int64) {
	o := sess.Order
	text := view.OrderTable(o.Block)
	if len(ledger.Items(o.Block)) == 0 {
		text += "\n🔚 Нет товаров для редактирования!"
	}
	b.editHTML(chatID, o.MsgID, text, orderEditKeyboard())
}

func (b *Bot) startPickItem(sess *dialog.Session, chatID int64, msgID int, intent string) {
	o := sess.Order
	items := ledger.Items(o.Block)
	if len(items) == 0 {
		verb := "редактирования"
		if intent == dialog.IntentDelete {
			verb = "удаления"
		}
		b.editHTML(chatID, msgID, "❌ Нет товаров для "+verb+".", orderEditKeyboard())
		return
	}
	o.SelectingItem = true
	o.ItemPage = 0
	o.Intent = intent
	b.editHTML(chatID, msgID, pickItemText(intent, o.Block), itemPickKeyboard(items, 0, intent))
}

func pickItemText(intent string, block [][]string) string {
	if intent == dialog.IntentDelete {
		return "🗑 Выбери товар для удаления:\n" + view.OrderTable(block)
	}
	return "📏 Выбери товар для изменения количества:\n" + view.OrderTable(block)
}

func (b *Bot) pageItems(sess *dialog.Session, chatID int64, msgID int, page int, intent string) {
	o := sess.Order
	if !o.SelectingItem {
		return
	}
	items := ledger.Items(o.Block)
	page = view.ClampPage(len(items), view.PageSizeItems, page)
	o.ItemPage = page
	b.editHTML(chatID, msgID, pickItemText(intent, o.Block), itemPickKeyboard(items, page, intent))
}

func (b *Bot) pickItem(sess *dialog.Session, chatID int64, msgID int, idx int, intent string) {
	o := sess.Order
	items := ledger.Items(o.Block)
	if idx < 0 || idx >= len(items) {
		o.SelectingItem = false
		b.editHTML(chatID, msgID, "❌ Товар не найден.", orderEditKeyboard())
		return
	}
	it := items[idx]

	switch intent {
	case dialog.IntentEdit:
		o.ItemIndex = idx
		o.AwaitQty = true
		o.SelectingItem = false
		onHand := b.liveQuantity(it.Name)
		b.editHTML(chatID, msgID,
			fmt.Sprintf("📏 Введи новое количество для товара «%s» (на складе: %d шт.):", it.Name, onHand),
			backKeyboard())

	case dialog.IntentDelete:
		row := o.Start + it.Offset
		newEnd, err := b.ledger.DeleteItem(o.Start, o.End, row)
		if err != nil {
			b.storeErrorEdit(chatID, msgID, "delete item", err)
			return
		}
		o.End = newEnd
		block, err := b.ledger.Block(o.Start, o.End)
		if err != nil {
			b.storeErrorEdit(chatID, msgID, "read block", err)
			return
		}
		o.Block = block
		o.SelectingItem = false
		text := fmt.Sprintf("🗑 Товар «%s» удалён!\n%s", it.Name, view.OrderTable(block))
		b.editHTML(chatID, msgID, text, orderEditKeyboard())
	}
}

// applyNewQuantity — ввод нового количества позиции: проверка против
// живого остатка, перезапись суммы строки и пересчёт итога блока.
func (b *Bot) applyNewQuantity(sess *dialog.Session, input string) {
	chatID := sess.ChatID
	o := sess.Order

	qty, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		b.replyHTML(chatID, "❌ Введи корректное число!", backKeyboard())
		return
	}
	items := ledger.Items(o.Block)
	if o.ItemIndex < 0 || o.ItemIndex >= len(items) {
		b.replyHTML(chatID, "❌ Нет товаров для редактирования!", orderEditKeyboard())
		return
	}
	it := items[o.ItemIndex]

	if qty <= 0 {
		b.replyHTML(chatID, "⚠️ Количество должно быть больше 0!", backKeyboard())
		return
	}
	onHand, err := b.stock.CurrentQuantity(it.Name)
	if err != nil && !errors.Is(err, stock.ErrNotFound) {
		b.storeErrorReply(chatID, "check stock", err)
		return
	}
	if qty > onHand {
		b.replyHTML(chatID, fmt.Sprintf("⚠️ На складе только %d шт. Введи меньшее количество!", onHand), backKeyboard())
		return
	}

	row := o.Start + it.Offset
	if err := b.ledger.UpdateItemQty(row, qty); err != nil {
		b.storeErrorReply(chatID, "update item qty", err)
		return
	}
	if _, err := b.ledger.RecomputeTotal(o.Start, o.End); err != nil {
		b.storeErrorReply(chatID, "recompute total", err)
		return
	}
	block, err := b.ledger.Block(o.Start, o.End)
	if err != nil {
		b.storeErrorReply(chatID, "read block", err)
		return
	}
	o.Block = block
	o.AwaitQty = false

	b.replyHTML(chatID, fmt.Sprintf("✅ Количество обновлено: %d для «%s»", qty, it.Name), backKeyboard())
	b.showOrderItems(sess, chatID)
}

// deleteOrder удаляет блок целиком; границы ищутся заново на живых данных,
// а не по снимку, потому что лист мог сдвинуться.
func (b *Bot) deleteOrder(sess *dialog.Session, chatID int64, msgID int) {
	name := sess.Order.Name
	err := b.ledger.DeleteOrder(name)
	if err != nil {
		b.sessions.Delete(chatID)
		if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, ledger.ErrCorrupted) {
			b.editHTML(chatID, msgID, fmt.Sprintf("❌ Заказ «%s» не найден или повреждён.", name), mainMenuKeyboard())
			return
		}
		b.storeErrorEdit(chatID, msgID, "delete order", err)
		return
	}
	b.sessions.Delete(chatID)
	b.editHTML(chatID, msgID, fmt.Sprintf("🗑 Заказ «%s» удалён!", name), mainMenuKeyboard())
}

func (b *Bot) storeErrorEdit(chatID int64, msgID int, op string, err error) {
	metrics.StoreErrorsTotal.Inc()
	b.log.Error(op+" failed", "err", err)
	b.editHTML(chatID, msgID, "❌ Ошибка: "+err.Error()+". Попробуй снова!", backKeyboard())
}
