package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
	"github.com/vkozyrev/sklad-bot/internal/infra/metrics"
	"github.com/vkozyrev/sklad-bot/internal/view"
)

func itemCard(m stock.Match) string {
	return view.ItemInfo(m.Row, m.Cells)
}

// runSearch выполняет поиск по введённому запросу. Пустая выдача сразу
// возвращает в меню: тупикового экрана «ноль результатов» нет.
func (b *Bot) runSearch(chatID int64, query string) {
	query = strings.TrimSpace(query)
	results, err := b.stock.Search(query)
	if err != nil {
		if errors.Is(err, stock.ErrNoWarehouse) {
			b.replyHTML(chatID, "❌ Лист «СКЛАД» не найден. Проверь настройки!", backKeyboard())
			return
		}
		metrics.StoreErrorsTotal.Inc()
		b.log.Error("search failed", "err", err)
		b.replyHTML(chatID, "❌ Ошибка при поиске. Попробуй снова!", backKeyboard())
		return
	}
	if len(results) == 0 {
		b.sessions.Delete(chatID)
		b.replyHTML(chatID, fmt.Sprintf("🔍 По запросу «%s» ничего не найдено 😕", query), mainMenuKeyboard())
		return
	}

	m := tgbotapi.NewMessage(chatID, "⏳ Загружаю результаты...")
	m.ReplyMarkup = searchKeyboard()
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	sess := &dialog.Session{
		ChatID: chatID,
		State:  dialog.StateSearching,
		Search: &dialog.SearchFlow{Results: results, Index: 0, MsgID: sent.MessageID},
	}
	b.sessions.Set(sess)
	b.showSearchResult(sess, chatID)
}

// showSearchResult перерисовывает карточку текущего результата в анкерном
// сообщении выдачи.
func (b *Bot) showSearchResult(sess *dialog.Session, chatID int64) {
	f := sess.Search
	text := fmt.Sprintf("🔍 <b>Результат %d из %d:</b>\n%s",
		f.Index+1, len(f.Results), itemCard(f.Current()))
	b.editHTML(chatID, f.MsgID, text, searchKeyboard())
}

var fieldPrompts = map[stock.Field]string{
	stock.FieldQuantity:    "📏 Новое количество на складе:",
	stock.FieldReserve:     "🔒 Сколько забронировать/снять? (например, 20 или -20):",
	stock.FieldName:        "📛 Новое название товара:",
	stock.FieldPrice:       "💰 Новая цена (например, 150.50):",
	stock.FieldDealerPrice: "🏷 Новая дилерская цена (например, 120.00):",
	stock.FieldReserve2:    "🔒 Сколько забронировать/снять для Бронь2? (например, 20 или -20):",
}

func (b *Bot) promptFieldEdit(sess *dialog.Session, chatID int64, msgID int, f stock.Field) {
	prompt, ok := fieldPrompts[f]
	if !ok {
		return
	}
	sess.Search.EditField = f
	m := sess.Search.Current()
	b.editHTML(chatID, msgID,
		fmt.Sprintf("Текущие данные:\n%s\n%s", itemCard(m), prompt), backKeyboard())
}

// applyFieldEdit применяет введённое значение к полю карточки. Отказ
// валидации оставляет состояние как есть и переспрашивает то же поле.
func (b *Bot) applyFieldEdit(sess *dialog.Session, input string) {
	chatID := sess.ChatID
	f := sess.Search
	m := f.Current()

	err := b.stock.UpdateField(m, f.EditField, input)
	var ve *stock.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		b.replyHTML(chatID, "⚠️ "+ve.Msg, backKeyboard())
		return
	case errors.Is(err, stock.ErrNoWarehouse):
		b.replyHTML(chatID, "❌ Лист «СКЛАД» не найден. Проверь настройки!", backKeyboard())
		return
	default:
		metrics.StoreErrorsTotal.Inc()
		b.log.Error("field edit failed", "field", string(f.EditField), "err", err)
		b.replyHTML(chatID, "❌ Ошибка: не удалось сохранить. Попробуй снова!", backKeyboard())
		return
	}

	// карточка устарела — перечитываем строку
	fresh, err := b.stock.Get(m.Row)
	if err == nil {
		f.Results[f.Index] = fresh
	}
	f.EditField = ""
	b.showSearchResult(sess, chatID)
}

/*** Добавление товара в заказ ***/

func (b *Bot) startAddToOrder(sess *dialog.Session, chatID int64, msgID int) {
	orders, err := b.ledger.ListOrders()
	if err != nil {
		metrics.StoreErrorsTotal.Inc()
		b.log.Error("list orders failed", "err", err)
		b.editHTML(chatID, msgID, "❌ Ошибка: не удалось загрузить заказы. Попробуй снова!", backKeyboard())
		return
	}
	if len(orders) == 0 {
		b.editHTML(chatID, msgID, "🛒 Сначала создай заказ в меню «Создать заказ»!", backKeyboard())
		return
	}
	f := sess.Search
	f.SelectingOrder = true
	f.OrderPage = 0
	text := fmt.Sprintf("🛒 Добавляем товар:\n%s\nКуда положим?", itemCard(f.Current()))
	b.editHTML(chatID, msgID, text, orderListKeyboard(orders, 0, "add"))
}

func (b *Bot) pickOrderForAdd(sess *dialog.Session, chatID int64, msgID int, name string) {
	f := sess.Search
	f.SelectedOrder = name
	f.SelectingOrder = false
	b.pickedOrderPrompt(sess, chatID, msgID)
}

// pickedOrderPrompt — экран выбора цены для уже выбранного заказа.
func (b *Bot) pickedOrderPrompt(sess *dialog.Session, chatID int64, msgID int) {
	f := sess.Search
	m := f.Current()
	onHand := b.liveQuantity(m.Name())
	text := fmt.Sprintf("🛒 Товар:\n%s\nВыбран заказ: %s\nНа складе: %d шт.\nПо какой цене добавить?",
		itemCard(m), f.SelectedOrder, onHand)
	b.editHTML(chatID, msgID, text, priceKindKeyboard())
}

func (b *Bot) pickPriceKind(sess *dialog.Session, chatID int64, msgID int, dealer bool) {
	f := sess.Search
	f.DealerPrice = dealer
	f.AwaitQty = true
	m := f.Current()
	onHand := b.liveQuantity(m.Name())
	text := fmt.Sprintf("🛒 Товар:\n%s\nВыбран заказ: %s\nНа складе: %d шт.\nСколько штук добавить?",
		itemCard(m), f.SelectedOrder, onHand)
	b.editHTML(chatID, msgID, text, backKeyboard())
}

// applyAddQuantity — последний шаг цепочки «в заказ»: количество
// проверяется против живого остатка, позиция вставляется перед итоговой
// строкой, итог блока пересчитывается.
func (b *Bot) applyAddQuantity(sess *dialog.Session, input string) {
	chatID := sess.ChatID
	f := sess.Search
	m := f.Current()

	qty, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		b.replyHTML(chatID, "❌ Введи число!", backKeyboard())
		return
	}
	if qty <= 0 {
		b.replyHTML(chatID, "⚠️ Количество должно быть больше 0!", backKeyboard())
		return
	}
	onHand, err := b.stock.CurrentQuantity(m.Name())
	if err != nil && !errors.Is(err, stock.ErrNotFound) {
		b.storeErrorReply(chatID, "check stock", err)
		return
	}
	if qty > onHand {
		b.replyHTML(chatID, fmt.Sprintf("⚠️ На складе только %d шт. Введи меньшее количество!", onHand), backKeyboard())
		return
	}
	price, err := stock.UnitPrice(m, f.DealerPrice)
	if err != nil {
		b.replyHTML(chatID, "❌ У товара некорректная цена, поправь карточку!", backKeyboard())
		return
	}

	err = b.ledger.AppendItem(f.SelectedOrder, m.Name(), qty, price)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrNotFound):
		b.replyHTML(chatID, fmt.Sprintf("❌ Заказ «%s» пропал! Создай новый.", f.SelectedOrder), backKeyboard())
		return
	case errors.Is(err, ledger.ErrCorrupted):
		b.replyHTML(chatID, fmt.Sprintf("❌ Заказ «%s» повреждён. Поправь лист вручную.", f.SelectedOrder), backKeyboard())
		return
	default:
		b.storeErrorReply(chatID, "append item", err)
		return
	}

	f.AwaitQty = false
	f.SelectedOrder = ""
	f.DealerPrice = false
	b.showSearchResult(sess, chatID)
}

// liveQuantity — остаток для подсказок на экранах; ошибки здесь не
// блокируют переход, проверка всё равно повторится при вводе.
func (b *Bot) liveQuantity(name string) int {
	onHand, err := b.stock.CurrentQuantity(name)
	if err != nil && !errors.Is(err, stock.ErrNotFound) {
		b.log.Error("stock quantity failed", "item", name, "err", err)
	}
	return onHand
}

func (b *Bot) storeErrorReply(chatID int64, op string, err error) {
	metrics.StoreErrorsTotal.Inc()
	b.log.Error(op+" failed", "err", err)
	b.replyHTML(chatID, "❌ Ошибка: "+err.Error()+". Попробуй снова!", backKeyboard())
}
