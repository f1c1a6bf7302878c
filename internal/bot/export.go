package bot

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
	"github.com/vkozyrev/sklad-bot/internal/export"
	"github.com/vkozyrev/sklad-bot/internal/view"
)

// exportStock — выгрузка остатков: сообщения по буквам плюс xlsx-файл
// полного списка.
func (b *Bot) exportStock(chatID int64, msgID int) {
	b.editHTML(chatID, msgID, "⏳ Выгружаю остатки склада...",
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})

	remains, err := b.stock.Remains()
	if err != nil {
		if errors.Is(err, stock.ErrNoWarehouse) {
			b.replyHTML(chatID, "❌ Лист «СКЛАД» не найден. Проверь настройки!", mainMenuKeyboard())
			return
		}
		b.storeErrorReply(chatID, "read remains", err)
		return
	}
	if len(remains) == 0 {
		b.replyHTML(chatID, "📦 На складе нет товаров с остатками > 0!", mainMenuKeyboard())
		return
	}

	for _, g := range view.GroupRemains(remains) {
		m := tgbotapi.NewMessage(chatID, view.RemainsMessage(g))
		m.ParseMode = tgbotapi.ModeHTML
		b.send(m)
	}

	data, err := export.RemainsWorkbook(remains)
	if err != nil {
		b.storeErrorReply(chatID, "build remains workbook", err)
		return
	}
	caption := tgbotapi.NewMessage(chatID, "📄 <b>Полный список остатков на складе:</b>")
	caption.ParseMode = tgbotapi.ModeHTML
	b.send(caption)
	b.send(tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "stock_remains.xlsx",
		Bytes: data,
	}))
	b.replyHTML(chatID, menuGreeting, mainMenuKeyboard())
}

// completeOrder выгружает текущие строки блока в файл и завершает диалог.
// Сам блок остаётся в книге и в списке заказов — так ведёт себя исходный
// процесс; возможный пробел отмечен в DESIGN.md.
func (b *Bot) completeOrder(sess *dialog.Session, chatID int64, msgID int) {
	name := sess.Order.Name
	start, end, err := b.ledger.FindBlock(name)
	if err != nil {
		b.sessions.Delete(chatID)
		if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, ledger.ErrCorrupted) {
			b.editHTML(chatID, msgID, fmt.Sprintf("❌ Заказ «%s» не найден или повреждён.", name), mainMenuKeyboard())
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
	data, err := export.OrderWorkbook(block)
	if err != nil {
		b.storeErrorEdit(chatID, msgID, "build order workbook", err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  name + ".xlsx",
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📄 Заказ «%s» завершён! Вот твой файл.", name)
	b.send(doc)

	b.sessions.Delete(chatID)
	b.replyHTML(chatID, menuGreeting, mainMenuKeyboard())
}
