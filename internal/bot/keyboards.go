package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/view"
)

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Создать заказ", "menu:new"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Выгрузить остатки", "menu:export"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Редактировать заказ", "menu:edit"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Найти товар", "menu:search"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Инфо", "menu:info"),
		),
	)
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Вернуться назад", "nav:back"),
		),
	)
}

func searchKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Редактировать", "search:edit"),
			tgbotapi.NewInlineKeyboardButtonData("🛒 В заказ", "search:add"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Далее", "search:next"),
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "search:prev"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Найти товар", "menu:search"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 В меню", "nav:menu"),
		),
	)
}

func editFieldKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📛 Название", "fld:name"),
			tgbotapi.NewInlineKeyboardButtonData("📦 Количество", "fld:quantity"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 Бронь", "fld:reserve"),
			tgbotapi.NewInlineKeyboardButtonData("💰 Цена", "fld:price"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏷 Дилерская цена", "fld:dealer_price"),
			tgbotapi.NewInlineKeyboardButtonData("🔒 Бронь2", "fld:reserve2"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"),
		),
	)
}

func priceKindKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Обычная цена", "price:regular"),
			tgbotapi.NewInlineKeyboardButtonData("🏷 Дилерская цена", "price:dealer"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"),
		),
	)
}

func orderEditKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить количество", "oe:qty"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить товар", "oe:delitem"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить заказ", "oe:delorder"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Завершить заказ", "oe:complete"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Вернуться назад", "nav:back"),
		),
	)
}

// orderListKeyboard — страница списка заказов, по две кнопки в ряд.
// mode ("add"|"edit") протаскивается через кнопки пагинации, чтобы при
// листании восстановить текст экрана.
func orderListKeyboard(orders []string, page int, mode string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	from, to := view.PageBounds(len(orders), view.PageSizeOrders, page)
	subset := orders[from:to]
	if len(subset) == 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Нет заказов", "noop"),
		))
		rows = append(rows, backKeyboard().InlineKeyboard[0])
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	for i := 0; i < len(subset); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("📋 "+subset[i], "ord:pick:"+subset[i]),
		}
		if i+1 < len(subset) {
			row = append(row,
				tgbotapi.NewInlineKeyboardButtonData("📋 "+subset[i+1], "ord:pick:"+subset[i+1]))
		}
		rows = append(rows, row)
	}

	if len(orders) > view.PageSizeOrders {
		nav := []tgbotapi.InlineKeyboardButton{}
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"⬅️ Назад", fmt.Sprintf("ord:page:%d:%s", page-1, mode)))
		}
		if to < len(orders) {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"Вперёд ➡️", fmt.Sprintf("ord:page:%d:%s", page+1, mode)))
		}
		if len(nav) > 0 {
			rows = append(rows, nav)
		}
	}
	rows = append(rows, backKeyboard().InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// itemPickKeyboard — страница позиций блока, по одной кнопке в ряд.
func itemPickKeyboard(items []ledger.ItemRow, page int, intent string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	from, to := view.PageBounds(len(items), view.PageSizeItems, page)
	subset := items[from:to]
	if len(subset) == 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Нет товаров", "noop"),
		))
		rows = append(rows, backKeyboard().InlineKeyboard[0])
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	for i, it := range subset {
		idx := from + i
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", idx+1, it.Name),
				fmt.Sprintf("item:pick:%d:%s", idx, intent)),
		))
	}

	if len(items) > view.PageSizeItems {
		nav := []tgbotapi.InlineKeyboardButton{}
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"⬅️ Назад", fmt.Sprintf("item:page:%d:%s", page-1, intent)))
		}
		if to < len(items) {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
				"Вперёд ➡️", fmt.Sprintf("item:page:%d:%s", page+1, intent)))
		}
		if len(nav) > 0 {
			rows = append(rows, nav)
		}
	}
	rows = append(rows, backKeyboard().InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
