package view

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
)

// Чистые проекции доменных данных в текст сообщений: без состояния и
// без побочных эффектов — один и тот же вход даёт байт-в-байт тот же выход.

// OrderTable рендерит снимок блока заказа фиксированной таблицей в <code>.
func OrderTable(block [][]string) string {
	var b strings.Builder
	b.WriteString("<b>📋 Заказ:</b>\n<code>")
	b.WriteString("№  Товар            Кол-во  Цена      Сумма\n")
	b.WriteString("═════════════════════════════════════════════\n")
	for i, it := range ledger.Items(block) {
		qty := fmt.Sprintf("%6s", it.Qty)
		price, _ := ledger.ParseAmount(it.Price)
		sum, _ := ledger.ParseAmount(it.Sum)
		fmt.Fprintf(&b, "%2d %s %s  %8s %8s\n",
			i+1,
			padName(it.Name, 15),
			qty,
			fmt.Sprintf("%.2f ₽", price),
			fmt.Sprintf("%.2f ₽", sum),
		)
	}
	b.WriteString("═════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "%33s %.2f ₽\n", "Итого:", ledger.BlockTotal(block))
	b.WriteString("</code>")
	return b.String()
}

// padName обрезает длинное название с многоточием или добивает короткое
// пробелами до width (по рунам: названия кириллические).
func padName(name string, width int) string {
	r := []rune(name)
	if len(r) > width-3 {
		return string(r[:width-3]) + "..."
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}

// ItemInfo — карточка товара со склада.
func ItemInfo(rowNum int, cells []string) string {
	return fmt.Sprintf(
		"📦 Товар: %s\n"+
			"📏 Количество: %s\n"+
			"🔒 Бронь: %s\n"+
			"💰 Цена: %s\n"+
			"🔒 Бронь2: %s\n"+
			"🏷 Дилерская цена: %s\n"+
			"📍 Строка: %d",
		cells[1], cells[2], cells[3], cells[4], cells[5], cells[6], rowNum)
}

// Group — остатки на одну букву алфавита.
type Group struct {
	Letter string
	Items  []stock.Remain
}

// GroupRemains группирует остатки по первой букве названия (в верхнем
// регистре), группы — по алфавиту.
func GroupRemains(items []stock.Remain) []Group {
	byLetter := map[string][]stock.Remain{}
	for _, it := range items {
		r := []rune(it.Name)
		if len(r) == 0 {
			continue
		}
		letter := string(unicode.ToUpper(r[0]))
		byLetter[letter] = append(byLetter[letter], it)
	}
	letters := make([]string, 0, len(byLetter))
	for l := range byLetter {
		letters = append(letters, l)
	}
	sort.Strings(letters)

	out := make([]Group, 0, len(letters))
	for _, l := range letters {
		out = append(out, Group{Letter: l, Items: byLetter[l]})
	}
	return out
}

// RemainsMessage — текст сообщения для одной буквенной группы.
func RemainsMessage(g Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 <b>Товары на букву «%s»:</b>\n", g.Letter)
	for _, it := range g.Items {
		fmt.Fprintf(&b, "📋 %s\n📏 Количество: %d\n\n", it.Name, it.Qty)
	}
	return strings.TrimSpace(b.String())
}
