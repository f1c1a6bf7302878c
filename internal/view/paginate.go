package view

// Размеры страниц списков в клавиатурах.
const (
	PageSizeOrders = 8 // заказы, по 2 кнопки в ряд
	PageSizeItems  = 5 // позиции заказа, по 1 кнопке в ряд
)

// PageCount — число страниц для total элементов.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageBounds возвращает границы страницы [from, to) в исходном списке.
// Страница за пределами списка даёт пустой срез.
func PageBounds(total, size, page int) (from, to int) {
	if total <= 0 || size <= 0 || page < 0 {
		return 0, 0
	}
	from = page * size
	if from >= total {
		return 0, 0
	}
	to = from + size
	if to > total {
		to = total
	}
	return from, to
}

// ClampPage удерживает номер страницы в допустимых границах: навигация
// за край — no-op, не мутация.
func ClampPage(total, size, page int) int {
	if page < 0 {
		return 0
	}
	if last := PageCount(total, size) - 1; page > last && last >= 0 {
		return last
	}
	return page
}
