package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vkozyrev/sklad-bot/internal/dialog"
	"github.com/vkozyrev/sklad-bot/internal/domain/ledger"
	"github.com/vkozyrev/sklad-bot/internal/domain/stock"
	"github.com/vkozyrev/sklad-bot/internal/infra/metrics"
)

// tgClient — срез API Telegram, который использует движок. *tgbotapi.BotAPI
// подходит как есть.
type tgClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// Bot — движок диалогов: по сессии пользователя и входящему событию
// выбирает переход, дёргает модель заказов/склад и рендерит следующий
// экран. Апдейты обрабатываются последовательно, один до конца — это
// единственная сериализация многошаговых мутаций книги.
type Bot struct {
	api      tgClient
	log      *slog.Logger
	sessions *dialog.Store
	ledger   *ledger.Ledger
	stock    *stock.Repo
}

func New(api tgClient, log *slog.Logger,
	sessions *dialog.Store, ledgerModel *ledger.Ledger, stockRepo *stock.Repo) *Bot {

	return &Bot{api: api, log: log, sessions: sessions, ledger: ledgerModel, stock: stockRepo}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	b.setCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				metrics.UpdatesTotal.WithLabelValues("message").Inc()
				b.onMessage(upd.Message)
			} else if upd.CallbackQuery != nil {
				metrics.UpdatesTotal.WithLabelValues("callback").Inc()
				b.onCallback(upd.CallbackQuery)
			}
			metrics.ActiveSessions.Set(float64(b.sessions.Len()))
		}
	}
}

func (b *Bot) setCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Запустить бота"},
		tgbotapi.BotCommand{Command: "search", Description: "Найти товар"},
	)
	if _, err := b.api.Request(cmds); err != nil {
		b.log.Error("set commands failed", "err", err)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// editHTML перерисовывает сообщение на месте. «message is not modified» —
// ожидаемый исход повторного рендера того же состояния, не ошибка.
func (b *Bot) editHTML(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.log.Error("edit failed", "err", err)
	}
}

func (b *Bot) replyHTML(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	m.ReplyMarkup = kb
	b.send(m)
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

const menuGreeting = "🏠 Ты вернулся в главное меню! Что дальше? 😊"

// toMenu завершает диалог и возвращает главный экран на месте анкерного
// сообщения.
func (b *Bot) toMenu(chatID int64, msgID int) {
	b.sessions.Delete(chatID)
	b.editHTML(chatID, msgID, menuGreeting, mainMenuKeyboard())
}
