package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_hub/internal/models"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// SignalSource — витрина текущих сигналов для команды /signals.
type SignalSource interface {
	CurrentSignals() []models.Signal
}

// Telegram — пассивный нотифайер + одна команда /signals.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	src    SignalSource
}

func NewTelegram(token string, chatID int64, src SignalSource) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		src:    src,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// /signals — вывод текущей витрины
func (t *Telegram) handleSignals() {
	if t.src == nil {
		t.Send("❗️ Витрина сигналов недоступна")
		return
	}
	signals := t.src.CurrentSignals()
	if len(signals) == 0 {
		t.Send("📭 Активных сигналов нет")
		return
	}

	var b strings.Builder
	b.WriteString("📊 Текущие сигналы:\n")
	for _, s := range signals {
		b.WriteString("- " + FormatSignal(s) + "\n")
	}
	t.Send(b.String())
}

// Start: long-polling для команд.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message != nil && upd.Message.Chat != nil &&
					upd.Message.Chat.ID == t.chatID && upd.Message.IsCommand() {

					switch upd.Message.Command() {
					case "signals":
						go t.handleSignals()
					}
				}
			}
		}
	}()
	return nil
}

// Stdout — заглушка, всё логирует.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
