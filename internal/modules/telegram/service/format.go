package service

import (
	"strconv"
	"time"

	"signal_hub/internal/models"
)

// FormatIntent — текст уведомления об открытии/закрытии. Форматирование без
// состояния: дубль интента даст дубль текста, но ничего не сломает.
func FormatIntent(it models.NotificationIntent) string {
	switch it.Kind {
	case models.IntentOpened:
		return "🔔 " + it.Instrument + ": OPEN " + string(it.Side) + " @ " + fmtPrice(it.Price)
	case models.IntentClosed:
		return "✅ " + it.Instrument + ": CLOSED " + string(it.Side) + " @ " + fmtPrice(it.Price)
	}
	return ""
}

func FormatSignal(s models.Signal) string {
	out := s.Instrument + " " + string(s.Side) + " @ " + fmtPrice(s.EntryPrice)
	if s.StopLoss != nil || s.TakeProfit != nil {
		out += " | SL=" + fmtPrice(s.StopLoss) + " TP=" + fmtPrice(s.TakeProfit)
	}
	if s.Closed() {
		out += " | closed " + s.ExitTime.UTC().Format(time.RFC3339) + " @ " + fmtPrice(s.ExitPrice)
	}
	return out
}

func fmtPrice(p *float64) string {
	if p == nil {
		return "—"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
