package models

type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
)

// ChangeEvent — одна row-level мутация из фида сигналов.
// Для DELETE в Row лежит удаляемая строка (матчится по TradeID/Instrument).
type ChangeEvent struct {
	Kind EventKind
	Row  Signal
}

type IntentKind string

const (
	IntentOpened IntentKind = "signal_opened"
	IntentClosed IntentKind = "signal_closed"
)

// NotificationIntent — намерение уведомить. Доставка (telegram/toast/почта)
// живёт в своих модулях, движок только решает "надо/не надо".
type NotificationIntent struct {
	Kind       IntentKind
	Instrument string
	Side       Side
	Price      *float64
}
