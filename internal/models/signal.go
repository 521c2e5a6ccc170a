package models

import (
	"strings"
	"time"
)

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// NormalizeSide приводит сырые значения фида ("BUY"/"Long"/"buy"...) к Side.
// Всё, что не похоже на лонг, считаем шортом.
func NormalizeSide(raw string) Side {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "LONG":
		return SideLong
	default:
		return SideShort
	}
}

// Signal — одна сделка/идея по инструменту. Открыта, пока ExitTime == nil.
type Signal struct {
	TradeID    string
	Instrument string
	Side       Side

	EntryTime time.Time
	ExitTime  *time.Time

	EntryPrice *float64
	ExitPrice  *float64
	StopLoss   *float64
	TakeProfit *float64

	// MFE/MAE считает бэкенд аналитики, мы их только проносим
	MFE *float64
	MAE *float64
}

func (s Signal) Closed() bool {
	return s.ExitTime != nil
}

// Valid — минимальный набор полей, без которого строку нельзя применять к стейту.
func (s Signal) Valid() bool {
	return s.TradeID != "" && s.Instrument != "" && !s.EntryTime.IsZero()
}
