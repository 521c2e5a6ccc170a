package service

import (
	"fmt"
	"strings"
	"time"

	"signal_hub/internal/models"
)

// wireFrame — кадр фида: одна row-level мутация таблицы сигналов.
type wireFrame struct {
	Type      string   `json:"type"`
	Table     string   `json:"table"`
	Record    *wireRow `json:"record"`
	OldRecord *wireRow `json:"old_record"`
}

// wireRow — сырая строка из фида. Поля с null в базе в кадре отсутствуют,
// регистр side не гарантирован, поэтому нормализуем всё здесь, на границе, и
// дальше редьюсер видит только models.Signal.
type wireRow struct {
	TradeID    string   `json:"trade_id"`
	Instrument string   `json:"instrument"`
	Side       string   `json:"side"`
	EntryTime  string   `json:"entry_time"`
	ExitTime   *string  `json:"exit_time"`
	EntryPrice *float64 `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
	MFE        *float64 `json:"mfe"`
	MAE        *float64 `json:"mae"`
}

func normalizeRow(w wireRow) (models.Signal, error) {
	sig := models.Signal{
		TradeID:    strings.TrimSpace(w.TradeID),
		Instrument: strings.TrimSpace(w.Instrument),
		EntryPrice: w.EntryPrice,
		ExitPrice:  w.ExitPrice,
		StopLoss:   w.StopLoss,
		TakeProfit: w.TakeProfit,
		MFE:        w.MFE,
		MAE:        w.MAE,
	}

	// пустой side оставляем пустым: merge в редьюсере возьмёт прежнее значение
	if w.Side != "" {
		sig.Side = models.NormalizeSide(w.Side)
	}

	if w.EntryTime != "" {
		t, err := parseTime(w.EntryTime)
		if err != nil {
			return models.Signal{}, fmt.Errorf("entry_time: %w", err)
		}
		sig.EntryTime = t
	}
	if w.ExitTime != nil && *w.ExitTime != "" {
		t, err := parseTime(*w.ExitTime)
		if err != nil {
			return models.Signal{}, fmt.Errorf("exit_time: %w", err)
		}
		sig.ExitTime = &t
	}

	if !sig.Valid() {
		return models.Signal{}, fmt.Errorf("row missing trade_id/instrument/entry_time")
	}
	return sig, nil
}

func normalizeFrame(f wireFrame) (models.ChangeEvent, error) {
	var kind models.EventKind
	switch strings.ToUpper(f.Type) {
	case "INSERT":
		kind = models.EventInsert
	case "UPDATE":
		kind = models.EventUpdate
	case "DELETE":
		kind = models.EventDelete
	default:
		return models.ChangeEvent{}, fmt.Errorf("unknown frame type %q", f.Type)
	}

	row := f.Record
	if kind == models.EventDelete && row == nil {
		// на delete приходит только old_record
		row = f.OldRecord
	}
	if row == nil {
		return models.ChangeEvent{}, fmt.Errorf("frame %s without record", kind)
	}

	sig, err := normalizeRow(*row)
	if err != nil {
		return models.ChangeEvent{}, err
	}
	return models.ChangeEvent{Kind: kind, Row: sig}, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05Z07:00"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", raw)
}
