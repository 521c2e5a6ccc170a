package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"signal_hub/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestFormatIntent(t *testing.T) {
	got := FormatIntent(models.NotificationIntent{
		Kind:       models.IntentOpened,
		Instrument: "EURUSD",
		Side:       models.SideLong,
		Price:      fp(1.085),
	})
	require.Equal(t, "🔔 EURUSD: OPEN LONG @ 1.085", got)

	got = FormatIntent(models.NotificationIntent{
		Kind:       models.IntentClosed,
		Instrument: "NQ",
		Side:       models.SideShort,
		Price:      fp(18250),
	})
	require.Equal(t, "✅ NQ: CLOSED SHORT @ 18250", got)
}

func TestFormatIntent_NilPrice(t *testing.T) {
	got := FormatIntent(models.NotificationIntent{
		Kind:       models.IntentOpened,
		Instrument: "GBPUSD",
		Side:       models.SideShort,
	})
	require.Equal(t, "🔔 GBPUSD: OPEN SHORT @ —", got)
}

func TestFormatSignal(t *testing.T) {
	exit := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	s := models.Signal{
		TradeID:    "t1",
		Instrument: "EURUSD",
		Side:       models.SideLong,
		EntryTime:  time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		EntryPrice: fp(1.08),
		StopLoss:   fp(1.075),
		TakeProfit: fp(1.09),
	}
	require.Equal(t, "EURUSD LONG @ 1.08 | SL=1.075 TP=1.09", FormatSignal(s))

	s.ExitTime = &exit
	s.ExitPrice = fp(1.0825)
	require.Equal(t,
		"EURUSD LONG @ 1.08 | SL=1.075 TP=1.09 | closed 2026-03-02T14:00:00Z @ 1.0825",
		FormatSignal(s))
}

func TestFormatSignal_Bare(t *testing.T) {
	s := models.Signal{
		TradeID:    "t2",
		Instrument: "NQ",
		Side:       models.SideShort,
		EntryTime:  time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
	require.Equal(t, "NQ SHORT @ —", FormatSignal(s))
}
