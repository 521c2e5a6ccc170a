package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"signal_hub/internal/models"
)

func strp(s string) *string { return &s }

func fp(v float64) *float64 { return &v }

func validRow() wireRow {
	return wireRow{
		TradeID:    "t1",
		Instrument: "EURUSD",
		Side:       "buy",
		EntryTime:  "2026-03-02T12:00:00Z",
		EntryPrice: fp(1.08),
	}
}

func TestNormalizeRow_SideSynonyms(t *testing.T) {
	cases := map[string]models.Side{
		"BUY":   models.SideLong,
		"buy":   models.SideLong,
		"Long":  models.SideLong,
		"LONG":  models.SideLong,
		"SELL":  models.SideShort,
		"short": models.SideShort,
	}
	for raw, want := range cases {
		row := validRow()
		row.Side = raw
		sig, err := normalizeRow(row)
		require.NoError(t, err, raw)
		require.Equal(t, want, sig.Side, raw)
	}
}

func TestNormalizeRow_EmptySideStaysEmpty(t *testing.T) {
	// частичный апдейт без side: merge в редьюсере должен взять прежнее
	row := validRow()
	row.Side = ""
	sig, err := normalizeRow(row)
	require.NoError(t, err)
	require.Equal(t, models.Side(""), sig.Side)
}

func TestNormalizeRow_MissingKeyFields(t *testing.T) {
	row := validRow()
	row.TradeID = "  "
	_, err := normalizeRow(row)
	require.Error(t, err)

	row = validRow()
	row.EntryTime = ""
	_, err = normalizeRow(row)
	require.Error(t, err)

	row = validRow()
	row.EntryTime = "not-a-time"
	_, err = normalizeRow(row)
	require.Error(t, err)
}

func TestNormalizeRow_TimestampsToUTC(t *testing.T) {
	row := validRow()
	row.EntryTime = "2026-03-02T15:00:00+03:00"
	row.ExitTime = strp("2026-03-02 16:30:00+03:00")

	sig, err := normalizeRow(row)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), sig.EntryTime)
	require.NotNil(t, sig.ExitTime)
	require.Equal(t, time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC), *sig.ExitTime)
	require.Equal(t, time.UTC, sig.EntryTime.Location())
}

func TestNormalizeFrame_DeleteFallsBackToOldRecord(t *testing.T) {
	old := validRow()
	ev, err := normalizeFrame(wireFrame{Type: "DELETE", OldRecord: &old})
	require.NoError(t, err)
	require.Equal(t, models.EventDelete, ev.Kind)
	require.Equal(t, "t1", ev.Row.TradeID)
}

func TestNormalizeFrame_TypeMapping(t *testing.T) {
	row := validRow()

	ev, err := normalizeFrame(wireFrame{Type: "insert", Record: &row})
	require.NoError(t, err)
	require.Equal(t, models.EventInsert, ev.Kind)

	ev, err = normalizeFrame(wireFrame{Type: "UPDATE", Record: &row})
	require.NoError(t, err)
	require.Equal(t, models.EventUpdate, ev.Kind)

	_, err = normalizeFrame(wireFrame{Type: "TRUNCATE", Record: &row})
	require.Error(t, err)

	_, err = normalizeFrame(wireFrame{Type: "INSERT"})
	require.Error(t, err) // нет record
}
