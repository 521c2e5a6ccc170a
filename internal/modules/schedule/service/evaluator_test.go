package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 2026-03-04 — среда
func wed(hour, minute int) time.Time {
	return time.Date(2026, 3, 4, hour, minute, 0, 0, time.UTC)
}

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	table, err := NewTable("")
	require.NoError(t, err)
	return NewEvaluator(table)
}

func TestMidnightSpanningSessionWithBreak(t *testing.T) {
	// NQ: open 23, close 22, дни 0-5, перерыв 22-23
	e := newTestEvaluator(t)

	require.True(t, e.IsActive("NQ", wed(23, 30)))
	require.True(t, e.IsActive("NQ", wed(1, 0)))
	require.False(t, e.IsActive("NQ", wed(22, 30))) // перерыв

	next := e.NextActiveStart("NQ", wed(22, 30))
	require.NotNil(t, next)
	require.Equal(t, wed(23, 0), *next)
}

func TestCloseHourItselfNotActive(t *testing.T) {
	e := NewEvaluator(mustTable(t, "SESS", MarketSchedule{
		Label: "Test", OpenHour: 9, CloseHour: 17, DayStart: 1, DayEnd: 5,
	}))

	require.True(t, e.IsActive("SESS", wed(9, 0)))   // >= open
	require.False(t, e.IsActive("SESS", wed(17, 0))) // < close строго
	require.True(t, e.IsActive("SESS", wed(16, 59)))
}

func TestFailOpenOnUnknownSymbol(t *testing.T) {
	e := newTestEvaluator(t)

	for _, at := range []time.Time{wed(3, 0), wed(12, 0), wed(23, 59)} {
		require.True(t, e.IsActive("ZZZUNKNOWN", at))
	}
	require.Nil(t, e.NextActiveStart("ZZZUNKNOWN", wed(12, 0)))
}

func TestWeekdayGate(t *testing.T) {
	e := newTestEvaluator(t)

	// EURUSD: 24/5, дни 1-5
	sunday := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())
	require.False(t, e.IsActive("EURUSD", sunday))

	saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())
	next := e.NextActiveStart("EURUSD", saturday)
	require.NotNil(t, next)
	require.Equal(t, time.Monday, next.Weekday())
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), *next)
}

func TestFractionalHourDecomposition(t *testing.T) {
	e := NewEvaluator(mustTable(t, "FRAC", MarketSchedule{
		Label: "Frac", OpenHour: 9.5, CloseHour: 19.75, DayStart: 1, DayEnd: 5,
	}))

	// 19.75 => 19:45, не 19:75 и не 20:15
	require.True(t, e.IsActive("FRAC", wed(19, 44)))
	require.False(t, e.IsActive("FRAC", wed(19, 45)))
	require.Contains(t, e.Describe("FRAC"), "19:45")
	require.Contains(t, e.Describe("FRAC"), "09:30")

	next := e.NextActiveStart("FRAC", wed(8, 0))
	require.NotNil(t, next)
	require.Equal(t, wed(9, 30), *next)
}

func TestAlwaysActiveReturnsNilNextStart(t *testing.T) {
	e := newTestEvaluator(t)

	// BTCUSD резолвится по корню BTC в 24/7
	sunday := time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)
	require.True(t, e.IsActive("BTCUSD", sunday))
	require.Nil(t, e.NextActiveStart("BTCUSD", sunday))
}

func TestNextStartWhenAlreadyActive(t *testing.T) {
	e := newTestEvaluator(t)
	// активная сессия: не падаем, возвращаем nil
	require.Nil(t, e.NextActiveStart("NQ", wed(23, 30)))
}

func TestPastCloseAdvancesToNextTradingDay(t *testing.T) {
	e := NewEvaluator(mustTable(t, "SESS", MarketSchedule{
		Label: "Test", OpenHour: 7, CloseHour: 21, DayStart: 1, DayEnd: 5,
	}))

	// вторник после закрытия -> среда в открытие
	tue := time.Date(2026, 3, 3, 22, 0, 0, 0, time.UTC)
	next := e.NextActiveStart("SESS", tue)
	require.NotNil(t, next)
	require.Equal(t, time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC), *next)

	// пятница после закрытия -> понедельник
	fri := time.Date(2026, 3, 6, 21, 30, 0, 0, time.UTC)
	next = e.NextActiveStart("SESS", fri)
	require.NotNil(t, next)
	require.Equal(t, time.Date(2026, 3, 9, 7, 0, 0, 0, time.UTC), *next)
}

func TestBreakSpanningMidnight(t *testing.T) {
	e := NewEvaluator(mustTable(t, "SPAN", MarketSchedule{
		Label: "Span", OpenHour: 22, CloseHour: 21, DayStart: 0, DayEnd: 6,
		HasBreak: true, BreakStart: 23.5, BreakEnd: 0.5,
	}))

	require.False(t, e.IsActive("SPAN", wed(23, 45)))
	require.False(t, e.IsActive("SPAN", wed(0, 15)))
	require.True(t, e.IsActive("SPAN", wed(1, 0)))

	// поздняя половина перерыва: конец уже завтра
	next := e.NextActiveStart("SPAN", wed(23, 45))
	require.NotNil(t, next)
	require.Equal(t, time.Date(2026, 3, 5, 0, 30, 0, 0, time.UTC), *next)

	// ранняя половина: конец сегодня
	next = e.NextActiveStart("SPAN", wed(0, 15))
	require.NotNil(t, next)
	require.Equal(t, wed(0, 30), *next)
}

func TestBeforeOpenOnTradingDay(t *testing.T) {
	e := newTestEvaluator(t)

	// NQ в 22:30 в перерыве; в 21:00 идёт сессия (до close=22)
	require.True(t, e.IsActive("NQ", wed(21, 0)))

	// не пересекающая полночь сессия до открытия
	e2 := NewEvaluator(mustTable(t, "SESS", MarketSchedule{
		Label: "Test", OpenHour: 9, CloseHour: 17, DayStart: 1, DayEnd: 5,
	}))
	next := e2.NextActiveStart("SESS", wed(6, 0))
	require.NotNil(t, next)
	require.Equal(t, wed(9, 0), *next)
}

func mustTable(t *testing.T, symbol string, s MarketSchedule) *Table {
	t.Helper()
	table, err := NewTable("")
	require.NoError(t, err)
	table.add(symbol, s)
	return table
}
