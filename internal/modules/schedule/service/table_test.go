package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"signal_hub/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestLookupExactMatch(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)

	s := table.Lookup("EURUSD")
	require.NotNil(t, s)
	require.Equal(t, "Forex", s.Label)
}

func TestLookupRootPrefix(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)

	// контрактный суффикс: NQZ25 -> корень NQ
	s := table.Lookup("NQZ25")
	require.NotNil(t, s)
	require.Equal(t, "CME Futures", s.Label)

	s = table.Lookup("ESH2026")
	require.NotNil(t, s)
	require.Equal(t, "CME Futures", s.Label)
}

func TestLookupLongestPrefixWins(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)
	table.add("SILVER", MarketSchedule{Label: "Spot Silver", OpenHour: 1, CloseHour: 23, DayStart: 1, DayEnd: 5})

	// SILVERX: и SI, и SILVER — длинный корень должен победить
	s := table.Lookup("SILVERX")
	require.NotNil(t, s)
	require.Equal(t, "Spot Silver", s.Label)
}

func TestLookupCurrencyHeuristic(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)

	// нет ни точного, ни префиксного — но содержит USD
	s := table.Lookup("USDTRY")
	require.NotNil(t, s)
	require.Equal(t, "Forex", s.Label)
}

func TestLookupUnknownReturnsNil(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)

	require.Nil(t, table.Lookup("ABC123"))
	require.Nil(t, table.Lookup(""))
}

func TestLookupCaseInsensitive(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)

	require.NotNil(t, table.Lookup("eurusd"))
	require.NotNil(t, table.Lookup(" nqz25 "))
}

func TestOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "schedules.yaml")
	payload := []byte(`schedules:
  - symbol: DAX
    label: Eurex DAX
    open: 7
    close: 21
    day_start: 1
    day_end: 5
  - symbol: NIKKEI
    open: 0
    close: 6
    day_start: 1
    day_end: 5
    break_start: 2.5
    break_end: 3.5
`)
	require.NoError(t, os.WriteFile(file, payload, 0o644))

	table, err := NewTable(file)
	require.NoError(t, err)

	s := table.Lookup("DAX")
	require.NotNil(t, s)
	require.Equal(t, "Eurex DAX", s.Label)
	require.Equal(t, 7.0, s.OpenHour)
	require.False(t, s.HasBreak)

	s = table.Lookup("NIKKEI")
	require.NotNil(t, s)
	require.True(t, s.HasBreak)
	require.Equal(t, 2.5, s.BreakStart)
}

func TestNormalizeSwapsReversedDayRange(t *testing.T) {
	table, err := NewTable("")
	require.NoError(t, err)

	// диапазон через границу недели не поддерживается: молча не угадываем
	table.add("REV", MarketSchedule{Label: "Rev", OpenHour: 9, CloseHour: 17, DayStart: 5, DayEnd: 1})
	s := table.Lookup("REV")
	require.NotNil(t, s)
	require.Equal(t, 1, s.DayStart)
	require.Equal(t, 5, s.DayEnd)
}
