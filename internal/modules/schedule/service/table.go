package service

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"signal_hub/pkg/logger"
)

// MarketSchedule — недельная рекуррентная сессия, всё в UTC.
// OpenHour > CloseHour означает сессию через полночь; часы дробные
// (19.75 == 19:45). Дни включительно, 0=воскресенье..6=суббота.
// Записи read-only: эвалюатор их никогда не мутирует.
type MarketSchedule struct {
	Label     string
	OpenHour  float64
	CloseHour float64
	DayStart  int
	DayEnd    int

	HasBreak   bool
	BreakStart float64
	BreakEnd   float64
}

// forexSchedule — 24/5, сюда же попадают валютные пары по эвристике.
var forexSchedule = MarketSchedule{
	Label: "Forex", OpenHour: 0, CloseHour: 24, DayStart: 1, DayEnd: 5,
}

// cmeSchedule — фьючерсы CME: открытие 23:00 UTC, сервисный перерыв 22–23.
var cmeSchedule = MarketSchedule{
	Label: "CME Futures", OpenHour: 23, CloseHour: 22, DayStart: 0, DayEnd: 5,
	HasBreak: true, BreakStart: 22, BreakEnd: 23,
}

var cryptoSchedule = MarketSchedule{
	Label: "Crypto", OpenHour: 0, CloseHour: 24, DayStart: 0, DayEnd: 6,
}

type rootEntry struct {
	root  string
	sched MarketSchedule
}

// Table резолвит сырой тикер (включая контрактные суффиксы вида NQZ5) в
// расписание: точное совпадение -> самый длинный известный корень ->
// валютная эвристика -> nil (fail-open у вызывающего).
type Table struct {
	exact map[string]MarketSchedule
	roots []rootEntry
}

func NewTable(overrideFile string) (*Table, error) {
	t := &Table{exact: make(map[string]MarketSchedule)}

	for _, root := range []string{"NQ", "ES", "YM", "RTY", "CL", "GC", "SI", "NG", "HG", "ZB", "ZN"} {
		t.add(root, cmeSchedule)
	}
	for _, root := range []string{"BTC", "ETH", "SOL", "XRP"} {
		t.add(root, cryptoSchedule)
	}
	for _, pair := range []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "USDCHF", "NZDUSD", "EURJPY", "GBPJPY", "XAUUSD"} {
		t.add(pair, forexSchedule)
	}

	if overrideFile != "" {
		if err := t.loadOverrides(overrideFile); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(symbol string, s MarketSchedule) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return
	}
	s = normalize(symbol, s)
	t.exact[symbol] = s
	t.roots = append(t.roots, rootEntry{root: symbol, sched: s})
}

// Lookup возвращает nil, если расписание не найдено — вызывающий обязан
// трактовать это как "всегда открыто", чтобы не прятать живые сигналы.
func (t *Table) Lookup(symbol string) *MarketSchedule {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return nil
	}

	if s, ok := t.exact[sym]; ok {
		return &s
	}

	// самый длинный префикс среди известных корней: NQZ25 -> NQ
	var best *MarketSchedule
	bestLen := 0
	for i := range t.roots {
		r := t.roots[i]
		if len(r.root) > bestLen && strings.HasPrefix(sym, r.root) {
			s := r.sched
			best = &s
			bestLen = len(r.root)
		}
	}
	if best != nil {
		return best
	}

	for _, ccy := range []string{"USD", "EUR", "JPY", "GBP"} {
		if strings.Contains(sym, ccy) {
			s := forexSchedule
			return &s
		}
	}
	return nil
}

type overrideEntry struct {
	Symbol     string  `mapstructure:"symbol"`
	Label      string  `mapstructure:"label"`
	Open       float64 `mapstructure:"open"`
	Close      float64 `mapstructure:"close"`
	DayStart   int     `mapstructure:"day_start"`
	DayEnd     int     `mapstructure:"day_end"`
	BreakStart float64 `mapstructure:"break_start"`
	BreakEnd   float64 `mapstructure:"break_end"`
}

func (t *Table) loadOverrides(file string) error {
	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read schedule overrides")
	}

	var entries []overrideEntry
	if err := v.UnmarshalKey("schedules", &entries); err != nil {
		return errors.Wrap(err, "decode schedule overrides")
	}

	for _, e := range entries {
		if e.Symbol == "" {
			continue
		}
		label := e.Label
		if label == "" {
			label = e.Symbol
		}
		t.add(e.Symbol, MarketSchedule{
			Label:     label,
			OpenHour:  e.Open,
			CloseHour: e.Close,
			DayStart:  e.DayStart,
			DayEnd:    e.DayEnd,
			HasBreak:  e.BreakStart != e.BreakEnd,
			BreakStart: e.BreakStart,
			BreakEnd:   e.BreakEnd,
		})
	}
	logger.Info("schedule: loaded %d overrides from %s", len(entries), file)
	return nil
}

// normalize чинит заведомо кривые записи. Диапазон дней через границу недели
// (DayStart > DayEnd) моделью не поддерживается — меняем местами и ругаемся,
// вместо того чтобы молча угадывать семантику.
func normalize(symbol string, s MarketSchedule) MarketSchedule {
	clamp := func(h float64) float64 {
		if h < 0 {
			return 0
		}
		if h > 24 {
			return 24
		}
		return h
	}
	s.OpenHour = clamp(s.OpenHour)
	s.CloseHour = clamp(s.CloseHour)
	s.BreakStart = clamp(s.BreakStart)
	s.BreakEnd = clamp(s.BreakEnd)

	if s.DayStart < 0 {
		s.DayStart = 0
	}
	if s.DayEnd > 6 {
		s.DayEnd = 6
	}
	if s.DayStart > s.DayEnd {
		logger.Warn("schedule: %s has day_start > day_end, swapping (week-spanning ranges are unsupported)", symbol)
		s.DayStart, s.DayEnd = s.DayEnd, s.DayStart
	}
	return s
}
