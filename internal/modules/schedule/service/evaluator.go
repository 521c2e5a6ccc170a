package service

import (
	"fmt"
	"math"
	"time"
)

// Evaluator отвечает на два вопроса: активна ли сессия по символу сейчас и,
// если нет, когда следующее открытие. Чистые функции от (символ, момент),
// расписание read-only — переоценку можно дергать с любой частотой.
type Evaluator struct {
	table *Table
}

func NewEvaluator(table *Table) *Evaluator {
	return &Evaluator{table: table}
}

// IsActive: без расписания — fail-open, спрятать живой сигнал хуже, чем
// иногда неверно показать статус рынка.
func (e *Evaluator) IsActive(symbol string, now time.Time) bool {
	sched := e.table.Lookup(symbol)
	if sched == nil {
		return true
	}
	return isActive(*sched, now)
}

func isActive(s MarketSchedule, now time.Time) bool {
	now = now.UTC()
	wd := int(now.Weekday())
	if wd < s.DayStart || wd > s.DayEnd {
		return false
	}

	h := fracHour(now)
	if !inInterval(s.OpenHour, s.CloseHour, h) {
		return false
	}
	// перерыв выключает сессию только внутри торговых дней
	if s.HasBreak && inInterval(s.BreakStart, s.BreakEnd, h) {
		return false
	}
	return true
}

// NextActiveStart возвращает nil для круглосуточных расписаний, неизвестных
// символов и уже активной сессии (вызывать в активной не предполагается, но
// падать нельзя).
func (e *Evaluator) NextActiveStart(symbol string, now time.Time) *time.Time {
	sched := e.table.Lookup(symbol)
	if sched == nil {
		return nil
	}
	s := *sched
	if alwaysActive(s) {
		return nil
	}

	now = now.UTC()
	wd := int(now.Weekday())
	h := fracHour(now)

	// внутри перерыва: старт — конец перерыва, с учётом перерыва через полночь
	if s.HasBreak && inInterval(s.BreakStart, s.BreakEnd, h) {
		day := now
		if s.BreakStart > s.BreakEnd && h >= s.BreakStart {
			day = day.AddDate(0, 0, 1)
		}
		t := atHour(day, s.BreakEnd)
		return &t
	}

	// после закрытия бывает только у не пересекающих полночь сессий:
	// у пересекающих [close, open) — это "до открытия"
	pastClose := s.OpenHour <= s.CloseHour && h >= s.CloseHour

	if wd < s.DayStart || wd > s.DayEnd || pastClose {
		for add := 1; add <= 7; add++ {
			d := (wd + add) % 7
			if d >= s.DayStart && d <= s.DayEnd {
				t := atHour(now.AddDate(0, 0, add), s.OpenHour)
				return &t
			}
		}
		return nil
	}

	if h < s.OpenHour {
		t := atHour(now, s.OpenHour)
		return &t
	}

	// сессия активна
	return nil
}

// Describe — человекочитаемая сводка расписания для карточек UI.
func (e *Evaluator) Describe(symbol string) string {
	sched := e.table.Lookup(symbol)
	if sched == nil {
		return "no schedule configured, treated as always open"
	}
	s := *sched
	if alwaysActive(s) {
		return fmt.Sprintf("%s: 24/7", s.Label)
	}

	out := fmt.Sprintf("%s: %s-%s %s-%s UTC",
		s.Label,
		dayName(s.DayStart), dayName(s.DayEnd),
		clockString(s.OpenHour), clockString(s.CloseHour),
	)
	if s.HasBreak {
		out += fmt.Sprintf(" (break %s-%s)", clockString(s.BreakStart), clockString(s.BreakEnd))
	}
	return out
}

// inInterval — полуинтервал [start, end) с поддержкой перехода через полночь
// (start > end). Границы: >= для начала, < для конца.
func inInterval(start, end, h float64) bool {
	if start == 0 && end == 24 {
		return true
	}
	if start > end {
		return h >= start || h < end
	}
	return h >= start && h < end
}

func alwaysActive(s MarketSchedule) bool {
	return s.OpenHour == 0 && s.CloseHour == 24 &&
		s.DayStart == 0 && s.DayEnd == 6 && !s.HasBreak
}

func fracHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// atHour материализует дробный час в конкретный момент дня day (UTC).
// 19.75 -> 19:45.
func atHour(day time.Time, h float64) time.Time {
	day = day.UTC()
	hh := int(h)
	mm := int(math.Round((h - float64(hh)) * 60))
	if mm >= 60 {
		hh++
		mm -= 60
	}
	if hh >= 24 {
		day = day.AddDate(0, 0, 1)
		hh -= 24
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, time.UTC)
}

func clockString(h float64) string {
	t := atHour(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), h)
	return t.Format("15:04")
}

func dayName(d int) string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if d < 0 || d > 6 {
		return "?"
	}
	return names[d]
}
