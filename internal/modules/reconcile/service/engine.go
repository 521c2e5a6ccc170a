package service

import (
	"time"

	"signal_hub/internal/models"
)

type Mode string

const (
	// ModeLatest — не больше одного сигнала на инструмент, всегда самый свежий
	ModeLatest Mode = "latest"
	// ModeAll — все сигналы, дедуп по trade id
	ModeAll Mode = "all"
)

const DefaultDebounceWindow = time.Second

// State — проекция "текущие сигналы" поверх потока insert/update/delete.
// Значение иммутабельно с точки зрения Apply: редьюсер возвращает новый стейт,
// старый не трогает.
type State struct {
	mode   Mode
	window time.Duration

	// порядок: свежие вставки в голове, UI так и рендерит
	signals []models.Signal

	// антидребезг глобальный на инстанс, не на инструмент: два разных
	// инструмента в одну секунду дадут одно уведомление
	lastOpenedAt time.Time
	lastClosedAt time.Time
}

// Initialize собирает стейт из полного снапшота. Уведомления при этом не
// эмитятся. Повторный вызов на реконнекте полностью заменяет стейт.
func Initialize(mode Mode, window time.Duration, rows []models.Signal) State {
	if mode != ModeAll {
		mode = ModeLatest
	}
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	st := State{mode: mode, window: window}

	for _, r := range rows {
		if !r.Valid() {
			continue
		}
		idx := st.indexOf(r)
		switch {
		case idx < 0:
			st.signals = append(st.signals, r)
		case mode == ModeLatest && r.EntryTime.After(st.signals[idx].EntryTime):
			st.signals[idx] = r
		}
	}
	return st
}

func (st State) Mode() Mode { return st.mode }

// Current отдаёт копию витрины, свежие первыми.
func Current(st State) []models.Signal {
	out := make([]models.Signal, len(st.signals))
	copy(out, st.signals)
	return out
}

// Apply — чистый редьюсер: (стейт, событие, now) -> (стейт, интенты).
// Кривые строки и незнакомые ключи молча игнорируются, редьюсер не падает.
func Apply(st State, ev models.ChangeEvent, now time.Time) (State, []models.NotificationIntent) {
	if !ev.Row.Valid() {
		return st, nil
	}

	switch ev.Kind {
	case models.EventInsert:
		return st.applyInsert(ev.Row, now)
	case models.EventUpdate:
		return st.applyUpdate(ev.Row, now)
	case models.EventDelete:
		return st.applyDelete(ev.Row)
	}
	return st, nil
}

// indexOf ищет строку по ключу режима: latest -> инструмент, all -> trade id.
func (st State) indexOf(row models.Signal) int {
	for i, s := range st.signals {
		if st.mode == ModeLatest {
			if s.Instrument == row.Instrument {
				return i
			}
		} else if s.TradeID == row.TradeID {
			return i
		}
	}
	return -1
}

func (st State) applyInsert(row models.Signal, now time.Time) (State, []models.NotificationIntent) {
	idx := st.indexOf(row)

	if st.mode == ModeAll && idx >= 0 {
		// повторный insert того же trade id — идемпотентный no-op
		return st, nil
	}

	next := st
	if idx >= 0 {
		// latest: новый сигнал по инструменту безусловно вытесняет старый,
		// открыт тот или закрыт — неважно
		next.signals = append([]models.Signal{row}, removeAt(st.signals, idx)...)
	} else {
		next.signals = append([]models.Signal{row}, st.signals...)
	}

	if row.Closed() {
		return next, nil
	}
	if !allowFire(st.lastOpenedAt, now, st.window) {
		return next, nil
	}
	next.lastOpenedAt = now
	return next, []models.NotificationIntent{{
		Kind:       models.IntentOpened,
		Instrument: row.Instrument,
		Side:       row.Side,
		Price:      row.EntryPrice,
	}}
}

func (st State) applyUpdate(row models.Signal, now time.Time) (State, []models.NotificationIntent) {
	idx := st.indexOf(row)
	if idx < 0 {
		// строка может принадлежать движку другого режима
		return st, nil
	}

	prior := st.signals[idx]
	merged := mergeRow(prior, row)

	next := st
	next.signals = append([]models.Signal(nil), st.signals...)
	next.signals[idx] = merged

	// "closed" стреляет только на переходе open -> closed, повторные апдейты
	// уже закрытой строки молчат
	closedNow := row.ExitTime != nil && prior.ExitTime == nil
	if !closedNow {
		return next, nil
	}
	if !allowFire(st.lastClosedAt, now, st.window) {
		return next, nil
	}
	next.lastClosedAt = now
	return next, []models.NotificationIntent{{
		Kind:       models.IntentClosed,
		Instrument: merged.Instrument,
		Side:       merged.Side,
		Price:      merged.ExitPrice,
	}}
}

func (st State) applyDelete(row models.Signal) (State, []models.NotificationIntent) {
	idx := st.indexOf(row)
	if idx < 0 {
		return st, nil
	}
	next := st
	next.signals = removeAt(st.signals, idx)
	return next, nil
}

// mergeRow накладывает апдейт на прежнюю строку: отсутствующие опциональные
// поля не затирают уже известные значения, entry time неизменяем.
func mergeRow(prev, next models.Signal) models.Signal {
	out := next
	out.EntryTime = prev.EntryTime
	if out.Side == "" {
		out.Side = prev.Side
	}
	if prev.ExitTime != nil {
		// закрытие не отматываем
		out.ExitTime = prev.ExitTime
	}
	if out.EntryPrice == nil {
		out.EntryPrice = prev.EntryPrice
	}
	if out.ExitPrice == nil {
		out.ExitPrice = prev.ExitPrice
	}
	if out.StopLoss == nil {
		out.StopLoss = prev.StopLoss
	}
	if out.TakeProfit == nil {
		out.TakeProfit = prev.TakeProfit
	}
	if out.MFE == nil {
		out.MFE = prev.MFE
	}
	if out.MAE == nil {
		out.MAE = prev.MAE
	}
	return out
}

// allowFire: elapsed <= window подавляет, включая отрицательный elapsed при
// скачках часов.
func allowFire(last, now time.Time, window time.Duration) bool {
	if last.IsZero() {
		return true
	}
	return now.Sub(last) > window
}

func removeAt(s []models.Signal, idx int) []models.Signal {
	out := make([]models.Signal, 0, len(s)-1)
	out = append(out, s[:idx]...)
	return append(out, s[idx+1:]...)
}
