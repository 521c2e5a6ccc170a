package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"signal_hub/internal/models"
	"signal_hub/pkg/db"
)

// Signals — загрузчик снапшота таблицы сигналов. Стриминговые мутации идут
// через фид, сюда ходим только на старте и при ресинке.
type Signals struct {
	db    *db.PgTxManager
	table string
}

func NewSignals(txm *db.PgTxManager, table string) *Signals {
	if table == "" {
		table = "signals"
	}
	return &Signals{db: txm, table: table}
}

// Recent возвращает последние строки, свежие первыми — в том порядке, в каком
// их ждёт Initialize.
func (s *Signals) Recent(ctx context.Context, limit int) ([]models.Signal, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "store.signals.recent")
	defer span.Finish()

	if limit <= 0 {
		limit = 200
	}

	query := fmt.Sprintf(`
		SELECT trade_id, instrument, side, entry_time, exit_time,
		       entry_price, exit_price, stop_loss, take_profit, mfe, mae
		  FROM %s
		 ORDER BY entry_time DESC
		 LIMIT $1`, s.table)

	rows, err := s.db.Conn().Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query signals snapshot")
	}
	defer rows.Close()

	out := make([]models.Signal, 0, limit)
	for rows.Next() {
		var (
			sig     models.Signal
			side    *string
			exitAt  *time.Time
			entryAt time.Time
		)
		err = rows.Scan(
			&sig.TradeID, &sig.Instrument, &side, &entryAt, &exitAt,
			&sig.EntryPrice, &sig.ExitPrice, &sig.StopLoss, &sig.TakeProfit,
			&sig.MFE, &sig.MAE,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan signal row")
		}
		if side != nil {
			sig.Side = models.NormalizeSide(*side)
		}
		sig.EntryTime = entryAt
		sig.ExitTime = exitAt
		if !sig.Valid() {
			continue
		}
		out = append(out, sig)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate signal rows")
	}

	span.SetTag("rows", len(out))
	return out, nil
}
