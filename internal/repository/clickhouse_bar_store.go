package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"CoinPulse/internal/domain/fault"
	"CoinPulse/internal/domain/models"
	pkgch "CoinPulse/pkg/clickhouse"
	applogger "CoinPulse/pkg/logger"
)

const (
	barsTable   = "coinpulse.daily_bars"
	assetsTable = "coinpulse.assets"
)

// CHBarStore implements BarStore backed by ClickHouse.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) GetSeries(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	start := time.Now()
	const q = `
        SELECT date, symbol, open, high, low, close, volume
        FROM ` + barsTable + `
        WHERE symbol = ?
        ORDER BY date DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, days)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_series query error",
				applogger.String("table", barsTable),
				applogger.String("symbol", symbol),
				applogger.Int("limit", days),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get series: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, days)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse get_series scan error",
					applogger.String("table", barsTable),
					applogger.String("symbol", symbol),
					applogger.Int("limit", days),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_series rows error",
				applogger.String("table", barsTable),
				applogger.String("symbol", symbol),
				applogger.Int("limit", days),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(tmp) == 0 {
		return nil, fault.NotFound("no data found for %s", symbol)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse get_series ok",
			applogger.String("table", barsTable),
			applogger.String("symbol", symbol),
			applogger.Int("limit", days),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHBarStore) GetRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	const q = `
        SELECT date, symbol, open, high, low, close, volume
        FROM ` + barsTable + `
        WHERE symbol = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_range query error",
				applogger.String("table", barsTable),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get range: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 365)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse get_range scan error",
					applogger.String("table", barsTable),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_range rows error",
				applogger.String("table", barsTable),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(out) == 0 {
		// distinguish an empty window from an unknown symbol
		known, err := s.symbolExists(ctx, symbol)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, fault.NotFound("no data found for %s", symbol)
		}
	}
	if s.l != nil {
		s.l.Info("clickhouse get_range ok",
			applogger.String("table", barsTable),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHBarStore) symbolExists(ctx context.Context, symbol string) (bool, error) {
	const q = `SELECT 1 FROM ` + barsTable + ` WHERE symbol = ? LIMIT 1`
	var one uint8
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		if s.l != nil {
			s.l.Error("clickhouse symbol probe error",
				applogger.String("table", barsTable),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return false, fmt.Errorf("symbol probe: %w", err)
	}
	return true, nil
}

func (s *CHBarStore) ListAssets(ctx context.Context) ([]models.Asset, error) {
	start := time.Now()
	const q = `
        SELECT d.symbol, a.name, a.listed_at
        FROM (SELECT DISTINCT symbol FROM ` + barsTable + `) AS d
        LEFT JOIN ` + assetsTable + ` AS a ON a.symbol = d.symbol
        ORDER BY d.symbol ASC
    `
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_assets query error",
				applogger.String("table", assetsTable),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	out := make([]models.Asset, 0, 64)
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Symbol, &a.Name, &a.ListedAt); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse list_assets scan error",
					applogger.String("table", assetsTable),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		if a.Name == "" {
			a.Name = a.Symbol
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_assets rows error",
				applogger.String("table", assetsTable),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse list_assets ok",
			applogger.String("table", assetsTable),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// Health pings ClickHouse.
func (s *CHBarStore) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("clickhouse ping: %w", err)
	}
	return nil
}
