package db

import (
	"context"
	"database/sql"
	"errors"
	"github.com/marcboeker/go-duckdb/v2"
	"github.com/mihaipriboi/HackitAll2025/devcode"
	"github.com/mihaipriboi/HackitAll2025/gametime"
)

type Round struct {
	Tick          gametime.Tick
	HourCost      float64
	TotalCost     float64
	PenaltyCount  int
	PenaltyAmount float64
	Departures    int
}

type DailyCost struct {
	Day  int     `json:"day"`
	Cost float64 `json:"cost"`
}

type PenaltyRecord struct {
	Tick   gametime.Tick `json:"tick"`
	Reason string        `json:"reason"`
	Amount float64       `json:"amount"`
}

type Totals struct {
	Rounds        int     `json:"rounds"`
	TotalCost     float64 `json:"totalCost"`
	PenaltyCount  int     `json:"penaltyCount"`
	PenaltyAmount float64 `json:"penaltyAmount"`
}

// Store keeps the per-round history of a game run in an embedded duckdb
// so the dashboard can serve aggregates without touching the live loop.
type Store struct {
	connector *duckdb.Connector
	database  *sql.DB
}

func NewStore(ctx context.Context) (*Store, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, err
	}

	database := sql.OpenDB(connector)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
	tick INTEGER PRIMARY KEY,
	day INTEGER NOT NULL,
	hour INTEGER NOT NULL,
	hour_cost DOUBLE NOT NULL,
	total_cost DOUBLE NOT NULL,
	penalty_count INTEGER NOT NULL,
	penalty_amount DOUBLE NOT NULL,
	departures INTEGER NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS penalties (
	tick INTEGER NOT NULL,
	reason VARCHAR NOT NULL,
	amount DOUBLE NOT NULL
)`,
	}

	for _, stmt := range ddl {
		if _, err = database.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Join(err, database.Close(), connector.Close())
		}
	}

	return &Store{connector: connector, database: database}, nil
}

// Reset clears the history at the start of a new run.
func (s *Store) Reset(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM rounds`, `DELETE FROM penalties`} {
		if _, err := s.database.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) RecordRound(ctx context.Context, round Round) error {
	_, err := s.database.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO rounds (tick, day, hour, hour_cost, total_cost, penalty_count, penalty_amount, departures) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int(round.Tick),
		round.Tick.Day(),
		round.Tick.Hour(),
		round.HourCost,
		round.TotalCost,
		round.PenaltyCount,
		round.PenaltyAmount,
		round.Departures,
	)

	return err
}

func (s *Store) RecordPenalties(ctx context.Context, tick gametime.Tick, penalties []devcode.Penalty) error {
	for _, p := range penalties {
		if _, err := s.database.ExecContext(
			ctx,
			`INSERT INTO penalties (tick, reason, amount) VALUES (?, ?, ?)`,
			int(tick),
			p.Reason,
			p.Penalty,
		); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) DailyCosts(ctx context.Context) ([]DailyCost, error) {
	rows, err := s.database.QueryContext(ctx, `SELECT day, SUM(hour_cost) FROM rounds GROUP BY day ORDER BY day`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var costs []DailyCost
	for rows.Next() {
		var dc DailyCost
		if err = rows.Scan(&dc.Day, &dc.Cost); err != nil {
			return nil, err
		}

		costs = append(costs, dc)
	}

	return costs, rows.Err()
}

func (s *Store) RecentPenalties(ctx context.Context, limit int) ([]PenaltyRecord, error) {
	rows, err := s.database.QueryContext(ctx, `SELECT tick, reason, amount FROM penalties ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var penalties []PenaltyRecord
	for rows.Next() {
		var p PenaltyRecord
		var tick int

		if err = rows.Scan(&tick, &p.Reason, &p.Amount); err != nil {
			return nil, err
		}

		p.Tick = gametime.Tick(tick)
		penalties = append(penalties, p)
	}

	return penalties, rows.Err()
}

func (s *Store) Totals(ctx context.Context) (Totals, error) {
	// SUM over INTEGER widens to HUGEINT in duckdb, cast it back down.
	row := s.database.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(MAX(total_cost), 0), CAST(COALESCE(SUM(penalty_count), 0) AS BIGINT), COALESCE(SUM(penalty_amount), 0) FROM rounds`)

	var t Totals
	if err := row.Scan(&t.Rounds, &t.TotalCost, &t.PenaltyCount, &t.PenaltyAmount); err != nil {
		return Totals{}, err
	}

	return t, nil
}

func (s *Store) Close() error {
	var err error
	if database := s.database; database != nil {
		s.database = nil
		err = errors.Join(err, database.Close())
	}

	if connector := s.connector; connector != nil {
		s.connector = nil
		err = errors.Join(err, connector.Close())
	}

	return err
}
