package runner

import (
	"context"
	"errors"
	"fmt"
	"github.com/mihaipriboi/HackitAll2025/adapt"
	"github.com/mihaipriboi/HackitAll2025/db"
	"github.com/mihaipriboi/HackitAll2025/devcode"
	"github.com/mihaipriboi/HackitAll2025/gametime"
	"github.com/mihaipriboi/HackitAll2025/strategy"
	"github.com/mihaipriboi/HackitAll2025/world"
	"log/slog"
	"sync"
	"time"
)

type gameClient interface {
	StartSession(ctx context.Context) (string, error)
	EndSession(ctx context.Context) error
	PlayRound(ctx context.Context, tick gametime.Tick, loads []devcode.FlightLoad, orders devcode.PerClassAmount) (devcode.RoundResult, error)
}

type roundStore interface {
	Reset(ctx context.Context) error
	RecordRound(ctx context.Context, round db.Round) error
	RecordPenalties(ctx context.Context, tick gametime.Tick, penalties []devcode.Penalty) error
	Totals(ctx context.Context) (db.Totals, error)
	DailyCosts(ctx context.Context) ([]db.DailyCost, error)
}

// Snapshot is the dashboard's view of the live run.
type Snapshot struct {
	Running      bool                   `json:"running"`
	Finished     bool                   `json:"finished"`
	Tick         gametime.Tick          `json:"tick"`
	TotalCost    float64                `json:"totalCost"`
	PenaltyCount int                    `json:"penaltyCount"`
	HubStock     devcode.PerClassAmount `json:"hubStock"`
}

// Report is the summary archived at the end of a completed run.
type Report struct {
	SessionId     string         `json:"sessionId"`
	FinishedAt    time.Time      `json:"finishedAt"`
	Rounds        int            `json:"rounds"`
	TotalCost     float64        `json:"totalCost"`
	PenaltyCount  int            `json:"penaltyCount"`
	PenaltyAmount float64        `json:"penaltyAmount"`
	DailyCosts    []db.DailyCost `json:"dailyCosts"`
}

// Runner plays a full game: one PlayRound call per game hour, feeding the
// responses back into the strategy and the history store.
type Runner struct {
	client     gameClient
	strategy   *strategy.Strategy
	network    *world.Network
	store      roundStore
	archive    adapt.S3Putter
	bucket     string
	pace       time.Duration
	totalHours int

	mtx      sync.RWMutex
	snapshot Snapshot
}

type Option func(r *Runner)

func WithPace(pace time.Duration) Option {
	return func(r *Runner) {
		r.pace = pace
	}
}

func WithTotalHours(totalHours int) Option {
	return func(r *Runner) {
		r.totalHours = totalHours
	}
}

func WithArchive(archive adapt.S3Putter, bucket string) Option {
	return func(r *Runner) {
		r.archive = archive
		r.bucket = bucket
	}
}

func New(client gameClient, st *strategy.Strategy, network *world.Network, store roundStore, opts ...Option) *Runner {
	r := &Runner{
		client:     client,
		strategy:   st,
		network:    network,
		store:      store,
		totalHours: gametime.TotalHours,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Runner) Snapshot() Snapshot {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.snapshot
}

func (r *Runner) updateSnapshot(f func(s *Snapshot)) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	f(&r.snapshot)
	r.snapshot.HubStock = devcode.AmountOf(r.network.Stock(world.HubCode))
}

// Run plays the game from hour 0 to the end of the horizon. Any session
// left over from a previous run is ended first. Validation rejections are
// recorded and skipped; transport errors abort the run.
func (r *Runner) Run(ctx context.Context) error {
	// Clean slate; the server refuses to start while a session is active.
	_ = r.client.EndSession(ctx)

	sessionId, err := r.client.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	defer func() {
		if err := r.client.EndSession(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to end session", slog.String("err", err.Error()))
		}
	}()

	if err = r.store.Reset(ctx); err != nil {
		return err
	}

	r.updateSnapshot(func(s *Snapshot) {
		*s = Snapshot{Running: true}
	})

	defer r.updateSnapshot(func(s *Snapshot) {
		s.Running = false
	})

	slog.Info("session started", slog.String("sessionId", sessionId))

	lastTotal := 0.0
	penaltyCount := 0

	for tick := gametime.Tick(0); int(tick) < r.totalHours; tick = tick.Next() {
		loads := r.strategy.KitLoads(tick)
		orders := r.strategy.PurchaseOrders(tick)

		result, err := r.client.PlayRound(ctx, tick, loads, orders)
		if err != nil {
			var vErr *devcode.ValidationError
			if errors.As(err, &vErr) {
				// The server keeps the round; drop ours and move on.
				slog.Warn("round rejected", slog.String("tick", tick.String()), slog.String("reason", vErr.Body))
				r.recordRound(ctx, db.Round{Tick: tick, TotalCost: lastTotal}, nil)
				continue
			}

			return fmt.Errorf("round %s failed: %w", tick, err)
		}

		r.strategy.Observe(tick, result)

		hourCost := result.TotalCost - lastTotal
		lastTotal = result.TotalCost
		penaltyCount += len(result.Penalties)

		departures := 0
		for _, update := range result.FlightUpdates {
			if update.Departure.Tick() == tick && update.EventType != devcode.EventScheduled {
				departures++
			}
		}

		penaltyAmount := 0.0
		for _, p := range result.Penalties {
			penaltyAmount += p.Penalty
		}

		r.recordRound(ctx, db.Round{
			Tick:          tick,
			HourCost:      hourCost,
			TotalCost:     result.TotalCost,
			PenaltyCount:  len(result.Penalties),
			PenaltyAmount: penaltyAmount,
			Departures:    departures,
		}, result.Penalties)

		r.updateSnapshot(func(s *Snapshot) {
			s.Tick = tick
			s.TotalCost = result.TotalCost
			s.PenaltyCount = penaltyCount
		})

		if r.pace > 0 {
			select {
			case <-time.After(r.pace):
			case <-ctx.Done():
				return ctx.Err()
			}
		} else if err = ctx.Err(); err != nil {
			return err
		}
	}

	r.updateSnapshot(func(s *Snapshot) {
		s.Finished = true
	})

	return r.archiveReport(ctx, sessionId)
}

func (r *Runner) recordRound(ctx context.Context, round db.Round, penalties []devcode.Penalty) {
	if err := r.store.RecordRound(ctx, round); err != nil {
		slog.Warn("failed to record round", slog.String("tick", round.Tick.String()), slog.String("err", err.Error()))
		return
	}

	if len(penalties) > 0 {
		if err := r.store.RecordPenalties(ctx, round.Tick, penalties); err != nil {
			slog.Warn("failed to record penalties", slog.String("tick", round.Tick.String()), slog.String("err", err.Error()))
		}
	}
}

func (r *Runner) archiveReport(ctx context.Context, sessionId string) error {
	if r.archive == nil {
		return nil
	}

	totals, err := r.store.Totals(ctx)
	if err != nil {
		return err
	}

	dailyCosts, err := r.store.DailyCosts(ctx)
	if err != nil {
		return err
	}

	report := Report{
		SessionId:     sessionId,
		FinishedAt:    time.Now().UTC(),
		Rounds:        totals.Rounds,
		TotalCost:     totals.TotalCost,
		PenaltyCount:  totals.PenaltyCount,
		PenaltyAmount: totals.PenaltyAmount,
		DailyCosts:    dailyCosts,
	}

	return adapt.S3PutJson(ctx, r.archive, r.bucket, "reports/"+sessionId+".json", report)
}
