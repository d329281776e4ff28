package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrAlreadyRunning = errors.New("a run is already active")

// Manager owns at most one active run at a time and allows the dashboard
// to start and cancel runs.
type Manager struct {
	runner *Runner

	mtx     sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	lastErr error
}

func NewManager(runner *Runner) *Manager {
	return &Manager{runner: runner}
}

func (m *Manager) Start(ctx context.Context) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.done != nil {
		select {
		case <-m.done:
		default:
			return ErrAlreadyRunning
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.cancel = cancel
	m.done = done

	go func() {
		defer close(done)
		defer cancel()

		err := m.runner.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("run failed", slog.String("err", err.Error()))
		}

		m.mtx.Lock()
		m.lastErr = err
		m.mtx.Unlock()
	}()

	return nil
}

func (m *Manager) Stop() {
	m.mtx.Lock()
	cancel := m.cancel
	done := m.done
	m.mtx.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

func (m *Manager) Running() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.done == nil {
		return false
	}

	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// Err returns the error of the last finished run, if any.
func (m *Manager) Err() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.lastErr
}
