package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ftd-service/internal/domain"
	"github.com/LavaJover/shvark-ftd-service/internal/usecase/attribution"
)

type stubAttribution struct {
	attribution.AttributionUsecase
	calls atomic.Int32
	err   error
	// started/release let a test hold a run in flight
	started chan struct{}
	release chan struct{}
	runErr  error
}

func (s *stubAttribution) RunDaily(ctx context.Context) (*attribution.RunReport, error) {
	s.calls.Add(1)
	if s.started != nil {
		close(s.started)
		<-s.release
		s.runErr = ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &attribution.RunReport{RunID: "run"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartAllRejectsInvalidSchedule(t *testing.T) {
	bt := NewBackgroundTasks(&stubAttribution{}, "every now and then", time.UTC, false, discardLogger())
	if err := bt.StartAll(context.Background()); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}

func TestStartAllRunsOnStart(t *testing.T) {
	uc := &stubAttribution{}
	bt := NewBackgroundTasks(uc, "@every 1h", time.UTC, true, discardLogger())
	if err := bt.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	defer bt.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for uc.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if uc.calls.Load() != 1 {
		t.Fatalf("expected one run on start, got %d", uc.calls.Load())
	}
}

func TestRunAttributionToleratesErrors(t *testing.T) {
	for _, err := range []error{domain.ErrRunInProgress, errors.New("boom")} {
		uc := &stubAttribution{err: err}
		bt := NewBackgroundTasks(uc, "@every 1h", time.UTC, false, discardLogger())
		bt.RunAttribution(context.Background())
		if uc.calls.Load() != 1 {
			t.Fatalf("expected RunDaily to be called once for %v", err)
		}
	}
}

func TestRunAttributionSkipsAfterShutdown(t *testing.T) {
	uc := &stubAttribution{}
	bt := NewBackgroundTasks(uc, "@every 1h", time.UTC, false, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bt.RunAttribution(ctx)
	if uc.calls.Load() != 0 {
		t.Fatal("cancelled context must not start a run")
	}
}

func TestRunAttributionFinishesAfterShutdownSignal(t *testing.T) {
	uc := &stubAttribution{started: make(chan struct{}), release: make(chan struct{})}
	bt := NewBackgroundTasks(uc, "@every 1h", time.UTC, false, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bt.RunAttribution(ctx)
		close(done)
	}()

	<-uc.started
	cancel()
	close(uc.release)
	<-done

	if uc.runErr != nil {
		t.Fatalf("in-flight run saw a cancelled context: %v", uc.runErr)
	}
}
