package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cumulus/internal/domain"
	"cumulus/internal/repository/memory"
)

func newTracker(t *testing.T, total int64) *quotaTracker {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewQuotaTracker(memory.NewQuotaRepository(), total, logger).(*quotaTracker)
}

func TestQuotaTracker_Check(t *testing.T) {
	tracker := newTracker(t, 100)
	ctx := context.Background()

	tests := []struct {
		name     string
		incoming int64
		wantErr  bool
	}{
		{"zero incoming", 0, false},
		{"under budget", 99, false},
		{"exact fill", 100, false},
		{"one over", 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracker.Check(ctx, "alice", tt.incoming)
			if tt.wantErr && !errors.Is(err, domain.ErrQuotaExceeded) {
				t.Errorf("Check(%d) = %v, want ErrQuotaExceeded", tt.incoming, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Check(%d) = %v, want nil", tt.incoming, err)
			}
		})
	}
}

func TestQuotaTracker_CommitAndUsage(t *testing.T) {
	tracker := newTracker(t, 100)
	ctx := context.Background()

	if err := tracker.Commit(ctx, "alice", 60); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	usage, err := tracker.Usage(ctx, "alice")
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if usage.UsedBytes != 60 || usage.TotalBytes != 100 {
		t.Errorf("usage = %d/%d, want 60/100", usage.UsedBytes, usage.TotalBytes)
	}
	if usage.Percentage < 59.99 || usage.Percentage > 60.01 {
		t.Errorf("Percentage = %v, want ~60", usage.Percentage)
	}

	// A Check after Commit sees the new level
	if _, err := tracker.Check(ctx, "alice", 41); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Errorf("Check(41) = %v, want ErrQuotaExceeded", err)
	}
	if _, err := tracker.Check(ctx, "alice", 40); err != nil {
		t.Errorf("Check(40) = %v, want nil", err)
	}
}

// usedBytes never goes below zero, even when releases outnumber charges
func TestQuotaTracker_CommitClampsAtZero(t *testing.T) {
	tracker := newTracker(t, 100)
	ctx := context.Background()

	if err := tracker.Commit(ctx, "alice", 30); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := tracker.Commit(ctx, "alice", -50); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	usage, err := tracker.Usage(ctx, "alice")
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if usage.UsedBytes != 0 {
		t.Errorf("UsedBytes = %d, want 0 (clamped)", usage.UsedBytes)
	}
}

func TestQuotaTracker_UnknownOwnerReadsZero(t *testing.T) {
	tracker := newTracker(t, 100)

	usage, err := tracker.Usage(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if usage.UsedBytes != 0 {
		t.Errorf("UsedBytes = %d, want 0", usage.UsedBytes)
	}
}
