package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		Multiplier:  1.0,
	}
}

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_SuccessAfterRetry(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (struct{}, error) {
		calls++
		if calls < 3 {
			return struct{}{}, NewTransientError(errors.New("status 502"), 502)
		}
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoVal_ExhaustsAttempts(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, NewTransientError(errors.New("always"), 500)
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoVal_NonTransientStopsImmediately(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, errors.New("write file: permission denied")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.MaxAttempts = 5
	cfg.Backoff = 20 * time.Millisecond

	var calls int
	_, err := DoVal(ctx, cfg, func(_ context.Context) (struct{}, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return struct{}{}, NewTransientError(errors.New("fail"), 503)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDoVal_OnRetry(t *testing.T) {
	var attempts []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, _ error) {
		attempts = append(attempts, attempt)
	}

	_, _ = DoVal(context.Background(), cfg, func(_ context.Context) (struct{}, error) {
		return struct{}{}, NewTransientError(errors.New("fail"), 500)
	})

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("expected attempts [1 2], got %v", attempts)
	}
}

func TestDoVal_ReturnsValue(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, NewTransientError(errors.New("timeout"), 0)
		}
		return []byte("%PDF"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(val) != "%PDF" {
		t.Errorf("unexpected value %q", val)
	}
}

func TestDoVal_ZeroOnFailure(t *testing.T) {
	val, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (int, error) {
		return 7, NewTransientError(errors.New("fail"), 500)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if val != 0 {
		t.Errorf("expected zero value, got %d", val)
	}
}

func TestBackoffIsFixedForDownloads(t *testing.T) {
	cfg := applyDefaults(DownloadRetryConfig())
	for attempt := 0; attempt < 3; attempt++ {
		if got := backoffFor(attempt, cfg); got != 2*time.Second {
			t.Errorf("attempt %d: expected 2s, got %v", attempt, got)
		}
	}
}

func TestFromSettings(t *testing.T) {
	cfg := FromSettings(5, 250)
	if cfg.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.Backoff != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.Backoff)
	}

	def := FromSettings(0, 0)
	if def.MaxAttempts != 3 || def.Backoff != 2*time.Second {
		t.Errorf("expected defaults, got %+v", def)
	}
}
