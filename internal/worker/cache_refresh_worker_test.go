package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingPrewarmer struct {
	calls atomic.Int32
	err   error
}

func (p *countingPrewarmer) Prewarm(context.Context) error {
	p.calls.Add(1)
	return p.err
}

func TestCacheRefreshWorker_RefreshesUntilCancelled(t *testing.T) {
	p := &countingPrewarmer{err: errors.New("redis down")}
	w := NewCacheRefreshWorker(p, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestCacheRefreshWorker_DisabledInterval(t *testing.T) {
	p := &countingPrewarmer{}
	w := NewCacheRefreshWorker(p, 0, zerolog.Nop())

	w.Start(context.Background())
	assert.Zero(t, p.calls.Load())
}
