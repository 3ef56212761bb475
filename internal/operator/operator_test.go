package operator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/memstore"
)

type stubAction struct {
	err       error
	started   chan struct{}
	performed chan struct{}
	block     chan struct{}
}

func (a *stubAction) Perform(ctx context.Context, store storage.Store) error {
	if a.started != nil {
		close(a.started)
	}
	if a.block != nil {
		<-a.block
	}
	if a.performed != nil {
		close(a.performed)
	}
	return a.err
}

func TestDelegator_ProcessRoundTrip(t *testing.T) {
	d := NewOperatorDelegator(memstore.New(), 1)
	d.Start()
	defer d.Stop()

	done := &stubAction{performed: make(chan struct{})}
	err := d.Process(context.Background(), done)
	assert.NoError(t, err)
	select {
	case <-done.performed:
	default:
		t.Fatal("action was not performed")
	}

	boom := errors.New("boom")
	err = d.Process(context.Background(), &stubAction{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestDelegator_ProcessHonorsContext(t *testing.T) {
	d := NewOperatorDelegator(memstore.New(), 1)
	d.Start()
	defer d.Stop()

	block := make(chan struct{})
	first := &stubAction{started: make(chan struct{}), block: block}
	go func() {
		_ = d.Process(context.Background(), first)
	}()
	<-first.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The worker is busy with the blocked action, so the second caller gives
	// up on its canceled context.
	err := d.Process(ctx, &stubAction{})
	assert.ErrorIs(t, err, context.Canceled)

	close(block)
}

func TestDelegator_StopIsIdempotent(t *testing.T) {
	d := NewOperatorDelegator(memstore.New(), 1)
	d.Start()
	d.Stop()
	d.Stop()
}
