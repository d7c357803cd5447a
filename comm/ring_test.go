package comm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRingSendRecv(t *testing.T) {
	hub := NewHub(2, 4)
	rings := hub.Rings()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done, err := rings[0].Isend(ctx, Message{DstRank: 1, Tag: 7, Data: []float64{1, 2, 3}})
	require.NoError(t, err)
	assert.True(t, done())

	data, err := rings[1].Recv(ctx, 0, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, data)
}

func TestLocalRingRecvTimesOut(t *testing.T) {
	hub := NewHub(2, 4)
	rings := hub.Rings()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := rings[1].Recv(ctx, 0, 99)
	require.Error(t, err)
	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestLocalRingBarrierReleasesAllRanks(t *testing.T) {
	hub := NewHub(3, 1)
	rings := hub.Rings()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errs := make(chan error, 3)
	for _, r := range rings {
		r := r
		go func() { errs <- r.Barrier(ctx) }()
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, <-errs)
	}
}

func TestExchangeAllSendsConcurrently(t *testing.T) {
	hub := NewHub(3, 4)
	rings := hub.Rings()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	reqs := []Message{
		{DstRank: 1, Tag: 1, Data: []float64{1}},
		{DstRank: 2, Tag: 2, Data: []float64{2}},
	}
	require.NoError(t, ExchangeAll(ctx, rings[0], reqs))

	d1, err := rings[1].Recv(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, d1)

	d2, err := rings[2].Recv(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, d2)
}
