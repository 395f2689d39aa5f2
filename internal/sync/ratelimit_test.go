package sync

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBWLimiterBurstNeverExceedsRate(t *testing.T) {
	l := NewBWLimiter(512)
	assert.Equal(t, 512, l.Burst())

	l = NewBWLimiter(10 << 20)
	assert.Equal(t, 1<<20, l.Burst())
}

func TestRateLimitedReaderPassesDataThrough(t *testing.T) {
	src := strings.Repeat("payload ", 512)
	r := newRateLimitedReader(context.Background(), strings.NewReader(src), NewBWLimiter(1<<30))

	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, buf.String())
}

func TestRateLimitedReaderThrottles(t *testing.T) {
	// 4 KiB at 2 KiB/s: the initial burst covers 2 KiB, the rest must wait
	// roughly a second.
	src := bytes.Repeat([]byte{0xAB}, 4096)
	r := newRateLimitedReader(context.Background(), bytes.NewReader(src), NewBWLimiter(2048))

	start := time.Now()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, src, data)
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

func TestRateLimitedReaderHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := bytes.Repeat([]byte{0x01}, 8192)
	r := newRateLimitedReader(ctx, bytes.NewReader(src), NewBWLimiter(1))

	_, err := io.ReadAll(r)
	assert.Error(t, err)
}
