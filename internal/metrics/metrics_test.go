package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpstreamCall(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RecordUpstreamCall(UpstreamSui, 10*time.Millisecond, nil)
	RecordUpstreamCall(UpstreamSui, 30*time.Millisecond, errors.New("timeout"))
	RecordUpstreamCall(UpstreamWalrusRelay, 5*time.Millisecond, nil)

	snaps := Snapshots()
	require.Len(t, snaps, 2)

	assert.Equal(t, UpstreamSui, snaps[0].Upstream)
	assert.Equal(t, int64(2), snaps[0].Calls)
	assert.Equal(t, int64(1), snaps[0].Errors)
	assert.InDelta(t, 20.0, snaps[0].AvgLatencyMs, 0.001)
	assert.InDelta(t, 50.0, snaps[0].ErrorRate, 0.001)

	assert.Equal(t, UpstreamWalrusRelay, snaps[1].Upstream)
	assert.Equal(t, int64(0), snaps[1].Errors)
}

func TestSnapshotsEmpty(t *testing.T) {
	Reset()
	assert.Empty(t, Snapshots())
}
