package sysinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_Snapshot(t *testing.T) {
	snap, err := NewProbe().Snapshot(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.Positive(t, snap.MemTotal)
	assert.Positive(t, snap.DiskTotal)
	assert.Positive(t, snap.Goroutines)
	assert.GreaterOrEqual(t, snap.CPUPercent, 0.0)
}
