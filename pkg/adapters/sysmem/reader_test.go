package sysmem

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Host(t *testing.T) {
	stats, err := New().ReadMemory(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, stats.Total)
	assert.LessOrEqual(t, stats.Available, stats.Total)
	assert.GreaterOrEqual(t, stats.UsedPercent, 0.0)
	assert.LessOrEqual(t, stats.UsedPercent, 100.0)
}

func TestReader_Maps(t *testing.T) {
	r := &Reader{read: func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 8, Available: 6, Used: 2, UsedPercent: 25}, nil
	}}

	stats, err := r.ReadMemory(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 8, stats.Total)
	assert.EqualValues(t, 6, stats.Available)
	assert.EqualValues(t, 2, stats.Used)
	assert.Equal(t, 25.0, stats.UsedPercent)
}

func TestReader_Error(t *testing.T) {
	boom := errors.New("no /proc")
	r := &Reader{read: func(context.Context) (*mem.VirtualMemoryStat, error) { return nil, boom }}

	_, err := r.ReadMemory(context.Background())
	assert.ErrorIs(t, err, boom)
}
