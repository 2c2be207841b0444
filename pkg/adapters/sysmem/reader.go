// Package sysmem reads virtual memory statistics from the operating system.
package sysmem

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/shirou/gopsutil/v4/mem"
)

// Reader implements ports.MemoryReader using gopsutil.
type Reader struct {
	read func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// New creates a Reader backed by the host OS.
func New() *Reader {
	return &Reader{read: mem.VirtualMemoryWithContext}
}

// ReadMemory returns the current virtual memory snapshot.
func (r *Reader) ReadMemory(ctx context.Context) (domain.MemoryStats, error) {
	vm, err := r.read(ctx)
	if err != nil {
		return domain.MemoryStats{}, fmt.Errorf("read virtual memory: %w", err)
	}
	return domain.MemoryStats{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		UsedPercent: vm.UsedPercent,
	}, nil
}
