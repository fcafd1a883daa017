// Package sysinfo reads host figures with gopsutil
package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/fx"

	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/deps"
	"github.com/Agshin2004/yt-video-downloader-bot/internal/domain/download/entities"
)

// Module provides the system probe for fx dependency injection
var Module = fx.Module("sysinfo",
	fx.Provide(func() deps.SystemProbe { return NewProbe() }),
)

// Probe implements deps.SystemProbe
type Probe struct {
	started time.Time
}

// NewProbe creates a probe; uptime is counted from this call
func NewProbe() *Probe {
	return &Probe{started: time.Now()}
}

// Snapshot returns current CPU, memory and disk usage of dir's volume
func (p *Probe) Snapshot(ctx context.Context, dir string) (*entities.SystemSnapshot, error) {
	snap := &entities.SystemSnapshot{
		Uptime:     time.Since(p.started),
		Goroutines: runtime.NumGoroutine(),
	}

	percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	if len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory usage: %w", err)
	}
	snap.MemUsed, snap.MemTotal = vm.Used, vm.Total

	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage: %w", err)
	}
	snap.DiskFree, snap.DiskTotal = usage.Free, usage.Total

	return snap, nil
}
