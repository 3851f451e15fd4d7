package observability

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
)

// ResourceUsage contains resource usage information
type ResourceUsage struct {
	MemoryRSS             uint64  `json:"memory_rss"`
	MemoryVMS             uint64  `json:"memory_vms"`
	HeapAlloc             uint64  `json:"heap_alloc"`
	SystemMemoryPercent   float64 `json:"system_memory_percent"`
	SystemMemoryAvailable uint64  `json:"system_memory_available"`
	GoroutineCount        int     `json:"goroutines"`
	ThreadCount           int32   `json:"threads"`
}

// SampleResourceUsage reads the current process's memory figures. System
// memory and thread counts are best effort and left zero when unavailable.
func SampleResourceUsage() (*ResourceUsage, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits in int32
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to open process")
	}

	usage := &ResourceUsage{GoroutineCount: runtime.NumGoroutine()}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to read process memory")
	}
	usage.MemoryRSS = memInfo.RSS
	usage.MemoryVMS = memInfo.VMS

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	usage.HeapAlloc = memStats.HeapAlloc

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
		usage.SystemMemoryAvailable = vmStat.Available
	}
	usage.ThreadCount, _ = proc.NumThreads()

	return usage, nil
}
