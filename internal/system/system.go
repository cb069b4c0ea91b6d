package system

import (
	"runtime"
	"syscall"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dynkarken/pattern-language-extract/internal/logger"
)

// pageWorkerBytes is a conservative estimate of peak memory per in-flight
// page: a 300 DPI scan decoded to NRGBA plus the grayscale, mask and
// morphology buffers.
const pageWorkerBytes = 256 << 20

// InitResourceLimits raises the open-file limit so that many concurrent
// page workers can hold scans and crops open at once.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warnf("could not read open-file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warnf("could not raise open-file limit: %v", err)
	} else {
		logger.Debugf("open-file limit raised to %d", rLimit.Cur)
	}
}

// WorkerCount sizes page-level parallelism. A non-zero request wins;
// otherwise the count is the CPU count, capped by available memory so a
// large scan batch cannot drive the process into swap.
func WorkerCount(requested int) int {
	if requested > 0 {
		return requested
	}

	workers := runtime.NumCPU()

	vm, err := mem.VirtualMemory()
	if err != nil {
		logger.Debugf("could not read memory stats: %v", err)
		return workers
	}

	byMemory := int(vm.Available / pageWorkerBytes)
	if byMemory < 1 {
		byMemory = 1
	}
	if byMemory < workers {
		workers = byMemory
	}
	return workers
}
