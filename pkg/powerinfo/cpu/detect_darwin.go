//go:build darwin

package cpu

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// detect reads the Apple Silicon performance levels. perflevel0 is the
// fastest cluster and perflevel1, when present, the efficiency cluster.
func detect() (types.CoreTypeCounts, error) {
	perf, err := unix.SysctlUint32("hw.perflevel0.physicalcpu")
	if err != nil {
		return types.CoreTypeCounts{}, fmt.Errorf("sysctl hw.perflevel0.physicalcpu: %w", err)
	}

	counts := types.CoreTypeCounts{Performance: int(perf)}
	if eff, err := unix.SysctlUint32("hw.perflevel1.physicalcpu"); err == nil {
		counts.Efficiency = int(eff)
	}
	return counts, nil
}
