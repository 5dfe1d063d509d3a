// Package cpu classifies processor cores by the efficiency class the
// operating system reports for them.
//
// Only two classes are modeled: class 0 is a performance core and class 1 an
// efficiency core. Cores reporting any other class are not counted.
package cpu

import (
	"encoding/binary"
	"runtime"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/logging"
	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// Layout of a SYSTEM_LOGICAL_PROCESSOR_INFORMATION_EX record.
const (
	relationProcessorCore = 0
	recordHeaderSize      = 8 // Relationship uint32, Size uint32
	efficiencyClassOffset = 9 // after the Flags byte of PROCESSOR_RELATIONSHIP
)

// ParseProcessorInformation counts cores in a buffer of
// SYSTEM_LOGICAL_PROCESSOR_INFORMATION_EX records. Records other than
// processor cores are skipped. A truncated or zero-sized record ends the scan.
func ParseProcessorInformation(buf []byte) types.CoreTypeCounts {
	var counts types.CoreTypeCounts
	for off := 0; off+recordHeaderSize <= len(buf); {
		relationship := binary.LittleEndian.Uint32(buf[off:])
		size := int(binary.LittleEndian.Uint32(buf[off+4:]))
		if size < recordHeaderSize || size > len(buf)-off {
			break
		}
		if relationship == relationProcessorCore && size > efficiencyClassOffset {
			if role, ok := types.RoleForClass(buf[off+efficiencyClassOffset]); ok {
				counts.Add(role)
			}
		}
		off += size
	}
	return counts
}

// Detector holds the result of a single core-type query.
type Detector struct {
	counts types.CoreTypeCounts
	err    error
}

// New queries the operating system once. Failures leave zero counts; the
// cause is kept in Err.
func New() *Detector {
	counts, err := detect()
	if err != nil {
		logging.Get("cpu").Debug("core type detection unavailable", "os", runtime.GOOS, "error", err)
		counts = types.CoreTypeCounts{}
	}
	return &Detector{counts: counts, err: err}
}

// Counts returns the detected core counts.
func (d *Detector) Counts() types.CoreTypeCounts {
	return d.counts
}

// HybridDetected reports whether both performance and efficiency cores exist.
func (d *Detector) HybridDetected() bool {
	return d.counts.HybridDetected()
}

// Err returns why detection failed, or nil.
func (d *Detector) Err() error {
	return d.err
}
