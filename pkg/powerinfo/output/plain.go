package output

import (
	"fmt"
	"io"
)

// ActiveNameFailure is printed when the active scheme name cannot be read.
const ActiveNameFailure = "Failed to retrieve power profile name."

// PlainFormatter writes the classic console report:
//
//	Intel Hybrid Architecture Detected: Yes
//	P-Cores: 6
//	E-Cores: 8
//	Active Power Profile: Balanced
//	Profile: Balanced
//	  Heterogeneous thread scheduling policy
//	    AC value: 5
//	    DC value: 5
type PlainFormatter struct{}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Format implements Formatter.
func (f *PlainFormatter) Format(w io.Writer, r *Result) error {
	ew := &errWriter{w: w}

	if r.Cores != nil {
		ew.printf("Intel Hybrid Architecture Detected: %s\n", yesNo(r.Cores.Hybrid))
		ew.printf("P-Cores: %d\n", r.Cores.Performance)
		ew.printf("E-Cores: %d\n", r.Cores.Efficiency)
	}

	switch {
	case r.Active != nil:
		ew.printf("Active Power Profile: %s\n", r.Active.Scheme.Name)
		if r.ShowThrottle {
			ew.printf("Processor State (AC): min %s, max %s\n", r.Active.ThrottleMinAC, r.Active.ThrottleMaxAC)
			ew.printf("Processor State (DC): min %s, max %s\n", r.Active.ThrottleMinDC, r.Active.ThrottleMaxDC)
		}
	case r.ActiveRequested:
		ew.printf("%s\n", ActiveNameFailure)
	}

	for _, s := range r.Schemes {
		ew.printf("Profile: %s\n", s.Scheme.Name)
		for _, v := range s.Settings {
			ew.printf("  %s\n", v.Name)
			ew.printf("    AC value: %s\n", v.ACValue)
			ew.printf("    DC value: %s\n", v.DCValue)
		}
	}
	return ew.err
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func init() {
	Register("plain", func() Formatter { return &PlainFormatter{} })
}

var _ Formatter = (*PlainFormatter)(nil)
