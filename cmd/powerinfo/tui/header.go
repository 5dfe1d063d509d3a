package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

// renderAppHeader renders the title line with profile count, active profile
// and core counts.
func renderAppHeader(profiles int, active string, cores types.CoreTypeCounts) string {
	appName := titleStyle.Render("POWERINFO")

	stats := fmt.Sprintf("  %s %s", humanize.Comma(int64(profiles)), pluralize(profiles, "profile", "profiles"))
	if cores.HybridDetected() {
		stats += fmt.Sprintf("  •  %dP + %dE cores", cores.Performance, cores.Efficiency)
	}
	header := fmt.Sprintf(" ⚡ %s%s", appName, mutedTextStyle.Render(stats))

	if active != "" {
		header += successTextStyle.Render("  ● " + active)
	} else {
		header += warningTextStyle.Render("  ● active profile unknown")
	}
	return header
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
