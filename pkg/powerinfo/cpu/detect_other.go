//go:build !windows && !darwin

package cpu

import (
	"errors"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

var errUnsupported = errors.New("core efficiency classes are not reported on this platform")

func detect() (types.CoreTypeCounts, error) {
	return types.CoreTypeCounts{}, errUnsupported
}
