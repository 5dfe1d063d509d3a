//go:build windows

package cpu

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/jamesainslie/powerinfo/pkg/powerinfo/types"
)

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go detect_windows.go

// https://learn.microsoft.com/en-us/windows/win32/api/sysinfoapi/nf-sysinfoapi-getlogicalprocessorinformationex
//sys getLogicalProcessorInformationEx(relationship uint32, buffer *byte, returnedLength *uint32) (err error) = kernel32.GetLogicalProcessorInformationEx

func detect() (types.CoreTypeCounts, error) {
	var length uint32
	err := getLogicalProcessorInformationEx(relationProcessorCore, nil, &length)
	for range 3 {
		if err != nil && !errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) {
			return types.CoreTypeCounts{}, fmt.Errorf("GetLogicalProcessorInformationEx: %w", err)
		}
		if length == 0 {
			return types.CoreTypeCounts{}, errors.New("GetLogicalProcessorInformationEx returned no records")
		}

		buf := make([]byte, length)
		err = getLogicalProcessorInformationEx(relationProcessorCore, &buf[0], &length)
		if err == nil {
			return ParseProcessorInformation(buf[:length]), nil
		}
	}
	return types.CoreTypeCounts{}, fmt.Errorf("GetLogicalProcessorInformationEx: %w", err)
}
