//go:build unix && !linux && !darwin

package local

import (
	"syscall"
	"time"
)

// extractAtime has no portable field layout on the remaining unixes.
func extractAtime(*syscall.Stat_t) time.Time {
	return time.Time{}
}
