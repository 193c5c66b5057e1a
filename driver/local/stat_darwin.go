//go:build darwin

package local

import (
	"syscall"
	"time"
)

func extractAtime(stat *syscall.Stat_t) time.Time {
	return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
}
