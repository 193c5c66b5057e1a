//go:build linux

package local

import (
	"syscall"
	"time"
)

func extractAtime(stat *syscall.Stat_t) time.Time {
	return time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec))
}
