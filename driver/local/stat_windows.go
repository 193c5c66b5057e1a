//go:build windows

package local

import (
	"os"
	"syscall"
	"time"

	"github.com/gobeaver/wpfs"
)

// osAttributes on Windows only knows access times; ownership needs
// security descriptors.
type osAttributes struct{}

func (osAttributes) Owner(string, os.FileInfo) (string, error) { return "", wpfs.ErrNotSupported }
func (osAttributes) Group(string, os.FileInfo) (string, error) { return "", wpfs.ErrNotSupported }
func (osAttributes) Chown(string, string) error                { return wpfs.ErrNotSupported }
func (osAttributes) Chgrp(string, string) error                { return wpfs.ErrNotSupported }

func (osAttributes) Atime(info os.FileInfo) time.Time {
	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, data.LastAccessTime.Nanoseconds())
	}
	return info.ModTime()
}
