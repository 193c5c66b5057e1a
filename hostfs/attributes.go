package hostfs

import (
	"os"
	"path"
	"strings"
	"sync"
	"time"
)

// Attributes resolves the metadata afero does not model: owners, groups and
// access times. Drivers provide one that matches their back end.
type Attributes interface {
	Owner(name string, info os.FileInfo) (string, error)
	Group(name string, info os.FileInfo) (string, error)
	Atime(info os.FileInfo) time.Time
	Chown(name, owner string) error
	Chgrp(name, group string) error
}

// MapAttributes keeps ownership in memory. Paths without an entry report
// the defaults.
type MapAttributes struct {
	mu           sync.RWMutex
	owners       map[string]string
	groups       map[string]string
	defaultOwner string
	defaultGroup string
}

// NewMapAttributes creates a table whose unknown paths belong to owner and group.
func NewMapAttributes(owner, group string) *MapAttributes {
	return &MapAttributes{
		owners:       make(map[string]string),
		groups:       make(map[string]string),
		defaultOwner: owner,
		defaultGroup: group,
	}
}

func cleanKey(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}

func (a *MapAttributes) Owner(name string, _ os.FileInfo) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if owner, ok := a.owners[cleanKey(name)]; ok {
		return owner, nil
	}
	return a.defaultOwner, nil
}

func (a *MapAttributes) Group(name string, _ os.FileInfo) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if group, ok := a.groups[cleanKey(name)]; ok {
		return group, nil
	}
	return a.defaultGroup, nil
}

// Atime falls back to the modification time.
func (a *MapAttributes) Atime(info os.FileInfo) time.Time {
	return info.ModTime()
}

func (a *MapAttributes) Chown(name, owner string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.owners[cleanKey(name)] = owner
	return nil
}

func (a *MapAttributes) Chgrp(name, group string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.groups[cleanKey(name)] = group
	return nil
}

var _ Attributes = (*MapAttributes)(nil)
