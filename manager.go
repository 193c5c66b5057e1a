package wpfs

import (
	"context"
	"os"
)

// BaseManager delegates ownership, permission and cache management.
type BaseManager struct {
	env *Environment
}

// NewManager creates the base manager over env.
func NewManager(env *Environment) *BaseManager {
	return &BaseManager{env: env}
}

// Kind implements Service
func (m *BaseManager) Kind() Kind { return KindManager }

func (m *BaseManager) EnsureUniqueFilename(ctx context.Context, dir, filename string, cb UniqueFilenameFunc) (string, error) {
	return m.env.Runtime.UniqueFilename(ctx, dir, filename, cb)
}

func (m *BaseManager) SetGroup(ctx context.Context, file, group string, recursive bool) error {
	return m.env.Host.Chgrp(ctx, file, group, recursive)
}

func (m *BaseManager) SetPermissions(ctx context.Context, file string, mode os.FileMode, recursive bool) error {
	return m.env.Host.Chmod(ctx, file, mode, recursive)
}

func (m *BaseManager) SetOwner(ctx context.Context, file, owner string, recursive bool) error {
	return m.env.Host.Chown(ctx, file, owner, recursive)
}

func (m *BaseManager) SetCurrentDirectory(ctx context.Context, path string) error {
	return m.env.Host.Chdir(ctx, path)
}

func (m *BaseManager) InvalidateOpCache(ctx context.Context, filepath string, force bool) (bool, error) {
	return m.env.Runtime.InvalidateCache(ctx, filepath, force)
}

func (m *BaseManager) InvalidateDirectoryOpCache(ctx context.Context, dir string) error {
	return m.env.Runtime.InvalidateCacheDir(ctx, dir)
}
