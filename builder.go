package wpfs

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// FileBuilder provides a fluent API for editing one file over a Host.
// Modifiers change an in-memory buffer; nothing touches the host until a
// terminal method (Save, Move, Delete) or Backup runs. The first error is
// kept and turns every later step into a no-op.
type FileBuilder struct {
	host    Host
	path    string
	content string
	mode    os.FileMode
	owner   string
	group   string
	err     error
}

// From starts a chain from an existing file, loading its content.
func From(ctx context.Context, host Host, path string) (*FileBuilder, error) {
	if !host.Exists(ctx, path) {
		return nil, &FSError{
			Op:   "from",
			Path: path,
			Msg:  fmt.Sprintf("File not found: %s", path),
			Err:  ErrNotExist,
		}
	}

	data, err := host.GetContents(ctx, path)
	if err != nil {
		return nil, &PathError{Op: "from", Path: path, Err: err}
	}
	return &FileBuilder{host: host, path: path, content: string(data)}, nil
}

// Create starts a chain for a new file, or one that is overwritten whole.
func Create(host Host, path string) *FileBuilder {
	return &FileBuilder{host: host, path: path}
}

// Path returns the target file.
func (b *FileBuilder) Path() string { return b.path }

// Err returns the first error of the chain.
func (b *FileBuilder) Err() error { return b.err }

// --- Content ---

// SetContent replaces the buffer.
func (b *FileBuilder) SetContent(content string) *FileBuilder {
	if b.err == nil {
		b.content = content
	}
	return b
}

// Append adds data at the end of the buffer.
func (b *FileBuilder) Append(data string) *FileBuilder {
	if b.err == nil {
		b.content += data
	}
	return b
}

// Prepend adds data at the start of the buffer.
func (b *FileBuilder) Prepend(data string) *FileBuilder {
	if b.err == nil {
		b.content = data + b.content
	}
	return b
}

// Replace replaces every occurrence of search.
func (b *FileBuilder) Replace(search, replace string) *FileBuilder {
	if b.err == nil {
		b.content = strings.ReplaceAll(b.content, search, replace)
	}
	return b
}

// ReplacePairs applies old/new string pairs in a single pass.
func (b *FileBuilder) ReplacePairs(oldnew ...string) *FileBuilder {
	if b.err != nil {
		return b
	}
	if len(oldnew)%2 == 1 {
		b.err = fmt.Errorf("replace pairs: odd argument count %d", len(oldnew))
		return b
	}
	b.content = strings.NewReplacer(oldnew...).Replace(b.content)
	return b
}

// ReplaceRegex replaces matches of pattern. replacement may use $1 style
// references. An invalid pattern stops the chain.
func (b *FileBuilder) ReplaceRegex(pattern, replacement string) *FileBuilder {
	if re := b.compile(pattern); re != nil {
		b.content = re.ReplaceAllString(b.content, replacement)
	}
	return b
}

// ReplaceRegexFunc replaces matches of pattern with the result of fn.
func (b *FileBuilder) ReplaceRegexFunc(pattern string, fn func(match string) string) *FileBuilder {
	if re := b.compile(pattern); re != nil {
		b.content = re.ReplaceAllStringFunc(b.content, fn)
	}
	return b
}

func (b *FileBuilder) compile(pattern string) *regexp.Regexp {
	if b.err != nil {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		b.err = fmt.Errorf("replace regex %q: %w", pattern, err)
		return nil
	}
	return re
}

// Transform sets the buffer to fn(buffer).
func (b *FileBuilder) Transform(fn func(content string) string) *FileBuilder {
	if b.err == nil {
		b.content = fn(b.content)
	}
	return b
}

// --- Conditionals ---

// When runs fn when cond is true.
func (b *FileBuilder) When(cond bool, fn func(*FileBuilder)) *FileBuilder {
	if b.err == nil && cond {
		fn(b)
	}
	return b
}

// WhenFunc runs fn when cond(b) is true.
func (b *FileBuilder) WhenFunc(cond func(*FileBuilder) bool, fn func(*FileBuilder)) *FileBuilder {
	if b.err != nil {
		return b
	}
	return b.When(cond(b), fn)
}

// Unless runs fn when cond is false.
func (b *FileBuilder) Unless(cond bool, fn func(*FileBuilder)) *FileBuilder {
	return b.When(!cond, fn)
}

// UnlessFunc runs fn when cond(b) is false.
func (b *FileBuilder) UnlessFunc(cond func(*FileBuilder) bool, fn func(*FileBuilder)) *FileBuilder {
	if b.err != nil {
		return b
	}
	return b.When(!cond(b), fn)
}

// --- Attributes ---

// WithPermissions sets the mode applied by Save.
func (b *FileBuilder) WithPermissions(mode os.FileMode) *FileBuilder {
	b.mode = mode
	return b
}

// WithOwner sets the owner and group applied by Save. Empty values are ignored.
func (b *FileBuilder) WithOwner(user, group string) *FileBuilder {
	if user != "" {
		b.owner = user
	}
	if group != "" {
		b.group = group
	}
	return b
}

// Backup copies the file on the host to path+suffix, overwriting an older
// backup. The suffix defaults to ".bak".
func (b *FileBuilder) Backup(ctx context.Context, suffix string) *FileBuilder {
	if b.err != nil {
		return b
	}
	if suffix == "" {
		suffix = ".bak"
	}
	if err := b.host.Copy(ctx, b.path, b.path+suffix, true, 0); err != nil {
		b.err = &PathError{Op: "backup", Path: b.path, Err: err}
	}
	return b
}

// --- Terminal ---

// Get returns the buffer without writing it.
func (b *FileBuilder) Get() string { return b.content }

// Save writes the buffer and then applies owner and group. Without
// WithPermissions the host's FS_CHMOD_FILE mode applies.
func (b *FileBuilder) Save(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}

	if err := b.host.PutContents(ctx, b.path, []byte(b.content), b.mode); err != nil {
		return &PathError{Op: "save", Path: b.path, Err: err}
	}

	if b.owner != "" {
		if err := b.host.Chown(ctx, b.path, b.owner, false); err != nil {
			return &PathError{Op: "chown", Path: b.path, Err: err}
		}
	}
	if b.group != "" {
		if err := b.host.Chgrp(ctx, b.path, b.group, false); err != nil {
			return &PathError{Op: "chgrp", Path: b.path, Err: err}
		}
	}
	return nil
}

// Move moves the file on the host. The buffer is not written.
func (b *FileBuilder) Move(ctx context.Context, newPath string, overwrite bool) error {
	if b.err != nil {
		return b.err
	}
	if err := b.host.Move(ctx, b.path, newPath, overwrite); err != nil {
		return &PathError{Op: "move", Path: b.path, Err: err}
	}
	return nil
}

// Delete removes the file on the host.
func (b *FileBuilder) Delete(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if err := b.host.Delete(ctx, b.path, false, TypeAny); err != nil {
		return &PathError{Op: "delete", Path: b.path, Err: err}
	}
	return nil
}
