package wpfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// AdvancedFS composes host primitives into higher level helpers.
type AdvancedFS struct {
	env *Environment
}

// NewAdvanced creates the advanced adapter over env.
func NewAdvanced(env *Environment) *AdvancedFS {
	return &AdvancedFS{env: env}
}

// Kind implements Service
func (a *AdvancedFS) Kind() Kind { return KindAdvanced }

// AtomicWrite writes content to a sibling temp file and moves it over path.
// A zero mode leaves the temp file with the host default. The temp file is
// removed when the move fails.
func (a *AdvancedFS) AtomicWrite(ctx context.Context, p, content string, mode os.FileMode) error {
	host := a.env.Host
	tmp := path.Join(path.Dir(p), path.Base(p)+"."+strings.ReplaceAll(uuid.NewString(), "-", "")[:13])

	if err := host.PutContents(ctx, tmp, []byte(content), 0); err != nil {
		return err
	}

	if mode != 0 {
		if err := host.Chmod(ctx, tmp, mode, false); err != nil {
			a.env.Logger.Warn().Err(err).Str("path", tmp).Msg("chmod of temp file failed")
		}
	}

	if err := host.Move(ctx, tmp, p, true); err != nil {
		if delErr := host.Delete(ctx, tmp, false, TypeFile); delErr != nil {
			a.env.Logger.Warn().Err(delErr).Str("path", tmp).Msg("temp file left behind")
		}
		return err
	}
	return nil
}

func (a *AdvancedFS) edit(ctx context.Context, p string, fn func(old string) string) error {
	old, err := a.env.Host.GetContents(ctx, p)
	if err != nil {
		return err
	}
	return a.env.Host.PutContents(ctx, p, []byte(fn(string(old))), 0)
}

func (a *AdvancedFS) Append(ctx context.Context, p, content string) error {
	return a.edit(ctx, p, func(old string) string { return old + content })
}

func (a *AdvancedFS) Prepend(ctx context.Context, p, content string) error {
	return a.edit(ctx, p, func(old string) string { return content + old })
}

// Replace substitutes search[i] with replace[i] in order, each pass working
// on the result of the previous one. A single replacement applies to every
// search; a shorter list pads with empty strings.
func (a *AdvancedFS) Replace(ctx context.Context, p string, search, replace []string) error {
	return a.edit(ctx, p, func(old string) string {
		for i, s := range search {
			if s == "" {
				continue
			}
			var r string
			switch {
			case len(replace) == 1:
				r = replace[0]
			case i < len(replace):
				r = replace[i]
			}
			old = strings.ReplaceAll(old, s, r)
		}
		return old
	})
}

// Extension returns the extension of p without the dot.
func (a *AdvancedFS) Extension(p string) string {
	return strings.TrimPrefix(path.Ext(path.Base(trimSlash(p))), ".")
}

// Filename returns the base name of p without its extension.
func (a *AdvancedFS) Filename(p string) string {
	base := path.Base(trimSlash(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Dirname returns the parent directory of p.
func (a *AdvancedFS) Dirname(p string) string {
	return path.Dir(trimSlash(p))
}

func trimSlash(p string) string {
	if len(p) > 1 {
		return strings.TrimRight(p, "/")
	}
	return p
}

// CleanDirectory deletes every entry of directory, keeping the directory.
func (a *AdvancedFS) CleanDirectory(ctx context.Context, directory string) error {
	items, err := a.env.Host.Dirlist(ctx, directory, true, false)
	if IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := a.env.Host.Delete(ctx, directory+"/"+item.Name, true, TypeAny); err != nil {
			return err
		}
	}
	return nil
}

func (a *AdvancedFS) IsDirectoryEmpty(ctx context.Context, directory string) (bool, error) {
	if !a.env.Host.IsDir(ctx, directory) {
		return false, nil
	}
	items, err := a.env.Host.Dirlist(ctx, directory, true, false)
	if err != nil {
		return false, err
	}
	return len(items) == 0, nil
}

// GetMimeType resolves the type of p from its extension. Unknown extensions
// yield an empty string.
func (a *AdvancedFS) GetMimeType(ctx context.Context, p string) (string, error) {
	if !a.env.Host.Exists(ctx, p) {
		return "", &PathError{Op: "mimetype", Path: p, Err: ErrNotExist}
	}
	return a.env.Runtime.CheckFiletype(p, nil).Type, nil
}

// Hash returns the hex digest of the file. An empty algorithm means md5.
func (a *AdvancedFS) Hash(ctx context.Context, p string, algorithm ChecksumAlgorithm) (string, error) {
	data, err := a.env.Host.GetContents(ctx, p)
	if err != nil {
		return "", err
	}
	return ChecksumBytes(data, algorithm)
}

// FilesEqual compares the md5 digests of two files. Missing files are unequal.
func (a *AdvancedFS) FilesEqual(ctx context.Context, path1, path2 string) (bool, error) {
	if !a.env.Host.Exists(ctx, path1) || !a.env.Host.Exists(ctx, path2) {
		return false, nil
	}
	h1, err := a.Hash(ctx, path1, DefaultChecksum)
	if err != nil {
		return false, err
	}
	h2, err := a.Hash(ctx, path2, DefaultChecksum)
	if err != nil {
		return false, err
	}
	return h1 == h2, nil
}

// ReadJSON decodes the file into maps, slices and scalars.
func (a *AdvancedFS) ReadJSON(ctx context.Context, p string) (any, error) {
	data, err := a.env.Host.GetContents(ctx, p)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &PathError{Op: "read_json", Path: p, Err: err}
	}
	return out, nil
}

// WriteJSON encodes data to the file, indented with four spaces when pretty.
func (a *AdvancedFS) WriteJSON(ctx context.Context, p string, data any, pretty bool) error {
	var (
		content []byte
		err     error
	)
	if pretty {
		content, err = json.MarshalIndent(data, "", "    ")
	} else {
		content, err = json.Marshal(data)
	}
	if err != nil {
		return &PathError{Op: "write_json", Path: p, Err: err}
	}
	return a.env.Host.PutContents(ctx, p, content, 0)
}

// ReadXML parses the file and returns its root element.
func (a *AdvancedFS) ReadXML(ctx context.Context, p string) (*etree.Element, error) {
	doc, err := a.ReadDOM(ctx, p)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// WriteXML serialises xml to the file. It accepts an *etree.Element, an
// *etree.Document, or markup as string or []byte, which must parse.
func (a *AdvancedFS) WriteXML(ctx context.Context, p string, xml any) error {
	content, err := xmlString(xml)
	if err != nil {
		return &PathError{Op: "write_xml", Path: p, Err: err}
	}
	return a.env.Host.PutContents(ctx, p, []byte(content), 0)
}

// ReadDOM parses the file into a document, keeping whitespace.
func (a *AdvancedFS) ReadDOM(ctx context.Context, p string) (*etree.Document, error) {
	data, err := a.env.Host.GetContents(ctx, p)
	if err != nil {
		return nil, err
	}
	doc, err := parseXML(data)
	if err != nil {
		return nil, &PathError{Op: "read_xml", Path: p, Err: err}
	}
	return doc, nil
}

func (a *AdvancedFS) WriteDOM(ctx context.Context, p string, dom *etree.Document) error {
	return a.WriteXML(ctx, p, dom)
}

func parseXML(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrFailed)
	}
	return doc, nil
}

func xmlString(xml any) (string, error) {
	switch v := xml.(type) {
	case *etree.Document:
		if v == nil {
			break
		}
		return v.WriteToString()
	case *etree.Element:
		if v == nil {
			break
		}
		doc := etree.NewDocument()
		doc.SetRoot(v.Copy())
		return doc.WriteToString()
	case string:
		doc, err := parseXML([]byte(v))
		if err != nil {
			return "", err
		}
		return doc.WriteToString()
	case []byte:
		doc, err := parseXML(v)
		if err != nil {
			return "", err
		}
		return doc.WriteToString()
	}
	return "", fmt.Errorf("%w: cannot serialise %T as xml", ErrNotSupported, xml)
}
