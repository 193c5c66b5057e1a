package local

import "github.com/gobeaver/wpfs"

func init() {
	wpfs.RegisterDriver("direct", New)
}
