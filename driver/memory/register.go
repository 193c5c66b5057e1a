package memory

import "github.com/gobeaver/wpfs"

func init() {
	wpfs.RegisterDriver("memory", New)
}
