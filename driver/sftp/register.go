package sftp

import (
	"errors"

	"github.com/gobeaver/wpfs"
)

func init() {
	wpfs.RegisterDriver("ssh2", func(cfg *wpfs.Config) (wpfs.Host, wpfs.Runtime, error) {
		if cfg.FTPHost == "" {
			return nil, nil, errors.New("FTP_HOST is required for the ssh2 method")
		}
		return New(cfg)
	})
}
