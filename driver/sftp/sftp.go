// Package sftp provides the "ssh2" host: a remote installation reached over
// SSH with the SFTP subsystem.
package sftp

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/hostfs"
	"github.com/pkg/sftp"
	"github.com/spf13/afero/sftpfs"
	"golang.org/x/crypto/ssh"
)

// Config holds SSH connection configuration
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	PrivateKey []byte // PEM encoded private key
	Timeout    time.Duration
}

// ConfigFromEnv maps the FTP_* settings onto a Config. FTP_PRIVKEY is a
// path to a PEM key.
func ConfigFromEnv(cfg *wpfs.Config) (Config, error) {
	c := Config{
		Host:     cfg.FTPHost,
		Port:     cfg.FTPPort,
		Username: cfg.FTPUser,
		Password: cfg.FTPPass,
		Timeout:  30 * time.Second,
	}
	if cfg.FTPPrivKey != "" {
		key, err := os.ReadFile(cfg.FTPPrivKey)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read private key: %w", err)
		}
		c.PrivateKey = key
	}
	return c, nil
}

// Conn is an SSH connection with its SFTP client.
type Conn struct {
	mu      sync.Mutex
	client  *sftp.Client
	sshConn *ssh.Client
}

// Dial establishes the SSH and SFTP connections.
func Dial(cfg Config) (*Conn, error) {
	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify against FTP_PUBKEY or known_hosts
		Timeout:         cfg.Timeout,
	}

	if len(cfg.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		sshConfig.Auth = append(sshConfig.Auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		sshConfig.Auth = append(sshConfig.Auth, ssh.Password(cfg.Password))
	}
	if len(sshConfig.Auth) == 0 {
		return nil, errors.New("no authentication method provided")
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, port)
	sshConn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SSH: %w", err)
	}

	client, err := sftp.NewClient(sshConn)
	if err != nil {
		sshConn.Close()
		return nil, fmt.Errorf("failed to create SFTP client: %w", err)
	}

	return &Conn{client: client, sshConn: sshConn}, nil
}

// Client returns the SFTP client.
func (c *Conn) Client() *sftp.Client { return c.client }

// Close closes the SFTP and SSH connections
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.client != nil {
		if err := c.client.Close(); err != nil {
			errs = append(errs, err)
		}
		c.client = nil
	}

	if c.sshConn != nil {
		if err := c.sshConn.Close(); err != nil {
			errs = append(errs, err)
		}
		c.sshConn = nil
	}

	return errors.Join(errs...)
}

// New dials the server named by cfg and serves the remote installation.
func New(cfg *wpfs.Config) (wpfs.Host, wpfs.Runtime, error) {
	sc, err := ConfigFromEnv(cfg)
	if err != nil {
		return nil, nil, err
	}
	conn, err := Dial(sc)
	if err != nil {
		return nil, nil, err
	}

	_, host, rt, err := hostfs.Build(sftpfs.New(conn.Client()), cfg, &attributes{client: conn.Client()}, conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return host, rt, nil
}

// attributes reads numeric ownership from the SFTP stat data. Names are
// not resolvable over SFTP, so owners and groups are uid and gid strings.
type attributes struct {
	client *sftp.Client
}

func fileStat(info os.FileInfo) (*sftp.FileStat, bool) {
	if info == nil {
		return nil, false
	}
	st, ok := info.Sys().(*sftp.FileStat)
	return st, ok
}

func (a *attributes) Owner(_ string, info os.FileInfo) (string, error) {
	if st, ok := fileStat(info); ok {
		return strconv.FormatUint(uint64(st.UID), 10), nil
	}
	return "", nil
}

func (a *attributes) Group(_ string, info os.FileInfo) (string, error) {
	if st, ok := fileStat(info); ok {
		return strconv.FormatUint(uint64(st.GID), 10), nil
	}
	return "", nil
}

func (a *attributes) Atime(info os.FileInfo) time.Time {
	if st, ok := fileStat(info); ok && st.Atime != 0 {
		return time.Unix(int64(st.Atime), 0)
	}
	return info.ModTime()
}

func (a *attributes) Chown(name, owner string) error {
	uid, err := strconv.Atoi(owner)
	if err != nil {
		return fmt.Errorf("ssh2 owner must be a numeric uid: %w", err)
	}
	info, err := a.client.Stat(name)
	if err != nil {
		return err
	}
	st, _ := fileStat(info)
	if st == nil {
		return wpfs.ErrNotSupported
	}
	return a.client.Chown(name, uid, int(st.GID))
}

func (a *attributes) Chgrp(name, group string) error {
	gid, err := strconv.Atoi(group)
	if err != nil {
		return fmt.Errorf("ssh2 group must be a numeric gid: %w", err)
	}
	info, err := a.client.Stat(name)
	if err != nil {
		return err
	}
	st, _ := fileStat(info)
	if st == nil {
		return wpfs.ErrNotSupported
	}
	return a.client.Chown(name, int(st.UID), gid)
}

var _ hostfs.Attributes = (*attributes)(nil)
