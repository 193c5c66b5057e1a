//go:build unix

package local

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
	"time"
)

// osAttributes reads ownership from the stat data and resolves names
// through the user database.
type osAttributes struct{}

func statT(info os.FileInfo) (*syscall.Stat_t, bool) {
	if info == nil {
		return nil, false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	return st, ok
}

func (osAttributes) Owner(_ string, info os.FileInfo) (string, error) {
	st, ok := statT(info)
	if !ok {
		return "", nil
	}
	uid := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(uid); err == nil {
		return u.Username, nil
	}
	return uid, nil
}

func (osAttributes) Group(_ string, info os.FileInfo) (string, error) {
	st, ok := statT(info)
	if !ok {
		return "", nil
	}
	gid := strconv.FormatUint(uint64(st.Gid), 10)
	if g, err := user.LookupGroupId(gid); err == nil {
		return g.Name, nil
	}
	return gid, nil
}

func (osAttributes) Atime(info os.FileInfo) time.Time {
	if st, ok := statT(info); ok {
		if t := extractAtime(st); !t.IsZero() {
			return t
		}
	}
	return info.ModTime()
}

// Chown accepts a user name or a numeric uid.
func (osAttributes) Chown(name, owner string) error {
	uid, err := strconv.Atoi(owner)
	if err != nil {
		u, lerr := user.Lookup(owner)
		if lerr != nil {
			return lerr
		}
		if uid, err = strconv.Atoi(u.Uid); err != nil {
			return err
		}
	}
	return os.Lchown(name, uid, -1)
}

// Chgrp accepts a group name or a numeric gid.
func (osAttributes) Chgrp(name, group string) error {
	gid, err := strconv.Atoi(group)
	if err != nil {
		g, lerr := user.LookupGroup(group)
		if lerr != nil {
			return lerr
		}
		if gid, err = strconv.Atoi(g.Gid); err != nil {
			return err
		}
	}
	return os.Lchown(name, -1, gid)
}
