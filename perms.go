package wpfs

import (
	"fmt"
	"os"
	"strings"
)

// HumanPermissions renders mode the way `ls -l` does, e.g. "drwxr-xr-x".
func HumanPermissions(mode os.FileMode) string {
	var b strings.Builder
	switch {
	case mode&os.ModeSymlink != 0:
		b.WriteByte('l')
	case mode.IsDir():
		b.WriteByte('d')
	default:
		b.WriteByte('-')
	}

	perm := mode.Perm()
	const rwx = "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			b.WriteByte(rwx[i])
		} else {
			b.WriteByte('-')
		}
	}

	out := []byte(b.String())
	if mode&os.ModeSetuid != 0 {
		out[3] = specialBit(out[3], 's')
	}
	if mode&os.ModeSetgid != 0 {
		out[6] = specialBit(out[6], 's')
	}
	if mode&os.ModeSticky != 0 {
		out[9] = specialBit(out[9], 't')
	}
	return string(out)
}

func specialBit(cur, set byte) byte {
	if cur == 'x' {
		return set
	}
	return set - ('a' - 'A')
}

// OctalPermissions returns the last three octal digits of mode, e.g. "644".
func OctalPermissions(mode os.FileMode) string {
	s := fmt.Sprintf("%o", mode.Perm())
	if len(s) > 3 {
		s = s[len(s)-3:]
	}
	return s
}

// PermissionsFromHuman converts "-rw-r--r--" style permissions to their
// four digit octal form ("0644"). Characters other than r, w, x and - are
// ignored and the result is padded on the left.
func PermissionsFromHuman(mode string) string {
	var kept []byte
	for i := 0; i < len(mode); i++ {
		switch mode[i] {
		case 'r', 'w', 'x', '-':
			kept = append(kept, mode[i])
		}
	}
	for len(kept) < 10 {
		kept = append([]byte{'-'}, kept...)
	}
	if len(kept) > 10 {
		kept = kept[len(kept)-10:]
	}

	value := func(c byte) int {
		switch c {
		case 'r':
			return 4
		case 'w':
			return 2
		case 'x':
			return 1
		}
		return 0
	}

	out := []byte{'0'}
	for g := 0; g < 3; g++ {
		sum := value(kept[1+g*3]) + value(kept[2+g*3]) + value(kept[3+g*3])
		out = append(out, byte('0'+sum))
	}
	return string(out)
}

// IsBinary reports whether text holds anything outside printable ASCII.
func IsBinary(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] > 0x7e {
			return true
		}
	}
	return false
}
