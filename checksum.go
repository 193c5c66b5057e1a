package wpfs

import (
	"bytes"
	"crypto/md5"  //nolint:gosec // MD5 used for checksum verification, not security
	"crypto/sha1" //nolint:gosec // SHA1 used for checksum verification, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ChecksumAlgorithm names a digest supported by Hash.
type ChecksumAlgorithm string

const (
	ChecksumMD5    ChecksumAlgorithm = "md5"
	ChecksumSHA1   ChecksumAlgorithm = "sha1"
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
	ChecksumSHA512 ChecksumAlgorithm = "sha512"
	ChecksumCRC32  ChecksumAlgorithm = "crc32b"
	ChecksumXXHash ChecksumAlgorithm = "xxh64"
)

// DefaultChecksum is used when no algorithm is given.
const DefaultChecksum = ChecksumMD5

// ParseChecksumAlgorithm accepts the algorithm names used by the host hash
// function as well as the short aliases "crc32" and "xxhash". "crc32" is the
// IEEE polynomial, the checksum of PHP's crc32() and hash("crc32b"), not the
// bzip2 variant hash("crc32") computes.
func ParseChecksumAlgorithm(name string) ChecksumAlgorithm {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "":
		return DefaultChecksum
	case "crc32", "crc32b":
		return ChecksumCRC32
	case "xxhash", "xxh64":
		return ChecksumXXHash
	default:
		return ChecksumAlgorithm(n)
	}
}

// NewHasher creates a new hash.Hash for the given algorithm.
// Returns an error if the algorithm is not supported.
func NewHasher(algorithm ChecksumAlgorithm) (hash.Hash, error) {
	switch ParseChecksumAlgorithm(string(algorithm)) {
	case ChecksumMD5:
		return md5.New(), nil //nolint:gosec // MD5 used for checksum verification, not security
	case ChecksumSHA1:
		return sha1.New(), nil //nolint:gosec // SHA1 used for checksum verification, not security
	case ChecksumSHA256:
		return sha256.New(), nil
	case ChecksumSHA512:
		return sha512.New(), nil
	case ChecksumCRC32:
		return crc32.NewIEEE(), nil
	case ChecksumXXHash:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported checksum algorithm: %s", ErrNotSupported, algorithm)
	}
}

// CalculateChecksum reads from the reader and calculates the checksum using
// the specified algorithm. Returns the hex-encoded checksum string.
func CalculateChecksum(r io.Reader, algorithm ChecksumAlgorithm) (string, error) {
	h, err := NewHasher(algorithm)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumBytes is CalculateChecksum over an in-memory buffer.
func ChecksumBytes(data []byte, algorithm ChecksumAlgorithm) (string, error) {
	return CalculateChecksum(bytes.NewReader(data), algorithm)
}
