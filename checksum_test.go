package wpfs_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumBytes(t *testing.T) {
	tests := []struct {
		algorithm wpfs.ChecksumAlgorithm
		want      string
	}{
		{wpfs.ChecksumMD5, "5d41402abc4b2a76b9719d911017c592"},
		{"", "5d41402abc4b2a76b9719d911017c592"},
		{wpfs.ChecksumSHA1, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{wpfs.ChecksumSHA256, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{wpfs.ChecksumCRC32, "3610a686"},
		{"CRC32", "3610a686"},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			got, err := wpfs.ChecksumBytes([]byte("hello"), tt.algorithm)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksumXXHash(t *testing.T) {
	a, err := wpfs.CalculateChecksum(strings.NewReader("hello"), "xxhash")
	require.NoError(t, err)
	b, err := wpfs.ChecksumBytes([]byte("hello"), wpfs.ChecksumXXHash)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestChecksumUnsupported(t *testing.T) {
	_, err := wpfs.ChecksumBytes([]byte("hello"), "whirlpool")
	require.Error(t, err)
	assert.True(t, errors.Is(err, wpfs.ErrNotSupported))
}

func TestParseChecksumAlgorithm(t *testing.T) {
	assert.Equal(t, wpfs.ChecksumMD5, wpfs.ParseChecksumAlgorithm(" "))
	assert.Equal(t, wpfs.ChecksumSHA512, wpfs.ParseChecksumAlgorithm("SHA512"))
	assert.Equal(t, wpfs.ChecksumCRC32, wpfs.ParseChecksumAlgorithm("crc32b"))
	assert.Equal(t, wpfs.ChecksumXXHash, wpfs.ParseChecksumAlgorithm("xxh64"))
	assert.Equal(t, wpfs.ChecksumSHA256, wpfs.ParseChecksumAlgorithm(" SHA256\t"))
	assert.Equal(t, wpfs.ChecksumCRC32, wpfs.ParseChecksumAlgorithm(" CRC32 "))
	assert.Equal(t, wpfs.ChecksumAlgorithm("whirlpool"), wpfs.ParseChecksumAlgorithm(" Whirlpool "))

	// The crc32 alias is the IEEE checksum.
	sum, err := wpfs.ChecksumBytes([]byte("hello"), wpfs.ParseChecksumAlgorithm("crc32"))
	require.NoError(t, err)
	assert.Equal(t, "3610a686", sum)
}
