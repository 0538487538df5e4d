package container

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// DefaultHashChunkSize bounds memory while hashing large containers.
const DefaultHashChunkSize = 1 << 20

// HashFile returns the lowercase hex SHA-256 digest of the exact bytes of
// the file at path, reading in chunkSize-byte chunks so the whole file is
// never held in memory. A chunkSize of zero or less selects the default.
func HashFile(path string, chunkSize int) (string, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultHashChunkSize
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("container: hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("container: hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
