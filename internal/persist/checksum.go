package persist

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrChecksumMismatch means a stored payload does not match its checksum.
var ErrChecksumMismatch = errors.New("persist: snapshot checksum mismatch")

// Checksum returns the BLAKE2b-256 digest of payload.
func Checksum(payload []byte) []byte {
	sum := blake2b.Sum256(payload)
	return sum[:]
}

// Verify checks s.Payload against s.Checksum.
func Verify(s *Snapshot) error {
	if !bytes.Equal(Checksum(s.Payload), s.Checksum) {
		return fmt.Errorf("world %s tick %d: %w", s.World, s.Tick, ErrChecksumMismatch)
	}
	return nil
}
