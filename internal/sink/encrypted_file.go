package sink

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"

	"framelog/internal/crypto"
	"framelog/internal/crypto/random"
	"framelog/internal/format"
	"framelog/internal/record"
)

// EncryptedFileSink seals each formatted line with ChaCha20-Poly1305
// before appending it to disk, for deployments that must not leave
// plaintext driver logs on disk. The on-disk shape per line is a 4-byte
// big-endian length prefix followed by (nonce || ciphertext || tag).
type EncryptedFileSink struct {
	file  *os.File
	aead  cipher.AEAD
	nonce func() ([]byte, error)
}

// NewEncryptedFileSink opens path in append mode and builds an AEAD from
// key, which must be exactly chacha20poly1305.KeySize (32) bytes.
func NewEncryptedFileSink(path string, key []byte) (*EncryptedFileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("sink: open encrypted log file %q: %w", path, err)
	}

	aead, err := chacha20poly1305.New(key)
	crypto.Memzero(key) // the sink keeps the built cipher, not the raw key
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("sink: build aead: %w", err)
	}

	return &EncryptedFileSink{
		file: f,
		aead: aead,
		nonce: func() ([]byte, error) {
			var n []byte
			if err := random.PopulateEmptySlice(&n, chacha20poly1305.NonceSize); err != nil {
				return nil, err
			}
			return n, nil
		},
	}, nil
}

// Write seals and appends every record in the batch.
func (s *EncryptedFileSink) Write(batch []record.Record) error {
	for _, rec := range batch {
		if err := s.writeSealed(format.Line(rec)); err != nil {
			return fmt.Errorf("sink: write encrypted line: %w", err)
		}
	}
	return s.file.Sync()
}

func (s *EncryptedFileSink) writeSealed(line string) error {
	nonce, err := s.nonce()
	if err != nil {
		return err
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(line), nil)

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(sealed)))

	if err := writePartial(s.file, lenPrefix[:]); err != nil {
		return err
	}
	return writePartial(s.file, sealed)
}

// Close closes the underlying file.
func (s *EncryptedFileSink) Close() error {
	return s.file.Close()
}
