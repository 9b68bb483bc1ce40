package storage

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// FormatGCM is the magic prefix of encrypted archive objects.
const FormatGCM = "GCM3NCR0"

const (
	saltLen    = 16
	nonceLen   = 12
	tagLen     = 16
	kdfRounds  = 100000
	keyLen     = 32
	headerSize = len(FormatGCM) + saltLen + nonceLen
)

var ErrNotEncrypted = errors.New("object is not GCM3NCR0 encrypted")

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, kdfRounds, keyLen, sha256.New)
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals data as magic(8) + salt(16) + nonce(12) + ciphertext + tag(16).
func Encrypt(data []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLen)
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(data)+tagLen)
	out = append(out, FormatGCM...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, data, nil), nil
}

// Decrypt opens data produced by Encrypt.
func Decrypt(data []byte, passphrase string) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, ErrNotEncrypted
	}
	if len(data) < headerSize+tagLen {
		return nil, fmt.Errorf("GCM data too short: %d bytes", len(data))
	}
	salt := data[len(FormatGCM) : len(FormatGCM)+saltLen]
	nonce := data[len(FormatGCM)+saltLen : headerSize]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, nonce, data[headerSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("GCM decryption failed: %w", err)
	}
	return plain, nil
}

func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(FormatGCM))
}
