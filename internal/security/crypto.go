package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// Sealer encrypts values at rest with AES-GCM. The nonce is prepended to
// every ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a sealer with the given key.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256
func NewSealer(key []byte) (*Sealer, error) {
	keyLen := len(key)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("invalid key length: %d (must be 16, 24, or 32)", keyLen)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: gcm}, nil
}

// NewSealerFromConfig accepts either a base64-encoded key of a valid AES
// size or an arbitrary passphrase, which is stretched with SHA-256.
func NewSealerFromConfig(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption key is empty")
	}
	if key, err := base64.StdEncoding.DecodeString(secret); err == nil {
		switch len(key) {
		case 16, 24, 32:
			return NewSealer(key)
		}
	}
	sum := sha256.Sum256([]byte(secret))
	return NewSealer(sum[:])
}

// GenerateKey generates a new random base64 AES-256 key
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Seal encrypts plaintext
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal
func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// SealJSON encrypts v as JSON
func (s *Sealer) SealJSON(v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return s.Seal(plaintext)
}

// OpenJSON decrypts and unmarshals JSON into v
func (s *Sealer) OpenJSON(ciphertext []byte, v any) error {
	plaintext, err := s.Open(ciphertext)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
