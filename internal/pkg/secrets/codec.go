// Package secrets provides the reversible codec for values that must be
// recoverable in plaintext (provider access tokens, connected-app secrets)
// and a deterministic keyed digest for indexing them.
//
// Encryption is AES-256-GCM with a fresh random nonce per call, so equal
// plaintexts produce different ciphertexts. Lookup-by-token therefore goes
// through Digest, an HMAC-SHA256 over the plaintext with a key derived
// separately from the cipher key. The digest column is indexable without
// weakening the ciphertext to a deterministic scheme.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Codec encrypts, decrypts, and digests secret strings
type Codec struct {
	aead      cipher.AEAD
	digestKey []byte
}

// NewCodec derives the cipher and digest keys from key material and a salt.
// Both inputs come from configuration; the two derived keys are domain
// separated so the digest key never doubles as cipher key material.
func NewCodec(key, salt string) (*Codec, error) {
	if key == "" {
		return nil, fmt.Errorf("secrets: key material is required")
	}

	cipherKey := deriveKey("cipher", key, salt)
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secrets: failed to create GCM: %w", err)
	}

	return &Codec{
		aead:      aead,
		digestKey: deriveKey("digest", key, salt),
	}, nil
}

// deriveKey produces a 32-byte key bound to the given label
func deriveKey(label, key, salt string) []byte {
	h := sha256.New()
	h.Write([]byte(label))
	h.Write([]byte{0})
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(salt))
	return h.Sum(nil)
}

// Encrypt encrypts the plaintext and returns base64(nonce || ciphertext).
// A fresh nonce is generated per call.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secrets: failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("secrets: ciphertext is not valid base64: %w", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return "", fmt.Errorf("secrets: ciphertext too short")
	}

	nonce, data := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, data, nil)
	if err != nil {
		return "", fmt.Errorf("secrets: failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

// Digest returns a deterministic keyed digest of the plaintext, hex
// encoded, for exact-match lookups
func (c *Codec) Digest(plaintext string) string {
	mac := hmac.New(sha256.New, c.digestKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}
