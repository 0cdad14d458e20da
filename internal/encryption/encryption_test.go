package encryption_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/idelchi/fcrypt/internal/encryption"
)

func random(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("reading random bytes: %v", err)
	}

	return b
}

// material returns a fresh cipher with a matching key and nonce.
func material(t *testing.T, desc encryption.Descriptor) (encryption.Cipher, []byte, []byte) {
	t.Helper()

	c, err := encryption.New(desc.ID)
	if err != nil {
		t.Fatalf("New(%s) error: %v", desc.Name, err)
	}

	return c, random(t, desc.KeySize), random(t, desc.NonceSize)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := map[string][]byte{
		"empty":       {},
		"hello":       []byte("hello"),
		"block":       bytes.Repeat([]byte{'a'}, 16),
		"multi block": bytes.Repeat([]byte{'b'}, 1000),
	}

	for _, desc := range encryption.Descriptors() {
		t.Run(desc.Name, func(t *testing.T) {
			t.Parallel()

			c, key, nonce := material(t, desc)
			aad := []byte("header")

			for name, plaintext := range inputs {
				ciphertext, tag, err := c.Encrypt(plaintext, key, nonce, aad)
				if err != nil {
					t.Fatalf("%s: Encrypt() error: %v", name, err)
				}

				if len(tag) != desc.TagSize {
					t.Errorf("%s: tag is %d bytes, want %d", name, len(tag), desc.TagSize)
				}

				got, err := c.Decrypt(ciphertext, key, nonce, tag, aad)
				if err != nil {
					t.Fatalf("%s: Decrypt() error: %v", name, err)
				}

				if !bytes.Equal(got, plaintext) {
					t.Errorf("%s: Decrypt() = %q, want %q", name, got, plaintext)
				}
			}
		})
	}
}

func TestSIVNonce(t *testing.T) {
	t.Parallel()

	desc, err := encryption.Lookup(encryption.AES256SIV)
	if err != nil {
		t.Fatal(err)
	}

	c, key, nonce := material(t, desc)
	plaintext := []byte("same input")

	first, firstTag, err := c.Encrypt(plaintext, key, nonce, nil)
	if err != nil {
		t.Fatal(err)
	}

	again, againTag, err := c.Encrypt(plaintext, key, nonce, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, again) || !bytes.Equal(firstTag, againTag) {
		t.Error("AES-SIV output differs for the same key and nonce")
	}

	other, otherTag, err := c.Encrypt(plaintext, key, random(t, desc.NonceSize), nil)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(first, other) || bytes.Equal(firstTag, otherTag) {
		t.Error("AES-SIV output is unchanged by a different nonce")
	}

	if _, err := c.Decrypt(first, key, random(t, desc.NonceSize), firstTag, nil); !errors.Is(err, encryption.ErrAuthenticationFailed) {
		t.Errorf("Decrypt() with another nonce error = %v, want %v", err, encryption.ErrAuthenticationFailed)
	}
}

func TestTamperDetection(t *testing.T) {
	t.Parallel()

	for _, desc := range encryption.Descriptors() {
		t.Run(desc.Name, func(t *testing.T) {
			t.Parallel()

			c, key, nonce := material(t, desc)
			aad := []byte("header")

			ciphertext, tag, err := c.Encrypt([]byte("attack at dawn"), key, nonce, aad)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}

			for i := range len(ciphertext) * 8 {
				tampered := bytes.Clone(ciphertext)
				tampered[i/8] ^= 1 << (i % 8)

				if _, err := c.Decrypt(tampered, key, nonce, tag, aad); !errors.Is(err, encryption.ErrAuthenticationFailed) {
					t.Fatalf("ciphertext bit %d: error = %v, want %v", i, err, encryption.ErrAuthenticationFailed)
				}
			}

			for i := range len(tag) * 8 {
				tampered := bytes.Clone(tag)
				tampered[i/8] ^= 1 << (i % 8)

				if _, err := c.Decrypt(ciphertext, key, nonce, tampered, aad); !errors.Is(err, encryption.ErrAuthenticationFailed) {
					t.Fatalf("tag bit %d: error = %v, want %v", i, err, encryption.ErrAuthenticationFailed)
				}
			}

			if _, err := c.Decrypt(ciphertext, key, nonce, tag, []byte("other")); !errors.Is(err, encryption.ErrAuthenticationFailed) {
				t.Errorf("altered associated data: error = %v, want %v", err, encryption.ErrAuthenticationFailed)
			}
		})
	}
}

func TestWrongKey(t *testing.T) {
	t.Parallel()

	for _, desc := range encryption.Descriptors() {
		t.Run(desc.Name, func(t *testing.T) {
			t.Parallel()

			c, key, nonce := material(t, desc)

			ciphertext, tag, err := c.Encrypt([]byte("hello"), key, nonce, nil)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}

			plaintext, err := c.Decrypt(ciphertext, random(t, desc.KeySize), nonce, tag, nil)
			if !errors.Is(err, encryption.ErrAuthenticationFailed) {
				t.Errorf("Decrypt() with wrong key error = %v, want %v", err, encryption.ErrAuthenticationFailed)
			}

			if plaintext != nil {
				t.Errorf("Decrypt() returned %q on failure", plaintext)
			}
		})
	}
}

func TestInvalidParameters(t *testing.T) {
	t.Parallel()

	for _, desc := range encryption.Descriptors() {
		t.Run(desc.Name, func(t *testing.T) {
			t.Parallel()

			c, key, nonce := material(t, desc)

			if _, _, err := c.Encrypt([]byte("x"), key[:len(key)-1], nonce, nil); !errors.Is(err, encryption.ErrInvalidParameters) {
				t.Errorf("short key: error = %v, want %v", err, encryption.ErrInvalidParameters)
			}

			if _, _, err := c.Encrypt([]byte("x"), key, append(nonce, 0), nil); !errors.Is(err, encryption.ErrInvalidParameters) {
				t.Errorf("long nonce: error = %v, want %v", err, encryption.ErrInvalidParameters)
			}

			ciphertext, tag, err := c.Encrypt([]byte("x"), key, nonce, nil)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}

			if _, err := c.Decrypt(ciphertext, key, nonce, tag[:len(tag)-1], nil); !errors.Is(err, encryption.ErrInvalidParameters) {
				t.Errorf("short tag: error = %v, want %v", err, encryption.ErrInvalidParameters)
			}

			if _, err := c.Decrypt(ciphertext, key, nonce[1:], tag, nil); !errors.Is(err, encryption.ErrInvalidParameters) {
				t.Errorf("short nonce: error = %v, want %v", err, encryption.ErrInvalidParameters)
			}
		})
	}
}

func TestNewUnknown(t *testing.T) {
	t.Parallel()

	if _, err := encryption.New(0xff); !errors.Is(err, encryption.ErrUnknownAlgorithm) {
		t.Errorf("New(0xff) error = %v, want %v", err, encryption.ErrUnknownAlgorithm)
	}
}
