package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher is the capability set shared by all variants.
//
// Encrypt and Decrypt reject keys and nonces whose lengths differ from the descriptor
// before doing any cryptographic work. The associated data is authenticated but not
// encrypted; callers pass the same bytes to both directions.
type Cipher interface {
	// Descriptor returns the static metadata of the variant.
	Descriptor() Descriptor
	// Encrypt returns the ciphertext and the authentication tag for plaintext.
	Encrypt(plaintext, key, nonce, aad []byte) (ciphertext, tag []byte, err error)
	// Decrypt verifies tag and returns the plaintext. No plaintext is returned on failure.
	Decrypt(ciphertext, key, nonce, tag, aad []byte) ([]byte, error)
}

// New returns the variant for id.
func New(id ID) (Cipher, error) {
	desc, err := Lookup(id)
	if err != nil {
		return nil, err
	}

	switch id {
	case AES256CBC:
		return &cbcCipher{desc: desc}, nil
	case AES256GCM:
		return &aeadCipher{desc: desc, newAEAD: newGCM}, nil
	case ChaCha20Poly1305:
		return &aeadCipher{desc: desc, newAEAD: chacha20poly1305.New}, nil
	case XChaCha20Poly1305:
		return &aeadCipher{desc: desc, newAEAD: chacha20poly1305.NewX}, nil
	case AES256SIV:
		return &sivCipher{desc: desc}, nil
	default:
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
	}
}

// checkSizes validates key and nonce lengths against the descriptor.
func checkSizes(desc Descriptor, key, nonce []byte) error {
	if len(key) != desc.KeySize {
		return fmt.Errorf("%w: %s requires a %d-byte key, got %d", ErrInvalidParameters, desc.Name, desc.KeySize, len(key))
	}

	if len(nonce) != desc.NonceSize {
		return fmt.Errorf("%w: %s requires a %d-byte nonce, got %d",
			ErrInvalidParameters, desc.Name, desc.NonceSize, len(nonce))
	}

	return nil
}

// checkTag validates the tag length against the descriptor.
func checkTag(desc Descriptor, tag []byte) error {
	if len(tag) != desc.TagSize {
		return fmt.Errorf("%w: %s requires a %d-byte tag, got %d", ErrInvalidParameters, desc.Name, desc.TagSize, len(tag))
	}

	return nil
}

// aeadCipher adapts a cipher.AEAD whose Seal output is ciphertext followed by the tag.
type aeadCipher struct {
	desc    Descriptor
	newAEAD func(key []byte) (cipher.AEAD, error)
}

func (c *aeadCipher) Descriptor() Descriptor {
	return c.desc
}

func (c *aeadCipher) Encrypt(plaintext, key, nonce, aad []byte) ([]byte, []byte, error) {
	if err := checkSizes(c.desc, key, nonce); err != nil {
		return nil, nil, err
	}

	aead, err := c.newAEAD(key)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", c.desc.Name, err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	split := len(sealed) - aead.Overhead()

	return sealed[:split:split], sealed[split:], nil
}

func (c *aeadCipher) Decrypt(ciphertext, key, nonce, tag, aad []byte) ([]byte, error) {
	if err := checkSizes(c.desc, key, nonce); err != nil {
		return nil, err
	}

	if err := checkTag(c.desc, tag); err != nil {
		return nil, err
	}

	aead, err := c.newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.desc.Name, err)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, c.desc.Name)
	}

	if plaintext == nil {
		plaintext = []byte{}
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return cipher.NewGCM(block)
}
