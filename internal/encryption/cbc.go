package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	cbcEncKeyLen = 32
	cbcMacKeyLen = 32
	cbcHKDFInfo  = "fcrypt/aes256-cbc"
)

// cbcCipher is AES-256-CBC with PKCS#7 padding, authenticated encrypt-then-MAC.
// The derived key is split with HKDF into an encryption key and an HMAC-SHA256 key;
// the tag covers the associated data, the IV and the ciphertext.
type cbcCipher struct {
	desc Descriptor
}

func (c *cbcCipher) Descriptor() Descriptor {
	return c.desc
}

func (c *cbcCipher) Encrypt(plaintext, key, iv, aad []byte) ([]byte, []byte, error) {
	if err := checkSizes(c.desc, key, iv); err != nil {
		return nil, nil, err
	}

	encKey, macKey, err := splitCBCKeys(key)
	if err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, cbcTag(macKey, aad, iv, ciphertext), nil
}

func (c *cbcCipher) Decrypt(ciphertext, key, iv, tag, aad []byte) ([]byte, error) {
	if err := checkSizes(c.desc, key, iv); err != nil {
		return nil, err
	}

	if err := checkTag(c.desc, tag); err != nil {
		return nil, err
	}

	encKey, macKey, err := splitCBCKeys(key)
	if err != nil {
		return nil, err
	}

	if !hmac.Equal(cbcTag(macKey, aad, iv, ciphertext), tag) {
		return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, c.desc.Name)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidBlockSize
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("removing padding: %w", err)
	}

	return unpadded, nil
}

func cbcTag(macKey, aad, iv, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(aad)
	mac.Write(iv)
	mac.Write(ciphertext)

	return mac.Sum(nil)
}

func splitCBCKeys(key []byte) ([]byte, []byte, error) {
	hkdfReader := hkdf.New(sha256.New, key, nil, []byte(cbcHKDFInfo))
	derived := make([]byte, cbcEncKeyLen+cbcMacKeyLen)

	if _, err := io.ReadFull(hkdfReader, derived); err != nil {
		return nil, nil, fmt.Errorf("deriving cbc keys: %w", err)
	}

	return derived[:cbcEncKeyLen], derived[cbcEncKeyLen:], nil
}
