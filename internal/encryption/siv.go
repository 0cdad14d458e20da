package encryption

import (
	"bytes"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_sivpb "github.com/tink-crypto/tink-go/v2/proto/aes_siv_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"

	"google.golang.org/protobuf/proto"
)

// sivCipher is AES-SIV through Tink's deterministic AEAD.
// The random nonce is appended to the associated data, which makes the output
// randomized while keeping nonce misuse resistance. The synthetic IV is the tag.
type sivCipher struct {
	desc Descriptor
}

func (c *sivCipher) Descriptor() Descriptor {
	return c.desc
}

func (c *sivCipher) Encrypt(plaintext, key, nonce, aad []byte) ([]byte, []byte, error) {
	if err := checkSizes(c.desc, key, nonce); err != nil {
		return nil, nil, err
	}

	primitive, err := c.primitive(key)
	if err != nil {
		return nil, nil, err
	}

	sealed, err := primitive.EncryptDeterministically(plaintext, sivAssociatedData(aad, nonce))
	if err != nil {
		return nil, nil, fmt.Errorf("encrypting: %w", err)
	}

	if len(sealed) < c.desc.TagSize {
		return nil, nil, fmt.Errorf("%w: short siv output", ErrInvalidParameters)
	}

	return sealed[c.desc.TagSize:], sealed[:c.desc.TagSize], nil
}

func (c *sivCipher) Decrypt(ciphertext, key, nonce, tag, aad []byte) ([]byte, error) {
	if err := checkSizes(c.desc, key, nonce); err != nil {
		return nil, err
	}

	if err := checkTag(c.desc, tag); err != nil {
		return nil, err
	}

	primitive, err := c.primitive(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(tag)+len(ciphertext))
	sealed = append(sealed, tag...)
	sealed = append(sealed, ciphertext...)

	plaintext, err := primitive.DecryptDeterministically(sealed, sivAssociatedData(aad, nonce))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, c.desc.Name)
	}

	if plaintext == nil {
		plaintext = []byte{}
	}

	return plaintext, nil
}

func sivAssociatedData(aad, nonce []byte) []byte {
	ad := make([]byte, 0, len(aad)+len(nonce))
	ad = append(ad, aad...)

	return append(ad, nonce...)
}

// sivTypeURL names the Tink key manager that serves AES-SIV keys.
const sivTypeURL = "type.googleapis.com/google.crypto.tink.AesSivKey"

// primitive wraps a derived key as a single-key Tink keyset and returns its deterministic AEAD.
func (c *sivCipher) primitive(key []byte) (tink.DeterministicAEAD, error) {
	ks, err := sivKeyset(c.desc, key)
	if err != nil {
		return nil, err
	}

	serialized, err := proto.Marshal(ks)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(keyset.NewBinaryReader(bytes.NewReader(serialized)))
	if err != nil {
		return nil, fmt.Errorf("reading keyset: %w", err)
	}

	primitive, err := daead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("creating %s primitive: %w", c.desc.Name, err)
	}

	return primitive, nil
}

// sivKeyset builds a keyset holding key as its only, primary key. The key id is the
// variant id and the RAW prefix keeps Tink from prepending it to ciphertexts.
func sivKeyset(desc Descriptor, key []byte) (*tinkpb.Keyset, error) {
	value, err := proto.Marshal(&aes_sivpb.AesSivKey{KeyValue: key})
	if err != nil {
		return nil, fmt.Errorf("serializing %s key: %w", desc.Name, err)
	}

	id := uint32(desc.ID)

	return &tinkpb.Keyset{
		PrimaryKeyId: id,
		Key: []*tinkpb.Keyset_Key{{
			KeyId:            id,
			Status:           tinkpb.KeyStatusType_ENABLED,
			OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			KeyData: &tinkpb.KeyData{
				TypeUrl:         sivTypeURL,
				Value:           value,
				KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
			},
		}},
	}, nil
}
