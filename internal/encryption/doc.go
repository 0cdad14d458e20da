// Package encryption implements the interchangeable symmetric cipher variants.
//
// Every variant is described by a Descriptor (key, nonce and tag sizes) in an immutable
// table and implements the Cipher interface. Variants are pure transforms: they never
// touch files or the container format.
//
// Supported variants are AES-256-CBC with HMAC-SHA256, AES-256-GCM, ChaCha20-Poly1305,
// XChaCha20-Poly1305 and AES-SIV.
package encryption
