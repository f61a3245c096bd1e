package cryptoid

import "crypto/ed25519"

// Sign signs data with the private key, matching the external contract
// spec.md requires: sign(private_key, bytes) -> signature.
func Sign(priv PrivateKey, data []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv), data)
}

// Verify checks a signature against data using the public key, matching
// spec.md's verify(public_key, bytes, signature) -> bool contract.
func Verify(pub PublicKey, data, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), data, sig)
}
