package wallet

import "github.com/tolelom/streamlet/cryptoid"

// Wallet holds a node's signing keypair. Streamlet transactions are
// opaque strings with no validation semantics (spec.md §3), so unlike
// the teacher's wallet this has no transaction-building helpers — it
// exists purely to hand a node its identity.
type Wallet struct {
	priv cryptoid.PrivateKey
	pub  cryptoid.PublicKey
}

// New creates a Wallet from an existing private key.
func New(priv cryptoid.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	priv, pub, err := cryptoid.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{priv: priv, pub: pub}, nil
}

// PrivKey returns the raw private key (handle with care).
func (w *Wallet) PrivKey() cryptoid.PrivateKey {
	return w.priv
}

// PubKey returns the node's ed25519 public key.
func (w *Wallet) PubKey() cryptoid.PublicKey {
	return w.pub
}
