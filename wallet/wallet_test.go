package wallet

import (
	"testing"

	"github.com/tolelom/streamlet/cryptoid"
)

func TestGenerateDerivesMatchingPublicKey(t *testing.T) {
	w, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(w.PrivKey().Public()) != string(w.PubKey()) {
		t.Fatal("PubKey() must match the public key derived from PrivKey()")
	}
}

func TestNewWrapsExistingKey(t *testing.T) {
	priv, pub, err := cryptoid.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	w := New(priv)
	if string(w.PubKey()) != string(pub) {
		t.Fatal("New must derive the same public key as the original pair")
	}
}
