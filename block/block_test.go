package block

import "testing"

func TestEqualIgnoresMetadata(t *testing.T) {
	a := New("parent", 1, []string{"tx0", "tx1"})
	b := New("parent", 1, []string{"tx0", "tx1"})
	b.Metadata.Notarized = true
	b.Metadata.Votes = append(b.Metadata.Votes, Vote{VoterID: 7})
	if !a.Equal(b) {
		t.Fatal("Equal should ignore Metadata differences")
	}
}

func TestEqualDetectsIdentityDifferences(t *testing.T) {
	base := New("parent", 1, []string{"tx0"})
	cases := []*Block{
		New("other-parent", 1, []string{"tx0"}),
		New("parent", 2, []string{"tx0"}),
		New("parent", 1, []string{"tx1"}),
		New("parent", 1, []string{"tx0", "tx1"}),
	}
	for i, c := range cases {
		if base.Equal(c) {
			t.Fatalf("case %d: expected blocks to differ", i)
		}
	}
}

func TestNewCopiesTransactions(t *testing.T) {
	txs := []string{"tx0", "tx1"}
	b := New("parent", 1, txs)
	txs[0] = "mutated"
	if b.Transactions[0] != "tx0" {
		t.Fatal("New must defensively copy the transaction slice")
	}
}

func TestSignatureEncodeDeterministic(t *testing.T) {
	a := New("parent", 1, []string{"tx0", "tx1"})
	b := New("parent", 1, []string{"tx0", "tx1"})
	if string(a.SignatureEncode()) != string(b.SignatureEncode()) {
		t.Fatal("SignatureEncode must be deterministic for equal identity")
	}
}

func TestSignatureEncodeDistinguishesFieldBoundaries(t *testing.T) {
	// Without length-prefixing, "ab"+"c" and "a"+"bc" would collide.
	a := New("ab", 1, []string{"c"})
	b := New("a", 1, []string{"bc"})
	if string(a.SignatureEncode()) == string(b.SignatureEncode()) {
		t.Fatal("length-prefixed encoding must not collide across field boundaries")
	}
}
