package chain

import (
	"testing"

	"github.com/tolelom/streamlet/block"
	"github.com/tolelom/streamlet/cryptoid"
)

func TestIsNotarized(t *testing.T) {
	root := block.New("g", 0, nil)
	root.Metadata.Notarized = true
	bc := New(root)
	if !bc.IsNotarized() {
		t.Fatal("single notarized block should report notarized")
	}

	child := block.New(cryptoid.HashBytes(root.SignatureEncode()), 1, nil)
	bc.AddBlock(child)
	if bc.IsNotarized() {
		t.Fatal("chain with a non-notarized tip must not report notarized")
	}
}

func TestTipAndRoot(t *testing.T) {
	root := block.New("g", 0, nil)
	bc := New(root)
	child := block.New(cryptoid.HashBytes(root.SignatureEncode()), 1, nil)
	bc.AddBlock(child)

	if bc.Root() != root {
		t.Fatal("Root must return the first block")
	}
	if bc.Tip() != child {
		t.Fatal("Tip must return the last block")
	}
	if bc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", bc.Len())
	}
}

func TestDropPrefix(t *testing.T) {
	root := block.New("g", 0, nil)
	bc := New(root)
	b1 := block.New(cryptoid.HashBytes(root.SignatureEncode()), 1, nil)
	bc.AddBlock(b1)
	b2 := block.New(cryptoid.HashBytes(b1.SignatureEncode()), 2, nil)
	bc.AddBlock(b2)

	bc.DropPrefix(2)
	if bc.Len() != 1 || bc.Tip() != b2 {
		t.Fatal("DropPrefix(2) should leave only the former tip")
	}
}

func TestDropPrefixOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected DropPrefix out of range to panic")
		}
	}()
	bc := New(block.New("g", 0, nil))
	bc.DropPrefix(5)
}

func TestValidateLinkage(t *testing.T) {
	root := block.New("g", 0, nil)
	bc := New(root)
	child := block.New(cryptoid.HashBytes(root.SignatureEncode()), 1, nil)
	bc.AddBlock(child)
	if err := bc.ValidateLinkage(); err != nil {
		t.Fatalf("valid chain reported linkage error: %v", err)
	}

	badParent := New(block.New("g", 0, nil))
	badParent.AddBlock(block.New("wrong-hash", 1, nil))
	if err := badParent.ValidateLinkage(); err == nil {
		t.Fatal("expected linkage error for mismatched parent hash")
	}

	badEpoch := New(block.New("g", 0, nil))
	b := block.New(cryptoid.HashBytes(badEpoch.Root().SignatureEncode()), 0, nil)
	badEpoch.AddBlock(b)
	if err := badEpoch.ValidateLinkage(); err == nil {
		t.Fatal("expected linkage error for non-increasing epoch")
	}
}
