package block

import "testing"

func TestVoteEqual(t *testing.T) {
	b := *New("parent", 1, []string{"tx0"})
	v1 := NewVote([]byte("sig"), b, 3)
	v2 := NewVote([]byte("sig"), b, 3)
	if !v1.Equal(v2) {
		t.Fatal("identical votes should be equal")
	}
}

func TestVoteEqualDetectsDifferences(t *testing.T) {
	b := *New("parent", 1, []string{"tx0"})
	base := NewVote([]byte("sig"), b, 3)

	diffVoter := NewVote([]byte("sig"), b, 4)
	if base.Equal(diffVoter) {
		t.Fatal("votes with different voter ids must not be equal")
	}

	diffSig := NewVote([]byte("other-sig"), b, 3)
	if base.Equal(diffSig) {
		t.Fatal("votes with different signatures must not be equal")
	}

	otherBlock := *New("parent", 2, []string{"tx0"})
	diffBlock := NewVote([]byte("sig"), otherBlock, 3)
	if base.Equal(diffBlock) {
		t.Fatal("votes for different blocks must not be equal")
	}
}
