// Package node implements the Streamlet consensus state machine: a single
// node's view of the canonical chain and its competing forks, transaction
// pool, leader election, block proposal, voting, notarization and
// finalization. Every entry point here is specified as single-threaded;
// callers must not re-enter the same Node concurrently.
package node

import (
	"fmt"
	"log"
	"time"

	"github.com/tolelom/streamlet/block"
	"github.com/tolelom/streamlet/chain"
	"github.com/tolelom/streamlet/cryptoid"
	"github.com/tolelom/streamlet/leader"
)

// ClockChecker is the clock-sanity collaborator invoked once at
// construction (spec.md §6). timesync.Checker satisfies this.
type ClockChecker interface {
	Check() error
}

// BlockPersister durably records blocks as they are finalized onto the
// canonical chain. Optional: a Node with no persister configured runs
// purely in memory. storage.Store satisfies this.
type BlockPersister interface {
	Persist(b *block.Block) error
}

// Node owns one participant's exclusive view of consensus state: its
// keypair, the finalized canonical chain, the set of candidate forks
// rooted at children of the canonical tip, and the unconfirmed
// transaction pool.
type Node struct {
	id          uint64
	genesisTime time.Time
	priv        cryptoid.PrivateKey
	pub         cryptoid.PublicKey

	canonical *chain.Blockchain
	forks     []*chain.Blockchain
	unconfirmed []string

	persister BlockPersister

	// clock is overridable only within this package's tests, so
	// multi-round finalization scenarios can simulate epoch passage
	// without sleeping in real time.
	clock func() time.Time
}

// New constructs a Node seeded with genesisBlock, which is forced to
// notarized=finalized=true per spec.md's lifecycle rule regardless of
// what the caller passed in. If checker is non-nil, its Check is run
// before the Node is returned; a failing clock check is fatal to
// construction (spec.md's ClockInsane).
func New(id uint64, genesisTime time.Time, genesisBlock *block.Block, priv cryptoid.PrivateKey, pub cryptoid.PublicKey, checker ClockChecker) (*Node, error) {
	if checker != nil {
		if err := checker.Check(); err != nil {
			return nil, fmt.Errorf("node: clock sanity check failed: %w", err)
		}
	}
	genesisBlock.Metadata.Notarized = true
	genesisBlock.Metadata.Finalized = true
	return &Node{
		id:          id,
		genesisTime: genesisTime,
		priv:        priv,
		pub:         pub,
		canonical:   chain.New(genesisBlock),
		clock:       time.Now,
	}, nil
}

// SetPersister wires a BlockPersister; every block moved onto the
// canonical chain from then on is persisted. Errors are logged, not
// fatal: persistence is ambient plumbing, not part of the core (§1).
func (n *Node) SetPersister(p BlockPersister) {
	n.persister = p
}

// ID returns the node's protocol id.
func (n *Node) ID() uint64 {
	return n.id
}

// Output returns the finalized canonical chain.
func (n *Node) Output() *chain.Blockchain {
	return n.canonical
}

// ReceiveTransaction appends tx to the unconfirmed pool, preserving
// arrival order; duplicates are allowed (spec.md §3).
func (n *Node) ReceiveTransaction(tx string) {
	n.unconfirmed = append(n.unconfirmed, tx)
}

// BroadcastTransaction is a convenience loop delivering tx to every
// recipient's ReceiveTransaction.
func (n *Node) BroadcastTransaction(recipients []*Node, tx string) {
	for _, r := range recipients {
		r.ReceiveTransaction(tx)
	}
}

// CheckIfEpochLeader reports whether this node is the elected leader for
// the current epoch, given the total node count.
func (n *Node) CheckIfEpochLeader(nodesCount uint64) bool {
	return leader.Leader(n.currentEpoch(), nodesCount) == n.id
}

func (n *Node) currentEpoch() uint64 {
	return leader.Epoch(n.clock().Sub(n.genesisTime))
}

// ProposeBlock builds a proposal extending the longest notarized chain
// this node knows, signs it, and returns the node's public key alongside
// the proposal as a Vote cast by this node (spec.md §4.4). The node does
// not locally vote or notarize as a side effect of proposing.
func (n *Node) ProposeBlock() (cryptoid.PublicKey, block.Vote) {
	epoch := n.currentEpoch()
	longest := n.findLongestNotarizedChain()
	parentHash := cryptoid.HashBytes(longest.Tip().SignatureEncode())
	txs := n.unproposedTransactions()

	b := block.New(parentHash, epoch, txs)
	sig := cryptoid.Sign(n.priv, b.SignatureEncode())
	return n.pub, block.NewVote(sig, *b, n.id)
}

// ReceiveProposedBlock validates that the proposal came from the correct
// epoch leader and carries a valid signature, then runs it through the
// normal voting path. Both checks are fatal protocol violations on
// failure (spec.md §4.5, §4.9).
func (n *Node) ReceiveProposedBlock(leaderPublicKey cryptoid.PublicKey, proposal block.Vote, nodesCount uint64) *block.Vote {
	wantLeader := leader.Leader(n.currentEpoch(), nodesCount)
	if wantLeader != proposal.VoterID {
		violate("proposer %d is not the epoch leader (want %d)", proposal.VoterID, wantLeader)
	}
	if !cryptoid.Verify(leaderPublicKey, proposal.Block.SignatureEncode(), proposal.Signature) {
		violate("proposal signature verification failed for leader %d", proposal.VoterID)
	}
	fresh := block.New(proposal.Block.ParentHash, proposal.Block.Epoch, proposal.Block.Transactions)
	return n.voteBlock(fresh)
}

// voteBlock places b on the fork (or a new fork off canonical) it
// extends, then votes for it iff every earlier block on that chain is
// already notarized. Returns nil to abstain.
func (n *Node) voteBlock(b *block.Block) *block.Vote {
	idx, ok := n.findExtendedBlockchainIndex(b)
	if !ok {
		violate("proposed block extends no known chain")
	}

	var target *chain.Blockchain
	if idx == forkSentinelCanonical {
		target = chain.New(b)
		n.forks = append(n.forks, target)
	} else {
		target = n.forks[idx]
		target.AddBlock(b)
	}

	if !extendsNotarizedPrefix(target) {
		return nil
	}
	sig := cryptoid.Sign(n.priv, b.SignatureEncode())
	v := block.NewVote(sig, *b, n.id)
	return &v
}

// forkSentinelCanonical is the index findExtendedBlockchainIndex and
// checkFinalization use to mean "the canonical chain" rather than an
// index into forks (spec.md §4.5 step 1's sentinel -1).
const forkSentinelCanonical = -1

// findExtendedBlockchainIndex reports which chain b extends: a fork
// index, or forkSentinelCanonical if b extends canonical's tip directly.
// ok is false if b extends nothing this node knows about.
func (n *Node) findExtendedBlockchainIndex(b *block.Block) (idx int, ok bool) {
	for i, fork := range n.forks {
		tip := fork.Tip()
		if b.ParentHash == cryptoid.HashBytes(tip.SignatureEncode()) && b.Epoch > tip.Epoch {
			return i, true
		}
	}
	tip := n.canonical.Tip()
	if b.ParentHash == cryptoid.HashBytes(tip.SignatureEncode()) && b.Epoch > tip.Epoch {
		return forkSentinelCanonical, true
	}
	return 0, false
}

// extendsNotarizedPrefix reports whether every block of c except the tip
// is notarized (the tip itself need not be, per spec.md §4.5 step 3).
func extendsNotarizedPrefix(c *chain.Blockchain) bool {
	blocks := c.Blocks()
	for i := 0; i < len(blocks)-1; i++ {
		if !blocks[i].Metadata.Notarized {
			return false
		}
	}
	return true
}

// findLongestNotarizedChain returns the longest fully-notarized chain
// among {canonical} ∪ forks. Canonical is always notarized (every block
// in it is finalized) and seeds the comparison at its real length, so a
// short stale fork can never beat a long canonical chain. Ties go to the
// fork rather than canonical: a notarized fork matching canonical's
// length is the chain actually being built toward finalization, and must
// keep being extended rather than abandoned back to canonical's tip.
func (n *Node) findLongestNotarizedChain() *chain.Blockchain {
	best := n.canonical
	bestLen := n.canonical.Len()
	for _, fork := range n.forks {
		if fork.IsNotarized() && fork.Len() >= bestLen {
			best = fork
			bestLen = fork.Len()
		}
	}
	return best
}

// unproposedTransactions returns every unconfirmed transaction not
// already present in some block on some chain this node holds.
func (n *Node) unproposedTransactions() []string {
	seen := make(map[string]struct{})
	for _, fork := range n.forks {
		for _, b := range fork.Blocks() {
			for _, tx := range b.Transactions {
				seen[tx] = struct{}{}
			}
		}
	}
	for _, b := range n.canonical.Blocks() {
		for _, tx := range b.Transactions {
			seen[tx] = struct{}{}
		}
	}
	out := make([]string, 0, len(n.unconfirmed))
	for _, tx := range n.unconfirmed {
		if _, dup := seen[tx]; !dup {
			out = append(out, tx)
		}
	}
	return out
}

// ReceiveVote verifies, deduplicates, and counts a vote toward its
// target block's quorum, notarizing and triggering finalization once the
// quorum threshold is crossed (spec.md §4.6).
func (n *Node) ReceiveVote(voterPublicKey cryptoid.PublicKey, vote block.Vote, nodesCount uint64) {
	if !cryptoid.Verify(voterPublicKey, vote.Block.SignatureEncode(), vote.Signature) {
		violate("vote signature verification failed for voter %d", vote.VoterID)
	}

	chainIdx, target, found := n.findBlock(&vote.Block)
	if !found {
		violate("vote references unknown block from voter %d", vote.VoterID)
	}

	if !containsVote(target.Metadata.Votes, vote) {
		target.Metadata.Votes = append(target.Metadata.Votes, vote)
	}

	threshold := (2 * nodesCount) / 3
	if !target.Metadata.Notarized && uint64(len(target.Metadata.Votes)) > threshold {
		target.Metadata.Notarized = true
		n.checkFinalization(chainIdx)
	}
}

func containsVote(votes []block.Vote, v block.Vote) bool {
	for _, existing := range votes {
		if existing.Equal(v) {
			return true
		}
	}
	return false
}

// findBlock locates target by identity equality across every chain this
// node holds, scanning each chain from tip to root. Returns the owning
// chain's index (forkSentinelCanonical for canonical) and the node's own
// pointer to that block, so callers can mutate its Metadata in place.
func (n *Node) findBlock(target *block.Block) (chainIdx int, b *block.Block, found bool) {
	for i, fork := range n.forks {
		blocks := fork.Blocks()
		for j := len(blocks) - 1; j >= 0; j-- {
			if blocks[j].Equal(target) {
				return i, blocks[j], true
			}
		}
	}
	blocks := n.canonical.Blocks()
	for j := len(blocks) - 1; j >= 0; j-- {
		if blocks[j].Equal(target) {
			return forkSentinelCanonical, blocks[j], true
		}
	}
	return 0, nil, false
}

// checkFinalization implements spec.md §4.7: once a chain's notarized
// prefix reaches length k > 2, the first k-1 blocks finalize onto
// canonical and incompatible forks are pruned.
func (n *Node) checkFinalization(chainIndex int) {
	var c *chain.Blockchain
	if chainIndex == forkSentinelCanonical {
		c = n.canonical
	} else {
		c = n.forks[chainIndex]
	}

	if c.Len() <= 2 {
		return
	}

	blocks := c.Blocks()
	k := 0
	for k < len(blocks) && blocks[k].Metadata.Notarized {
		k++
	}
	if k <= 2 {
		return
	}

	// chainIndex == forkSentinelCanonical means the notarized block
	// already lives on canonical; moving blocks from canonical onto
	// itself is an identity operation, so the move step is a no-op.
	if chainIndex != forkSentinelCanonical {
		toMove := append([]*block.Block(nil), blocks[:k-1]...)
		for _, b := range toMove {
			b.Metadata.Finalized = true
			n.removeUnconfirmed(b.Transactions)
			n.canonical.AddBlock(b)
			if n.persister != nil {
				if err := n.persister.Persist(b); err != nil {
					log.Printf("[node] persist finalized block at epoch %d: %v", b.Epoch, err)
				}
			}
		}
		c.DropPrefix(k - 1)
	}

	n.pruneForks()
}

// removeUnconfirmed drops every tx in finalized from the unconfirmed
// pool (spec.md P8).
func (n *Node) removeUnconfirmed(finalized []string) {
	if len(finalized) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(finalized))
	for _, tx := range finalized {
		drop[tx] = struct{}{}
	}
	kept := n.unconfirmed[:0]
	for _, tx := range n.unconfirmed {
		if _, gone := drop[tx]; !gone {
			kept = append(kept, tx)
		}
	}
	n.unconfirmed = kept
}

// pruneForks drops every fork whose root no longer extends the
// (possibly just-advanced) canonical tip (spec.md §4.7 step 6, P6).
func (n *Node) pruneForks() {
	if len(n.forks) == 0 {
		return
	}
	tip := n.canonical.Tip()
	h := cryptoid.HashBytes(tip.SignatureEncode())
	epoch := tip.Epoch

	kept := n.forks[:0]
	for _, fork := range n.forks {
		root := fork.Root()
		if root.ParentHash == h && root.Epoch > epoch {
			kept = append(kept, fork)
		}
	}
	n.forks = kept
}
