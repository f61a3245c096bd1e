// Command streamletnode runs a small in-process multi-node demonstration
// of the consensus core: N nodes exchanging transactions, proposals, and
// votes directly (no real transport, consistent with spec.md's "transport
// is whatever delivers messages" Non-goal), for a fixed number of rounds.
// This is the Go analogue of the original Rust crate's protocol_execution
// integration test, promoted to a runnable binary the way tolchain
// promotes its consensus loop to cmd/node.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tolelom/streamlet/block"
	"github.com/tolelom/streamlet/config"
	"github.com/tolelom/streamlet/cryptoid"
	"github.com/tolelom/streamlet/leader"
	"github.com/tolelom/streamlet/node"
	"github.com/tolelom/streamlet/storage"
	"github.com/tolelom/streamlet/wallet"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	numNodes := flag.Int("nodes", 3, "number of in-process nodes")
	rounds := flag.Int("rounds", 3, "number of consensus rounds to run")
	keyPath := flag.String("key", "", "path to a validator keystore file (this node's slot only; unset generates ephemeral keys for all in-process nodes)")
	keyNodeID := flag.Uint64("key-node-id", 0, "validator slot the -key keystore was minted for")
	genKey := flag.Bool("genkey", false, "generate a validator keystore at -key for -key-node-id against -config's genesis and exit")
	flag.Parse()

	cfg := loadConfig(*cfgPath)

	// Read keystore password from the environment, not a flag — flags leak
	// via ps/argv the way an on-disk keystore's password must not.
	password := os.Getenv("STREAMLET_PASSWORD")

	if *genKey {
		if *keyPath == "" {
			log.Fatal("genkey: -key is required")
		}
		w, err := wallet.Generate()
		if err != nil {
			log.Fatalf("generate key: %v", err)
		}
		if err := wallet.SaveValidatorKey(*keyPath, password, cfg.Genesis.ChainID, *keyNodeID, w.PrivKey()); err != nil {
			log.Fatalf("save validator key: %v", err)
		}
		fmt.Printf("Generated validator key for %s/node %d. Public key: %s\n", cfg.Genesis.ChainID, *keyNodeID, w.PubKey().Hex())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	genesisTime := cfg.Genesis.GenesisTime
	if genesisTime.IsZero() {
		genesisTime = time.Now()
	}

	n := *numNodes
	nodes := make([]*node.Node, n)
	pubkeys := make([]cryptoid.PublicKey, n)
	stores := make([]*storage.MemStore, n)

	for i := 0; i < n; i++ {
		var w *wallet.Wallet
		if *keyPath != "" && uint64(i) == *keyNodeID {
			priv, err := wallet.LoadValidatorKey(*keyPath, password, cfg.Genesis.ChainID, *keyNodeID)
			if err != nil {
				log.Fatalf("load validator key for node %d: %v", i, err)
			}
			w = wallet.New(priv)
		} else {
			var err error
			w, err = wallet.Generate()
			if err != nil {
				log.Fatalf("generate key for node %d: %v", i, err)
			}
		}
		// No timesync.Checker is wired here: the demo's nodes share a
		// single process clock by construction, so the clock-sanity
		// collaborator has nothing to disagree about.
		nd, err := node.New(uint64(i), genesisTime, config.NewGenesisBlock(), w.PrivKey(), w.PubKey(), nil)
		if err != nil {
			log.Fatalf("construct node %d: %v", i, err)
		}
		store := storage.NewMemStore()
		nd.SetPersister(store)

		nodes[i] = nd
		pubkeys[i] = w.PubKey()
		stores[i] = store
	}

	nodesCount := uint64(n)
	log.Printf("[streamletnode] %d nodes, genesis at %s", n, genesisTime.Format(time.RFC3339))

	for round := 1; round <= *rounds; round++ {
		time.Sleep(leader.EpochDuration)

		elapsed := time.Since(genesisTime)
		epoch := leader.Epoch(elapsed)
		leaderID := leader.Leader(epoch, nodesCount)

		// Each node originates one transaction and broadcasts it to its peers.
		for i, nd := range nodes {
			tx := fmt.Sprintf("round%d-tx%d", round, i)
			peers := append([]*node.Node(nil), nodes[:i]...)
			peers = append(peers, nodes[i+1:]...)
			nd.ReceiveTransaction(tx)
			nd.BroadcastTransaction(peers, tx)
		}

		leaderNode := nodes[leaderID]
		proposerPub, proposal := leaderNode.ProposeBlock()

		var votes []block.Vote
		for _, nd := range nodes {
			v := nd.ReceiveProposedBlock(proposerPub, proposal, nodesCount)
			if v != nil {
				votes = append(votes, *v)
			}
		}

		for _, v := range votes {
			voterPub := pubkeys[v.VoterID]
			for _, nd := range nodes {
				nd.ReceiveVote(voterPub, v, nodesCount)
			}
		}

		log.Printf("[streamletnode] round %d epoch %d leader=%d canonical_len=%d",
			round, epoch, leaderID, nodes[0].Output().Len())
	}

	fmt.Println("final canonical chain (node 0):")
	for i, b := range nodes[0].Output().Blocks() {
		fmt.Printf("  [%d] epoch=%d txs=%v finalized=%v\n", i, b.Epoch, b.Transactions, b.Metadata.Finalized)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("config file %q unavailable (%v), using defaults", path, err)
		return config.DefaultConfig()
	}
	return cfg
}
