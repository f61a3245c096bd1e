package config

import "testing"

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Validators = []string{
		"0000000000000000000000000000000000000000000000000000000000000000"[:64],
	}
	return cfg
}

func TestValidateRequiresValidators(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty validator list")
	}
}

func TestValidateRejectsSamePorts(t *testing.T) {
	cfg := validConfig()
	cfg.P2PPort = cfg.RPCPort
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for identical rpc/p2p ports")
	}
}

func TestValidateRejectsMalformedValidatorHex(t *testing.T) {
	cfg := validConfig()
	cfg.Validators = []string{"not-hex"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for malformed validator pubkey")
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config to pass, got: %v", err)
	}
}

func TestNodesCount(t *testing.T) {
	cfg := validConfig()
	cfg.Validators = append(cfg.Validators,
		"1111111111111111111111111111111111111111111111111111111111111111"[:64],
		"2222222222222222222222222222222222222222222222222222222222222222"[:64],
	)
	if cfg.NodesCount() != 3 {
		t.Fatalf("NodesCount() = %d, want 3", cfg.NodesCount())
	}
}

func TestValidateRejectsDuplicateValidator(t *testing.T) {
	cfg := validConfig()
	cfg.Validators = append(cfg.Validators, cfg.Validators[0])
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for a duplicate validator pubkey")
	}
}

func TestValidateRejectsNodeIndexOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.NodeIndex = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for node_index out of range")
	}
}

func TestValidateAcceptsNodeIndexWithinRange(t *testing.T) {
	cfg := validConfig()
	cfg.Validators = append(cfg.Validators,
		"3333333333333333333333333333333333333333333333333333333333333333"[:64],
	)
	cfg.NodeIndex = 1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected node_index within range to pass, got: %v", err)
	}
}
