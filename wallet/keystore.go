package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tolelom/streamlet/cryptoid"
	"golang.org/x/crypto/scrypt"
)

// validatorKeyFile is the on-disk encoding of a node's signing key. Unlike
// a bare keypair, it also binds the key to the validator slot it signs
// for: ChainID and NodeID must match the config a node is started with
// (spec.md's genesis agreement), so loading a keystore meant for a
// different committee or a different validator index fails loudly instead
// of silently signing proposals/votes under the wrong node id.
type validatorKeyFile struct {
	ChainID    string `json:"chain_id"`
	NodeID     uint64 `json:"node_id"`
	PubKey     string `json:"pub_key"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipher_text"`
}

const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// SaveValidatorKey encrypts priv with password and writes it to path,
// tagged with the (chainID, nodeID) validator slot it belongs to.
func SaveValidatorKey(path, password, chainID string, nodeID uint64, priv cryptoid.PrivateKey) error {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}
	key, err := deriveKey(password, salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	cipherText := gcm.Seal(nil, nonce, priv, nil)

	ks := validatorKeyFile{
		ChainID:    chainID,
		NodeID:     nodeID,
		PubKey:     priv.Public().Hex(),
		Salt:       hex.EncodeToString(salt),
		Nonce:      hex.EncodeToString(nonce),
		CipherText: hex.EncodeToString(cipherText),
	}
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadValidatorKey decrypts the keystore at path using password and
// verifies it was minted for (chainID, nodeID) before returning the key.
// A keystore copied onto the wrong node, or pointed at the wrong genesis,
// is rejected here rather than handed to node.New under a false identity.
func LoadValidatorKey(path, password, chainID string, nodeID uint64) (cryptoid.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ks validatorKeyFile
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, err
	}
	if ks.ChainID != chainID {
		return nil, fmt.Errorf("wallet: keystore is for chain %q, want %q", ks.ChainID, chainID)
	}
	if ks.NodeID != nodeID {
		return nil, fmt.Errorf("wallet: keystore is for validator %d, want %d", ks.NodeID, nodeID)
	}

	salt, err := hex.DecodeString(ks.Salt)
	if err != nil {
		return nil, err
	}
	nonce, err := hex.DecodeString(ks.Nonce)
	if err != nil {
		return nil, err
	}
	cipherText, err := hex.DecodeString(ks.CipherText)
	if err != nil {
		return nil, err
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	privBytes, err := gcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return nil, errors.New("wrong password or corrupted keystore")
	}
	return cryptoid.PrivateKey(privBytes), nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
}
