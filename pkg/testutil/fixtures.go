package testutil

import (
	"crypto/ecdsa"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tokengate/internal/eoa"
	"tokengate/pkg/domain"
)

// TestAddrs provides convenient pre-generated addresses for tests.
// Use these for deterministic test data.
var TestAddrs = struct {
	Deployer   domain.Address
	Creator    domain.Address
	Holder     domain.Address
	Operator   domain.Address
	Receiver   domain.Address
	Contract   domain.Address
	Collection domain.Address
}{
	Deployer:   Addr(0x01),
	Creator:    Addr(0x02),
	Holder:     Addr(0x03),
	Operator:   Addr(0x04),
	Receiver:   Addr(0x05),
	Contract:   Addr(0xc0),
	Collection: Addr(0xcc),
}

// Addr returns a deterministic address whose bytes are all seed.
func Addr(seed byte) domain.Address {
	var a domain.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

// Wallet is a throwaway secp256k1 keypair for signature tests.
type Wallet struct {
	Key     *ecdsa.PrivateKey
	Address domain.Address
}

// NewWallet generates a fresh keypair.
func NewWallet(t *testing.T) Wallet {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr, err := domain.AddressFromBytes(ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())
	if err != nil {
		t.Fatalf("derive address: %v", err)
	}
	return Wallet{Key: key, Address: addr}
}

// SignEOAProof signs the fixed EOA verification message, producing the
// 65-byte [R || S || V] signature the registry expects.
func (w Wallet) SignEOAProof(t *testing.T) []byte {
	t.Helper()
	sig, err := ethcrypto.Sign(eoa.SignedMessageHash(), w.Key)
	if err != nil {
		t.Fatalf("sign eoa proof: %v", err)
	}
	return sig
}
