package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the bech32 human-readable part used for exchange account
// addresses. There is a single prefix: LPs, traders and the pool owner all
// share one address space.
const AddressPrefix = "snail"

// Address is a 20-byte account identifier shared by LPs, traders and the
// exchange owner.
type Address struct {
	bytes []byte
}

// NewAddress wraps a 20-byte slice as an Address. Panics if the length is
// wrong since callers are expected to validate decoded input first.
func NewAddress(b []byte) Address {
	if len(b) != 20 {
		panic("crypto: address must be 20 bytes long")
	}
	return Address{bytes: b}
}

// IsZero reports whether the address has not been assigned any bytes.
func (a Address) IsZero() bool {
	return len(a.bytes) == 0
}

// Equal reports whether two addresses identify the same account.
func (a Address) Equal(other Address) bool {
	if len(a.bytes) != len(other.bytes) {
		return false
	}
	for i := range a.bytes {
		if a.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(AddressPrefix, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Bytes returns the raw 20-byte address.
func (a Address) Bytes() []byte {
	return a.bytes
}

// MarshalJSON encodes the address as its bech32 string form.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an address from its bech32 string form.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	decoded, err := DecodeAddress(s)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// DecodeAddress parses a bech32-encoded exchange address.
func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: invalid bech32 string: %w", err)
	}
	if prefix != AddressPrefix {
		return Address{}, fmt.Errorf("crypto: unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: error converting bits: %w", err)
	}
	if len(conv) != 20 {
		return Address{}, fmt.Errorf("crypto: address must be 20 bytes long, got %d", len(conv))
	}
	return NewAddress(conv), nil
}

// PrivateKey wraps a randomly generated ECDSA key; config uses one to derive
// the owner address it writes on first boot. The exchange core never signs
// anything itself.
type PrivateKey struct {
	*ecdsa.PrivateKey
}

// PublicKey is the public half of a PrivateKey.
type PublicKey struct {
	*ecdsa.PublicKey
}

// GeneratePrivateKey creates a new secp256k1 key pair.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

// Address derives the 20-byte exchange address for this public key.
func (k *PublicKey) Address() Address {
	addrBytes := crypto.PubkeyToAddress(*k.PublicKey).Bytes()
	return NewAddress(addrBytes)
}
