package pool

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/storage"
)

// poolKeyPrefix namespaces every persisted pool record, mirroring the
// teacher's swap-module key prefixing convention.
var poolKeyPrefix = []byte("pool/")

func poolKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%d", poolKeyPrefix, id))
}

// poolWire is Pool's on-wire shape. Shares is keyed by an address's raw
// bytes (see shareKey), which is almost never valid UTF-8; encoding/json
// silently replaces invalid-UTF-8 runs in a string map key with U+FFFD on
// marshal, so every LP share would reattach to a mangled key on the next
// Load. poolWire hex-encodes the key instead, the same treatment the
// ledger's accountKey already gives its own KV key.
type poolWire struct {
	ID       uint64
	TokenIDs []string
	Decimals []uint8

	Reserves    []*uint256.Int
	AdminFees   []*uint256.Int
	TotalVolume []*uint256.Int

	ShareSupply *uint256.Int
	Shares      map[string]*uint256.Int

	ActiveFees  fees.Fees
	PendingFees *fees.PendingChange

	Ramp curve.Ramp
}

// MarshalJSON hex-encodes share keys before deferring to encoding/json.
func (p *Pool) MarshalJSON() ([]byte, error) {
	shares := make(map[string]*uint256.Int, len(p.Shares))
	for key, amount := range p.Shares {
		shares[hex.EncodeToString([]byte(key))] = amount
	}
	return json.Marshal(poolWire{
		ID:          p.ID,
		TokenIDs:    p.TokenIDs,
		Decimals:    p.Decimals,
		Reserves:    p.Reserves,
		AdminFees:   p.AdminFees,
		TotalVolume: p.TotalVolume,
		ShareSupply: p.ShareSupply,
		Shares:      shares,
		ActiveFees:  p.ActiveFees,
		PendingFees: p.PendingFees,
		Ramp:        p.Ramp,
	})
}

// UnmarshalJSON reverses MarshalJSON's share-key hex encoding.
func (p *Pool) UnmarshalJSON(data []byte) error {
	var w poolWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	shares := make(map[string]*uint256.Int, len(w.Shares))
	for key, amount := range w.Shares {
		raw, err := hex.DecodeString(key)
		if err != nil {
			return fmt.Errorf("pool: decoding share key: %w", err)
		}
		shares[string(raw)] = amount
	}
	p.ID = w.ID
	p.TokenIDs = w.TokenIDs
	p.Decimals = w.Decimals
	p.Reserves = w.Reserves
	p.AdminFees = w.AdminFees
	p.TotalVolume = w.TotalVolume
	p.ShareSupply = w.ShareSupply
	p.Shares = shares
	p.ActiveFees = w.ActiveFees
	p.PendingFees = w.PendingFees
	p.Ramp = w.Ramp
	return nil
}

// Save (de)serializes the pool to db under its pool/<id> key. Encoding is
// plain encoding/json with the share-key hex encoding above: uint256.Int
// marshals itself, and no third-party serializer in the kept dependency
// set offers anything json doesn't already give this shape.
func (p *Pool) Save(db storage.Database) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return db.Put(poolKey(p.ID), data)
}

// Load reads and decodes the pool stored under id, or returns the error
// storage.Database.Get reports for a missing key.
func Load(db storage.Database, id uint64) (*Pool, error) {
	data, err := db.Get(poolKey(id))
	if err != nil {
		return nil, err
	}
	var p Pool
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
