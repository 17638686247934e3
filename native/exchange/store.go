package exchange

import (
	"encoding/json"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/ledger"
	"github.com/snailsfinance/snails-contracts/native/pool"
	"github.com/snailsfinance/snails-contracts/storage"
)

var (
	exchangeMetaKey          = []byte("exchange/meta")
	exchangeContinuationsKey = []byte("exchange/continuations")
)

// exchangeMeta is the small, single-key summary needed to reconstruct an
// Exchange: the pool registry and ledger are persisted separately under
// their own pool/<id> and account/<id> namespaces.
type exchangeMeta struct {
	Owner   crypto.Address
	State   State
	PoolIDs []uint64
}

// Save persists the exchange's own scalars, every registered pool, the
// entire account ledger, and any outstanding continuations.
func (e *Exchange) Save(db storage.Database) error {
	poolIDs := make([]uint64, len(e.pools))
	for i, p := range e.pools {
		poolIDs[i] = p.ID
		if err := p.Save(db); err != nil {
			return err
		}
	}
	meta := exchangeMeta{Owner: e.owner, State: e.state, PoolIDs: poolIDs}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := db.Put(exchangeMetaKey, data); err != nil {
		return err
	}
	if err := e.ledger.Save(db); err != nil {
		return err
	}
	contData, err := json.Marshal(e.continuations)
	if err != nil {
		return err
	}
	return db.Put(exchangeContinuationsKey, contData)
}

// Load reconstructs an Exchange from its persisted meta, pool registry,
// account ledger, and continuations.
func Load(db storage.Database) (*Exchange, error) {
	metaData, err := db.Get(exchangeMetaKey)
	if err != nil {
		return nil, err
	}
	var meta exchangeMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, err
	}

	pools := make([]*pool.Pool, len(meta.PoolIDs))
	for i, id := range meta.PoolIDs {
		p, err := pool.Load(db, id)
		if err != nil {
			return nil, err
		}
		pools[i] = p
	}

	l, err := ledger.Load(db)
	if err != nil {
		return nil, err
	}

	continuations := make(map[string]*Continuation)
	if contData, err := db.Get(exchangeContinuationsKey); err == nil {
		if err := json.Unmarshal(contData, &continuations); err != nil {
			return nil, err
		}
	}

	return &Exchange{
		owner:         meta.Owner,
		pools:         pools,
		ledger:        l,
		state:         meta.State,
		continuations: continuations,
	}, nil
}
