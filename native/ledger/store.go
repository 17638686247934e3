package ledger

import (
	"encoding/hex"
	"encoding/json"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/storage"
)

// accountKeyPrefix namespaces every persisted account record; accountIndexKey
// holds the set of account keys with a persisted entry, since
// storage.Database offers no range scan. Mirrors the teacher's
// voucher-index-plus-records convention in native/swap/keys.go.
var (
	accountKeyPrefix = []byte("account/")
	accountIndexKey  = []byte("account/index")
)

func accountKey(key string) []byte {
	buf := make([]byte, len(accountKeyPrefix)+hex.EncodedLen(len(key)))
	copy(buf, accountKeyPrefix)
	hex.Encode(buf[len(accountKeyPrefix):], []byte(key))
	return buf
}

// loadIndex/saveIndex persist the set of account keys (raw
// crypto.Address.Bytes(), almost never valid UTF-8) as hex strings:
// encoding/json silently replaces invalid-UTF-8 byte runs with U+FFFD when
// marshaling a plain string, which would corrupt every account key on a
// save/load round-trip and strand its record under an unloadable index
// entry.
func loadIndex(db storage.Database) ([]string, error) {
	data, err := db.Get(accountIndexKey)
	if err != nil {
		return nil, nil
	}
	var encoded []string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, err
	}
	keys := make([]string, len(encoded))
	for i, e := range encoded {
		raw, err := hex.DecodeString(e)
		if err != nil {
			return nil, err
		}
		keys[i] = string(raw)
	}
	return keys, nil
}

func saveIndex(db storage.Database, keys []string) error {
	encoded := make([]string, len(keys))
	for i, k := range keys {
		encoded[i] = hex.EncodeToString([]byte(k))
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return err
	}
	return db.Put(accountIndexKey, data)
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

// SaveAccount persists acct's entry and adds it to the index if new. A nil
// entry (acct has never registered any tokens) is a no-op.
func (l *AccountLedger) SaveAccount(db storage.Database, acct crypto.Address) error {
	entry, ok := l.entry(acct)
	if !ok {
		return nil
	}
	key := acctKey(acct)
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := db.Put(accountKey(key), data); err != nil {
		return err
	}
	keys, err := loadIndex(db)
	if err != nil {
		return err
	}
	if indexOf(keys, key) >= 0 {
		return nil
	}
	return saveIndex(db, append(keys, key))
}

// Save persists every account the ledger currently holds.
func (l *AccountLedger) Save(db storage.Database) error {
	for key := range l.accounts {
		data, err := json.Marshal(l.accounts[key])
		if err != nil {
			return err
		}
		if err := db.Put(accountKey(key), data); err != nil {
			return err
		}
	}
	keys := make([]string, 0, len(l.accounts))
	for key := range l.accounts {
		keys = append(keys, key)
	}
	return saveIndex(db, keys)
}

// Load reconstructs an AccountLedger from every account record present in db.
func Load(db storage.Database) (*AccountLedger, error) {
	keys, err := loadIndex(db)
	if err != nil {
		return nil, err
	}
	l := New()
	for _, key := range keys {
		data, err := db.Get(accountKey(key))
		if err != nil {
			return nil, err
		}
		var entry AccountEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, err
		}
		l.accounts[key] = &entry
	}
	return l, nil
}
