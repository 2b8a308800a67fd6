// Package kvrepos implements the collection repositories on top of a
// core.KVStore: one logical key per collection, each holding the whole
// collection as one JSON string. Reads decode the full value, writes
// re-encode and replace it.
package kvrepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core"
)

// Storage keys. These are the portal's original key names; renaming one
// orphans every existing deployment's data.
const (
	keyProjects      = "projects"
	keyAppointments  = "appointments"
	keyNotifications = "notifications"
	keyFiches        = "fiches"
	keyUsers         = "users"
)

// decodeKey loads and decodes the collection at key into dst. An absent
// key leaves dst untouched and returns found=false; a present value that
// does not decode returns a *core.CorruptDataError. Corrupt values are
// never repaired or re-seeded, every read keeps failing until the key is
// cleared or overwritten by an import.
func decodeKey(kv core.KVStore, key string, dst interface{}) (found bool, err error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err = json.Unmarshal([]byte(raw), dst); err != nil {
		return true, core.NewCorruptDataError(key, err)
	}
	return true, nil
}

// encodeKey encodes v and replaces the collection at key.
func encodeKey(kv core.KVStore, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return kv.Set(key, string(raw))
}
