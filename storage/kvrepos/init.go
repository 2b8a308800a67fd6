package kvrepos

import (
	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/notification"
)

// Init seeds a fresh store. It is idempotent and runs once at process
// start before any repository is used.
//
// For each of projects, appointments and notifications: when the key is
// completely missing, the seed collection is written; any present value,
// corrupt or not, is left untouched, including across application
// upgrades that ship a different seed. Notifications seed empty. The
// users key is not managed here; the user repository creates it lazily on
// first write.
func Init(kv core.KVStore, seed Seed) error {
	if err := seedIfAbsent(kv, keyProjects, seed.Projects); err != nil {
		return err
	}
	if err := seedIfAbsent(kv, keyAppointments, seed.Appointments); err != nil {
		return err
	}
	return seedIfAbsent(kv, keyNotifications, []notification.Notification{})
}

func seedIfAbsent(kv core.KVStore, key string, collection interface{}) error {
	// presence only; corrupt data is deliberately not detected here
	if _, ok, err := kv.Get(key); err != nil || ok {
		return err
	}
	return encodeKey(kv, key, collection)
}
