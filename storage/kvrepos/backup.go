package kvrepos

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pfetrack/core"
)

// BackupVersion tags exported envelopes. Import accepts any version; the
// tag exists so future formats can be told apart.
const BackupVersion = "1.0"

type (
	// envelope is the backup wire format. Each storage field carries the
	// raw encoded string of its adapter key, untouched, so an
	// export/import round-trip is byte-for-byte. Users are deliberately
	// excluded: credential data never leaves the store.
	envelope struct {
		Version   string          `json:"version"`
		Timestamp string          `json:"timestamp"`
		Storage   envelopeStorage `json:"storage"`
	}

	envelopeStorage struct {
		Projects      *string `json:"projects,omitempty"`
		Appointments  *string `json:"appointments,omitempty"`
		Notifications *string `json:"notifications,omitempty"`
		Fiches        *string `json:"fiches,omitempty"`
	}
)

// Backup reads and writes the adapter keys directly, bypassing the
// repositories and their validation. It is the only component allowed to
// replace whole collections verbatim.
type Backup struct {
	kv core.KVStore
}

func NewBackup(kv core.KVStore) *Backup {
	return &Backup{kv: kv}
}

// Export serializes the current store state into a versioned envelope.
// Keys absent from the store are absent from the envelope.
func (b *Backup) Export() (string, error) {
	env := envelope{
		Version:   BackupVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	for _, f := range []struct {
		key string
		dst **string
	}{
		{keyProjects, &env.Storage.Projects},
		{keyAppointments, &env.Storage.Appointments},
		{keyNotifications, &env.Storage.Notifications},
		{keyFiches, &env.Storage.Fiches},
	} {
		raw, ok, err := b.kv.Get(f.key)
		if err != nil {
			return "", err
		}
		if ok {
			value := raw
			*f.dst = &value
		}
	}

	out, err := json.Marshal(env)
	if err != nil {
		return "", errors.Wrap(err, "encoding backup envelope")
	}
	return string(out), nil
}

// Import restores collections from an envelope. It fails closed: an
// unparsable payload or one missing the storage field writes nothing and
// returns false. Fields present in the payload overwrite their adapter
// key verbatim; absent fields leave their collection untouched, so
// partial imports are allowed.
//
// Writes are atomic per key but not across keys; a storage failure
// between two writes can leave collections inconsistent with each other.
func (b *Backup) Import(payload string) (bool, error) {
	var probe struct {
		Storage *envelopeStorage `json:"storage"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return false, nil
	}
	if probe.Storage == nil {
		return false, nil
	}

	for _, f := range []struct {
		key string
		src *string
	}{
		{keyProjects, probe.Storage.Projects},
		{keyAppointments, probe.Storage.Appointments},
		{keyNotifications, probe.Storage.Notifications},
		{keyFiches, probe.Storage.Fiches},
	} {
		if f.src == nil {
			continue
		}
		if err := b.kv.Set(f.key, *f.src); err != nil {
			return false, err
		}
	}
	return true, nil
}
