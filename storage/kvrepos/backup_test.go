package kvrepos

import (
	"encoding/json"
	"testing"

	kvstore "github.com/trezcool/pfetrack/storage/kv"
)

func populatedStore(t *testing.T) *kvstore.MemStore {
	t.Helper()
	kv := kvstore.NewMemStore()
	for key, value := range map[string]string{
		keyProjects:      `[{"id":"p1","titre":"Projet A","etudiantId":"s1","nomEtudiant":"Amina","statut":"en-cours"}]`,
		keyAppointments:  `[{"id":"a1","etudiantId":"s1","date":"2026-03-02","creneau":"10:00-11:00","statut":"en-attente"}]`,
		keyNotifications: `[]`,
		keyFiches:        `{"p1":{"id":"f1","projetId":"p1"}}`,
		keyUsers:         `[{"id":"u1","nom":"Amina"}]`,
	} {
		if err := kv.Set(key, value); err != nil {
			t.Fatalf("Set(%s) failed: %v", key, err)
		}
	}
	return kv
}

func rawKeys(t *testing.T, kv *kvstore.MemStore) map[string]string {
	t.Helper()
	state := make(map[string]string)
	for _, key := range []string{keyProjects, keyAppointments, keyNotifications, keyFiches, keyUsers} {
		if raw, ok, err := kv.Get(key); err != nil {
			t.Fatalf("Get(%s) failed: %v", key, err)
		} else if ok {
			state[key] = raw
		}
	}
	return state
}

func TestBackup_exportEnvelope(t *testing.T) {
	kv := populatedStore(t)
	payload, err := NewBackup(kv).Export()
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var env envelope
	if err = json.Unmarshal([]byte(payload), &env); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if env.Version != BackupVersion {
		t.Errorf("version = %s; want %s", env.Version, BackupVersion)
	}
	if env.Timestamp == "" {
		t.Error("missing timestamp")
	}
	// raw strings, untouched
	want, _, _ := kv.Get(keyProjects)
	if env.Storage.Projects == nil || *env.Storage.Projects != want {
		t.Errorf("exported projects = %v; want raw %s", env.Storage.Projects, want)
	}
	// credential data never leaves the store
	if env.Storage.Fiches == nil {
		t.Error("fiches missing from export")
	}
	var asMap map[string]interface{}
	_ = json.Unmarshal([]byte(payload), &asMap)
	storage := asMap["storage"].(map[string]interface{})
	if _, ok := storage["users"]; ok {
		t.Error("users leaked into the export envelope")
	}
}

func TestBackup_roundTrip(t *testing.T) {
	kv := populatedStore(t)
	b := NewBackup(kv)

	before := rawKeys(t, kv)
	payload, err := b.Export()
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	ok, err := b.Import(payload)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if !ok {
		t.Fatal("Import() = false; want true")
	}

	after := rawKeys(t, kv)
	for key, want := range before {
		if after[key] != want {
			t.Errorf("round-trip changed %s:\n got %s\nwant %s", key, after[key], want)
		}
	}
}

func TestBackup_partialImport(t *testing.T) {
	kv := populatedStore(t)
	before := rawKeys(t, kv)

	// only projects in the payload; every other key must stay untouched
	ok, err := NewBackup(kv).Import(`{"version":"1.0","timestamp":"2026-01-01T00:00:00Z","storage":{"projects":"[]"}}`)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if !ok {
		t.Fatal("Import() = false; want true")
	}

	after := rawKeys(t, kv)
	if after[keyProjects] != "[]" {
		t.Errorf("projects = %s; want []", after[keyProjects])
	}
	for _, key := range []string{keyAppointments, keyNotifications, keyFiches, keyUsers} {
		if after[key] != before[key] {
			t.Errorf("partial import touched %s", key)
		}
	}
}

func TestBackup_importFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not JSON", payload: "lol"},
		{name: "missing storage field", payload: `{"not_storage_field": true}`},
		{name: "null storage", payload: `{"version":"1.0","storage":null}`},
		{name: "empty payload", payload: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := populatedStore(t)
			before := rawKeys(t, kv)

			ok, err := NewBackup(kv).Import(tt.payload)
			if err != nil {
				t.Fatalf("Import() failed: %v", err)
			}
			if ok {
				t.Error("Import() = true; want false")
			}
			after := rawKeys(t, kv)
			for key, want := range before {
				if after[key] != want {
					t.Errorf("rejected import modified %s", key)
				}
			}
		})
	}
}
