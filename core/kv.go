package core

// KVStore is the persistence adapter: a durable per-deployment string store.
// Each logical collection occupies exactly one key and is always read then
// fully rewritten, never patched at sub-key granularity.
//
// Implementations must not transform content. Set surfaces failure via
// *StorageUnavailableError rather than dropping data silently.
type KVStore interface {
	// Get returns the raw value at key. ok is false when the key is absent;
	// an absent key is not an error.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
