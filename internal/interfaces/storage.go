// -----------------------------------------------------------------------
// Last Modified: Wednesday, 8th October 2025 12:10:32 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package interfaces

// StorageManager owns the backing database and hands out storage adapters
type StorageManager interface {
	KeyValueStorage() KeyValueStorage
	// Backend names the storage engine ("badger" or "postgres")
	Backend() string
	Close() error
}
