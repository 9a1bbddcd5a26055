package storage

import (
	"time"

	"github.com/nickholt/routine/internal/models"
)

// Record is any persisted entity with a stable identity.
type Record interface {
	RecordID() string
}

// Repository stages mutations for one entity kind against the backend's
// working transaction. Insert is an upsert keyed on the record's identity.
// Staged records are captured by reference and serialized when the backend
// flushes, so field mutations made between staging and Save are included.
// Nothing is durable until Backend.Save succeeds.
type Repository[T Record] interface {
	FetchAll() ([]T, error)
	Insert(T)
	Delete(T)
}

// Settings holds the small amount of application state that lives outside
// the entity tables. Reads and writes are immediate, not staged.
type Settings struct {
	LastActive *time.Time
}

// Backend is the persistence collaborator behind the entity stores. Entity
// writes are staged through the repositories and flushed by Save in a single
// transaction; Save is a no-op when nothing is pending. A failed Save keeps
// the staged journal so a retry can converge.
type Backend interface {
	// Init creates the underlying storage, schema included.
	Init() error
	// Load opens existing storage; it fails if Init has never run.
	Load() error
	Close() error

	Activities() Repository[*models.Activity]
	Completions() Repository[*models.Completion]

	HasPendingChanges() bool
	Save() error

	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Location describes where the backend stores data (path or DSN host),
	// for diagnostics only.
	Location() string
}
