package storage

import "errors"

var (
	// ErrCouldNotFetch wraps backend read failures. During the initial load
	// this is unrecoverable: the stores cannot guarantee a correct in-memory
	// mirror without it.
	ErrCouldNotFetch = errors.New("could not fetch from storage")

	// ErrCouldNotPersist wraps backend write failures. In-memory state must
	// not advance past a failed persist.
	ErrCouldNotPersist = errors.New("could not persist to storage")

	// ErrNotInitialized is returned by Load when the storage has never been
	// initialized.
	ErrNotInitialized = errors.New("storage not initialized, run 'routine init' first")
)
