package utils

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

var entropyLock sync.Mutex

// NewRunID returns a fresh ULID string identifying one generation run.
// The lock keeps concurrent callers from ever minting the same ID.
func NewRunID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.Make().String()
}

// ParseRunID parses a run ID back into a ULID.
func ParseRunID(s string) (ulid.ULID, error) {
	return ulid.Parse(s)
}
