// Package secure holds raw credential values in protected memory for
// the window between review and persistence. Values live in memguard
// enclaves: encrypted at rest in memory, mlocked against swapping.
//
// For complete cleanup of all protected data at application exit,
// call memguard.Purge() in a defer statement in main().
package secure

import (
	"sync"

	"github.com/awnumar/memguard"

	"github.com/aicred/aicred/internal/errors"
)

// KeyVault maps credential hashes to their raw values. The hash is
// the only identifier that circulates outside the vault.
type KeyVault struct {
	mu      sync.Mutex
	entries map[string]*memguard.Enclave
	// destroyed allows idempotent Destroy() and prevents use after it
	destroyed bool
}

// NewKeyVault creates an empty vault.
func NewKeyVault() *KeyVault {
	return &KeyVault{entries: make(map[string]*memguard.Enclave)}
}

// Put stores a raw value under its hash. The plaintext is copied into
// a protected enclave immediately; the caller should drop its copy.
func (v *KeyVault) Put(hash, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.destroyed {
		return errors.InvalidInputError{Field: "vault", Message: "vault has been destroyed"}
	}
	v.entries[hash] = memguard.NewEnclave([]byte(value))
	return nil
}

// Reveal decrypts and returns the value for a hash. The returned
// string is an unprotected copy; use it briefly and let it go.
func (v *KeyVault) Reveal(hash string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.destroyed {
		return "", errors.InvalidInputError{Field: "vault", Message: "vault has been destroyed"}
	}
	enclave, ok := v.entries[hash]
	if !ok {
		return "", errors.NotFoundError{Resource: "credential", ID: hash}
	}

	locked, err := enclave.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	return string(locked.Bytes()), nil
}

// Has reports whether a hash is stored.
func (v *KeyVault) Has(hash string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.entries[hash]
	return ok && !v.destroyed
}

// Len returns the number of stored values.
func (v *KeyVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return 0
	}
	return len(v.entries)
}

// Destroy drops every entry and marks the vault unusable. Idempotent.
// The enclaves' encrypted contents are unreachable afterwards.
func (v *KeyVault) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.destroyed {
		return
	}
	v.entries = nil
	v.destroyed = true
}
