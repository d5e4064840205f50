package store

import (
	"github.com/zalando/go-keyring"

	"github.com/aicred/aicred/internal/errors"
)

// keyringService namespaces our entries in the OS keyring.
const keyringService = "aicred"

// KeyringStore keeps raw credential values in the OS keyring so the
// instances document only ever carries hashes and redacted forms.
// Entries are keyed by instance id and value hash.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed credential store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

func (k *KeyringStore) account(instanceID, hash string) string {
	return instanceID + "/" + hash
}

// Set stores a raw value for an instance credential.
func (k *KeyringStore) Set(instanceID, hash, value string) error {
	if err := keyring.Set(k.service, k.account(instanceID, hash), value); err != nil {
		return errors.IOError{
			Op:         "keyring set",
			Path:       k.account(instanceID, hash),
			Suggestion: "Check that a keyring daemon is available, or store values in the document instead",
			Err:        err,
		}
	}
	return nil
}

// Get retrieves a raw value for an instance credential.
func (k *KeyringStore) Get(instanceID, hash string) (string, error) {
	value, err := keyring.Get(k.service, k.account(instanceID, hash))
	if err == keyring.ErrNotFound {
		return "", errors.NotFoundError{Resource: "keyring entry", ID: k.account(instanceID, hash)}
	}
	if err != nil {
		return "", errors.IOError{Op: "keyring get", Path: k.account(instanceID, hash), Err: err}
	}
	return value, nil
}

// Delete removes a stored credential value.
func (k *KeyringStore) Delete(instanceID, hash string) error {
	err := keyring.Delete(k.service, k.account(instanceID, hash))
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		return errors.IOError{Op: "keyring delete", Path: k.account(instanceID, hash), Err: err}
	}
	return nil
}
