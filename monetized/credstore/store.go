// Package credstore keeps the license credentials an application uses to
// build monetized clients, so keys live in the application's database
// instead of its source or environment.
package credstore

import (
	"context"
	"errors"
	"regexp"
	"time"
)

var (
	// ErrNotFound is returned when no credential exists under a name.
	ErrNotFound = errors.New("credential not found")
	// ErrInvalidCredential is returned by Put for a credential without a name.
	ErrInvalidCredential = errors.New("credential name is required")
)

// validIdentifier matches safe table and collection names.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Credential is a stored license credential.
type Credential struct {
	Name       string    `json:"name" bson:"name"`
	LicenseKey string    `json:"license_key" bson:"license_key"`
	Tier       string    `json:"tier" bson:"tier"`
	Endpoint   string    `json:"endpoint,omitempty" bson:"endpoint"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// Store persists credentials by name.
type Store interface {
	// Get returns the credential stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) (*Credential, error)

	// Put creates or replaces the credential with cred.Name (upsert).
	Put(ctx context.Context, cred Credential) (*Credential, error)

	// Delete removes the credential. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all credentials ordered by name.
	List(ctx context.Context) ([]Credential, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
