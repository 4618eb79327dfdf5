// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/tapilabs/leadsim/internal/domain"
)

// Repository defines the interface for persisting access credentials.
// This is the durable equivalent of the browser-local storage the hosted
// form used: one credential set, written once at code-exchange time and
// read at startup.
type Repository interface {
	// GetCredentials retrieves the stored credentials, or nil when no code
	// exchange has happened yet.
	GetCredentials(ctx context.Context) (*domain.Credentials, error)

	// SaveCredentials stores the credentials, replacing any previous set.
	SaveCredentials(ctx context.Context, creds *domain.Credentials) error

	// DeleteCredentials removes the stored credentials.
	DeleteCredentials(ctx context.Context) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
