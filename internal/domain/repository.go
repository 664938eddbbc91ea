package domain

import (
	"context"

	"github.com/google/uuid"
)

// Entity is implemented by every record kind kept in a DocumentStore.
type Entity interface {
	EntityID() uuid.UUID
}

// DocumentStore defines the contract for the abstract document storage shared
// by every entity kind. Bodies are JSON documents; every operation addresses a
// single document and is atomic at the store level.
type DocumentStore interface {
	Insert(ctx context.Context, collection string, id uuid.UUID, body []byte) error
	// FindByID returns ErrDocumentNotFound for absent or soft-deleted documents.
	FindByID(ctx context.Context, collection string, id uuid.UUID) ([]byte, error)
	Find(ctx context.Context, collection string, filter Filter) ([][]byte, error)
	// ReplaceIfExists replaces a live document and reports whether one existed.
	ReplaceIfExists(ctx context.Context, collection string, id uuid.UUID, body []byte) (bool, error)
	// SoftDelete flags a document as deleted. Absent ids are not an error.
	SoftDelete(ctx context.Context, collection string, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}

// Collection names.
const (
	CollectionProducts    = "products"
	CollectionBranches    = "branches"
	CollectionInventories = "inventories"
	CollectionPurchases   = "purchases"
	CollectionUsers       = "users"
)
