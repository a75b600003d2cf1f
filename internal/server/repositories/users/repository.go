// Package users stores registered accounts. Implementations are bound to a
// dbx.DBTX so the same repository works on a pool or inside a transaction.
package users

import (
	"context"

	"github.com/dmitrijs2005/imgbox/internal/server/models"
)

type Repository interface {
	// Create inserts user and sets user.ID to the id assigned by the store.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByID returns common.ErrorNotFound when no row has the id.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// List returns every user ordered by id; never nil.
	List(ctx context.Context) ([]*models.User, error)
}
