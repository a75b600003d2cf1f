// Package service talks to the imgbox server.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/imgbox/internal/client/models"
)

// ErrUnavailable means the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

type Service interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UploadPhoto(ctx context.Context, filename string, r io.Reader) (*models.Photo, error)
	Ping(ctx context.Context) error
}
