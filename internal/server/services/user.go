// Package services contains server-side business logic. This file implements
// UserService, the user directory: registration and lookup by id.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imgbox/internal/common"
	"github.com/dmitrijs2005/imgbox/internal/cryptox"
	"github.com/dmitrijs2005/imgbox/internal/dbx"
	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/models"
	"github.com/dmitrijs2005/imgbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imgbox/internal/server/shared/db"
	"github.com/dmitrijs2005/imgbox/internal/server/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/dmitrijs2005/imgbox/internal/server/services")

// HashFunc turns a plaintext password into the stored credential.
type HashFunc func(secret []byte) (string, error)

// UserService creates and reads users. Every write runs in its own
// transaction; reads go straight to the pool.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hash        HashFunc
	logger      logging.Logger
}

// NewUserService constructs a UserService. A nil hash defaults to
// cryptox.HashPassword.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hash HashFunc, logger logging.Logger) *UserService {
	if hash == nil {
		hash = cryptox.HashPassword
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hash:        hash,
		logger:      logger.With("module", "users"),
	}
}

// Create validates the input, hashes the password and inserts the user.
// The email is stored lower-cased. It returns common.ErrorValidation, common.ErrorConflict (email taken),
// common.ErrorStoreUnavailable or common.ErrorInternal, all wrapped.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Create")
	defer span.End()

	email = validation.NormalizeEmail(email)
	if err := validation.ValidateRegistration(name, email, password); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	hash, err := s.hash([]byte(password))
	if err != nil {
		return nil, s.fail(ctx, span, "hash password", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Users(tx).Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, span, "create user", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	s.logger.Info(ctx, "user created", "id", user.ID)
	return user, nil
}

// Get returns the user with id. A missing user is (nil, false, nil).
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, bool, error) {
	ctx, span := tracer.Start(ctx, "UserService.Get", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, s.fail(ctx, span, "get user", err)
	}
	return user, true, nil
}

// List returns all users ordered by id. An empty directory yields an empty,
// non-nil slice.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.List")
	defer span.End()

	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list users", err)
	}
	if list == nil {
		list = []*models.User{}
	}
	span.SetAttributes(attribute.Int("users.count", len(list)))
	return list, nil
}

// fail maps a store error onto a common sentinel, records it on the span
// and logs it.
func (s *UserService) fail(ctx context.Context, span trace.Span, op string, err error) error {
	var mapped error
	switch {
	case errors.Is(err, context.Canceled):
		// the caller went away; nothing failed on our side
		span.SetStatus(codes.Error, op+" cancelled")
		s.logger.Debug(ctx, op+" cancelled")
		return fmt.Errorf("%s: %w", op, err)
	case db.IsUniqueViolation(err):
		mapped = fmt.Errorf("%s: %w", op, common.ErrorConflict)
	case db.IsUnavailable(err):
		mapped = fmt.Errorf("%s: %w: %w", op, common.ErrorStoreUnavailable, err)
	default:
		mapped = fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, err)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, op)

	if errors.Is(mapped, common.ErrorConflict) {
		s.logger.Warn(ctx, "email already registered")
	} else {
		s.logger.Error(ctx, op+" failed", "error", err)
	}
	return mapped
}
