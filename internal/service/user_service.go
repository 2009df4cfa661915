package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/db2"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
)

// duplicateKeyMarker is the DB2 SQLCODE for a unique constraint violation.
const duplicateKeyMarker = "-803"

// UserService validates input and turns gateway outcomes into domain results.
// Absent records are reported through the found/deleted booleans, never as errors.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Create inserts user after validating it. Domain is always reset to "".
func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return &domain.ValidationError{Field: "user", Message: "the object user is mandatory"}
	}
	if isBlank(user.Firstname) {
		return &domain.ValidationError{Field: "firstname"}
	}
	if isBlank(user.Lastname) {
		return &domain.ValidationError{Field: "lastname"}
	}
	if isBlank(user.Email) {
		return &domain.ValidationError{Field: "email"}
	}

	user.Domain = ""

	if err := s.users.Insert(ctx, *user); err != nil {
		classified := ClassifyInsertError(err, user.Email)
		s.logger.Warn("insert user failed", zap.String("email", user.Email), zap.Error(classified))
		return classified
	}
	return nil
}

// FindAll lists every user. The result is never nil.
func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, s.gatewayError(db2.OpFindAll, err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// FindByEmail returns the user only when the gateway yields exactly one row.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	if isBlank(email) {
		return nil, false, &domain.ValidationError{Field: "email"}
	}

	users, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, s.gatewayError(db2.OpFindByEmail, err)
	}
	if len(users) != 1 {
		return nil, false, nil
	}
	return &users[0], true, nil
}

// Delete removes the user and reports whether exactly one row was affected.
func (s *UserService) Delete(ctx context.Context, email string) (bool, error) {
	if isBlank(email) {
		return false, &domain.ValidationError{Field: "email"}
	}

	count, err := s.users.DeleteByEmail(ctx, email)
	if err != nil {
		return false, s.gatewayError(db2.OpDeleteByEmail, err)
	}
	return count == 1, nil
}

// Update renames the user and, when exactly one row changed, returns the
// record as read back from the gateway.
func (s *UserService) Update(ctx context.Context, email, firstname, lastname string) (*domain.User, bool, error) {
	if isBlank(email) {
		return nil, false, &domain.ValidationError{Field: "email"}
	}
	if isBlank(firstname) || isBlank(lastname) {
		return nil, false, &domain.ValidationError{
			Field:   "firstname, lastname",
			Message: `the fields "firstname" and "lastname" must not be empty`,
		}
	}

	count, err := s.users.Update(ctx, email, firstname, lastname)
	if err != nil {
		return nil, false, s.gatewayError(db2.OpUpdate, err)
	}
	if count != 1 {
		return nil, false, nil
	}
	return s.FindByEmail(ctx, email)
}

func (s *UserService) gatewayError(op db2.Operation, err error) error {
	if !isGatewayFailure(err) {
		return err
	}
	s.logger.Error("db2 call failed", zap.String("operation", string(op)), zap.Error(err))
	return &domain.GatewayError{Operation: string(op), Err: err}
}

// ClassifyInsertError maps an insert failure to the domain taxonomy. A remote
// answer with status 500 whose description contains the -803 SQLCODE becomes
// a DuplicateError for email; any other remote or transport failure becomes a
// GatewayError; errors that never reached the gateway are returned unchanged.
func ClassifyInsertError(err error, email string) error {
	if err == nil {
		return nil
	}
	var remoteErr *db2.RemoteError
	if errors.As(err, &remoteErr) &&
		remoteErr.StatusCode == http.StatusInternalServerError &&
		strings.Contains(remoteErr.StatusDescription, duplicateKeyMarker) {
		return &domain.DuplicateError{Email: email}
	}
	if isGatewayFailure(err) {
		return &domain.GatewayError{Operation: string(db2.OpInsert), Err: err}
	}
	return err
}

func isGatewayFailure(err error) bool {
	var remoteErr *db2.RemoteError
	var transportErr *db2.TransportError
	return errors.As(err, &remoteErr) || errors.As(err, &transportErr)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
