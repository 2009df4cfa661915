package repository

import (
	"context"

	"github.com/spec-kit/user-service/internal/db2"
	"github.com/spec-kit/user-service/internal/domain"
)

// Caller issues one DB2 REST operation. *db2.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, op db2.Operation, payload any) (*db2.Envelope, error)
}

// UserRepository defines remote access for users. Counts are the gateway's
// "Update Count".
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) error
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	DeleteByEmail(ctx context.Context, email string) (int, error)
	Update(ctx context.Context, email, firstname, lastname string) (int, error)
}

type userRepository struct {
	db Caller
}

// NewUserRepository returns a DB2 gateway backed implementation.
func NewUserRepository(db Caller) UserRepository {
	return &userRepository{db: db}
}

type emailParams struct {
	Email string `json:"email"`
}

type updateParams struct {
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (r *userRepository) Insert(ctx context.Context, user domain.User) error {
	_, err := r.db.Call(ctx, db2.OpInsert, user)
	return err
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	env, err := r.db.Call(ctx, db2.OpFindAll, nil)
	if err != nil {
		return nil, err
	}
	return db2.Rows[domain.User](env)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	env, err := r.db.Call(ctx, db2.OpFindByEmail, emailParams{Email: email})
	if err != nil {
		return nil, err
	}
	return db2.Rows[domain.User](env)
}

func (r *userRepository) DeleteByEmail(ctx context.Context, email string) (int, error) {
	env, err := r.db.Call(ctx, db2.OpDeleteByEmail, emailParams{Email: email})
	if err != nil {
		return 0, err
	}
	return env.UpdateCount, nil
}

func (r *userRepository) Update(ctx context.Context, email, firstname, lastname string) (int, error) {
	env, err := r.db.Call(ctx, db2.OpUpdate, updateParams{
		Email:     email,
		Firstname: firstname,
		Lastname:  lastname,
	})
	if err != nil {
		return 0, err
	}
	return env.UpdateCount, nil
}
