package dto

import "github.com/spec-kit/user-service/internal/domain"

// CreateUserRequest payload for POST /user. Domain is accepted but always cleared.
type CreateUserRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Domain    string `json:"domain"`
}

// ToDomain converts the payload into the user record submitted to the gateway.
func (r CreateUserRequest) ToDomain() *domain.User {
	return &domain.User{
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Email:     r.Email,
		Domain:    r.Domain,
	}
}
