package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util/errorutil"
)

// UserService is the subset of service.UserService the handler needs.
type UserService interface {
	Create(ctx context.Context, user *domain.User) error
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, bool, error)
	Delete(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, email, firstname, lastname string) (*domain.User, bool, error)
}

// UsersHandler exposes the user CRUD endpoints.
type UsersHandler struct {
	users  UserService
	logger *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.FindAll(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(users)
}

// Get handles GET /user/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	email := c.Params("email")

	user, found, err := h.users.FindByEmail(c.UserContext(), email)
	if err != nil {
		return h.fail(c, err)
	}
	if !found {
		return c.Status(http.StatusNotFound).SendString(fmt.Sprintf("the user with email '%s' doesn't exist", email))
	}
	return c.Status(http.StatusOK).JSON(user)
}

// Create handles POST /user.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var user *domain.User
	if len(c.Body()) > 0 {
		var req dto.CreateUserRequest
		// Bodies with an unsupported content type are read as an empty user,
		// leaving the rejection to validation.
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return apperrors.NewBadRequest("invalid payload")
		}
		user = req.ToDomain()
	}

	if err := h.users.Create(c.UserContext(), user); err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(user)
}

// Delete handles DELETE /user/:email.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	email := c.Params("email")

	deleted, err := h.users.Delete(c.UserContext(), email)
	if err != nil {
		return h.fail(c, err)
	}
	if !deleted {
		return c.Status(http.StatusNotFound).SendString(fmt.Sprintf("the user with the email %s doesn't exist", email))
	}
	return c.Status(http.StatusOK).SendString(fmt.Sprintf("the user with the email %s has been deleted", email))
}

// Update handles PATCH /user/:email?firstname=..&lastname=..
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	email := c.Params("email")

	user, found, err := h.users.Update(c.UserContext(), email, c.Query("firstname"), c.Query("lastname"))
	if err != nil {
		return h.fail(c, err)
	}
	if !found {
		return c.Status(http.StatusNotFound).SendString(fmt.Sprintf("the user with the email %s doesn't exist", email))
	}
	return c.Status(http.StatusOK).JSON(user)
}

// fail answers with the error message as plain text.
func (h *UsersHandler) fail(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	h.logger.Warn("user request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("code", domainErr.Code),
		zap.Error(err))
	return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
}
