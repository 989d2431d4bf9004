package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"userapi/internal/apperrors"
	"userapi/internal/models"
	"userapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	validate := validator.New()
	// Report json field names in validation errors instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &UserHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/", h.HandleGetAllUsers)
	userRoutes.Get("/username/:username", h.HandleGetUserByUsername)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleCreateUser creates a new user from a validated request body.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.NewInvalidArgument("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, toConstraintError(err))
	}

	user, err := h.service.CreateUser(&req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUserByID retrieves a single user by ID. A miss is a bare 404.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.service.GetUserByID(id)
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.JSON(user)
}

// HandleGetUserByUsername retrieves a single user by username.
func (h *UserHandler) HandleGetUserByUsername(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := h.service.GetUserByUsername(username)
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.JSON(user)
}

// HandleGetAllUsers retrieves all users.
func (h *UserHandler) HandleGetAllUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(users)
}

// HandleUpdateUser updates an existing user. A miss is a bare 404.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.NewInvalidArgument("Invalid request body"))
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, toConstraintError(err))
	}

	user, err := h.service.UpdateUser(id, &req)
	if err != nil {
		return writeError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user permanently. A miss is a bare 404.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	deleted, err := h.service.DeleteUser(id)
	if err != nil {
		return writeError(c, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).Send(nil)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// parseID validates the :id path parameter as a UUID.
func parseID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewInvalidArgument(fmt.Sprintf("Invalid user ID: %s", id))
	}
	return id, nil
}

// toConstraintError converts validator output into the taxonomy, keeping the
// field order the validator reported.
func toConstraintError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInvalidArgument(err.Error())
	}

	constraint := &apperrors.ConstraintError{}
	for _, e := range validationErrors {
		constraint.AddField(e.Field(), fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return constraint
}
