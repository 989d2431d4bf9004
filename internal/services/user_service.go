package services

import (
	"errors"
	"fmt"
	"log"

	"userapi/internal/apperrors"
	"userapi/internal/mappers"
	"userapi/internal/models"
	"userapi/internal/repositories"
	"userapi/pkg/rabbitmq"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for user accounts: uniqueness checks,
// password hashing and entity/DTO mapping around repository calls.
//
// The existence pre-checks in CreateUser are not atomic with the insert; the
// store's unique constraints are the source of truth and a constraint
// violation at persist time is mapped back to a duplicate error.
type UserService struct {
	repo     repositories.UserRepository
	mqClient *rabbitmq.Client
}

// NewUserService creates a new UserService. mqClient may be nil, in which
// case lifecycle events are skipped.
func NewUserService(repo repositories.UserRepository, mqClient *rabbitmq.Client) *UserService {
	return &UserService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// CreateUser registers a new user. The username check runs before the email
// check, so when both collide the duplicate error cites the username.
func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.UserResponse, error) {
	taken, err := s.repo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if taken {
		return nil, apperrors.NewDuplicate("User", "username", req.Username)
	}

	registered, err := s.repo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if registered {
		return nil, apperrors.NewDuplicate("User", "email", req.Email)
	}

	user := mappers.ToEntity(req)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// A concurrent create slipped past the pre-checks; the store
			// constraint fired. Re-probe to name the conflicting field.
			if taken, probeErr := s.repo.ExistsByUsername(req.Username); probeErr == nil && taken {
				return nil, apperrors.NewDuplicate("User", "username", req.Username)
			}
			return nil, apperrors.NewDuplicate("User", "email", req.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publishEvent("user.created", user)

	return mappers.ToResponse(user), nil
}

// GetUserByID returns the user view, or (nil, nil) when no user has this ID.
func (s *UserService) GetUserByID(id string) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return mappers.ToResponse(user), nil
}

// GetUserByUsername returns the user view, or (nil, nil) on a miss.
func (s *UserService) GetUserByUsername(username string) (*models.UserResponse, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return mappers.ToResponse(user), nil
}

// GetAllUsers returns all users in store order. No pagination.
func (s *UserService) GetAllUsers() ([]models.UserResponse, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return mappers.ToResponseList(users), nil
}

// UpdateUser applies the request to the stored user. Username, email and
// names are replaced unconditionally; the password only when a non-empty
// value is supplied. Returns (nil, nil) when no user has this ID.
//
// Uniqueness against other records is not re-checked here; the store's
// unique constraints are the only guard on update.
func (s *UserService) UpdateUser(id string, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s for update: %w", id, err)
	}
	if user == nil {
		return nil, nil
	}

	user.Username = req.Username
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashedPassword)
	}

	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if other, probeErr := s.repo.GetByUsername(req.Username); probeErr == nil && other != nil && other.ID != id {
				return nil, apperrors.NewDuplicate("User", "username", req.Username)
			}
			return nil, apperrors.NewDuplicate("User", "email", req.Email)
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}

	s.publishEvent("user.updated", user)

	return mappers.ToResponse(user), nil
}

// DeleteUser removes the user permanently. Returns false when no user has
// this ID; a miss is not an error.
func (s *UserService) DeleteUser(id string) (bool, error) {
	exists, err := s.repo.ExistsByID(id)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s existence: %w", id, err)
	}
	if !exists {
		return false, nil
	}

	if err := s.repo.Delete(id); err != nil {
		return false, fmt.Errorf("failed to delete user %s: %w", id, err)
	}

	s.publishEvent("user.deleted", &models.User{ID: id})

	return true, nil
}

// publishEvent sends a user lifecycle event. Event delivery is best-effort;
// a missing broker or publish failure never fails the request.
func (s *UserService) publishEvent(event string, user *models.User) {
	if s.mqClient == nil {
		return
	}

	payload := map[string]interface{}{
		"id": user.ID,
	}
	if user.Username != "" {
		payload["username"] = user.Username
	}
	if err := s.mqClient.PublishUserEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for user %s: %v", event, user.ID, err)
	}
}
