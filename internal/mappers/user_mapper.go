// Package mappers converts between persisted entities and transport DTOs.
package mappers

import "userapi/internal/models"

// ToResponse projects a User onto its outbound representation. The password
// is never copied. Returns nil for nil input.
func ToResponse(user *models.User) *models.UserResponse {
	if user == nil {
		return nil
	}
	return &models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToResponseList projects a slice of users. Always returns a non-nil slice
// so an empty result serializes as [] rather than null.
func ToResponseList(users []models.User) []models.UserResponse {
	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *ToResponse(&users[i]))
	}
	return responses
}

// ToEntity builds an unsaved User from a create request. ID and timestamps
// are left for the repository to assign. Returns nil for nil input.
func ToEntity(req *models.CreateUserRequest) *models.User {
	if req == nil {
		return nil
	}
	return &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    true,
	}
}
