package types

import "github.com/openlance/openlance/internal/models"

// UserResponse is the subject user's own view of their account.
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ContactNo string `json:"contact_no,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// PublicUser is the privacy-filtered view of a user embedded in another
// entity graph: password hash, email and contact number are stripped
// regardless of which graph exposed the record.
type PublicUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Bio      string `json:"bio,omitempty"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		ContactNo: u.ContactNo,
		Bio:       u.Bio,
	}
}

func NewPublicUser(u models.User) PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Bio:      u.Bio,
	}
}
