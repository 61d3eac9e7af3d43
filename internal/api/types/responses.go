package types

import "github.com/userdesk/api/internal/models"

// UserView is the only user shape ever sent to a client. It never carries
// the password hash.
type UserView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func NewUserView(u *models.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, IsActive: u.IsActive}
}

func NewUserViews(users []models.User) []UserView {
	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, NewUserView(&users[i]))
	}
	return out
}

// LoginResult is the response body for POST /users/login/.
type LoginResult struct {
	Success bool `json:"success"`
}
