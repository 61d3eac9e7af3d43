package types

// CreateUser is the request body for POST /users/.
type CreateUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginUser is the request body for POST /users/login/.
type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PatchUser is the request body for PATCH /users/{id}. Pointer fields
// distinguish "omitted" from "set to the zero value"; only supplied fields
// are applied.
type PatchUser struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// PatchUserPassword is the request body for PATCH /users/password/{id}.
type PatchUserPassword struct {
	Password string `json:"password" validate:"required"`
}

// UpdateUser is the request body for PUT /users/{id}. All fields are
// required; the stored record's mutable state is replaced wholesale.
type UpdateUser struct {
	Email    string `json:"email" validate:"required,email"`
	IsActive *bool  `json:"is_active" validate:"required"`
	Password string `json:"password" validate:"required"`
}
