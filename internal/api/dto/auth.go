package dto

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AddEmployeeRequest creates an employee account.
type AddEmployeeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	SubRole  *string `json:"subRole"`
}

// UpdateEmployeeRequest updates profile fields; nil leaves a field untouched.
type UpdateEmployeeRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	SubRole *string `json:"subRole"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

// UserResponse is the serialized shape of an account.
type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	SubRole   *string `json:"subRole"`
	CreatedAt string  `json:"createdAt"`
}

// LoginResponse pairs the token with the authenticated account.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
