package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sysovo-official/clockify-backend/internal/api/dto"
	"github.com/sysovo-official/clockify-backend/internal/domain/user"
	"github.com/sysovo-official/clockify-backend/pkg/security/auth"
)

// AuthHandler handles HTTP requests for authentication and employee accounts
type AuthHandler struct {
	service     user.Service
	jwtSecret   string
	expiryHours int
}

func NewAuthHandler(service user.Service, jwtSecret string, expiryHours int) *AuthHandler {
	return &AuthHandler{service: service, jwtSecret: jwtSecret, expiryHours: expiryHours}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password are required"})
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) || errors.Is(err, user.ErrInvalidInput) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "login failed"})
		return
	}

	subRole := ""
	if u.SubRole != nil {
		subRole = string(*u.SubRole)
	}
	token, err := auth.GenerateToken(u.ID, string(u.Role), subRole, h.jwtSecret, h.expiryHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dto.LoginResponse{
		Token: token,
		User:  UserToResponse(u),
	}})
}

// Logout exists for client symmetry; tokens are stateless and simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (h *AuthHandler) AddEmployee(c *gin.Context) {
	var req dto.AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input := user.CreateEmployeeInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.SubRole != nil {
		subRole := user.SubRole(*req.SubRole)
		input.SubRole = &subRole
	}

	created, err := h.service.CreateEmployee(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email already exists"})
		case errors.Is(err, user.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create employee"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": UserToResponse(created)})
}

func (h *AuthHandler) ListEmployees(c *gin.Context) {
	employees, err := h.service.ListEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch employees"})
		return
	}

	responses := make([]dto.UserResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, UserToResponse(&employees[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": responses})
}

func (h *AuthHandler) GetEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
		return
	}

	u, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch employee"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": UserToResponse(u)})
}

func (h *AuthHandler) UpdateEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	input := user.UpdateEmployeeInput{Name: req.Name, Email: req.Email}
	if req.SubRole != nil {
		subRole := user.SubRole(*req.SubRole)
		input.SubRole = &subRole
	}

	updated, err := h.service.UpdateEmployee(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "employee not found"})
		case errors.Is(err, user.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email already exists"})
		case errors.Is(err, user.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update employee"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": UserToResponse(updated)})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "new password is required"})
		return
	}

	if _, err := h.service.ChangePassword(c.Request.Context(), id, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "employee not found"})
		case errors.Is(err, user.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password updated"})
}

func (h *AuthHandler) DeleteEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid employee ID"})
		return
	}

	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete employee"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "employee deleted"})
}

func (h *AuthHandler) DepartmentStats(c *gin.Context) {
	stats, err := h.service.DepartmentStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to compute department stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
