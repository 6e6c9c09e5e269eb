package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/shelfwise/internal/auth"
	"github.com/shelfwise/shelfwise/internal/entities"
)

// StaffController manages staff accounts. All of its routes are registered
// behind the admin role; librarians manage books and members, not each other.
type StaffController struct {
	service *auth.Service
}

// NewStaffController creates a new staff controller.
func NewStaffController(service *auth.Service) *StaffController {
	return &StaffController{service: service}
}

type createStaffRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// List retrieves all staff accounts: GET /staff.
func (sc *StaffController) List(c *gin.Context) {
	users, err := sc.service.ListUsers()
	if err != nil {
		respondInternalError(c, err, "list staff")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create adds a staff account: POST /staff.
func (sc *StaffController) Create(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, password and role are required")
		return
	}

	user, err := sc.service.CreateUser(req.Username, req.Password, entities.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, auth.ErrInvalidRole),
			errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create staff")
		}
		return
	}
	respondCreated(c, user)
}

// UpdateRole changes a staff account's role: PATCH /staff/:id/role. Admins
// cannot demote themselves; losing the last admin would lock staff management.
func (sc *StaffController) UpdateRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "role is required")
		return
	}

	if id == auth.GetUserID(c) && entities.UserRole(req.Role) != entities.UserRoleAdmin {
		respondBadRequest(c, "cannot change your own role")
		return
	}

	user, err := sc.service.UpdateRole(id, entities.UserRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondNotFound(c, "staff account")
		case errors.Is(err, auth.ErrInvalidRole):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update staff role")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a staff account: DELETE /staff/:id. Self-deletion is
// rejected for the same reason as self-demotion.
func (sc *StaffController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if id == auth.GetUserID(c) {
		respondBadRequest(c, "cannot delete your own account")
		return
	}

	if err := sc.service.DeleteUser(id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "staff account")
			return
		}
		respondInternalError(c, err, "delete staff")
		return
	}
	respondSuccess(c, "staff account deleted")
}
