package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shelfwise/shelfwise/internal/entities"
)

// MembersController manages library members.
type MembersController struct {
	store MemberStore
}

// NewMembersController creates a new members controller.
func NewMembersController(store MemberStore) *MembersController {
	return &MembersController{store: store}
}

type createMemberRequest struct {
	FirstName        string     `json:"first_name" binding:"required"`
	LastName         string     `json:"last_name" binding:"required"`
	Email            string     `json:"email" binding:"required,email"`
	MembershipNumber string     `json:"membership_number" binding:"required"`
	Phone            string     `json:"phone"`
	Address          string     `json:"address"`
	MembershipExpiry *time.Time `json:"membership_expiry"`
}

type updateMemberRequest struct {
	FirstName        *string    `json:"first_name"`
	LastName         *string    `json:"last_name"`
	Email            *string    `json:"email"`
	MembershipNumber *string    `json:"membership_number"`
	Phone            *string    `json:"phone"`
	Address          *string    `json:"address"`
	MembershipExpiry *time.Time `json:"membership_expiry"`
	IsActive         *bool      `json:"is_active"`
}

// List retrieves members: GET /members, GET /members?active=true.
func (mc *MembersController) List(c *gin.Context) {
	var (
		members []entities.Member
		err     error
	)
	if c.Query("active") == "true" {
		members, err = mc.store.FindActiveMembers()
	} else {
		members, err = mc.store.GetAllMembers()
	}
	if err != nil {
		respondInternalError(c, err, "list members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// Active retrieves members who can borrow: GET /members/active.
func (mc *MembersController) Active(c *gin.Context) {
	members, err := mc.store.FindActiveMembers()
	if err != nil {
		respondInternalError(c, err, "list active members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// Get retrieves a single member: GET /members/:id.
func (mc *MembersController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	member, err := mc.store.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "get member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// Create registers a member: POST /members. New members start active.
func (mc *MembersController) Create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "first_name, last_name, a valid email and membership_number are required")
		return
	}

	member := entities.Member{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		MembershipNumber: req.MembershipNumber,
		Phone:            req.Phone,
		Address:          req.Address,
		MembershipExpiry: req.MembershipExpiry,
		IsActive:         true,
	}
	if err := mc.store.CreateMember(&member); err != nil {
		respondInternalError(c, err, "create member")
		return
	}
	respondCreated(c, member)
}

// Update modifies a member: PUT /members/:id. Deactivation happens here via
// is_active; existing loans of a deactivated member stay open.
func (mc *MembersController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req updateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.MembershipNumber != nil {
		fields["membership_number"] = *req.MembershipNumber
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.MembershipExpiry != nil {
		fields["membership_expiry"] = *req.MembershipExpiry
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		respondBadRequest(c, "no fields to update")
		return
	}

	member, err := mc.store.UpdateMember(id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "member")
			return
		}
		respondInternalError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete removes a member: DELETE /members/:id.
func (mc *MembersController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := mc.store.DeleteMember(id); err != nil {
		respondInternalError(c, err, "delete member")
		return
	}
	respondSuccess(c, "member deleted")
}
