package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/internal/logics"
)

// MemberController handles role bindings between users and companies.
type MemberController struct {
	memberService *logics.MemberService
	accessService *logics.AccessService
}

func NewMemberController(memberService *logics.MemberService, accessService *logics.AccessService) *MemberController {
	return &MemberController{
		memberService: memberService,
		accessService: accessService,
	}
}

func (mc *MemberController) requireAccess(c echo.Context, companyID uuid.UUID, action logics.Action) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	decision, err := mc.accessService.ResolveCompany(c.Request().Context(), companyID, identity, action)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}
	return nil
}

// ListMembers handles GET /companies/:id/members.
func (mc *MemberController) ListMembers(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := mc.requireAccess(c, companyID, logics.ActionView); err != nil {
		return err
	}

	members, err := mc.memberService.List(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, members)
}

type addMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=admin member viewer"`
}

// AddMember handles POST /companies/:id/members.
func (mc *MemberController) AddMember(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := mc.requireAccess(c, companyID, logics.ActionManage); err != nil {
		return err
	}

	var req addMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, _ := identityFromContext(c)
	member, err := mc.memberService.Add(c.Request().Context(), companyID, req.UserID, identity.UserID, req.Role)
	if err != nil {
		if errors.Is(err, logics.ErrAlreadyMember) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, member)
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member viewer"`
}

// UpdateMemberRole handles PUT /companies/:id/members/:user_id.
func (mc *MemberController) UpdateMemberRole(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	if err := mc.requireAccess(c, companyID, logics.ActionManage); err != nil {
		return err
	}

	var req updateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := mc.memberService.UpdateRole(c.Request().Context(), companyID, userID, req.Role); err != nil {
		if errors.Is(err, logics.ErrLastOwner) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember handles DELETE /companies/:id/members/:user_id.
func (mc *MemberController) RemoveMember(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	if err := mc.requireAccess(c, companyID, logics.ActionManage); err != nil {
		return err
	}

	if err := mc.memberService.Remove(c.Request().Context(), companyID, userID); err != nil {
		if errors.Is(err, logics.ErrLastOwner) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
