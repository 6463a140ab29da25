package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/internal/logics"
	"github.com/fiich/fiich-server/internal/models"
)

// InvitationController handles email invitations to a company sheet.
type InvitationController struct {
	invitationService *logics.InvitationService
	accessService     *logics.AccessService
}

func NewInvitationController(invitationService *logics.InvitationService, accessService *logics.AccessService) *InvitationController {
	return &InvitationController{
		invitationService: invitationService,
		accessService:     accessService,
	}
}

type shareCompanyRequest struct {
	CompanyID uuid.UUID `json:"companyId" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Message   string    `json:"message"`
	// Role is set for collaborator invites and empty for plain sheet shares.
	Role string `json:"role" validate:"omitempty,oneof=admin member viewer"`
}

// ShareCompany handles POST /api/share-company.
func (ic *InvitationController) ShareCompany(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var req shareCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	decision, err := ic.accessService.ResolveCompany(c.Request().Context(), req.CompanyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	inv, err := ic.invitationService.Create(c.Request().Context(), logics.CreateInput{
		CompanyID: req.CompanyID,
		Email:     req.Email,
		Role:      req.Role,
		Message:   req.Message,
		InvitedBy: identity.UserID,
	})
	if err != nil {
		if errors.Is(err, logics.ErrInvitationEmailNoSend) {
			// Invitation exists; the caller should know delivery failed.
			return c.JSON(http.StatusAccepted, map[string]interface{}{
				"invitation": inv,
				"warning":    "email delivery failed",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, inv)
}

// AcceptInvitation handles POST /invitations/:token/accept.
func (ic *InvitationController) AcceptInvitation(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	share, err := ic.invitationService.Accept(c.Request().Context(), c.Param("token"), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, logics.ErrInvitationExpired), errors.Is(err, logics.ErrInvitationNotPending):
			return c.JSON(http.StatusGone, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, share)
}

// DeclineInvitation handles POST /invitations/:token/decline.
func (ic *InvitationController) DeclineInvitation(c echo.Context) error {
	if err := ic.invitationService.Decline(c.Request().Context(), c.Param("token")); err != nil {
		if errors.Is(err, logics.ErrInvitationNotPending) {
			return c.JSON(http.StatusGone, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// RevokeInvitation handles DELETE /invitations/:id.
func (ic *InvitationController) RevokeInvitation(c echo.Context) error {
	invitationID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	inv := models.Invitation{}
	if err := ic.loadInvitation(c, invitationID, &inv); err != nil {
		return err
	}

	decision, err := ic.accessService.ResolveCompany(c.Request().Context(), inv.CompanyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	if err := ic.invitationService.Revoke(c.Request().Context(), invitationID); err != nil {
		if errors.Is(err, logics.ErrInvitationNotPending) {
			return c.JSON(http.StatusGone, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListInvitations handles GET /companies/:id/invitations.
func (ic *InvitationController) ListInvitations(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := ic.accessService.ResolveCompany(c.Request().Context(), companyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	invs, err := ic.invitationService.ListForCompany(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, invs)
}

func (ic *InvitationController) loadInvitation(c echo.Context, id uuid.UUID, dst *models.Invitation) error {
	if err := ic.invitationService.GetByID(c.Request().Context(), id, dst); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "invitation not found"})
	}
	return nil
}
