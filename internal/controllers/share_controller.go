package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/configs"
	"github.com/fiich/fiich-server/internal/logics"
	"github.com/fiich/fiich-server/internal/models"
)

// ShareController handles public share links and the anonymous consultation
// endpoint.
type ShareController struct {
	shareService    *logics.ShareService
	companyService  *logics.CompanyService
	documentService *logics.DocumentService
	accessService   *logics.AccessService
}

func NewShareController(shareService *logics.ShareService, companyService *logics.CompanyService, documentService *logics.DocumentService, accessService *logics.AccessService) *ShareController {
	return &ShareController{
		shareService:    shareService,
		companyService:  companyService,
		documentService: documentService,
		accessService:   accessService,
	}
}

type generateShareLinkRequest struct {
	CompanyID uuid.UUID `json:"companyId" validate:"required"`
}

// GenerateShareLink handles POST /api/generate-share-link.
func (sc *ShareController) GenerateShareLink(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var req generateShareLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	decision, err := sc.accessService.ResolveCompany(c.Request().Context(), req.CompanyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	share, err := sc.shareService.GenerateLink(c.Request().Context(), req.CompanyID, identity.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	shareURL := configs.Configs.Service.BaseURL + "/share/" + share.Token
	return c.JSON(http.StatusOK, map[string]string{"shareUrl": shareURL})
}

// GetSharedCompany handles the public GET /api/share/:token: the company
// sheet plus the documents the share may see, no authentication required.
func (sc *ShareController) GetSharedCompany(c echo.Context) error {
	share, err := sc.shareService.GetByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "share not found"})
	}

	identity := logics.Identity{ShareToken: share.Token}
	decision, err := sc.accessService.ResolveCompany(c.Request().Context(), share.CompanyID, identity, logics.ActionView)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	company, err := sc.companyService.Get(c.Request().Context(), share.CompanyID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "company not found"})
	}

	var docs []models.Document
	if share.HasPermission(models.PermViewDocuments) {
		docs, err = sc.documentService.ListByCompany(c.Request().Context(), share.CompanyID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"company":   company,
		"documents": docs,
	})
}

// DownloadSharedDocument handles GET /api/share/:token/documents/:id/download
// for anonymous link holders.
func (sc *ShareController) DownloadSharedDocument(c echo.Context) error {
	documentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	identity := logics.Identity{ShareToken: c.Param("token")}
	decision, err := sc.accessService.ResolveDocument(c.Request().Context(), documentID, identity, logics.ActionDownload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	doc, err := sc.documentService.Get(c.Request().Context(), documentID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}
	downloadURL, err := sc.documentService.DownloadLink(c.Request().Context(), doc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"download_url": downloadURL})
}

// ListShares handles GET /companies/:id/shares.
func (sc *ShareController) ListShares(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := sc.accessService.ResolveCompany(c.Request().Context(), companyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	shares, err := sc.shareService.ListForCompany(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, shares)
}

// RevokeShare handles DELETE /shares/:id.
func (sc *ShareController) RevokeShare(c echo.Context) error {
	shareID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	share, err := sc.shareService.GetByID(c.Request().Context(), shareID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "share not found"})
	}

	decision, err := sc.accessService.ResolveCompany(c.Request().Context(), share.CompanyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	if err := sc.shareService.Revoke(c.Request().Context(), shareID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
