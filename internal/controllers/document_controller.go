package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/internal/logics"
)

// DocumentController handles document upload, listing, download links,
// visibility and deletion.
type DocumentController struct {
	documentService *logics.DocumentService
	accessService   *logics.AccessService
}

func NewDocumentController(documentService *logics.DocumentService, accessService *logics.AccessService) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		accessService:   accessService,
	}
}

// UploadDocument handles POST /companies/:id/documents (multipart).
func (dc *DocumentController) UploadDocument(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := dc.accessService.ResolveCompany(c.Request().Context(), companyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to get file from request"})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open uploaded file"})
	}
	defer src.Close()

	in := logics.UploadInput{
		Name:        fileHeader.Filename,
		Category:    c.FormValue("category"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		IsPublic:    c.FormValue("is_public") == "true",
		UploadedBy:  identity.UserID,
	}

	doc, err := dc.documentService.Upload(c.Request().Context(), companyID, in, src)
	if err != nil {
		switch {
		case errors.Is(err, logics.ErrUnsupportedType):
			return c.JSON(http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		case errors.Is(err, logics.ErrNotFoundAfterUpload):
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}
	return c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /companies/:id/documents.
func (dc *DocumentController) ListDocuments(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := dc.accessService.ResolveCompany(c.Request().Context(), companyID, identity, logics.ActionView)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	docs, err := dc.documentService.ListByCompany(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, docs)
}

// DownloadDocument handles GET /documents/:id/download, replying with a
// short-lived presigned URL.
func (dc *DocumentController) DownloadDocument(c echo.Context) error {
	documentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := dc.accessService.ResolveDocument(c.Request().Context(), documentID, identity, logics.ActionDownload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	doc, err := dc.documentService.Get(c.Request().Context(), documentID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}
	downloadURL, err := dc.documentService.DownloadLink(c.Request().Context(), doc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"download_url": downloadURL})
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// SetVisibility handles PUT /documents/:id/visibility.
func (dc *DocumentController) SetVisibility(c echo.Context) error {
	documentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := dc.accessService.ResolveDocument(c.Request().Context(), documentID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	var req visibilityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	doc, err := dc.documentService.Get(c.Request().Context(), documentID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}
	if err := dc.documentService.SetPublic(c.Request().Context(), doc, req.IsPublic); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, doc)
}

// DeleteDocument handles DELETE /documents/:id.
func (dc *DocumentController) DeleteDocument(c echo.Context) error {
	documentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := dc.accessService.ResolveDocument(c.Request().Context(), documentID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	doc, err := dc.documentService.Get(c.Request().Context(), documentID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found"})
	}
	if err := dc.documentService.Delete(c.Request().Context(), doc); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
