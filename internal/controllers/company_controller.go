package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/internal/logics"
	"github.com/fiich/fiich-server/internal/models"
)

// CompanyController handles CRUD on company identity sheets.
type CompanyController struct {
	companyService *logics.CompanyService
	accessService  *logics.AccessService
}

func NewCompanyController(companyService *logics.CompanyService, accessService *logics.AccessService) *CompanyController {
	return &CompanyController{
		companyService: companyService,
		accessService:  accessService,
	}
}

type companyRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Siren        string `json:"siren" validate:"omitempty,len=9,numeric"`
	Siret        string `json:"siret" validate:"omitempty,len=14,numeric"`
	Address      string `json:"address"`
	PostalCode   string `json:"postal_code"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	Website      string `json:"website" validate:"omitempty,url"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	IBAN         string `json:"iban" validate:"omitempty,max=34"`
	BIC          string `json:"bic" validate:"omitempty,max=11"`
	PaymentTerms string `json:"payment_terms"`
	Description  string `json:"description"`
}

func (r *companyRequest) apply(company *models.Company) {
	company.Name = r.Name
	company.Siren = r.Siren
	company.Siret = r.Siret
	company.Address = r.Address
	company.PostalCode = r.PostalCode
	company.City = r.City
	company.Country = r.Country
	company.Email = r.Email
	company.Phone = r.Phone
	company.Website = r.Website
	company.LogoURL = r.LogoURL
	company.IBAN = r.IBAN
	company.BIC = r.BIC
	company.PaymentTerms = r.PaymentTerms
	company.Description = r.Description
}

// CreateCompany handles POST /companies.
func (cc *CompanyController) CreateCompany(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	company := models.Company{OwnerID: identity.UserID}
	req.apply(&company)

	if err := cc.companyService.Create(c.Request().Context(), &company); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, company)
}

// GetCompany handles GET /companies/:id.
func (cc *CompanyController) GetCompany(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := cc.accessService.ResolveCompany(c.Request().Context(), companyID, identity, logics.ActionView)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	company, err := cc.companyService.Get(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "company not found"})
	}
	return c.JSON(http.StatusOK, company)
}

// ListCompanies handles GET /companies.
func (cc *CompanyController) ListCompanies(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	companies, err := cc.companyService.ListForUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, companies)
}

// UpdateCompany handles PUT /companies/:id.
func (cc *CompanyController) UpdateCompany(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	decision, err := cc.accessService.ResolveCompany(c.Request().Context(), companyID, identity, logics.ActionManage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !decision.Allowed {
		return c.JSON(http.StatusForbidden, map[string]string{"error": decision.Reason})
	}

	var req companyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	company, err := cc.companyService.Get(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "company not found"})
	}
	req.apply(company)

	if err := cc.companyService.Update(c.Request().Context(), company); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, company)
}

// DeleteCompany handles DELETE /companies/:id. Owner only.
func (cc *CompanyController) DeleteCompany(c echo.Context) error {
	companyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	identity, err := identityFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	company, err := cc.companyService.Get(c.Request().Context(), companyID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "company not found"})
	}
	if company.OwnerID != identity.UserID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "only the owner can delete a company"})
	}

	if err := cc.companyService.Delete(c.Request().Context(), companyID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
