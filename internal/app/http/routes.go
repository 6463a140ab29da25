package httpEngine

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiich/fiich-server/configs"
	"github.com/fiich/fiich-server/internal/controllers"
	"github.com/fiich/fiich-server/internal/logics"
	"github.com/fiich/fiich-server/internal/middlewares"
	"github.com/fiich/fiich-server/internal/repositories"
	"github.com/fiich/fiich-server/internal/storage"
	"github.com/fiich/fiich-server/internal/utils"
)

// RegisterRoutes wires every service and controller and registers all routes.
func RegisterRoutes(e *echo.Echo) {
	// Basic health check endpoint (no JWT middleware).
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, from Fiich Server!")
	})
	e.GET("/metrics", middlewares.MetricsHandler())

	// Shared dependencies.
	store := storage.NewS3Store(repositories.DBS.S3, configs.Configs.S3.BucketName)
	emailService := utils.NewEmailService(
		configs.Configs.Email.SMTPHost,
		configs.Configs.Email.SMTPPort,
		configs.Configs.Email.Username,
		configs.Configs.Email.Password,
		configs.Configs.Email.SenderEmail,
	)

	// Service initialization.
	accessService := logics.NewAccessService(repositories.DBS.Postgres)
	companyService := logics.NewCompanyService(repositories.DBS.Postgres)
	memberService := logics.NewMemberService(repositories.DBS.Postgres)
	notificationService := logics.NewNotificationService(repositories.DBS.Postgres)
	documentService := logics.NewDocumentService(repositories.DBS.Postgres, store, configs.Logger)
	shareService := logics.NewShareService(repositories.DBS.Postgres, repositories.DBS.Redis, configs.Logger)
	invitationService := logics.NewInvitationService(
		repositories.DBS.Postgres,
		emailService,
		shareService,
		memberService,
		notificationService,
		configs.Logger,
		configs.Configs.Service.BaseURL,
	)

	// Controller initialization.
	companyController := controllers.NewCompanyController(companyService, accessService)
	documentController := controllers.NewDocumentController(documentService, accessService)
	memberController := controllers.NewMemberController(memberService, accessService)
	invitationController := controllers.NewInvitationController(invitationService, accessService)
	shareController := controllers.NewShareController(shareService, companyService, documentService, accessService)
	notificationController := controllers.NewNotificationController(notificationService)

	// Collaboration endpoints kept at their historical paths.
	api := e.Group("/api")
	api.Use(middlewares.JWTMiddleware)
	api.POST("/share-company", invitationController.ShareCompany)
	api.POST("/generate-share-link", shareController.GenerateShareLink)

	// Public share endpoints (no JWT middleware).
	e.GET("/api/share/:token", shareController.GetSharedCompany)
	e.GET("/api/share/:token/documents/:id/download", shareController.DownloadSharedDocument)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middlewares.JWTMiddleware)

	// Company endpoints.
	apiV1.GET("/companies", companyController.ListCompanies)
	apiV1.POST("/companies", companyController.CreateCompany)
	apiV1.GET("/companies/:id", companyController.GetCompany)
	apiV1.PUT("/companies/:id", companyController.UpdateCompany)
	apiV1.DELETE("/companies/:id", companyController.DeleteCompany)

	// Document endpoints.
	apiV1.POST("/companies/:id/documents", documentController.UploadDocument)
	apiV1.GET("/companies/:id/documents", documentController.ListDocuments)
	apiV1.GET("/documents/:id/download", documentController.DownloadDocument)
	apiV1.PUT("/documents/:id/visibility", documentController.SetVisibility)
	apiV1.DELETE("/documents/:id", documentController.DeleteDocument)

	// Member endpoints.
	apiV1.GET("/companies/:id/members", memberController.ListMembers)
	apiV1.POST("/companies/:id/members", memberController.AddMember)
	apiV1.PUT("/companies/:id/members/:user_id", memberController.UpdateMemberRole)
	apiV1.DELETE("/companies/:id/members/:user_id", memberController.RemoveMember)

	// Invitation endpoints.
	apiV1.GET("/companies/:id/invitations", invitationController.ListInvitations)
	apiV1.POST("/invitations/:token/accept", invitationController.AcceptInvitation)
	apiV1.POST("/invitations/:token/decline", invitationController.DeclineInvitation)
	apiV1.DELETE("/invitations/:id", invitationController.RevokeInvitation)

	// Share administration endpoints.
	apiV1.GET("/companies/:id/shares", shareController.ListShares)
	apiV1.DELETE("/shares/:id", shareController.RevokeShare)

	// Notification endpoints.
	apiV1.GET("/notifications", notificationController.ListNotifications)
	apiV1.PUT("/notifications/:id/read", notificationController.MarkNotificationRead)
}
