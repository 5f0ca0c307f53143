package router

import (
	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/auth"
	"github.com/helha/gdpr-app/internal/config"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/handler"
	middlewarepkg "github.com/helha/gdpr-app/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Roles        *handler.RoleHandler
	Companies    *handler.CompaniesHandler
	AdminUpload  *handler.AdminUploadHandler
	GDPRRequests *handler.GDPRRequestsHandler
	Emails       *handler.EmailsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, revocations middlewarepkg.RevocationChecker, accounts middlewarepkg.AccountLoader, handlers Handlers) {
	e.GET("/healthz", handler.Health)

	e.Use(middlewarepkg.RateLimiter(cfg.RateLimitAuth, "/api/auth/login", "/api/auth/forgot-password", "/api/auth/reset-password"))

	api := e.Group("/api")

	public := api.Group("/auth")
	public.POST("/register", handlers.Auth.Register)
	public.POST("/login", handlers.Auth.Login)
	public.POST("/refresh", handlers.Auth.Refresh)
	public.POST("/validate", handlers.Auth.Validate)
	public.POST("/forgot-password", handlers.Auth.ForgotPassword)
	public.POST("/reset-password", handlers.Auth.ResetPassword)
	api.GET("/companies/list", handlers.Companies.Summaries)

	secured := api.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager, revocations, accounts))

	admin := middlewarepkg.RequireRole(entity.RoleAdmin)
	manager := middlewarepkg.RequireRole(entity.RoleAdmin, entity.RoleGerant)
	filer := middlewarepkg.RequireRole(entity.RoleAdmin, entity.RoleClient)

	me := secured.Group("/auth")
	me.POST("/logout", handlers.Auth.Logout)
	me.GET("/me", handlers.Auth.Me)
	me.PUT("/me", handlers.Auth.UpdateMe)
	me.POST("/change-password", handlers.Auth.ChangePassword)

	users := secured.Group("/users")
	users.GET("", handlers.Users.List, admin)
	users.GET("/active", handlers.Users.ListActive, admin)
	users.GET("/role/:roleId", handlers.Users.ListByRole, admin)
	users.GET("/statistics", handlers.Users.Statistics, admin)
	users.POST("", handlers.Users.Create, admin)
	users.PUT("/:id/activate", handlers.Users.Activate, admin)
	users.PUT("/:id/deactivate", handlers.Users.Deactivate, admin)
	users.DELETE("/:id", handlers.Users.Delete, admin)
	users.GET("/:id", handlers.Users.Get)
	users.GET("/email/:email", handlers.Users.GetByEmail)
	users.PUT("/:id", handlers.Users.Update)
	users.PUT("/:id/password", handlers.Users.ChangePassword)

	roles := secured.Group("/roles")
	roles.GET("/names", handlers.Roles.Names, manager)
	roles.GET("", handlers.Roles.List, admin)
	roles.GET("/statistics", handlers.Roles.Statistics, admin)
	roles.POST("/init-defaults", handlers.Roles.InitDefaults, admin)
	roles.GET("/validate/:name", handlers.Roles.Validate, admin)
	roles.GET("/name/:name", handlers.Roles.GetByName, admin)
	roles.GET("/:id", handlers.Roles.Get, admin)
	roles.GET("/:id/users/count", handlers.Roles.CountUsers, admin)
	roles.POST("", handlers.Roles.Create, admin)
	roles.PUT("/:id", handlers.Roles.Update, admin)
	roles.DELETE("/:id", handlers.Roles.Delete, admin)

	companies := secured.Group("/companies")
	companies.GET("/names", handlers.Companies.Names, manager)
	companies.GET("/emails", handlers.Companies.Emails, manager)
	companies.GET("", handlers.Companies.List, admin)
	companies.GET("/paginated", handlers.Companies.Paginated, admin)
	companies.GET("/count", handlers.Companies.Count, admin)
	companies.GET("/statistics", handlers.Companies.Statistics, admin)
	companies.GET("/search/name", handlers.Companies.SearchByName, admin)
	companies.GET("/search/email", handlers.Companies.SearchByEmail, admin)
	companies.GET("/validate/email/:email", handlers.Companies.CheckEmail, admin)
	companies.GET("/validate/name/:name", handlers.Companies.CheckName, admin)
	companies.GET("/exists/email/:email", handlers.Companies.CheckEmail, admin)
	companies.GET("/exists/name/:name", handlers.Companies.CheckName, admin)
	companies.POST("/init-defaults", handlers.Companies.InitDefaults, admin)
	companies.POST("/import", handlers.AdminUpload.ImportCompanies, admin)
	companies.GET("/email/:email", handlers.Companies.GetByEmail, admin)
	companies.GET("/name/:name", handlers.Companies.GetByName, admin)
	companies.GET("/:id", handlers.Companies.Get, admin)
	companies.POST("", handlers.Companies.Create, admin)
	companies.PUT("/:id", handlers.Companies.Update, admin)
	companies.DELETE("/:id", handlers.Companies.Delete, admin)

	requests := secured.Group("/gdpr-requests")
	requests.GET("/valid-types", handlers.GDPRRequests.ValidTypes)
	requests.GET("/validate/type/:type", handlers.GDPRRequests.ValidateType)
	requests.GET("/valid-statuses", handlers.GDPRRequests.ValidStatuses, manager)
	requests.GET("/validate/status/:status", handlers.GDPRRequests.ValidateStatus, manager)
	requests.POST("", handlers.GDPRRequests.Create, filer)
	requests.GET("/my-requests", handlers.GDPRRequests.ListMine, filer)
	requests.GET("/my-requests/status/:status", handlers.GDPRRequests.ListMine, filer)
	requests.GET("", handlers.GDPRRequests.List, admin)
	requests.GET("/user/:userId", handlers.GDPRRequests.ListByUser, admin)
	requests.GET("/company/:companyId", handlers.GDPRRequests.ListByCompany, manager)
	requests.GET("/company/:companyId/pending", handlers.GDPRRequests.ListPendingByCompany, manager)
	requests.GET("/status/:status", handlers.GDPRRequests.ListByStatus, manager)
	requests.GET("/type/:type", handlers.GDPRRequests.ListByType, manager)
	requests.GET("/date-range", handlers.GDPRRequests.ListByDateRange, manager)
	requests.GET("/recent", handlers.GDPRRequests.ListRecent, manager)
	requests.GET("/count/status/:status", handlers.GDPRRequests.CountByStatus, manager)
	requests.GET("/count/company/:companyId", handlers.GDPRRequests.CountByCompany, manager)
	requests.GET("/statistics", handlers.GDPRRequests.Statistics, manager)
	requests.GET("/:id", handlers.GDPRRequests.Get)
	requests.PUT("/:id/status", handlers.GDPRRequests.UpdateStatus, manager)
	requests.PUT("/:id/content", handlers.GDPRRequests.UpdateContent)
	requests.DELETE("/:id", handlers.GDPRRequests.Delete)

	emails := secured.Group("/emails", admin)
	emails.POST("/test", handlers.Emails.Test)
	emails.POST("/simple", handlers.Emails.Simple)
	emails.POST("/custom", handlers.Emails.Custom)
	emails.POST("/bulk", handlers.Emails.Bulk)
	emails.POST("/admin-notification", handlers.Emails.AdminNotification)
	emails.GET("/statistics", handlers.Emails.Statistics)
	emails.GET("/templates", handlers.Emails.Templates)
	emails.POST("/resend-welcome/:userId", handlers.Emails.ResendWelcome)
}
