package router

import (
	"github.com/gin-gonic/gin"
	"github.com/servicehub/admin/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted under the API group
type Handlers struct {
	Auth          *handler.AuthHandler
	Specialty     *handler.SpecialtyHandler
	Product       *handler.ProductHandler
	Company       *handler.CompanyHandler
	Wallet        *handler.WalletHandler
	TopUp         *handler.TopUpHandler
	Project       *handler.ProjectHandler
	Invoice       *handler.InvoiceHandler
	Qualification *handler.QualificationHandler
	System        *handler.SystemHandler
}

// DomainGroups returns the route table of the admin API. authLimit guards the
// unauthenticated auth endpoints; nil leaves them unlimited.
func DomainGroups(h Handlers, authLimit gin.HandlerFunc) []*DomainGroup {
	return []*DomainGroup{
		authRoutes(h.Auth, authLimit),
		catalogRoutes(h.Specialty, h.Product),
		partnerRoutes(h.Company, h.Wallet, h.TopUp),
		projectRoutes(h.Project),
		billingRoutes(h.Invoice),
		qualificationRoutes(h.Qualification),
		systemRoutes(h.System),
	}
}

func authRoutes(h *handler.AuthHandler, limit gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	public := []gin.HandlerFunc{}
	if limit != nil {
		public = append(public, limit)
	}
	g.POST("/login", append(public, h.Login)...)
	g.POST("/refresh", append(public, h.RefreshToken)...)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.GetCurrentUser)
	g.PUT("/password", h.ChangePassword)
	return g
}

func catalogRoutes(sh *handler.SpecialtyHandler, ph *handler.ProductHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")

	g.Group("specialties", "/specialties").
		POST("", sh.Create).
		GET("", sh.List).
		GET("/:id", sh.GetByID).
		PUT("/:id", sh.Update).
		DELETE("/:id", sh.Delete).
		PUT("/:id/rates", sh.SetRates).
		POST("/:id/activate", sh.Activate).
		POST("/:id/deactivate", sh.Deactivate)

	g.Group("products", "/products").
		POST("", ph.Create).
		GET("", ph.List).
		GET("/facets", ph.Facets).
		POST("/quote", ph.Quote).
		GET("/code/:code", ph.GetByCode).
		GET("/:id", ph.GetByID).
		PUT("/:id", ph.Update).
		DELETE("/:id", ph.Delete).
		POST("/:id/activate", ph.Activate).
		POST("/:id/deactivate", ph.Deactivate).
		POST("/:id/duplicate", ph.Duplicate).
		POST("/:id/enhance-description", ph.EnhanceDescription).
		GET("/:id/pricing", ph.Pricing)

	return g
}

func partnerRoutes(ch *handler.CompanyHandler, wh *handler.WalletHandler, th *handler.TopUpHandler) *DomainGroup {
	g := NewDomainGroup("partner", "/partners")

	companies := g.Group("companies", "/companies").
		POST("", ch.Create).
		GET("", ch.List).
		GET("/:id", ch.GetByID).
		PUT("/:id", ch.Update).
		DELETE("/:id", ch.Delete).
		POST("/:id/activate", ch.Activate).
		POST("/:id/deactivate", ch.Deactivate).
		POST("/:id/block", ch.Block)

	companies.Group("credentials", "/:id/credentials").
		GET("", ch.ListCredentials).
		POST("", ch.AddCredential).
		PUT("/:credentialId/password", ch.ResetCredentialPassword).
		POST("/:credentialId/enable", ch.EnableCredential).
		POST("/:credentialId/disable", ch.DisableCredential).
		DELETE("/:credentialId", ch.RemoveCredential)

	companies.Group("wallet", "/:id/wallet").
		GET("", wh.Summary).
		POST("/credit", wh.Credit).
		POST("/debit", wh.Debit).
		POST("/top-up", th.StartTopUp).
		GET("/statement", wh.Statement)

	return g
}

func projectRoutes(h *handler.ProjectHandler) *DomainGroup {
	g := NewDomainGroup("project", "/projects").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete).
		POST("/:id/start", h.Start).
		POST("/:id/hold", h.Hold).
		POST("/:id/resume", h.Resume).
		POST("/:id/complete", h.Complete).
		POST("/:id/cancel", h.Cancel)

	g.Group("tasks", "/:id/tasks").
		POST("", h.AddTask).
		PUT("/:taskId/status", h.SetTaskStatus).
		DELETE("/:taskId", h.RemoveTask)

	return g
}

func billingRoutes(h *handler.InvoiceHandler) *DomainGroup {
	g := NewDomainGroup("billing", "/billing")
	g.Group("invoices", "/invoices").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete).
		POST("/:id/issue", h.Issue).
		POST("/:id/pay", h.Pay).
		POST("/:id/pay-with-wallet", h.PayWithWallet).
		POST("/:id/cancel", h.Cancel).
		GET("/:id/html", h.HTML).
		GET("/:id/pdf", h.PDF)
	return g
}

func qualificationRoutes(h *handler.QualificationHandler) *DomainGroup {
	return NewDomainGroup("qualification", "/qualifications").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		POST("/:id/start-test", h.StartTest).
		POST("/:id/submit", h.Submit).
		POST("/:id/start-review", h.StartReview).
		PUT("/:id/submissions/:submissionId/score", h.Score).
		PUT("/:id/checklist/:itemId", h.CheckItem).
		POST("/:id/approve", h.Approve).
		POST("/:id/reject", h.Reject).
		POST("/:id/reopen", h.Reopen).
		POST("/:id/attachments/upload-url", h.UploadURL)
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.Info)
}
