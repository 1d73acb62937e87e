package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billingapp "github.com/servicehub/admin/internal/application/billing"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	projectapp "github.com/servicehub/admin/internal/application/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProjectBillingRouter(env *testEnv) *gin.Engine {
	r := env.router()
	ph := NewProjectHandler(env.projects)
	ih := NewInvoiceHandler(env.invoices)

	projects := r.Group("/projects")
	projects.POST("", ph.Create)
	projects.GET("", ph.List)
	projects.GET("/:id", ph.GetByID)
	projects.PUT("/:id", ph.Update)
	projects.DELETE("/:id", ph.Delete)
	projects.POST("/:id/start", ph.Start)
	projects.POST("/:id/hold", ph.Hold)
	projects.POST("/:id/resume", ph.Resume)
	projects.POST("/:id/complete", ph.Complete)
	projects.POST("/:id/cancel", ph.Cancel)
	projects.POST("/:id/tasks", ph.AddTask)
	projects.PUT("/:id/tasks/:taskId/status", ph.SetTaskStatus)
	projects.DELETE("/:id/tasks/:taskId", ph.RemoveTask)

	invoices := r.Group("/billing/invoices")
	invoices.POST("", ih.Create)
	invoices.GET("", ih.List)
	invoices.GET("/:id", ih.GetByID)
	invoices.PUT("/:id", ih.Update)
	invoices.DELETE("/:id", ih.Delete)
	invoices.POST("/:id/issue", ih.Issue)
	invoices.POST("/:id/pay", ih.Pay)
	invoices.POST("/:id/pay-with-wallet", ih.PayWithWallet)
	invoices.POST("/:id/cancel", ih.Cancel)
	invoices.GET("/:id/html", ih.HTML)
	invoices.GET("/:id/pdf", ih.PDF)

	return r
}

func seedCompany(t *testing.T, env *testEnv, name, document, companyType string) *partnerapp.CompanyResponse {
	t.Helper()
	company, err := env.companies.Create(context.Background(), env.tenantID, partnerapp.CreateCompanyRequest{
		Name:     name,
		Document: document,
		Type:     companyType,
	})
	require.NoError(t, err)
	return company
}

func TestProjectHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)
	r := setupProjectBillingRouter(env)
	company := seedCompany(t, env, "Acme Labs", "12345678000190", "client")

	w := perform(r, http.MethodPost, "/projects", map[string]any{
		"code":       "web-01",
		"name":       "Website",
		"company_id": company.ID,
		"budget":     "5000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := dataAs[projectapp.ProjectResponse](t, w)
	assert.Equal(t, "WEB-01", created.Code)
	assert.Equal(t, "planning", created.Status)
	assert.True(t, created.Budget.Equal(decimal.NewFromInt(5000)))
	path := "/projects/" + created.ID.String()

	t.Run("duplicate code", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/projects", map[string]any{
			"code": "WEB-01", "name": "Again", "company_id": company.ID,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ERR_ALREADY_EXISTS", errorCode(t, w))
	})

	t.Run("unknown company", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/projects", map[string]any{
			"code": "WEB-02", "name": "Orphan", "company_id": uuid.New(),
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "INVALID_COMPANY", errorCode(t, w))
	})

	t.Run("missing company", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/projects", map[string]any{"code": "WEB-03", "name": "No owner"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_VALIDATION", errorCode(t, w))
	})

	t.Run("get and list", func(t *testing.T) {
		w := perform(r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Website", dataAs[projectapp.ProjectResponse](t, w).Name)

		w = perform(r, http.MethodGet, "/projects?status=planning", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)

		w = perform(r, http.MethodGet, "/projects?status=archived", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := perform(r, http.MethodPut, path, map[string]any{"name": "Website v2"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Website v2", dataAs[projectapp.ProjectResponse](t, w).Name)
	})

	t.Run("delete", func(t *testing.T) {
		w := perform(r, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = perform(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProjectHandler_LifecycleAndTasks(t *testing.T) {
	env := newTestEnv(t)
	r := setupProjectBillingRouter(env)
	company := seedCompany(t, env, "Acme Labs", "12345678000190", "client")

	w := perform(r, http.MethodPost, "/projects", map[string]any{
		"code": "APP", "name": "Mobile app", "company_id": company.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := "/projects/" + dataAs[projectapp.ProjectResponse](t, w).ID.String()

	w = perform(r, http.MethodPost, path+"/tasks", map[string]any{
		"title": "Design", "assignee": "ana", "estimated_hours": "8",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := dataAs[projectapp.ProjectResponse](t, w)
	require.Len(t, p.Tasks, 1)
	task := p.Tasks[0]
	assert.Equal(t, "todo", task.Status)

	w = perform(r, http.MethodPost, path+"/tasks", map[string]any{"title": "Build", "estimated_hours": "24"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, dataAs[projectapp.ProjectResponse](t, w).Tasks, 2)

	t.Run("resume requires hold", func(t *testing.T) {
		w := perform(r, http.MethodPost, path+"/resume", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "ERR_INVALID_STATE", errorCode(t, w))
	})

	t.Run("start hold resume", func(t *testing.T) {
		w := perform(r, http.MethodPost, path+"/start", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		started := dataAs[projectapp.ProjectResponse](t, w)
		assert.Equal(t, "active", started.Status)
		assert.NotNil(t, started.StartDate)

		w = perform(r, http.MethodPost, path+"/hold", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "on_hold", dataAs[projectapp.ProjectResponse](t, w).Status)

		w = perform(r, http.MethodPost, path+"/resume", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "active", dataAs[projectapp.ProjectResponse](t, w).Status)
	})

	t.Run("task status", func(t *testing.T) {
		taskPath := path + "/tasks/" + task.ID.String()
		w := perform(r, http.MethodPut, taskPath+"/status", map[string]any{"status": "blocked"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = perform(r, http.MethodPut, taskPath+"/status", map[string]any{"status": "done"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 50, dataAs[projectapp.ProjectResponse](t, w).Progress)

		w = perform(r, http.MethodPut, path+"/tasks/"+uuid.NewString()+"/status", map[string]any{"status": "done"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = perform(r, http.MethodPut, path+"/tasks/not-a-uuid/status", map[string]any{"status": "done"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("remove task", func(t *testing.T) {
		w := perform(r, http.MethodDelete, path+"/tasks/"+task.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, dataAs[projectapp.ProjectResponse](t, w).Tasks, 1)
	})

	t.Run("active project cannot be deleted", func(t *testing.T) {
		w := perform(r, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "CANNOT_DELETE", errorCode(t, w))
	})

	t.Run("complete closes the project", func(t *testing.T) {
		w := perform(r, http.MethodPost, path+"/complete", nil)
		require.Equal(t, http.StatusOK, w.Code)
		done := dataAs[projectapp.ProjectResponse](t, w)
		assert.Equal(t, "completed", done.Status)
		assert.NotNil(t, done.CompletedAt)

		w = perform(r, http.MethodPost, path+"/tasks", map[string]any{"title": "Late"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = perform(r, http.MethodPost, path+"/cancel", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestInvoiceHandler_Flow(t *testing.T) {
	env := newTestEnv(t)
	r := setupProjectBillingRouter(env)
	company := seedCompany(t, env, "Acme Labs", "12345678000190", "client")
	due := time.Now().AddDate(0, 0, 30).UTC().Format(time.RFC3339)

	createDraft := func(t *testing.T) billingapp.InvoiceResponse {
		t.Helper()
		w := perform(r, http.MethodPost, "/billing/invoices", map[string]any{
			"company_id": company.ID,
			"tax_rate":   "10",
			"due_date":   due,
			"items": []map[string]any{
				{"description": "Consulting", "quantity": "2", "unit_price": "50"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return dataAs[billingapp.InvoiceResponse](t, w)
	}

	t.Run("create draft", func(t *testing.T) {
		inv := createDraft(t)
		assert.Equal(t, "draft", inv.Status)
		assert.Regexp(t, `^INV-\d{6}-\d{4}$`, inv.Number)
		assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(100)))
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(110)))
	})

	t.Run("create without due date", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/billing/invoices", map[string]any{"company_id": company.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("issue and pay", func(t *testing.T) {
		inv := createDraft(t)
		path := "/billing/invoices/" + inv.ID.String()

		w := perform(r, http.MethodPost, path+"/pay", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = perform(r, http.MethodPost, path+"/issue", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		issued := dataAs[billingapp.InvoiceResponse](t, w)
		assert.Equal(t, "issued", issued.Status)
		assert.NotNil(t, issued.IssueDate)

		w = perform(r, http.MethodPut, path, map[string]any{"notes": "late edit"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = perform(r, http.MethodPost, path+"/pay", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		paid := dataAs[billingapp.InvoiceResponse](t, w)
		assert.Equal(t, "paid", paid.Status)
		assert.NotNil(t, paid.PaidAt)
	})

	t.Run("cancel draft", func(t *testing.T) {
		inv := createDraft(t)
		w := perform(r, http.MethodPost, "/billing/invoices/"+inv.ID.String()+"/cancel", map[string]any{"reason": "duplicate"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cancelled := dataAs[billingapp.InvoiceResponse](t, w)
		assert.Equal(t, "cancelled", cancelled.Status)
		assert.Equal(t, "duplicate", cancelled.CancelReason)
	})

	t.Run("list by status", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/billing/invoices?status=paid", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)
	})

	t.Run("update and delete draft", func(t *testing.T) {
		inv := createDraft(t)
		path := "/billing/invoices/" + inv.ID.String()
		w := perform(r, http.MethodPut, path, map[string]any{
			"items": []map[string]any{{"description": "Support", "quantity": "1", "unit_price": "30"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := dataAs[billingapp.InvoiceResponse](t, w)
		require.Len(t, updated.Items, 1)
		assert.True(t, updated.Total.Equal(decimal.NewFromInt(33)))

		w = perform(r, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = perform(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInvoiceHandler_PayWithWallet(t *testing.T) {
	env := newTestEnv(t)
	r := setupProjectBillingRouter(env)
	ctx := context.Background()
	company := seedCompany(t, env, "Acme Labs", "12345678000190", "client")

	w := perform(r, http.MethodPost, "/billing/invoices", map[string]any{
		"company_id": company.ID,
		"due_date":   time.Now().AddDate(0, 0, 15).UTC().Format(time.RFC3339),
		"items":      []map[string]any{{"description": "Audit", "quantity": "1", "unit_price": "200"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := "/billing/invoices/" + dataAs[billingapp.InvoiceResponse](t, w).ID.String()

	w = perform(r, http.MethodPost, path+"/pay-with-wallet", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "draft invoices cannot be paid")

	w = perform(r, http.MethodPost, path+"/issue", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodPost, path+"/pay-with-wallet", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "ERR_INSUFFICIENT_BALANCE", errorCode(t, w))

	_, err := env.wallets.Credit(ctx, env.tenantID, company.ID, partnerapp.WalletMovementRequest{Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)

	w = perform(r, http.MethodPost, path+"/pay-with-wallet", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := dataAs[billingapp.InvoiceResponse](t, w)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, "wallet", paid.PaymentMethod)

	summary, err := env.wallets.Summary(ctx, env.tenantID, company.ID)
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(50)), summary.Balance.String())
}

type fakePrinter struct{}

func (fakePrinter) RenderHTML(_ context.Context, doc *billingapp.InvoiceDocument) ([]byte, error) {
	return []byte("<h1>" + doc.Invoice.Number + "</h1>"), nil
}

func (fakePrinter) RenderPDF(_ context.Context, _ *billingapp.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func TestInvoiceHandler_Printing(t *testing.T) {
	env := newTestEnv(t)
	r := setupProjectBillingRouter(env)
	company := seedCompany(t, env, "Acme Labs", "12345678000190", "client")
	inv, err := env.invoices.Create(context.Background(), env.tenantID, billingapp.CreateInvoiceRequest{
		CompanyID: company.ID,
		DueDate:   time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	path := "/billing/invoices/" + inv.ID.String()

	t.Run("disabled", func(t *testing.T) {
		w := perform(r, http.MethodGet, path+"/pdf", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "ERR_UNAVAILABLE", errorCode(t, w))
	})

	env.invoices.SetPrinter(fakePrinter{}, "ServiceHub")

	t.Run("html", func(t *testing.T) {
		w := perform(r, http.MethodGet, path+"/html", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Equal(t, "<h1>"+inv.Number+"</h1>", w.Body.String())
	})

	t.Run("pdf", func(t *testing.T) {
		w := perform(r, http.MethodGet, path+"/pdf", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="invoice-`+inv.ID.String()+`.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "%PDF-1.4", w.Body.String())
	})

	t.Run("unknown invoice", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/billing/invoices/"+uuid.NewString()+"/html", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
