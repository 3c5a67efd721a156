package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mawrid/mawrid/internal/dashboard"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/suppliers"
	"github.com/mawrid/mawrid/internal/view"
	_ "github.com/mawrid/mawrid/testing"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("backend status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

type memService struct {
	rows      []suppliers.Supplier
	listErr   error
	writeErr  error
	created   []suppliers.Input
	updated   map[string]suppliers.Input
	deleted   []string
	listCalls int
}

func (m *memService) ListAll(ctx context.Context) ([]suppliers.Supplier, error) {
	m.listCalls++
	return m.rows, m.listErr
}

func (m *memService) GetByID(ctx context.Context, id string) (suppliers.Supplier, error) {
	if m.listErr != nil {
		return suppliers.Supplier{}, m.listErr
	}
	for _, s := range m.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return suppliers.Supplier{}, &suppliers.NotFoundError{ID: id}
}

func (m *memService) Create(ctx context.Context, in suppliers.Input) (suppliers.Supplier, error) {
	if err := suppliers.Validate(in); err != nil {
		return suppliers.Supplier{}, err
	}
	if m.writeErr != nil {
		return suppliers.Supplier{}, &suppliers.StorageError{Op: "create", Err: m.writeErr}
	}
	m.created = append(m.created, in)
	return suppliers.Supplier{ID: fmt.Sprintf("new-%d", len(m.created)), CompanyName: in.CompanyName}, nil
}

func (m *memService) Update(ctx context.Context, id string, in suppliers.Input) (suppliers.Supplier, error) {
	if m.writeErr != nil {
		return suppliers.Supplier{}, &suppliers.StorageError{Op: "update", Err: m.writeErr}
	}
	if m.updated == nil {
		m.updated = map[string]suppliers.Input{}
	}
	m.updated[id] = in
	return suppliers.Supplier{ID: id, CompanyName: in.CompanyName}, nil
}

func (m *memService) Delete(ctx context.Context, id string) error {
	if m.writeErr != nil {
		return &suppliers.StorageError{Op: "delete", Err: m.writeErr}
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type stubPDF struct {
	enabled bool
	html    string
	err     error
}

func (s *stubPDF) Enabled() bool { return s.enabled }

func (s *stubPDF) RenderHTML(ctx context.Context, html []byte) ([]byte, error) {
	s.html = string(html)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 test"), nil
}

type harness struct {
	router  http.Handler
	session *shared.Session
	service *memService
	pdf     *stubPDF
}

func strPtr(s string) *string { return &s }

func newHarness(t *testing.T, service *memService) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)
	sess, err := sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SignIn(shared.Staff{UserID: "u1", Email: "staff@mawrid.test", AccessToken: "token"})

	templates, err := view.NewEngine()
	require.NoError(t, err)
	pdf := &stubPDF{enabled: true}
	handler := dashboard.NewHandler(nil, service, templates, shared.NewCSRFManager("secret"), dashboard.Options{
		Idempotency: shared.NewIdempotencyStore(client, time.Hour),
		PDF:         pdf,
		Refresh:     30 * time.Second,
	})

	r := chi.NewRouter()
	r.Use(prefs.Middleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route(dashboard.BasePath, handler.MountRoutes)
	return &harness{router: r, session: sess, service: service, pdf: pdf}
}

func (h *harness) get(t *testing.T, target, lang string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "en")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func fixture(n int) []suppliers.Supplier {
	out := make([]suppliers.Supplier, n)
	for i := range out {
		out[i] = suppliers.Supplier{
			ID:                    fmt.Sprintf("id-%02d", i),
			CompanyName:           fmt.Sprintf("Company %02d", i),
			ResponsiblePersonName: "Person",
			Address:               fmt.Sprintf("Street %d", i%2),
			Mobile1:               "01012345678",
			CreatedAt:             time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		}
	}
	out[0].Email = strPtr("a@b.co")
	return out
}

func validForm() url.Values {
	return url.Values{
		"company_name":            {"Nile Foods"},
		"responsible_person_name": {"Mona"},
		"address":                 {"12 Tahrir St"},
		"mobile_1":                {"010-1234-5678"},
		"category":                {"food_supplies"},
		"form_token":              {"tok-1"},
		"return":                  {"/admin?page=2"},
	}
}

func TestIndexShowsTablePageAndStats(t *testing.T) {
	h := newHarness(t, &memService{rows: fixture(25)})
	rec := h.get(t, "/admin?page=3", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `<meta http-equiv="refresh" content="30">`)
	assert.Equal(t, 5, strings.Count(body, "<tr>")-1)
	assert.Contains(t, body, "Company 24")
	assert.NotContains(t, body, "Company 19")
	assert.Contains(t, body, "Page 3 of 3")
	assert.Contains(t, body, "<strong>25</strong>")
	assert.Contains(t, body, "<strong>4%</strong>")
	assert.Contains(t, body, `<option value="Street 1">`)
	assert.Contains(t, body, "staff@mawrid.test")
}

func TestIndexFiltersByAddress(t *testing.T) {
	h := newHarness(t, &memService{rows: fixture(6)})
	body := h.get(t, "/admin?address=street+1", "en").Body.String()
	assert.Contains(t, body, "Company 01")
	assert.NotContains(t, body, "Company 02")
	assert.Contains(t, body, "Showing 3 of 3 suppliers")
}

func TestIndexLoadError(t *testing.T) {
	h := newHarness(t, &memService{listErr: &suppliers.StorageError{Op: "list", Err: errors.New("timeout")}})
	rec := h.get(t, "/admin", "en")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load data: timeout")
}

func TestIndexUnauthorizedExpiresSession(t *testing.T) {
	h := newHarness(t, &memService{listErr: &suppliers.StorageError{Op: "list", Err: statusErr(http.StatusUnauthorized)}})
	rec := h.get(t, "/admin", "en")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	assert.False(t, h.session.Authenticated())
	flash := h.session.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, shared.FlashError, flash.Kind)
}

func TestShowFormNewAndEdit(t *testing.T) {
	rows := fixture(1)
	rows[0].Category = strPtr("Food")
	h := newHarness(t, &memService{rows: rows})

	body := h.get(t, "/admin/suppliers/form", "en").Body.String()
	assert.Contains(t, body, `name="form_token"`)
	assert.Contains(t, body, `<optgroup label="Food &amp; Beverage">`)
	assert.NotContains(t, body, `name="id"`)

	body = h.get(t, "/admin/suppliers/form?id=id-00", "en").Body.String()
	assert.Contains(t, body, `name="id" value="id-00"`)
	assert.Contains(t, body, `value="010-1234-5678"`)
	assert.Contains(t, body, `<option value="food_supplies" selected>`)
	assert.Contains(t, body, "Edit supplier: Company 00")
}

func TestShowFormUnknownID(t *testing.T) {
	h := newHarness(t, &memService{})
	rec := h.get(t, "/admin/suppliers/form?id=missing", "en")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	flash := h.session.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Supplier not found", flash.Message)
}

func TestSubmitInvalidShowsArabicErrors(t *testing.T) {
	svc := &memService{}
	h := newHarness(t, svc)
	form := validForm()
	form.Set("mobile_1", "0101234567")
	form.Set("email", "not-an-email")

	req := httptest.NewRequest(http.MethodPost, "/admin/suppliers/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "صيغة غير صحيحة (استخدم 01x-xxxx-xxxx)")
	assert.Contains(t, body, "بريد إلكتروني غير صالح")
	assert.Contains(t, body, `value="Nile Foods"`)
	assert.Empty(t, svc.created)
}

func TestSubmitCreatesOncePerFormToken(t *testing.T) {
	svc := &memService{}
	h := newHarness(t, svc)

	rec := h.post(t, "/admin/suppliers/form", validForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?page=2", rec.Header().Get("Location"))
	flash := h.session.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Supplier added successfully", flash.Message)

	rec = h.post(t, "/admin/suppliers/form", validForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	flash = h.session.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, shared.FlashInfo, flash.Kind)
	assert.Len(t, svc.created, 1)
	assert.Equal(t, "010-1234-5678", svc.created[0].Mobile1)
}

func TestSubmitFailureReleasesFormToken(t *testing.T) {
	svc := &memService{writeErr: errors.New("duplicate key value")}
	h := newHarness(t, svc)

	rec := h.post(t, "/admin/suppliers/form", validForm())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: duplicate key value")
	assert.Contains(t, rec.Body.String(), `value="tok-1"`)

	svc.writeErr = nil
	rec = h.post(t, "/admin/suppliers/form", validForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, svc.created, 1)
}

func TestSubmitUpdate(t *testing.T) {
	svc := &memService{rows: fixture(1)}
	h := newHarness(t, svc)
	form := validForm()
	form.Set("id", "id-00")
	form.Set("return", "https://evil.example/")

	rec := h.post(t, "/admin/suppliers/form", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.Equal(t, "Nile Foods", svc.updated["id-00"].CompanyName)
	assert.Equal(t, "Supplier updated successfully", h.session.PopFlash().Message)
}

func TestSubmitUnauthorizedWriteExpiresSession(t *testing.T) {
	svc := &memService{writeErr: statusErr(http.StatusForbidden)}
	h := newHarness(t, svc)
	rec := h.post(t, "/admin/suppliers/form", validForm())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	assert.False(t, h.session.Authenticated())
}

func TestDeleteConfirmThenDelete(t *testing.T) {
	svc := &memService{rows: fixture(2)}
	h := newHarness(t, svc)

	body := h.get(t, "/admin/suppliers/id-01/delete", "en").Body.String()
	assert.Contains(t, body, "Are you sure you want to delete Company 01?")
	assert.Empty(t, svc.deleted)

	rec := h.post(t, "/admin/suppliers/id-01/delete", url.Values{"return": {"/admin?q=co"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?q=co", rec.Header().Get("Location"))
	assert.Equal(t, []string{"id-01"}, svc.deleted)
	assert.Equal(t, "Supplier deleted successfully", h.session.PopFlash().Message)
}

func TestDeleteFailure(t *testing.T) {
	svc := &memService{rows: fixture(1), writeErr: errors.New("row is referenced")}
	h := newHarness(t, svc)
	rec := h.post(t, "/admin/suppliers/id-00/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	flash := h.session.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Delete failed: row is referenced", flash.Message)
}

func TestExportXLSXUsesFilteredRows(t *testing.T) {
	h := newHarness(t, &memService{rows: fixture(6)})
	rec := h.get(t, "/admin/export.xlsx?address=Street+0&page=2", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Suppliers")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Company 00", rows[1][0])
}

func TestExportPDF(t *testing.T) {
	h := newHarness(t, &memService{rows: fixture(4)})
	rec := h.get(t, "/admin/export.pdf?q=company+03", "en")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, h.pdf.html, "Company 03")
	assert.NotContains(t, h.pdf.html, "Company 02")
	assert.Contains(t, h.pdf.html, "Search: company 03")

	h.pdf.enabled = false
	rec = h.get(t, "/admin/export.pdf", "en")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "PDF export is not configured", h.session.PopFlash().Message)
}
