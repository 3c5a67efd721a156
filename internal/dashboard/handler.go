// Package dashboard serves the staff surface: the supplier table, the
// create/edit form, deletion and exports of the filtered view.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mawrid/mawrid/internal/auth"
	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/listing"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/suppliers"
	"github.com/mawrid/mawrid/internal/view"
)

// PageSize is the number of table rows per dashboard page.
const PageSize = 10

// BasePath is where the dashboard is mounted.
const BasePath = "/admin"

const formModule = "suppliers.form"

// SupplierService is the slice of suppliers.Service the dashboard needs.
type SupplierService interface {
	ListAll(ctx context.Context) ([]suppliers.Supplier, error)
	GetByID(ctx context.Context, id string) (suppliers.Supplier, error)
	Create(ctx context.Context, in suppliers.Input) (suppliers.Supplier, error)
	Update(ctx context.Context, id string, in suppliers.Input) (suppliers.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// PDFRenderer converts an HTML document to PDF.
type PDFRenderer interface {
	Enabled() bool
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Handler wires the dashboard endpoints.
type Handler struct {
	logger      *slog.Logger
	suppliers   SupplierService
	templates   *view.Engine
	csrf        *shared.CSRFManager
	idempotency *shared.IdempotencyStore
	pdf         PDFRenderer
	refresh     time.Duration
	now         func() time.Time
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	Idempotency *shared.IdempotencyStore
	PDF         PDFRenderer
	// Refresh is the auto reload interval of the table page. Zero disables it.
	Refresh time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service SupplierService, templates *view.Engine, csrf *shared.CSRFManager, opts Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		suppliers:   service,
		templates:   templates,
		csrf:        csrf,
		idempotency: opts.Idempotency,
		pdf:         opts.PDF,
		refresh:     opts.Refresh,
		now:         time.Now,
	}
}

// MountRoutes registers dashboard routes. The caller guards the group.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/suppliers/form", h.showForm)
	r.Post("/suppliers/form", h.submitForm)
	r.Get("/suppliers/{id}/delete", h.confirmDelete)
	r.Post("/suppliers/{id}/delete", h.handleDelete)
	r.Get("/export.xlsx", h.exportXLSX)
	r.Get("/export.pdf", h.exportPDF)
}

type indexData struct {
	State     listing.State
	Page      listing.Page
	Addresses []string
	Stats     listing.Stats
	LoadError string
	LoadedAt  time.Time
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	state := listing.ParseState(r.URL.Query())
	state.Filter.City = ""
	data := indexData{State: state, LoadedAt: h.now()}

	status := http.StatusOK
	all, err := h.suppliers.ListAll(r.Context())
	if err != nil {
		if errors.Is(err, suppliers.ErrUnauthorized) {
			auth.ExpireSession(w, r)
			return
		}
		h.logger.Error("load dashboard", slog.Any("error", err))
		data.LoadError = storageMessage(err)
		status = http.StatusBadGateway
	} else {
		data.Page = listing.View(all, state.Filter, state.Page, PageSize)
		data.State.Page = data.Page.Page
		data.Addresses = listing.Addresses(all)
		data.Stats = listing.ComputeStats(all)
	}

	td := view.PageData(r, h.csrf, "Dashboard", data)
	td.Refresh = int(h.refresh / time.Second)
	h.render(w, status, "pages/dashboard.html", td)
}

type formData struct {
	ID     string
	Form   suppliers.Input
	Errors map[string]string
	Token  string
	Return string
}

// Editing reports whether the form updates an existing supplier.
func (d formData) Editing() bool { return d.ID != "" }

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	lang := prefs.LangFrom(r.Context())
	data := formData{
		Token:  uuid.NewString(),
		Return: returnPath(r.URL.Query().Get("return")),
	}
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		sup, err := h.suppliers.GetByID(r.Context(), id)
		if err != nil {
			h.failLoad(w, r, lang, err)
			return
		}
		data.ID = sup.ID
		data.Form = suppliers.InputFrom(sup)
		data.Form.Mobile1 = suppliers.FormatPhone(data.Form.Mobile1)
		if data.Form.Mobile2 != "" {
			data.Form.Mobile2 = suppliers.FormatPhone(data.Form.Mobile2)
		}
		data.Form.Category = suppliers.NormalizeCategory(data.Form.Category)
	}
	h.renderForm(w, r, http.StatusOK, data)
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang := prefs.LangFrom(r.Context())
	data := formData{
		ID:     strings.TrimSpace(r.PostFormValue("id")),
		Form:   inputFromForm(r),
		Token:  r.PostFormValue("form_token"),
		Return: returnPath(r.PostFormValue("return")),
	}

	if err := suppliers.Validate(data.Form); err != nil {
		data.Errors = localizeValidation(lang, err)
		h.renderForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if data.Token != "" {
		if err := h.idempotency.CheckAndInsert(r.Context(), data.Token, formModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				view.RedirectWithFlash(w, r, data.Return, shared.FlashInfo, i18n.T(lang, "This form was already submitted"))
				return
			}
			h.logger.Warn("claim form token", slog.Any("error", err))
		}
	}

	var (
		saved suppliers.Supplier
		err   error
		msg   = "Supplier added successfully"
	)
	if data.Editing() {
		saved, err = h.suppliers.Update(r.Context(), data.ID, data.Form)
		msg = "Supplier updated successfully"
	} else {
		saved, err = h.suppliers.Create(r.Context(), data.Form)
	}
	if err != nil {
		if releaseErr := h.idempotency.Delete(r.Context(), data.Token, formModule); releaseErr != nil {
			h.logger.Warn("release form token", slog.Any("error", releaseErr))
		}
		if errors.Is(err, suppliers.ErrUnauthorized) {
			auth.ExpireSession(w, r)
			return
		}
		var validationErr *suppliers.ValidationError
		if errors.As(err, &validationErr) {
			data.Errors = localizeValidation(lang, err)
			h.renderForm(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		h.logger.Error("save supplier", slog.String("id", data.ID), slog.Any("error", err))
		data.Errors = map[string]string{"general": i18n.T(lang, "Error: %s", storageMessage(err))}
		h.renderForm(w, r, http.StatusBadGateway, data)
		return
	}

	h.logger.Info("supplier saved", slog.String("id", saved.ID), slog.Bool("update", data.Editing()))
	view.RedirectWithFlash(w, r, data.Return, shared.FlashSuccess, i18n.T(lang, msg))
}

type deleteData struct {
	Supplier suppliers.Supplier
	Return   string
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	lang := prefs.LangFrom(r.Context())
	sup, err := h.suppliers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.failLoad(w, r, lang, err)
		return
	}
	data := deleteData{Supplier: sup, Return: returnPath(r.URL.Query().Get("return"))}
	h.render(w, http.StatusOK, "pages/supplier_delete.html", view.PageData(r, h.csrf, "Confirm deletion", data))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	lang := prefs.LangFrom(r.Context())
	id := chi.URLParam(r, "id")
	back := returnPath(r.PostFormValue("return"))
	if err := h.suppliers.Delete(r.Context(), id); err != nil {
		if errors.Is(err, suppliers.ErrUnauthorized) {
			auth.ExpireSession(w, r)
			return
		}
		h.logger.Error("delete supplier", slog.String("id", id), slog.Any("error", err))
		view.RedirectWithFlash(w, r, back, shared.FlashError, i18n.T(lang, "Delete failed: %s", storageMessage(err)))
		return
	}
	h.logger.Info("supplier deleted", slog.String("id", id))
	view.RedirectWithFlash(w, r, back, shared.FlashSuccess, i18n.T(lang, "Supplier deleted successfully"))
}

// failLoad handles a failed single-supplier lookup on a page load.
func (h *Handler) failLoad(w http.ResponseWriter, r *http.Request, lang string, err error) {
	var notFound *suppliers.NotFoundError
	switch {
	case errors.As(err, &notFound):
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "Supplier not found"))
	case errors.Is(err, suppliers.ErrUnauthorized):
		auth.ExpireSession(w, r)
	default:
		h.logger.Error("load supplier", slog.Any("error", err))
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "Failed to load data: %s", storageMessage(err)))
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, data formData) {
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	title := "Add supplier"
	if data.Editing() {
		title = "Edit supplier"
	}
	h.render(w, status, "pages/supplier_form.html", view.PageData(r, h.csrf, title, data))
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, td view.TemplateData) {
	if err := h.templates.RenderStatus(w, status, name, td); err != nil {
		h.logger.Error("render dashboard page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func inputFromForm(r *http.Request) suppliers.Input {
	return suppliers.Input{
		CompanyName:           r.PostFormValue(suppliers.FieldCompanyName),
		ResponsiblePersonName: r.PostFormValue(suppliers.FieldResponsiblePersonName),
		Address:               r.PostFormValue(suppliers.FieldAddress),
		Mobile1:               r.PostFormValue(suppliers.FieldMobile1),
		Mobile2:               r.PostFormValue(suppliers.FieldMobile2),
		Email:                 r.PostFormValue(suppliers.FieldEmail),
		Category:              r.PostFormValue("category"),
		City:                  r.PostFormValue("city"),
	}
}

// localizeValidation maps field names to translated reasons. The "general"
// entry summarises the failure above the form.
func localizeValidation(lang string, err error) map[string]string {
	out := map[string]string{}
	var validationErr *suppliers.ValidationError
	if !errors.As(err, &validationErr) {
		return out
	}
	for field, msg := range validationErr.Fields() {
		out[field] = i18n.T(lang, msg)
	}
	out["general"] = i18n.T(lang, "Please correct the errors in the form")
	return out
}

func storageMessage(err error) string {
	var storageErr *suppliers.StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Message()
	}
	return err.Error()
}

// returnPath keeps post-action redirects inside the dashboard.
func returnPath(v string) string {
	switch {
	case strings.HasPrefix(v, BasePath+"//"):
		return BasePath
	case v == BasePath, strings.HasPrefix(v, BasePath+"?"), strings.HasPrefix(v, BasePath+"/"):
		return v
	}
	return BasePath
}
