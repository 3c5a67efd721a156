// Package directory serves the public supplier listing.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mawrid/mawrid/internal/listing"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/suppliers"
	"github.com/mawrid/mawrid/internal/view"
)

// PageSize is the number of cards per landing page.
const PageSize = 12

// Lister returns every supplier, newest first.
type Lister interface {
	ListAll(ctx context.Context) ([]suppliers.Supplier, error)
}

// Handler renders the public directory.
type Handler struct {
	logger    *slog.Logger
	suppliers Lister
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, lister Lister, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, suppliers: lister, templates: templates, csrf: csrf}
}

// MountRoutes registers the landing page.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.landing)
}

type landingData struct {
	State     listing.State
	Page      listing.Page
	Cities    []string
	LoadError string
}

func (h *Handler) landing(w http.ResponseWriter, r *http.Request) {
	state := listing.ParseState(r.URL.Query())
	state.Filter.Address = ""
	data := landingData{State: state}

	all, err := h.suppliers.ListAll(r.Context())
	status := http.StatusOK
	if err != nil {
		h.logger.Error("load directory", slog.Any("error", err))
		data.LoadError = err.Error()
		var storageErr *suppliers.StorageError
		if errors.As(err, &storageErr) {
			data.LoadError = storageErr.Message()
		}
		status = http.StatusBadGateway
	} else {
		data.Page = listing.View(all, state.Filter, state.Page, PageSize)
		data.State.Page = data.Page.Page
		data.Cities = listing.Cities(all)
	}

	// anonymous visitors get no token so browsing never creates a session
	var csrf *shared.CSRFManager
	if shared.SessionFromContext(r.Context()).Authenticated() {
		csrf = h.csrf
	}
	td := view.PageData(r, csrf, "Supplier Directory", data)
	if err := h.templates.RenderStatus(w, status, "pages/landing.html", td); err != nil {
		h.logger.Error("render landing", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
