package dashboard

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mawrid/mawrid/internal/auth"
	"github.com/mawrid/mawrid/internal/export"
	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/listing"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/suppliers"
	"github.com/mawrid/mawrid/internal/view"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type printData struct {
	Filter  listing.Filter
	Columns []string
	Rows    [][]string
	Total   int
	Printed string
}

// filtered loads the rows matching the dashboard filter in the query. On
// failure the response has been written and ok is false.
func (h *Handler) filtered(w http.ResponseWriter, r *http.Request) (listing.Filter, []suppliers.Supplier, bool) {
	state := listing.ParseState(r.URL.Query())
	state.Filter.City = ""
	all, err := h.suppliers.ListAll(r.Context())
	if err != nil {
		if errors.Is(err, suppliers.ErrUnauthorized) {
			auth.ExpireSession(w, r)
			return state.Filter, nil, false
		}
		h.logger.Error("load export rows", slog.Any("error", err))
		lang := prefs.LangFrom(r.Context())
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "Failed to load data: %s", storageMessage(err)))
		return state.Filter, nil, false
	}
	return state.Filter, listing.Apply(all, state.Filter), true
}

func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := h.filtered(w, r)
	if !ok {
		return
	}
	lang := prefs.LangFrom(r.Context())
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, lang, rows); err != nil {
		h.logger.Error("export xlsx", slog.Any("error", err))
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "Export failed"))
		return
	}
	h.attach(w, xlsxContentType, export.Filename("xlsx", h.now()), buf.Bytes())
}

func (h *Handler) exportPDF(w http.ResponseWriter, r *http.Request) {
	lang := prefs.LangFrom(r.Context())
	if h.pdf == nil || !h.pdf.Enabled() {
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "PDF export is not configured"))
		return
	}
	filter, rows, ok := h.filtered(w, r)
	if !ok {
		return
	}

	data := printData{
		Filter:  filter,
		Columns: make([]string, len(export.Columns)),
		Rows:    make([][]string, 0, len(rows)),
		Total:   len(rows),
		Printed: h.now().Format("02/01/2006 15:04"),
	}
	for i, key := range export.Columns {
		data.Columns[i] = i18n.T(lang, key)
	}
	for _, s := range rows {
		data.Rows = append(data.Rows, export.Row(lang, s))
	}
	td := view.TemplateData{Title: i18n.T(lang, "Supplier Directory"), Lang: lang, Data: data}

	var html bytes.Buffer
	if err := h.templates.Execute(&html, "pages/directory_print.html", "document", td); err != nil {
		h.logger.Error("render print view", slog.Any("error", err))
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "Export failed"))
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), html.Bytes())
	if err != nil {
		h.logger.Error("export pdf", slog.Any("error", err))
		view.RedirectWithFlash(w, r, BasePath, shared.FlashError, i18n.T(lang, "Export failed"))
		return
	}
	h.attach(w, "application/pdf", export.Filename("pdf", h.now()), pdf)
}

func (h *Handler) attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("write export", slog.Any("error", err))
	}
}
