package view

import (
	"net/http"

	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
)

// PageData assembles the per-request template values. The flash is
// consumed and a CSRF token is issued when csrf is non-nil.
func PageData(r *http.Request, csrf *shared.CSRFManager, title string, data any) TemplateData {
	lang := prefs.LangFrom(r.Context())
	sess := shared.SessionFromContext(r.Context())
	td := TemplateData{
		Title:       i18n.T(lang, title),
		Lang:        lang,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.RequestURI(),
		Staff:       sess.Staff(),
		Data:        data,
	}
	if csrf != nil && sess != nil {
		td.CSRFToken = csrf.Token(sess)
	}
	return td
}

// RedirectWithFlash queues a flash message and redirects with 303.
func RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
