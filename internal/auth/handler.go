package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/prefs"
	"github.com/mawrid/mawrid/internal/shared"
	"github.com/mawrid/mawrid/internal/validation"
	"github.com/mawrid/mawrid/internal/view"
)

// DashboardPath is where staff land after signing in.
const DashboardPath = "/admin"

const (
	msgRequired         = "Please fill in all required fields"
	msgEmailInvalid     = "Invalid email address"
	msgPasswordShort    = "Password must be at least 6 characters"
	msgPasswordMismatch = "Passwords do not match"
	msgRecoveryInvalid  = "The recovery link is invalid or has expired"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	guard       *Guard
	templates   *view.Engine
	csrf        *shared.CSRFManager
	prefs       *prefs.Store
	validator   *validator.Validate
	recoveryURL string
}

// NewHandler constructs a Handler. recoveryURL is the absolute address of
// the recover page that password reset emails link to.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, store *prefs.Store, recoveryURL string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		guard:       NewGuard(service, logger),
		templates:   templates,
		csrf:        csrf,
		prefs:       store,
		validator:   validation.New(),
		recoveryURL: recoveryURL,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RedirectAuthenticated(DashboardPath))
		r.Get("/login", h.showLogin)
		r.Post("/login", h.handleLogin)
		r.Get("/signup", h.showSignup)
		r.Post("/signup", h.handleSignup)
	})
	r.Post("/logout", h.handleLogout)
	r.Get("/forgot-password", h.showForgot)
	r.Post("/forgot-password", h.handleForgot)
	r.Get("/recover", h.showRecover)
	r.Post("/recover/session", h.handleRecoverSession)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/update-password", h.showUpdatePassword)
		r.Post("/update-password", h.handleUpdatePassword)
	})
}

type loginForm struct {
	Email    string `validate:"required,plainemail"`
	Password string `validate:"required"`
	Remember bool
}

type signupForm struct {
	Email    string `validate:"required,plainemail"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

type emailForm struct {
	Email string `validate:"required,plainemail"`
}

type passwordForm struct {
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

type formPage struct {
	Form   any
	Errors map[string]string
	Done   bool
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	email := prefs.RememberedEmail(r)
	form := loginForm{Email: email, Remember: email != ""}
	h.render(w, r, http.StatusOK, "pages/login.html", "Sign in", formPage{Form: form})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang := prefs.LangFrom(r.Context())
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember") != "",
	}
	errs := h.validate(lang, form)
	if len(errs) == 0 {
		staff, err := h.service.Login(r.Context(), form.Email, form.Password)
		if err == nil {
			sess := shared.SessionFromContext(r.Context())
			sess.SignIn(staff)
			h.prefs.Remember(w, form.Email, form.Remember)
			h.logger.Info("staff signed in", slog.String("email", staff.Email))
			view.RedirectWithFlash(w, r, DashboardPath, shared.FlashSuccess, i18n.T(lang, "Signed in successfully"))
			return
		}
		errs["general"] = h.describe(lang, err)
	}
	form.Password = ""
	h.render(w, r, http.StatusBadRequest, "pages/login.html", "Sign in", formPage{Form: form, Errors: errs})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	lang := prefs.LangFrom(r.Context())
	sess := shared.SessionFromContext(r.Context())
	if err := h.service.Logout(r.Context(), sess.Staff()); err != nil {
		h.logger.Warn("sign out", slog.Any("error", err))
		if sess != nil {
			sess.SignOut()
		}
		view.RedirectWithFlash(w, r, LoginPath, shared.FlashError, i18n.T(lang, "Sign out failed"))
		return
	}
	if sess != nil {
		sess.SignOut()
	}
	view.RedirectWithFlash(w, r, LoginPath, shared.FlashSuccess, i18n.T(lang, "Signed out"))
}

func (h *Handler) showSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/signup.html", "Create account", formPage{Form: signupForm{}})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang := prefs.LangFrom(r.Context())
	form := signupForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	errs := h.validate(lang, form)
	if len(errs) == 0 {
		staff, err := h.service.Signup(r.Context(), form.Email, form.Password)
		if err == nil {
			if staff != nil {
				shared.SessionFromContext(r.Context()).SignIn(*staff)
				view.RedirectWithFlash(w, r, DashboardPath, shared.FlashSuccess, i18n.T(lang, "Signed in successfully"))
				return
			}
			view.RedirectWithFlash(w, r, LoginPath, shared.FlashInfo, i18n.T(lang, "Account created. Check your email to confirm it."))
			return
		}
		errs["general"] = h.describe(lang, err)
	}
	form.Password, form.Confirm = "", ""
	h.render(w, r, http.StatusBadRequest, "pages/signup.html", "Create account", formPage{Form: form, Errors: errs})
}

func (h *Handler) showForgot(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/forgot_password.html", "Reset password", formPage{Form: emailForm{}})
}

func (h *Handler) handleForgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang := prefs.LangFrom(r.Context())
	form := emailForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	errs := h.validate(lang, form)
	if len(errs) == 0 {
		err := h.service.SendPasswordReset(r.Context(), form.Email, h.recoveryURL)
		if err == nil {
			h.render(w, r, http.StatusOK, "pages/forgot_password.html", "Reset password", formPage{Form: form, Done: true})
			return
		}
		errs["general"] = h.describe(lang, err)
	}
	h.render(w, r, http.StatusBadRequest, "pages/forgot_password.html", "Reset password", formPage{Form: form, Errors: errs})
}

// showRecover serves the page a recovery email links to. The identity
// service puts the tokens in the URL fragment, which only the browser sees;
// the page script posts them to handleRecoverSession.
func (h *Handler) showRecover(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/recover.html", "Reset password", formPage{})
}

func (h *Handler) handleRecoverSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang := prefs.LangFrom(r.Context())
	if r.PostFormValue("type") != "recovery" {
		view.RedirectWithFlash(w, r, "/auth/forgot-password", shared.FlashError, i18n.T(lang, msgRecoveryInvalid))
		return
	}
	staff, err := h.service.AdoptRecovery(r.Context(), r.PostFormValue("access_token"), r.PostFormValue("refresh_token"))
	if err != nil {
		h.logger.Warn("adopt recovery session", slog.Any("error", err))
		view.RedirectWithFlash(w, r, "/auth/forgot-password", shared.FlashError, i18n.T(lang, msgRecoveryInvalid))
		return
	}
	shared.SessionFromContext(r.Context()).SignIn(staff)
	http.Redirect(w, r, "/auth/update-password", http.StatusSeeOther)
}

func (h *Handler) showUpdatePassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "pages/update_password.html", "Set a new password", formPage{Form: passwordForm{}})
}

func (h *Handler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	lang := prefs.LangFrom(r.Context())
	form := passwordForm{Password: r.PostFormValue("password"), Confirm: r.PostFormValue("confirm")}
	errs := h.validate(lang, form)
	if len(errs) == 0 {
		err := h.service.UpdatePassword(r.Context(), shared.StaffFromContext(r.Context()), form.Password)
		if err == nil {
			view.RedirectWithFlash(w, r, DashboardPath, shared.FlashSuccess, i18n.T(lang, "Password updated"))
			return
		}
		var authErr *AuthError
		if errors.As(err, &authErr) && authErr.Unauthorized() {
			ExpireSession(w, r)
			return
		}
		errs["general"] = h.describe(lang, err)
	}
	h.render(w, r, http.StatusBadRequest, "pages/update_password.html", "Set a new password", formPage{Form: passwordForm{}, Errors: errs})
}

// validate runs the struct rules and returns localized messages keyed by
// field name. Missing values collapse into one general message.
func (h *Handler) validate(lang string, form any) map[string]string {
	errs := make(map[string]string)
	err := h.validator.Struct(form)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["general"] = i18n.T(lang, "Error: %s", err.Error())
		return errs
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errs["general"] = i18n.T(lang, msgRequired)
		case validation.TagEmail:
			errs[fe.Field()] = i18n.T(lang, msgEmailInvalid)
		case "min":
			errs[fe.Field()] = i18n.T(lang, msgPasswordShort)
		case "eqfield":
			errs[fe.Field()] = i18n.T(lang, msgPasswordMismatch)
		default:
			errs[fe.Field()] = fe.Error()
		}
	}
	return errs
}

func (h *Handler) describe(lang string, err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Localize(lang)
	}
	h.logger.Error("auth request", slog.Any("error", err))
	return i18n.T(lang, "Unexpected error")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data formPage) {
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	td := view.PageData(r, h.csrf, title, data)
	if err := h.templates.RenderStatus(w, status, name, td); err != nil {
		h.logger.Error("render auth page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
