package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"blogicum/internal/middleware"
	"blogicum/internal/render"
	"blogicum/internal/session"
	"blogicum/internal/store"
)

// Auth groups all authentication-related HTTP handlers. Two-factor
// authentication is optional: accounts without TOTP enrolled log in with
// just a password.
type Auth struct {
	renderer  *render.Renderer
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		renderer:  renderer,
		sessions:  sessions,
		userStore: userStore,
	}
}

// RegisterPage renders the sign-up form.
func (a *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "register", &render.PageData{
		Title: "Sign up",
		Data:  map[string]any{},
	})
}

// RegisterSubmit creates a new account and logs it straight in.
func (a *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	password2 := r.FormValue("password2")

	renderError := func(msg string) {
		a.renderer.Page(w, r, "register", &render.PageData{
			Title: "Sign up",
			Data:  map[string]any{"Error": msg, "Username": username, "Email": email},
		})
	}

	if msg := validateRegistration(username, email, password, password2); msg != "" {
		renderError(msg)
		return
	}

	existing, err := a.userStore.FindByUsername(username)
	if err != nil {
		slog.Error("registration lookup failed", "error", err)
		renderError("An unexpected error occurred.")
		return
	}
	if existing != nil {
		renderError("That username is already taken.")
		return
	}

	user, err := a.userStore.Create(username, email, password)
	if err != nil {
		slog.Error("create user failed", "error", err)
		renderError("An unexpected error occurred.")
		return
	}

	// Fresh accounts have no 2FA, so the session is fully authenticated.
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		TwoFADone: true,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user registered", "username", user.Username)
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusSeeOther)
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()).Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Log in",
		Data:  map[string]any{},
	})
}

// LoginSubmit processes the login form. Accounts with TOTP enrolled get a
// half-open session and are sent to the code prompt.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	renderError := func(msg string) {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title: "Log in",
			Data:  map[string]any{"Error": msg, "Username": username},
		})
	}

	user, err := a.userStore.FindByUsername(username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		renderError("An unexpected error occurred.")
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, password) {
		renderError("Invalid username or password.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		TwoFADone: !user.Has2FA(),
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.Has2FA() {
		http.Redirect(w, r, "/auth/2fa/verify/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the home page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// TwoFASetupPage generates a TOTP secret for the current actor and shows
// the QR code. Reachable from the profile page; fully optional.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Blogicum",
		AccountName: sess.Username,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}

	a.render2FASetup(w, r, key.URL(), key.Secret(), "")
}

// TwoFASetupSubmit confirms enrollment with a first valid code.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/auth/2fa/setup/", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		url := totpURL(user.Username, *user.TOTPSecret)
		a.render2FASetup(w, r, url, *user.TOTPSecret, "Invalid code. Please try again.")
		return
	}

	if err := a.userStore.EnableTOTP(user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}

	slog.Info("2fa enabled", "username", user.Username)
	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusSeeOther)
}

// TwoFAVerifyPage renders the code prompt for a half-open session.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/auth/login/", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "2fa_verify", &render.PageData{
		Title: "Two-factor authentication",
		Data:  map[string]any{},
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/auth/login/", http.StatusSeeOther)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}
	if user.TOTPSecret == nil || !user.TOTPEnabled {
		// Session says 2FA pending but the account has none; start over.
		a.sessions.Destroy(r.Context(), w, r)
		http.Redirect(w, r, "/auth/login/", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title: "Two-factor authentication",
			Data:  map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// render2FASetup renders the setup page with a QR code for the otpauth URL.
func (a *Auth) render2FASetup(w http.ResponseWriter, r *http.Request, otpURL, secret, errMsg string) {
	qrPNG, err := qrcode.Encode(otpURL, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		renderServerError(a.renderer, w, r)
		return
	}

	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title: "Set up two-factor authentication",
		Data: map[string]any{
			"QRCode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
			"Secret": secret,
			"Error":  errMsg,
		},
	})
}

// totpURL rebuilds the otpauth provisioning URL for an existing secret.
func totpURL(username, secret string) string {
	return "otpauth://totp/Blogicum:" + username + "?secret=" + secret + "&issuer=Blogicum"
}
