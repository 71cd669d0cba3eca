package feed

import (
	"context"
	"sync"

	"github.com/tinywasm/form"
)

// AuthModule owns the dual-mode authentication form: the active mode, one
// draft per mode, and the staged profile picture. It starts in login mode
// with empty drafts.
type AuthModule struct {
	api     *apiClient
	session SessionStore
	nav     Navigator

	mu           sync.Mutex
	mode         FormMode
	login        LoginData
	register     RegisterData
	picture      Stager
	inFlight     bool
	loginForm    *form.Form
	registerForm *form.Form
}

func NewAuthModule(cfg Config) *AuthModule {
	cfg = cfg.withDefaults()
	return &AuthModule{
		api:     newAPIClient(cfg.BaseURL, cfg.HTTPClient),
		session: cfg.Session,
		nav:     cfg.Nav,
		mode:    ModeLogin,
	}
}

func (m *AuthModule) HandlerName() string { return "auth" }

func (m *AuthModule) ModuleTitle() string {
	if m.Mode() == ModeRegister {
		return "Register"
	}
	return "Login"
}

// ValidateData satisfies the site framework's module contract; it
// delegates to the form bound to the active mode.
func (m *AuthModule) ValidateData(action byte, data ...any) error {
	return m.form(m.Mode()).ValidateData(action, data...)
}

// form builds the mode's form on first use, so headless flows (validation
// and submission only) never resolve form inputs.
func (m *AuthModule) form(mode FormMode) *form.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode == ModeRegister {
		if m.registerForm == nil {
			m.registerForm = mustForm("register", &RegisterData{})
		}
		return m.registerForm
	}
	if m.loginForm == nil {
		m.loginForm = mustForm("login", &LoginData{})
	}
	return m.loginForm
}

func (m *AuthModule) Mode() FormMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// ToggleMode flips login<->register and resets both drafts to their
// initial values. Discarding unsaved input on a toggle is intentional.
// A submission already in flight is not blocked; its response is applied
// under the mode captured when it was sent.
func (m *AuthModule) ToggleMode() FormMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.resetDraftsLocked()
	return m.mode
}

func (m *AuthModule) resetDraftsLocked() {
	m.login = LoginData{}
	m.register = RegisterData{}
	m.picture.Clear()
}

func (m *AuthModule) LoginDraft() LoginData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.login
}

func (m *AuthModule) SetLoginDraft(d LoginData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.login = d
}

func (m *AuthModule) RegisterDraft() RegisterData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.register
}

func (m *AuthModule) SetRegisterDraft(d RegisterData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.register = d
}

// Picture is the staged profile image, required in register mode.
func (m *AuthModule) Picture() *Stager {
	return &m.picture
}

// Validate applies the schema bound to the active mode and reports every
// offending field.
func (m *AuthModule) Validate() ValidationErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateLocked()
}

func (m *AuthModule) validateLocked() ValidationErrors {
	if m.mode == ModeRegister {
		_, staged := m.picture.Current()
		d := m.register
		return validateRegister(&d, staged)
	}
	d := m.login
	return validateLogin(&d)
}

// Submit validates the active draft and, when clean, issues exactly one
// request to the endpoint bound to the mode. An invalid draft returns
// ValidationErrors without touching the network. At most one submission
// is in flight per module; a second one returns ErrSubmitInFlight. On
// any failure the draft is retained and no state changes.
func (m *AuthModule) Submit(ctx context.Context) (User, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return User{}, ErrSubmitInFlight
	}
	if errs := m.validateLocked(); len(errs) > 0 {
		m.mu.Unlock()
		return User{}, errs
	}
	m.inFlight = true
	mode := m.mode
	login := m.login
	register := m.register
	picture, staged := m.picture.Current()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	if mode == ModeRegister {
		return m.sendRegister(ctx, register, picture, staged)
	}
	return m.sendLogin(ctx, login)
}

func (m *AuthModule) sendRegister(ctx context.Context, d RegisterData, picture Attachment, staged bool) (User, error) {
	fields := [][2]string{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"email", d.Email},
		{"password", d.Password},
		{"location", d.Location},
		{"occupation", d.Occupation},
	}
	var created User
	if err := m.api.postMultipart(ctx, "/auth/register", fields, picture, staged, "", &created); err != nil {
		return User{}, err
	}

	// Drop back to the login form so the new account can authenticate.
	m.mu.Lock()
	m.mode = ModeLogin
	m.resetDraftsLocked()
	m.mu.Unlock()
	return created, nil
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (m *AuthModule) sendLogin(ctx context.Context, d LoginData) (User, error) {
	var resp loginResponse
	payload := loginPayload{Email: d.Email, Password: d.Password}
	if err := m.api.postJSON(ctx, "/auth/login", payload, &resp); err != nil {
		return User{}, err
	}

	m.session.SetSession(resp.User, resp.Token)
	m.nav.GoTo("home")

	m.mu.Lock()
	m.resetDraftsLocked()
	m.mu.Unlock()
	return resp.User, nil
}
