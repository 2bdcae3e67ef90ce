package web

import (
	"database/sql"
	"errors"
	"html/template"
	"net/http"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/bids"
	"github.com/erazemk/hamanasi/internal/booking"
	"github.com/erazemk/hamanasi/internal/dashboard"
	"github.com/erazemk/hamanasi/internal/inventory"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/session"
	webembed "github.com/erazemk/hamanasi/web"
)

// Deps are the collaborators the page handlers need.
type Deps struct {
	DB            *sql.DB
	Backend       *backend.Client
	Wizard        *booking.Service
	Bids          *bids.Service
	Dashboards    *dashboard.Service
	Inventory     *inventory.Manager
	DraftSecret   string
	SecureCookies bool
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title     string
	User      *model.User
	Error     string
	Success   string
	Notices   []model.Notice
	CSRFField template.HTML
	CSRFToken string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Deps
	Templates *Templates
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.DB == nil || deps.Backend == nil || deps.Wizard == nil || deps.Bids == nil ||
		deps.Dashboards == nil || deps.Inventory == nil {
		return nil, errors.New("web: missing dependency")
	}

	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{Deps: deps, Templates: templates}

	mux := http.NewServeMux()
	requester := session.RequireRole(model.RoleMover)
	provider := session.RequireRole(model.RoleCompany)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /{$}", s.Home)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.HandleFunc("POST /signup", s.SignupSubmit)
	mux.HandleFunc("GET /verify", s.VerifyPage)
	mux.HandleFunc("POST /verify", s.VerifySubmit)
	mux.HandleFunc("POST /verify/resend", s.ResendSubmit)
	mux.HandleFunc("GET /forgot-password", s.ForgotPasswordPage)
	mux.HandleFunc("POST /forgot-password", s.ForgotPasswordSubmit)
	mux.HandleFunc("GET /new-password", s.NewPasswordPage)
	mux.HandleFunc("POST /new-password", s.NewPasswordSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Gated routes; every role.
	mux.HandleFunc("GET /dashboard", s.Dashboard)
	mux.HandleFunc("GET /onboarding", s.OnboardingPage)
	mux.HandleFunc("POST /onboarding", s.OnboardingSubmit)
	mux.HandleFunc("GET /onboarding/mover", s.MoverOnboardingPage)
	mux.HandleFunc("POST /onboarding/mover", s.MoverOnboardingSubmit)
	mux.HandleFunc("GET /onboarding/company", s.CompanyOnboardingPage)
	mux.HandleFunc("POST /onboarding/company", s.CompanyOnboardingSubmit)
	mux.HandleFunc("GET /profile", s.ProfilePage)
	mux.HandleFunc("POST /profile", s.ProfileSubmit)

	// Requester screens.
	mux.Handle("GET /dashboard/book-move", requester(http.HandlerFunc(s.BookMovePage)))
	mux.Handle("POST /dashboard/book-move", requester(http.HandlerFunc(s.BookMoveSubmit)))
	mux.Handle("POST /dashboard/book-move/reset", requester(http.HandlerFunc(s.BookMoveReset)))
	mux.Handle("GET /dashboard/book-move/success", requester(http.HandlerFunc(s.BookMoveSuccessPage)))
	mux.Handle("GET /dashboard/bids", requester(http.HandlerFunc(s.BidsPage)))
	mux.Handle("POST /dashboard/bids/accept", requester(http.HandlerFunc(s.AcceptSubmit)))
	mux.Handle("GET /dashboard/bids/booking-success", requester(http.HandlerFunc(s.BidsSuccessPage)))
	mux.Handle("GET /dashboard/moves", requester(http.HandlerFunc(s.MovesPage)))
	mux.Handle("GET /dashboard/moves/{id}", requester(http.HandlerFunc(s.MoveDetailPage)))
	mux.Handle("GET /dashboard/inventory", requester(http.HandlerFunc(s.InventoryPage)))
	mux.Handle("POST /dashboard/inventory", requester(http.HandlerFunc(s.InventoryCreateSubmit)))
	mux.Handle("POST /dashboard/inventory/{id}", requester(http.HandlerFunc(s.InventoryUpdateSubmit)))
	mux.Handle("POST /dashboard/inventory/{id}/delete", requester(http.HandlerFunc(s.InventoryDeleteSubmit)))

	// Provider screens.
	mux.Handle("GET /dashboard/find-move", provider(http.HandlerFunc(s.FindMovePage)))
	mux.Handle("GET /dashboard/find-move/{id}", provider(http.HandlerFunc(s.FindMoveDetailPage)))
	mux.Handle("POST /dashboard/find-move/{id}", provider(http.HandlerFunc(s.QuoteSubmit)))

	identity := session.LoadIdentity(s.Backend, s.SecureCookies, s.identityError)
	return session.Gate(identity(mux)), nil
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
