package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
	webembed "github.com/erazemk/hamanasi/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"kes":        pricing.FormatKESFloat,
		"kesDecimal": pricing.FormatKES,
		"houseType":  pricing.Name,
		"km": func(v float64) string {
			return fmt.Sprintf("%.1f km", v)
		},
		"date": func(ts model.Timestamp) string {
			if ts.IsZero() {
				return "not set"
			}
			return ts.Format("Jan 2, 2006")
		},
		"clock": func(s string) string {
			if len(s) >= 5 {
				return s[:5]
			}
			return s
		},
		"statusName": func(status string) string {
			switch strings.ToLower(strings.TrimSpace(status)) {
			case model.MoveStatusPending:
				return "Pending"
			case model.MoveStatusInProgress:
				return "In progress"
			case model.MoveStatusCompleted:
				return "Completed"
			case "all":
				return "All"
			default:
				return status
			}
		},
		"statusClass": func(status string) string {
			return "status-" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "-")
		},
		"deref": func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		},
		"decimalString": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
	}
}

var pages = []string{
	"error.html",
	"login.html",
	"signup.html",
	"verify.html",
	"forgot_password.html",
	"new_password.html",
	"onboarding.html",
	"onboarding_mover.html",
	"onboarding_company.html",
	"dashboard_requester.html",
	"dashboard_provider.html",
	"book_move.html",
	"book_move_success.html",
	"find_move.html",
	"find_move_detail.html",
	"bids.html",
	"bids_success.html",
	"moves.html",
	"move_detail.html",
	"inventory.html",
	"profile.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data and status 200.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given data and status. The page
// is rendered fully before anything is written.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "template", name, "error", err)
	}
}
