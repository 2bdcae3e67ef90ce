package web

import (
	"net/http"
	"strings"

	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/onboarding"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/session"
)

type onboardingForm struct {
	PageData
	Role        string
	Location    string
	Phone       string
	HouseType   string
	CompanyName string
	HouseTypes  []pricing.HouseType
	Roles       []string
}

func (s *Server) onboardingForm(r *http.Request, title string) *onboardingForm {
	form := &onboardingForm{
		PageData:   s.page(r, title),
		HouseTypes: pricing.HouseTypes(),
		Roles:      []string{model.RoleMover, model.RoleCompany},
	}
	if u := form.User; u != nil {
		form.Role = u.EffectiveRole()
		form.Location = u.Location
		form.Phone = u.Phone
		form.HouseType = u.HouseType
	}
	return form
}

// OnboardingPage handles GET /onboarding.
func (s *Server) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "onboarding.html", s.onboardingForm(r, "How will you use Hama Nasi?"))
}

// OnboardingSubmit handles POST /onboarding.
func (s *Server) OnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	role := strings.TrimSpace(r.FormValue("role"))

	if err := onboarding.SelectRole(r.Context(), s.api(r), role); err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		form := s.onboardingForm(r, "How will you use Hama Nasi?")
		form.Role = role
		form.Error = onboarding.Message(err)
		s.Templates.Render(w, "onboarding.html", form)
		return
	}

	http.Redirect(w, r, onboarding.NextPath(role), http.StatusSeeOther)
}

// MoverOnboardingPage handles GET /onboarding/mover.
func (s *Server) MoverOnboardingPage(w http.ResponseWriter, r *http.Request) {
	if !s.onboardingRole(w, r, model.RoleMover) {
		return
	}
	s.Templates.Render(w, "onboarding_mover.html", s.onboardingForm(r, "Tell us about your move"))
}

// MoverOnboardingSubmit handles POST /onboarding/mover.
func (s *Server) MoverOnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.onboardingRole(w, r, model.RoleMover) {
		return
	}
	details := onboarding.RequesterDetails{
		Location:  r.FormValue("location"),
		Phone:     r.FormValue("phone"),
		HouseType: r.FormValue("house_type"),
	}

	if err := onboarding.CompleteRequester(r.Context(), s.api(r), details); err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		form := s.onboardingForm(r, "Tell us about your move")
		form.Location, form.Phone, form.HouseType = details.Location, details.Phone, details.HouseType
		form.Error = onboarding.Message(err)
		s.Templates.Render(w, "onboarding_mover.html", form)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// CompanyOnboardingPage handles GET /onboarding/company.
func (s *Server) CompanyOnboardingPage(w http.ResponseWriter, r *http.Request) {
	if !s.onboardingRole(w, r, model.RoleCompany) {
		return
	}
	s.Templates.Render(w, "onboarding_company.html", s.onboardingForm(r, "Register your company"))
}

// CompanyOnboardingSubmit handles POST /onboarding/company.
func (s *Server) CompanyOnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.onboardingRole(w, r, model.RoleCompany) {
		return
	}
	details := onboarding.CompanyDetails{
		CompanyName: r.FormValue("company_name"),
		Phone:       r.FormValue("phone"),
		HouseType:   r.FormValue("house_type"),
	}

	if _, err := onboarding.CompleteCompany(r.Context(), s.api(r), details); err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		form := s.onboardingForm(r, "Register your company")
		form.CompanyName, form.Phone, form.HouseType = details.CompanyName, details.Phone, details.HouseType
		form.Error = onboarding.Message(err)
		s.Templates.Render(w, "onboarding_company.html", form)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// onboardingRole sends users who have not picked role back to step 1.
func (s *Server) onboardingRole(w http.ResponseWriter, r *http.Request, role string) bool {
	user := session.User(r.Context())
	if user == nil || user.EffectiveRole() != role {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return false
	}
	return true
}
