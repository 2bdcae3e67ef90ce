package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/hamanasi/internal/auth"
	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/booking"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/session"
)

// Wizard form actions.
const (
	actionCalculate = "calculate"
	actionBack      = "back"
	actionContinue  = "continue"
	actionSubmit    = "submit"
)

var retryMessages = map[string]string{
	actionCalculate: "Could not calculate the route. Please try again.",
	actionSubmit:    "We could not book your move. Please try again.",
}

type bookingPage struct {
	PageData
	Draft         *model.BookingDraft
	Steps         []string
	HouseTypes    []pricing.HouseType
	Price         string
	DurationHours int
	MinMoveAt     string
	CanContinue   bool
}

// currentDraft loads the session's draft. With create it starts a new one
// (and issues its cookie) when there is none.
func (s *Server) currentDraft(w http.ResponseWriter, r *http.Request, create bool) (*model.BookingDraft, error) {
	fp := session.Fingerprint(session.Token(r))

	if id, err := auth.DraftID(r, s.DraftSecret, fp); err == nil {
		d, err := s.Wizard.Load(r.Context(), id, fp)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, booking.ErrDraftNotFound) {
			return nil, err
		}
	}
	if !create {
		return nil, booking.ErrDraftNotFound
	}

	d, err := s.Wizard.Start(r.Context(), fp)
	if err != nil {
		return nil, err
	}
	token, err := auth.GenerateDraftToken(s.DraftSecret, d.ID, fp)
	if err != nil {
		return nil, err
	}
	auth.SetDraftCookie(w, token, s.SecureCookies)
	return d, nil
}

func (s *Server) renderBooking(w http.ResponseWriter, r *http.Request, d *model.BookingDraft, errMsg string) {
	now := s.Wizard.Now()
	page := &bookingPage{
		PageData:    s.page(r, "Book a move"),
		Draft:       d,
		Steps:       []string{"Route", "Schedule", "Review"},
		HouseTypes:  pricing.HouseTypes(),
		MinMoveAt:   now.Format(booking.MoveAtLayout),
		CanContinue: booking.CanContinue(d, s.Wizard.Location(), now),
	}
	page.Error = errMsg
	if price, ok := booking.Price(d); ok {
		page.Price = pricing.FormatKES(price)
	}
	if d.DistanceKm != nil {
		page.DurationHours = pricing.EstimatedDurationHours(*d.DistanceKm)
	}
	s.Templates.Render(w, "book_move.html", page)
}

// BookMovePage handles GET /dashboard/book-move.
func (s *Server) BookMovePage(w http.ResponseWriter, r *http.Request) {
	d, err := s.currentDraft(w, r, true)
	if err != nil {
		slog.Error("failed to load booking draft", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "We could not start your booking. Please try again.")
		return
	}
	s.renderBooking(w, r, d, "")
}

// BookMoveSubmit handles POST /dashboard/book-move. The posted step must
// match the stored draft; forms from another tab are refused.
func (s *Server) BookMoveSubmit(w http.ResponseWriter, r *http.Request) {
	step, _ := strconv.Atoi(r.FormValue("step"))
	action := r.FormValue("action")

	d, err := s.currentDraft(w, r, false)
	if errors.Is(err, booking.ErrDraftNotFound) {
		s.notify(r, model.NoticeError, "Your booking expired. Please start again.")
		http.Redirect(w, r, "/dashboard/book-move", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("failed to load booking draft", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "We could not load your booking. Please try again.")
		return
	}
	if step != d.Step {
		s.renderBooking(w, r, d, booking.Message(booking.ErrStepMismatch))
		return
	}

	ctx := r.Context()
	switch d.Step {
	case booking.StepRoute:
		err = s.Wizard.UpdateRoute(ctx, d, r.FormValue("from_address"), r.FormValue("to_address"))
	case booking.StepSchedule:
		err = s.Wizard.UpdateSchedule(ctx, d, r.FormValue("move_at"), r.FormValue("house_type"), r.FormValue("notes"))
	}

	if err == nil {
		switch action {
		case actionCalculate:
			_, err = s.Wizard.CalculateRoute(ctx, d)
		case actionBack:
			err = s.Wizard.Back(ctx, d, step)
		case actionContinue:
			err = s.Wizard.Continue(ctx, d, step)
		case actionSubmit:
			var next string
			next, err = s.Wizard.Submit(ctx, s.api(r), d, step)
			if err == nil {
				auth.ClearDraftCookie(w, s.SecureCookies)
				http.Redirect(w, r, next, http.StatusSeeOther)
				return
			}
			if s.sessionExpired(w, r, err) {
				return
			}
		}
	}

	if err != nil {
		if errors.Is(err, booking.ErrStaleDraft) {
			if fresh, lerr := s.Wizard.Load(ctx, d.ID, d.SessionKey); lerr == nil {
				d = fresh
			}
		}
		if msg := booking.Message(err); msg != booking.GenericMessage {
			s.renderBooking(w, r, d, msg)
			return
		}
		slog.Error("booking step failed", "draft", d.ID, "action", action, "error", err)
		msg, ok := retryMessages[action]
		if !ok {
			msg = booking.GenericMessage
		}
		if action == actionSubmit && backend.StatusOf(err) >= 400 && backend.StatusOf(err) < 500 {
			msg = backend.MessageOf(err, msg)
		}
		s.renderBooking(w, r, d, msg)
		return
	}

	http.Redirect(w, r, "/dashboard/book-move", http.StatusSeeOther)
}

// BookMoveReset handles POST /dashboard/book-move/reset.
func (s *Server) BookMoveReset(w http.ResponseWriter, r *http.Request) {
	d, err := s.currentDraft(w, r, false)
	if err == nil {
		if err := s.Wizard.Discard(r.Context(), d.ID); err != nil {
			slog.Error("failed to discard booking draft", "draft", d.ID, "error", err)
		}
	}
	auth.ClearDraftCookie(w, s.SecureCookies)
	http.Redirect(w, r, "/dashboard/book-move", http.StatusSeeOther)
}

type confirmation struct {
	PageData
	From      string
	To        string
	MoveDate  string
	HouseType string
	Price     string
	Distance  string
}

// confirmationFrom reads the query parameters a success redirect carries.
func (s *Server) confirmationFrom(r *http.Request, title string) *confirmation {
	q := r.URL.Query()
	c := &confirmation{
		PageData:  s.page(r, title),
		From:      q.Get("fromLocation"),
		To:        q.Get("toLocation"),
		MoveDate:  q.Get("moveDate"),
		HouseType: q.Get("houseType"),
	}
	if price, err := strconv.ParseFloat(q.Get("price"), 64); err == nil {
		c.Price = pricing.FormatKESFloat(price)
	}
	if km, err := strconv.ParseFloat(q.Get("distance"), 64); err == nil {
		c.Distance = strconv.FormatFloat(km, 'f', 1, 64) + " km"
	}
	return c
}

// BookMoveSuccessPage handles GET /dashboard/book-move/success.
func (s *Server) BookMoveSuccessPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "book_move_success.html", s.confirmationFrom(r, "Move booked"))
}
