package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/hamanasi/internal/bids"
	"github.com/erazemk/hamanasi/internal/model"
)

// FindMovePage handles GET /dashboard/find-move.
func (s *Server) FindMovePage(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")
	if status == "" {
		status = bids.StatusAll
	}

	pd := s.page(r, "Find a move")
	moves, err := s.api(r).ListMoves(r.Context())
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Error("failed to list moves", "error", err)
		pd.Error = "We could not load moves. Please try again."
	}

	s.Templates.Render(w, "find_move.html", &struct {
		PageData
		Moves    []model.Move
		Search   string
		Status   string
		Statuses []string
	}{
		PageData: pd,
		Moves:    bids.NewestFirst(bids.FilterMoves(moves, search, status)),
		Search:   search,
		Status:   status,
		Statuses: bids.Statuses,
	})
}

type quoteForm struct {
	PageData
	Move    *model.Move
	Amount  string
	Details string
}

// FindMoveDetailPage handles GET /dashboard/find-move/{id}.
func (s *Server) FindMoveDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "That move does not exist.")
		return
	}

	move, err := s.api(r).GetMove(r.Context(), id)
	if err != nil {
		slog.Error("failed to get move", "move", id, "error", err)
		s.backendError(w, r, err)
		return
	}

	s.Templates.Render(w, "find_move_detail.html", &quoteForm{
		PageData: s.page(r, "Move details"),
		Move:     move,
	})
}

// QuoteSubmit handles POST /dashboard/find-move/{id}.
func (s *Server) QuoteSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "That move does not exist.")
		return
	}
	amount := r.FormValue("quote_amount")
	details := r.FormValue("details")

	move, quote, err := s.Bids.SubmitQuote(r.Context(), s.api(r), id, amount, details)
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		if move == nil {
			slog.Error("failed to get move", "move", id, "error", err)
			s.backendError(w, r, err)
			return
		}
		slog.Warn("quote rejected", "move", id, "error", err)
		form := &quoteForm{
			PageData: s.page(r, "Move details"),
			Move:     move,
			Amount:   amount,
			Details:  details,
		}
		form.Error = bids.Message(err)
		s.Templates.Render(w, "find_move_detail.html", form)
		return
	}

	slog.Info("bid placed", "move", move.ID, "quote", quote.ID)
	s.notify(r, model.NoticeSuccess, "Bid submitted successfully!")
	http.Redirect(w, r, "/dashboard/find-move", http.StatusSeeOther)
}

// BidsPage handles GET /dashboard/bids.
func (s *Server) BidsPage(w http.ResponseWriter, r *http.Request) {
	pd := s.page(r, "Bids")

	review, err := s.Bids.Review(r.Context(), s.api(r))
	switch {
	case errors.Is(err, bids.ErrNoMoves):
		review = &bids.Review{}
	case err != nil:
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Error("failed to load bids", "error", err)
		pd.Error = "We could not load your bids. Please try again."
		review = &bids.Review{}
	case review.NamesErr != nil:
		if s.sessionExpired(w, r, review.NamesErr) {
			return
		}
		pd.Notices = append(pd.Notices, model.Notice{
			Kind:    model.NoticeError,
			Message: "Some company names could not be loaded.",
		})
	}

	s.Templates.Render(w, "bids.html", &struct {
		PageData
		Review *bids.Review
	}{
		PageData: pd,
		Review:   review,
	})
}

// AcceptSubmit handles POST /dashboard/bids/accept.
func (s *Server) AcceptSubmit(w http.ResponseWriter, r *http.Request) {
	moveID, err1 := strconv.ParseInt(r.FormValue("move_id"), 10, 64)
	quoteID, err2 := strconv.ParseInt(r.FormValue("quote_id"), 10, 64)
	if err1 != nil || err2 != nil {
		s.notify(r, model.NoticeError, "That quote could not be found.")
		http.Redirect(w, r, "/dashboard/bids", http.StatusSeeOther)
		return
	}

	next, err := s.Bids.Accept(r.Context(), s.api(r), moveID, quoteID)
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Warn("quote not accepted", "move", moveID, "quote", quoteID, "error", err)
		s.notify(r, model.NoticeError, bids.Message(err))
		http.Redirect(w, r, "/dashboard/bids", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// BidsSuccessPage handles GET /dashboard/bids/booking-success.
func (s *Server) BidsSuccessPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "bids_success.html", s.confirmationFrom(r, "Mover booked"))
}
