// Package backendtest provides an in-memory fake of the marketplace API for
// tests.
package backendtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
)

// Token is the access token the fake issues and accepts.
const Token = "test-access-token"

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server is a fake backend. Exported fields may be set before the first
// request; afterwards use the accessor methods.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	User      model.User
	Moves     []model.Move
	Quotes    []model.Quote
	Movers    []model.Mover
	Inventory []model.InventoryItem
	calls     []Call
	failures  map[string]int
	nextID    int64
}

// New starts a fake backend that is closed when the test ends.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		User:     model.User{ID: 1, Name: "Amina", Email: "amina@example.com", Role: "User"},
		failures: make(map[string]int),
		nextID:   100,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/verify-otp", s.login)
	mux.HandleFunc("POST /auth/signup", s.message("Signup successful. Check your email for the code."))
	mux.HandleFunc("POST /auth/resend-otp", s.message("A new code has been sent."))
	mux.HandleFunc("POST /auth/forgot-password", s.message("Reset link sent."))
	mux.HandleFunc("POST /auth/reset-password", s.message("Password updated."))
	mux.HandleFunc("POST /auth/logout", s.message("Logged out."))

	mux.HandleFunc("GET /user", s.authed(s.getUser))
	mux.HandleFunc("PATCH /user", s.authed(s.patchUser))
	mux.HandleFunc("GET /moves", s.authed(s.listMoves))
	mux.HandleFunc("GET /move", s.authed(s.listMyMoves))
	mux.HandleFunc("GET /moves/{id}", s.authed(s.getMove))
	mux.HandleFunc("POST /moves", s.authed(s.createMove))
	mux.HandleFunc("PATCH /moves/{id}", s.authed(s.patchMove))
	mux.HandleFunc("GET /moves/{id}/quotes", s.authed(s.listMoveQuotes))
	mux.HandleFunc("POST /quote", s.authed(s.createQuote))
	mux.HandleFunc("GET /quote", s.authed(s.listMyQuotes))
	mux.HandleFunc("GET /movers", s.authed(s.listMovers))
	mux.HandleFunc("GET /movers/{id}", s.authed(s.getMover))
	mux.HandleFunc("GET /mover", s.authed(s.getMyMover))
	mux.HandleFunc("POST /movers", s.authed(s.createMover))
	mux.HandleFunc("DELETE /movers/{id}", s.authed(s.deleteMover))
	mux.HandleFunc("GET /inventory", s.authed(s.listInventory))
	mux.HandleFunc("POST /inventory", s.authed(s.createInventory))
	mux.HandleFunc("PUT /inventory/{id}", s.authed(s.updateInventory))
	mux.HandleFunc("DELETE /inventory/{id}", s.authed(s.deleteInventory))
	mux.HandleFunc("POST /upload", s.authed(s.upload))

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Server.Close)
	return s
}

// Client returns a backend client pointed at the fake.
func (s *Server) Client() *backend.Client {
	return backend.NewClient(s.URL, s.Server.Client())
}

// Session returns a session carrying the accepted token.
func (s *Server) Session() *backend.Session {
	return s.Client().Session(Token)
}

// FailOn makes every request matching method and path answer status.
func (s *Server) FailOn(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallsTo returns the requests received for method and path.
func (s *Server) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// CurrentUser returns a copy of the stored user.
func (s *Server) CurrentUser() model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.User
}

// MoverByID returns the stored mover with id, if any.
func (s *Server) MoverByID(id int64) (model.Mover, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.Movers, func(m model.Mover) bool { return m.ID == id })
	if i < 0 {
		return model.Mover{}, false
	}
	return s.Movers[i], true
}

// MoveByID returns the stored move with id, if any.
func (s *Server) MoveByID(id int64) (model.Move, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.Moves, func(m model.Move) bool { return m.ID == id })
	if i < 0 {
		return model.Move{}, false
	}
	return s.Moves[i], true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: r.URL.Path}
		if r.Header.Get("Content-Type") == "application/json" {
			data, _ := io.ReadAll(r.Body)
			json.Unmarshal(data, &call.Body)
			r.Body = io.NopCloser(bytes.NewReader(data))
		}

		s.mu.Lock()
		s.calls = append(s.calls, call)
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"message": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(backend.CookieName)
		if err != nil || cookie.Value != Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing or invalid token"})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		next(w, r)
	}
}

func (s *Server) message(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	if body.Password == "wrong" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: backend.CookieName, Value: Token, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful", "access_token": Token})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) patchUser(w http.ResponseWriter, r *http.Request) {
	var patch backend.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	if patch.Role != nil {
		s.User.Role = *patch.Role
	}
	if patch.Location != nil {
		s.User.Location = *patch.Location
	}
	if patch.Phone != nil {
		s.User.Phone = *patch.Phone
	}
	if patch.HouseType != nil {
		s.User.HouseType = *patch.HouseType
	}
	if patch.MoverID != nil {
		id := *patch.MoverID
		s.User.MoverID = &id
	}
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) listMoves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"moves": nonNil(s.Moves)})
}

func (s *Server) listMyMoves(w http.ResponseWriter, r *http.Request) {
	mine := []model.Move{}
	for _, m := range s.Moves {
		if m.UserID == s.User.ID {
			mine = append(mine, m)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"moves": mine})
}

func (s *Server) moveIndex(w http.ResponseWriter, r *http.Request) int {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	i := slices.IndexFunc(s.Moves, func(m model.Move) bool { return m.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Move not found"})
	}
	return i
}

func (s *Server) getMove(w http.ResponseWriter, r *http.Request) {
	if i := s.moveIndex(w, r); i >= 0 {
		writeJSON(w, http.StatusOK, map[string]any{"move": s.Moves[i]})
	}
}

func (s *Server) createMove(w http.ResponseWriter, r *http.Request) {
	var req backend.CreateMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	date, _ := model.ParseTimestamp(req.MoveDate)
	now := model.Timestamp{Time: time.Now().UTC()}
	move := model.Move{
		ID:             s.id(),
		UserID:         s.User.ID,
		FromAddress:    req.FromAddress,
		ToAddress:      req.ToAddress,
		MoveDate:       date,
		MoveTime:       req.MoveTime,
		MoveStatus:     model.MoveStatusPending,
		EstimatedPrice: &req.EstimatedPrice,
		Distance:       &req.Distance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Moves = append(s.Moves, move)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Move created", "move": move})
}

func (s *Server) patchMove(w http.ResponseWriter, r *http.Request) {
	i := s.moveIndex(w, r)
	if i < 0 {
		return
	}
	var patch backend.MovePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	if patch.ApprovedPrice != nil {
		price := *patch.ApprovedPrice
		s.Moves[i].ApprovedPrice = &price
	}
	if patch.MoveStatus != nil {
		s.Moves[i].MoveStatus = *patch.MoveStatus
	}
	writeJSON(w, http.StatusOK, map[string]any{"move": s.Moves[i]})
}

func (s *Server) listMoveQuotes(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	out := []model.Quote{}
	for _, q := range s.Quotes {
		if q.MoveID == id {
			out = append(out, q)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": out})
}

func (s *Server) createQuote(w http.ResponseWriter, r *http.Request) {
	var req backend.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	var moverID int64 = 1
	if s.User.MoverID != nil {
		moverID = *s.User.MoverID
	}
	quote := model.Quote{
		ID:          s.id(),
		MoveID:      req.MoveID,
		MoverID:     moverID,
		QuoteAmount: req.QuoteAmount,
		Details:     req.Details,
		CreatedAt:   model.Timestamp{Time: time.Now().UTC()},
	}
	s.Quotes = append(s.Quotes, quote)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Quote created", "quote": quote})
}

func (s *Server) listMyQuotes(w http.ResponseWriter, r *http.Request) {
	out := []model.Quote{}
	for _, q := range s.Quotes {
		if s.User.MoverID != nil && q.MoverID == *s.User.MoverID {
			out = append(out, q)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": out})
}

func (s *Server) listMovers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"movers": nonNil(s.Movers)})
}

func (s *Server) moverIndex(w http.ResponseWriter, id int64) int {
	i := slices.IndexFunc(s.Movers, func(m model.Mover) bool { return m.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Mover not found"})
	}
	return i
}

func (s *Server) getMover(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if i := s.moverIndex(w, id); i >= 0 {
		writeJSON(w, http.StatusOK, s.Movers[i])
	}
}

func (s *Server) getMyMover(w http.ResponseWriter, r *http.Request) {
	if s.User.MoverID == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Mover not found"})
		return
	}
	if i := s.moverIndex(w, *s.User.MoverID); i >= 0 {
		writeJSON(w, http.StatusOK, s.Movers[i])
	}
}

func (s *Server) createMover(w http.ResponseWriter, r *http.Request) {
	var req backend.CreateMoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	mover := model.Mover{
		ID:                 s.id(),
		CompanyName:        req.CompanyName,
		Email:              s.User.Email,
		Phone:              req.Phone,
		HouseType:          req.HouseType,
		AvailabilityStatus: "available",
		CreatedAt:          model.Timestamp{Time: time.Now().UTC()},
	}
	s.Movers = append(s.Movers, mover)
	writeJSON(w, http.StatusCreated, mover)
}

func (s *Server) deleteMover(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	i := s.moverIndex(w, id)
	if i < 0 {
		return
	}
	s.Movers = slices.Delete(s.Movers, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Mover deleted"})
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"inventory": nonNil(s.Inventory)})
}

func (s *Server) createInventory(w http.ResponseWriter, r *http.Request) {
	var req backend.InventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "item_name is required"})
		return
	}
	item := model.InventoryItem{
		ID:         s.id(),
		ItemName:   req.ItemName,
		Image:      req.Image,
		PropertyID: req.PropertyID,
		CreatedAt:  model.Timestamp{Time: time.Now().UTC()},
	}
	s.Inventory = append(s.Inventory, item)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Item added", "inventory": item})
}

func (s *Server) inventoryIndex(w http.ResponseWriter, r *http.Request) int {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	i := slices.IndexFunc(s.Inventory, func(it model.InventoryItem) bool { return it.ID == id })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Item not found"})
	}
	return i
}

func (s *Server) updateInventory(w http.ResponseWriter, r *http.Request) {
	i := s.inventoryIndex(w, r)
	if i < 0 {
		return
	}
	var req backend.InventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	s.Inventory[i].ItemName = req.ItemName
	if req.Image != "" {
		s.Inventory[i].Image = req.Image
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Item updated", "inventory": s.Inventory[i]})
}

func (s *Server) deleteInventory(w http.ResponseWriter, r *http.Request) {
	i := s.inventoryIndex(w, r)
	if i < 0 {
		return
	}
	s.Inventory = slices.Delete(s.Inventory, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No file part"})
		return
	}
	file.Close()
	writeJSON(w, http.StatusOK, map[string]string{"imgUrl": "https://cdn.example.com/" + header.Filename})
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
