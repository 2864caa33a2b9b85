// Package apitest runs an in-process fake of the Shalo resource API for tests.
//
// The fake keeps accounts and resources in memory, issues HS256 bearer tokens
// on sign-in/sign-up, counts hits per route and can be told to fail or delay
// a route. It mirrors the endpoint layout of the real API under /api/v1.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Route names accepted by Hits, Fail and Delay.
const (
	RouteAccount       = "account"
	RouteListAll       = "resources"
	RouteTrending      = "trending"
	RouteBookmarks     = "bookmarks"
	RouteSearch        = "search"
	RouteGetResource   = "resource"
	RouteUpdate        = "update"
	RouteDelete        = "delete"
	RouteBookmark      = "bookmark"
	RouteCreate        = "create"
	RouteSignIn        = "sign-in"
	RouteSignUp        = "sign-up"
	RouteDeleteAccount = "delete-account"
)

type accountRecord struct {
	account  models.Account
	password string
}

type Server struct {
	srv    *httptest.Server
	secret []byte

	mu        sync.Mutex
	accounts  map[string]*accountRecord // by email
	resources []models.Resource
	bookmarks map[string]map[string]bool // user id -> resource id
	hits      map[string]int
	failures  map[string]int
	delays    map[string]time.Duration
	headers   map[string]http.Header
}

// New starts a fake API and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:    []byte("apitest-secret"),
		accounts:  make(map[string]*accountRecord),
		bookmarks: make(map[string]map[string]bool),
		hits:      make(map[string]int),
		failures:  make(map[string]int),
		delays:    make(map[string]time.Duration),
		headers:   make(map[string]http.Header),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL, version prefix included.
func (s *Server) URL() string { return s.srv.URL + "/api/v1" }

// AddAccount registers an account and returns a valid token for it.
func (s *Server) AddAccount(email, password string, a models.Account) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Email = email
	s.accounts[email] = &accountRecord{account: a, password: password}
	return s.token(a.ID)
}

// AddResources appends resources in order.
func (s *Server) AddResources(rs ...models.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, rs...)
}

// Resources returns a copy of the stored resources.
func (s *Server) Resources() []models.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Resource(nil), s.resources...)
}

// Hits reports how many requests reached the route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits reports the number of requests across all routes.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Fail makes every subsequent request to route answer with status.
// A zero status clears the failure.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// Delay holds every request to route for d before answering.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

// LastHeader returns the headers of the last request to route.
func (s *Server) LastHeader(route string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[route]
}

// Bookmarked reports whether the account has bookmarked the resource.
func (s *Server) Bookmarked(userID, resourceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks[userID][resourceID]
}

func (s *Server) token(userID string) string {
	tok, err := generateToken(userID, s.secret, time.Hour)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.Handle("/account/", s.route(RouteAccount, s.authed(s.getAccount))).Methods(http.MethodGet)
	v1.Handle("/resources/", s.route(RouteListAll, s.listAll)).Methods(http.MethodGet)
	v1.Handle("/trending/", s.route(RouteTrending, s.trending)).Methods(http.MethodGet)
	v1.Handle("/bookmarks/", s.route(RouteBookmarks, s.authed(s.listBookmarks))).Methods(http.MethodGet)
	v1.Handle("/search/", s.route(RouteSearch, s.search)).Methods(http.MethodGet)
	v1.Handle("/resources/{id}/", s.route(RouteGetResource, s.authed(s.getResource))).Methods(http.MethodGet)
	v1.Handle("/resources/{id}/update", s.route(RouteUpdate, s.authed(s.updateResource))).Methods(http.MethodPut)
	v1.Handle("/resources/{id}/delete", s.route(RouteDelete, s.authed(s.deleteResource))).Methods(http.MethodDelete)
	v1.Handle("/resources/{id}/bookmark", s.route(RouteBookmark, s.authed(s.bookmark))).Methods(http.MethodPost)
	v1.Handle("/create-resource/", s.route(RouteCreate, s.authed(s.createResource))).Methods(http.MethodPost)
	v1.Handle("/sign-in/", s.route(RouteSignIn, s.signIn)).Methods(http.MethodPost)
	v1.Handle("/sign-up/", s.route(RouteSignUp, s.signUp)).Methods(http.MethodPost)
	v1.Handle("/delete-account/{id}/", s.route(RouteDeleteAccount, s.deleteAccount)).Methods(http.MethodDelete)

	return r
}

type authedHandler func(w http.ResponseWriter, r *http.Request, account *models.Account)

// route counts the hit, records headers and applies configured delay/failure.
func (s *Server) route(name string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[name]++
		s.headers[name] = r.Header.Clone()
		delay := s.delays[name]
		status := s.failures[name]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeError(w, status, "forced failure")
			return
		}
		next(w, r)
	})
}

func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		userID, err := userIDFromToken(raw, s.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		s.mu.Lock()
		var account *models.Account
		for _, rec := range s.accounts {
			if rec.account.ID == userID {
				a := rec.account
				account = &a
				break
			}
		}
		s.mu.Unlock()

		if account == nil {
			writeError(w, http.StatusUnauthorized, "unknown account")
			return
		}
		next(w, r, account)
	}
}

func (s *Server) getAccount(w http.ResponseWriter, _ *http.Request, account *models.Account) {
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) listAll(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Resources())
}

func (s *Server) trending(w http.ResponseWriter, _ *http.Request) {
	items := s.Resources()
	sort.SliceStable(items, func(i, j int) bool { return views(items[i]) > views(items[j]) })
	for i := range items {
		rank := i + 1
		items[i].Rank = &rank
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) listBookmarks(w http.ResponseWriter, _ *http.Request, account *models.Account) {
	s.mu.Lock()
	marks := s.bookmarks[account.ID]
	out := make([]models.Resource, 0, len(marks))
	for _, res := range s.resources {
		if marks[res.ID] {
			res.IsBookmarked = true
			out = append(out, res)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	out := make([]models.Resource, 0)
	for _, res := range s.Resources() {
		if matches(res, q) {
			out = append(out, res)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getResource(w http.ResponseWriter, r *http.Request, account *models.Account) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, res := range s.resources {
		if res.ID == id {
			res.IsBookmarked = s.bookmarks[account.ID][id]
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	writeError(w, http.StatusNotFound, "resource not found")
}

func (s *Server) createResource(w http.ResponseWriter, r *http.Request, account *models.Account) {
	var draft models.ResourceDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || strings.TrimSpace(draft.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	res := models.Resource{
		ID:          uuid.NewString(),
		DateCreated: time.Now().UTC().Format("2006-01-02"),
		Title:       draft.Title,
		Author:      account.DisplayName(),
		Tags:        draft.Tags,
		Description: draft.Description,
		URL:         draft.URL,
	}
	s.AddResources(res)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) updateResource(w http.ResponseWriter, r *http.Request, _ *models.Account) {
	id := mux.Vars(r)["id"]
	var patch models.ResourcePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.resources {
		if s.resources[i].ID != id {
			continue
		}
		res := &s.resources[i]
		if patch.Title != nil {
			res.Title = *patch.Title
		}
		if patch.Description != nil {
			res.Description = *patch.Description
		}
		if patch.URL != nil {
			res.URL = *patch.URL
		}
		if patch.Tags != nil {
			res.Tags = *patch.Tags
		}
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeError(w, http.StatusNotFound, "resource not found")
}

func (s *Server) deleteResource(w http.ResponseWriter, r *http.Request, _ *models.Account) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.resources {
		if s.resources[i].ID == id {
			s.resources = append(s.resources[:i], s.resources[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "resource not found")
}

func (s *Server) bookmark(w http.ResponseWriter, r *http.Request, account *models.Account) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bookmarks[account.ID] == nil {
		s.bookmarks[account.ID] = make(map[string]bool)
	}
	s.bookmarks[account.ID][id] = true
	w.WriteHeader(http.StatusOK)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	rec, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || rec.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, models.Credentials{Account: rec.account, Token: s.token(rec.account.ID)})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "account already exists")
		return
	}
	a := models.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     strings.Split(req.Email, "@")[0],
		JoinDate:     time.Now().UTC().Format("2006-01-02"),
		MemberNumber: uuid.NewString()[:8],
	}
	s.accounts[req.Email] = &accountRecord{account: a, password: req.Password}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.Credentials{Account: a, Token: s.token(a.ID)})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, rec := range s.accounts {
		if rec.account.ID == id {
			delete(s.accounts, email)
			delete(s.bookmarks, id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "account not found")
}

func matches(r models.Resource, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Description), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func views(r models.Resource) int {
	if r.Views == nil {
		return 0
	}
	return *r.Views
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
