// Package apitest provides an in-memory stand-in for the recipe REST
// service, for tests of the client, the CLI and the views.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/recipes/internal/model"
)

// Request records one call the fake received.
type Request struct {
	Method    string
	Path      string
	RequestID string
	Body      []byte
}

// Server is a fake of the recipe API backed by a map.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	recipes  map[int]model.Recipe
	requests []Request
	failures map[string]int // method -> status to answer once
	now      func() time.Time
}

// NewServer starts a fake seeded with recipes (ids are kept when set) and
// registers its shutdown with t.Cleanup.
func NewServer(t testing.TB, seed ...model.Recipe) *Server {
	t.Helper()
	s := &Server{
		nextID:   1,
		recipes:  map[int]model.Recipe{},
		failures: map[string]int{},
		now:      func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) },
	}
	for _, r := range seed {
		if r.ID == 0 {
			r.ID = s.nextID
		}
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
		s.recipes[r.ID] = r
	}

	r := mux.NewRouter()
	r.Use(s.record)
	r.HandleFunc("/", s.list).Methods(http.MethodGet)
	r.HandleFunc("/", s.create).Methods(http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", s.update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", s.remove).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// FailNext makes the next request with method answer status.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Recipe returns the stored record for id.
func (s *Server) Recipe(id int) (model.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	return r, ok
}

// Len reports how many recipes are stored.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-Id"),
			Body:      body,
		})
		status, fail := s.failures[r.Method]
		delete(s.failures, r.Method)
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"description": http.StatusText(status)})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := make([]model.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	writeJSON(w, http.StatusOK, model.Collection{Recipes: out})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	rec := model.Recipe{
		ID:           s.nextID,
		Name:         in.Name,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		CreatedAt:    model.Timestamp{Time: s.now()},
	}
	s.nextID++
	s.recipes[rec.ID] = rec
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	rec, ok := s.Recipe(id)
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	rec, found := s.recipes[id]
	if found {
		rec.Name, rec.Ingredients, rec.Instructions = in.Name, in.Ingredients, in.Instructions
		rec.CreatedAt = model.Timestamp{Time: s.now()}
		s.recipes[id] = rec
	}
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe updated"})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	_, found := s.recipes[id]
	delete(s.recipes, id)
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted"})
}

func decodeInput(w http.ResponseWriter, r *http.Request) (model.RecipeInput, bool) {
	var in model.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"description": err.Error()})
		return in, false
	}
	return in, true
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"description": "Recipe not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
