package mockapi

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// Server routes the auth, REST and realtime endpoints to a State.
type Server struct {
	State   *State
	AnonKey string
	// Logf receives one line per request when set.
	Logf func(format string, args ...interface{})

	router *mux.Router
}

// NewServer returns a server over state that accepts anonKey.
func NewServer(state *State, anonKey string) *Server {
	s := &Server{State: state, AnonKey: anonKey}

	r := mux.NewRouter()
	r.Use(s.logRequests, s.requireAnonKey)

	r.HandleFunc("/auth/v1/token", HandleToken(state)).Methods(http.MethodPost)
	r.HandleFunc("/realtime/v1/websocket", HandleRealtime(state)).Methods(http.MethodGet)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireSession)
	authed.HandleFunc("/auth/v1/user", HandleUser()).Methods(http.MethodGet)
	authed.HandleFunc("/auth/v1/logout", HandleLogout(state)).Methods(http.MethodPost)

	rest := authed.PathPrefix("/rest/v1").Subrouter()
	rest.HandleFunc("/{table}", HandleSelect(state)).Methods(http.MethodGet)
	rest.HandleFunc("/{table}", HandleInsert(state)).Methods(http.MethodPost)
	rest.HandleFunc("/{table}", HandleUpdate(state)).Methods(http.MethodPatch)
	rest.HandleFunc("/{table}", HandleDelete(state)).Methods(http.MethodDelete)

	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Logf != nil {
			s.Logf("%s %s", r.Method, r.URL.RequestURI())
		}
		next.ServeHTTP(w, r)
	})
}

// requireAnonKey accepts the key as a header or, for websockets, a query parameter.
func (s *Server) requireAnonKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("apikey")
		if key == "" {
			key = r.URL.Query().Get("apikey")
		}

		if key != s.AnonKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, err := s.State.Authenticate(bearer(r))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": err.Error()})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, acc)))
	})
}

func accountFrom(r *http.Request) *Account {
	acc, _ := r.Context().Value(ctxKey{}).(*Account)
	if acc == nil {
		log.Printf("mock-api: %s reached without a session", r.URL.Path)
		return &Account{}
	}

	return acc
}
