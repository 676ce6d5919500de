// Package petstore is an in-memory stand-in for the public Swagger Petstore
// demo service, covering the endpoints the suite exercises. It lets the
// scenarios run hermetically when no live base URL is configured.
package petstore

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Server serves a minimal petstore API over an httptest listener. Pets are
// stored as the raw JSON documents the client sent, so responses round-trip
// byte-for-byte.
type Server struct {
	mu   sync.Mutex
	pets map[int64][]byte

	srv *httptest.Server
	log *logrus.Entry
}

// NewServer starts the server on an ephemeral port. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		pets: make(map[int64][]byte),
		log:  logrus.WithField("component", "petstore"),
	}
	r := mux.NewRouter()
	r.HandleFunc("/v2/pet", s.addPet).Methods("POST")
	r.HandleFunc("/v2/pet/{petId}", s.getPet).Methods("GET")
	r.HandleFunc("/v2/pet/{petId}", s.deletePet).Methods("DELETE")
	s.srv = httptest.NewServer(r)
	s.log.Debugf("listening on %s", s.srv.URL)
	return s
}

// URL returns the base URL of the API, including the /v2 prefix, suitable
// for PETSTORE_BASE_URL-style configuration.
func (s *Server) URL() string {
	return s.srv.URL + "/v2"
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) addPet(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil || !gjson.ValidBytes(body) {
		s.writeError(w, http.StatusBadRequest, "bad input")
		return
	}
	id := gjson.GetBytes(body, "id")
	if !id.Exists() || id.Type != gjson.Number {
		s.writeError(w, http.StatusBadRequest, "bad input")
		return
	}
	s.mu.Lock()
	s.pets[id.Int()] = body
	s.mu.Unlock()
	s.log.Debugf("added pet %d", id.Int())
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) getPet(w http.ResponseWriter, req *http.Request) {
	id, ok := petID(req)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}
	s.mu.Lock()
	body, found := s.pets[id]
	s.mu.Unlock()
	if !found {
		s.writeError(w, http.StatusNotFound, "Pet not found")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) deletePet(w http.ResponseWriter, req *http.Request) {
	id, ok := petID(req)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return
	}
	s.mu.Lock()
	_, found := s.pets[id]
	delete(s.pets, id)
	s.mu.Unlock()
	if !found {
		s.writeError(w, http.StatusNotFound, "Pet not found")
		return
	}
	// the demo service echoes the deleted ID in its status message
	writeJSON(w, http.StatusOK, []byte(`{"code":200,"type":"unknown","message":"`+strconv.FormatInt(id, 10)+`"}`))
}

func petID(req *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(req)["petId"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// writeError mirrors the petstore error body shape.
func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	s.log.Debugf("error response %d: %s", code, message)
	writeJSON(w, code, []byte(`{"code":1,"type":"error","message":"`+message+`"}`))
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body) // nolint:errcheck
}
