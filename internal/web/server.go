// Package web serves the controller's status page and a live websocket
// feed of tick results, upgraded from the teacher's bare ServeMux to
// gorilla/mux routing plus a gorilla/websocket push endpoint.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sweeney/boiler-controller/internal/status"
)

// Server serves the status page and websocket feed over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	hub        *hub
}

// New creates a Server that reads state from the given tracker.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker, hub: newHub()}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex)
	r.HandleFunc("/index.html", s.handleIndex)
	r.HandleFunc("/index.json", s.handleJSON)
	r.HandleFunc("/ws", s.hub.handleWS)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Broadcast pushes a status snapshot to every connected websocket client.
// Called from the cycle driver after every tick.
func (s *Server) Broadcast(snap status.Snapshot) {
	s.hub.broadcast(status.FormatJSON(snap))
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server and closes websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
