// Package site serves the portfolio's dynamic fragments over HTTP.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/scholarsite/folio/internal/contact"
	"github.com/scholarsite/folio/internal/license"
	"go.uber.org/zap"
)

// MaxFormBytes caps the size of a contact form request body.
const MaxFormBytes = 64 << 10

// Publications renders the publications carousel.
type Publications interface {
	RenderHTML(ctx context.Context) string
}

// DocumentLoader fetches a text document.
type DocumentLoader interface {
	Load(ctx context.Context, location string) (string, error)
}

// ContactSender validates and submits contact forms.
type ContactSender interface {
	Send(ctx context.Context, f contact.Form) (contact.Result, error)
}

// Server routes site requests to the publication, license and contact handlers.
type Server struct {
	publications    Publications
	loader          DocumentLoader
	licenseLocation string
	contact         ContactSender
	logger          *zap.Logger
	mux             *http.ServeMux
}

// Config holds the collaborators a Server needs.
type Config struct {
	Publications    Publications
	Loader          DocumentLoader
	LicenseLocation string
	Contact         ContactSender
	Logger          *zap.Logger
}

// NewServer creates a server and registers its routes.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		publications:    cfg.Publications,
		loader:          cfg.Loader,
		licenseLocation: cfg.LicenseLocation,
		contact:         cfg.Contact,
		logger:          logger,
		mux:             http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /publications", s.handlePublications)
	s.mux.HandleFunc("GET /license", s.handleLicense)
	s.mux.HandleFunc("POST /contact", s.handleContact)
	s.mux.HandleFunc("GET /year", s.handleYear)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(sw, r)
	s.logger.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", sw.status),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) handlePublications(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, s.publications.RenderHTML(r.Context()))
}

func (s *Server) handleLicense(w http.ResponseWriter, r *http.Request) {
	location := s.licenseLocation
	if location == "" {
		location = license.DefaultLocation
	}

	text, err := s.loader.Load(r.Context(), location)
	if err != nil {
		s.logger.Error("loading license", zap.Error(err))
		writeHTML(w, http.StatusOK, license.ErrorHTML(license.MsgLoadFailed, location))
		return
	}

	html, err := license.Render(text)
	if err != nil {
		s.logger.Error("rendering license", zap.Error(err))
		writeHTML(w, http.StatusOK, license.ErrorHTML(err.Error(), location))
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
	if err := r.ParseMultipartForm(MaxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusBadRequest, contact.Result{Message: contact.MsgFailed})
		return
	}

	form := contact.Form{
		Name:    r.FormValue(contact.FieldName),
		Email:   r.FormValue(contact.FieldEmail),
		Phone:   r.FormValue(contact.FieldPhone),
		Message: r.FormValue(contact.FieldMessage),
	}

	res, err := s.contact.Send(r.Context(), form)
	switch {
	case !res.Valid:
		writeJSON(w, http.StatusUnprocessableEntity, res)
	case err != nil:
		writeJSON(w, http.StatusBadGateway, res)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(strconv.Itoa(CurrentYear(time.Now()))))
}

// CurrentYear returns the copyright year shown in the footer.
func CurrentYear(now time.Time) int {
	return now.Year()
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
