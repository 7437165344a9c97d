//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package api exposes the validator over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/repair"
	"trpc.group/trpc-go/trpc-jsonfix-go/source"
	"trpc.group/trpc-go/trpc-jsonfix-go/validator"
)

const (
	defaultBasePath     = "/v1"
	defaultMaxBodyBytes = 10 << 20

	headerRequestID   = "X-Request-ID"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	errorTypeInvalidRequest = "invalid_request_error"
	errorTypeSyntax         = "syntax_error"
	errorTypeRepair         = "repair_error"
)

// Server serves format, repair and check requests.
type Server struct {
	basePath     string
	router       *mux.Router
	handler      http.Handler
	validator    *validator.Validator
	maxBodyBytes int64
	ownedV       bool // ownedV is set when the validator was created by this server.
	closeOnce    sync.Once
}

// textRequest is the JSON request body of the single-document routes.
type textRequest struct {
	Text string `json:"text"`
}

type batchRequest struct {
	Documents []validator.Document `json:"documents"`
}

type batchResponse struct {
	Reports []validator.Report `json:"reports"`
}

type formatResponse struct {
	Formatted string `json:"formatted"`
}

type repairResponse struct {
	Repaired string          `json:"repaired"`
	Actions  []repair.Action `json:"actions"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// New creates a new API server.
func New(opts ...Option) (*Server, error) {
	options := &options{
		basePath:       defaultBasePath,
		maxBodyBytes:   defaultMaxBodyBytes,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(options)
	}
	s := &Server{
		basePath:     options.basePath,
		router:       mux.NewRouter(),
		validator:    options.validator,
		maxBodyBytes: options.maxBodyBytes,
	}
	if s.validator == nil {
		v, err := validator.New()
		if err != nil {
			return nil, fmt.Errorf("api: create validator: %w", err)
		}
		s.validator = v
		s.ownedV = true
	}
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}

	c := cors.New(cors.Options{
		AllowedOrigins: options.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{headerRequestID, "Content-Length", headerContentType},
	})
	s.router.Use(c.Handler)
	s.router.Use(s.requestID)
	s.handler = s.router
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// BasePath returns the base path of the versioned routes.
func (s *Server) BasePath() string {
	return s.basePath
}

// Close releases the validator if the server created it. It is safe to call more than once.
func (s *Server) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		if s.ownedV {
			if err := s.validator.Close(); err != nil {
				closeErr = err
				log.Errorf("api: failed to close validator: %v", err)
			}
		}
	})
	return closeErr
}

func (s *Server) registerRoutes() error {
	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"format", s.handleFormat},
		{"repair", s.handleRepair},
		{"check", s.handleCheck},
		{"check/batch", s.handleCheckBatch},
	}
	for _, rt := range routes {
		p, err := url.JoinPath(s.basePath, rt.path)
		if err != nil {
			return fmt.Errorf("api: url join %s path: %w", rt.path, err)
		}
		// OPTIONS is accepted so that the CORS middleware sees preflight requests.
		s.router.HandleFunc(p, rt.handler).Methods(http.MethodPost, http.MethodOptions)
	}
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return nil
}

// statusRecorder captures the status code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestID echoes X-Request-ID, generating one when absent, and logs the request.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(headerRequestID, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.InfofContext(r.Context(), "api: %s %s id=%s status=%d duration=%s",
			r.Method, r.URL.Path, id, rec.status, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	formatted, err := s.validator.Format(r.Context(), text)
	if err != nil {
		s.writeSyntaxError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, formatResponse{Formatted: formatted})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	res, err := s.validator.Repair(r.Context(), text)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, errorBody{Type: errorTypeRepair, Message: err.Error()})
		return
	}
	actions := res.Actions
	if actions == nil {
		actions = []repair.Action{}
	}
	s.writeJSON(w, http.StatusOK, repairResponse{Repaired: res.Text, Actions: actions})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.validator.Check(r.Context(), text))
}

func (s *Server) handleCheckBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeRequestError(r, w, err)
		return
	}
	reports, err := s.validator.CheckBatch(r.Context(), req.Documents)
	if err != nil {
		log.WarnfContext(r.Context(), "api: check batch: %v", err)
		s.writeError(w, http.StatusServiceUnavailable, errorBody{Type: errorTypeInvalidRequest, Message: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, batchResponse{Reports: reports})
}

// readText extracts the document from a JSON {"text": ...} body or from a raw
// body of any other content type. It writes the error response itself.
func (s *Server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(headerContentType))
	if mediaType == contentTypeJSON {
		var req textRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			s.writeRequestError(r, w, err)
			return "", false
		}
		return req.Text, true
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		s.writeRequestError(r, w, err)
		return "", false
	}
	text, err := source.Decode(raw)
	if err != nil {
		s.writeRequestError(r, w, err)
		return "", false
	}
	return text, true
}

func (s *Server) writeRequestError(r *http.Request, w http.ResponseWriter, err error) {
	log.WarnfContext(r.Context(), "api: failed to read request: %v", err)
	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	s.writeError(w, status, errorBody{
		Type:    errorTypeInvalidRequest,
		Message: fmt.Sprintf("invalid request: %v", err),
	})
}

func (s *Server) writeSyntaxError(w http.ResponseWriter, err error) {
	body := errorBody{Type: errorTypeSyntax, Message: err.Error()}
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		body.Message = syntaxErr.Description()
		body.Kind = syntaxErr.Kind.String()
		body.Line = syntaxErr.Line()
		body.Column = syntaxErr.Column()
	}
	s.writeError(w, http.StatusUnprocessableEntity, body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, body errorBody) {
	s.writeJSON(w, status, errorResponse{Error: body})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Errorf("api: failed to write response: %v", err)
	}
}
