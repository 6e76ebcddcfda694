// Copyright 2026 The mplsliveness Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mgmtapi implements the management API of the agent.
//
// All routes are served below /api/v1:
//
//	GET /status     protocol state as JSON
//	GET /config     running configuration as TOML
//	GET /info       build information
//	GET /log/level  console log level, PUT changes it
package mgmtapi

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/pelletier/go-toml/v2"

	"github.com/tunnelwatch/mplsliveness/agent/registry"
	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/private/env"
)

// BaseURL is the prefix of all routes.
const BaseURL = "/api/v1"

// StatusFunc returns a snapshot of the protocol state.
type StatusFunc func(ctx context.Context) (registry.Status, error)

// Server serves the management API.
type Server struct {
	// Status provides the protocol state.
	Status StatusFunc
	// Config is the running configuration. It is rendered as TOML.
	Config any
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
	}))
	r.Route(BaseURL, func(r chi.Router) {
		r.Get("/status", s.GetStatus)
		r.Get("/config", s.GetConfig)
		r.Get("/info", s.GetInfo)
		r.Method(http.MethodGet, "/log/level", log.ConsoleLevel)
		r.Method(http.MethodPut, "/log/level", log.ConsoleLevel)
	})
	return r
}

// GetStatus writes the protocol state as JSON.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), env.HandlerTimeout)
	defer cancel()
	status, err := s.Status(ctx)
	if err != nil {
		log.FromCtx(r.Context()).Error("Retrieving status failed", "err", err)
		writeProblem(w, r, http.StatusServiceUnavailable, "unable to retrieve status", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(status); err != nil {
		log.FromCtx(r.Context()).Error("Writing status response", "err", err)
	}
}

// GetConfig writes the running configuration as TOML.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	raw, err := toml.Marshal(s.Config)
	if err != nil {
		writeProblem(w, r, http.StatusInternalServerError, "unable to encode config", err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	if _, err := w.Write(raw); err != nil {
		log.FromCtx(r.Context()).Error("Writing config response", "err", err)
	}
}

// Info describes the running binary.
type Info struct {
	GoVersion string `json:"go_version"`
	Path      string `json:"path"`
	Version   string `json:"version"`
}

// GetInfo writes the build information as JSON.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	var info Info
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = Info{GoVersion: bi.GoVersion, Path: bi.Main.Path, Version: bi.Main.Version}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		log.FromCtx(r.Context()).Error("Writing info response", "err", err)
	}
}

// Problem is an error response as described in RFC 7807.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, title string,
	err error) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := Problem{Title: title, Status: status}
	if err != nil {
		p.Detail = err.Error()
	}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.FromCtx(r.Context()).Error("Writing problem response", "err", err)
	}
}

// withRequestLogger labels the logger carried by the request context with the
// request method and path. Handlers retrieve it with log.FromCtx.
func withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := log.WithLabels(r.Context(), "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
