// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"

	"github.com/ManuGH/deploycfg/internal/config"
	"github.com/go-chi/chi/v5"
)

// networkView is the masked, API-facing form of a network.
type networkView struct {
	Name     string   `json:"name"`
	URL      string   `json:"url,omitempty"`
	Accounts []string `json:"accounts,omitempty"`
	ChainID  uint64   `json:"chainId,omitempty"`
	Local    bool     `json:"local"`
	Default  bool     `json:"default"`
}

func newNetworkView(cfg config.ProjectConfig, name string, n config.NetworkProfile) networkView {
	return networkView{
		Name:     name,
		URL:      n.URL,
		Accounts: n.Accounts,
		ChainID:  n.ChainID,
		Local:    config.IsLocal(name),
		Default:  name == cfg.DefaultNetwork,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := s.src.Current()
	w.Header().Set("ETag", `"`+config.Digest(cfg)+`"`)
	writeJSON(w, http.StatusOK, config.MaskConfig(cfg))
}

func (s *Server) handleNetworks(w http.ResponseWriter, _ *http.Request) {
	cfg := config.MaskConfig(s.src.Current())
	out := make([]networkView, 0, len(cfg.Networks))
	for _, name := range cfg.NetworkNames() {
		out = append(out, newNetworkView(cfg, name, cfg.Networks[name]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cfg := config.MaskConfig(s.src.Current())
	n, ok := cfg.Networks[name]
	if !ok {
		writeNotFound(w, "network "+name+" is not declared")
		return
	}
	writeJSON(w, http.StatusOK, newNetworkView(cfg, name, n))
}

func (s *Server) handleNamedAccounts(w http.ResponseWriter, _ *http.Request) {
	named := s.src.Current().NamedAccounts
	if named == nil {
		named = map[string]int{}
	}
	writeJSON(w, http.StatusOK, named)
}
