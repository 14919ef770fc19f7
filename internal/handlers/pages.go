// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"blogicum/internal/render"
)

// Pages groups handlers for static pages and error views.
type Pages struct {
	renderer *render.Renderer
}

// NewPages creates a new Pages handler group.
func NewPages(renderer *render.Renderer) *Pages {
	return &Pages{renderer: renderer}
}

// About renders the about page.
func (p *Pages) About(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "about", &render.PageData{
		Title: "About",
		Data:  map[string]any{},
	})
}

// Rules renders the community rules page.
func (p *Pages) Rules(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, "rules", &render.PageData{
		Title: "Our rules",
		Data:  map[string]any{},
	})
}

// Health responds with a liveness JSON payload for load balancers.
func (p *Pages) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// NotFound renders the styled 404 page; wired as the router's fallback.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(p.renderer, w, r)
}

// renderNotFound renders the 404 error page.
func renderNotFound(rn *render.Renderer, w http.ResponseWriter, r *http.Request) {
	rn.Page(w, r, "404", &render.PageData{
		Title:  "Page not found",
		Status: http.StatusNotFound,
		Data:   map[string]any{},
	})
}

// renderForbidden renders the 403 error page.
func renderForbidden(rn *render.Renderer, w http.ResponseWriter, r *http.Request) {
	rn.Page(w, r, "403", &render.PageData{
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Data:   map[string]any{},
	})
}

// renderServerError renders the 500 error page.
func renderServerError(rn *render.Renderer, w http.ResponseWriter, r *http.Request) {
	rn.Page(w, r, "500", &render.PageData{
		Title:  "Server error",
		Status: http.StatusInternalServerError,
		Data:   map[string]any{},
	})
}
