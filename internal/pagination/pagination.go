// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination implements page-number pagination for post listings.
// Out-of-range or malformed ?page= values never error: a bad value falls
// back to the first page and a too-large one clamps to the last page.
package pagination

import (
	"net/http"
	"strconv"
)

// PageSize is the number of posts shown per listing page.
const PageSize = 10

// Page describes one page of a listing.
type Page struct {
	Number     int // current page, 1-based
	TotalPages int // at least 1, even for an empty listing
	TotalItems int
	Offset     int // SQL OFFSET for this page
	Limit      int // SQL LIMIT for this page
}

// New builds a Page for the requested page number over totalItems items.
// Requests below 1 resolve to the first page; requests beyond the end
// resolve to the last page. An empty listing still has one (empty) page.
func New(requested, totalItems int) Page {
	totalPages := (totalItems + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		TotalPages: totalPages,
		TotalItems: totalItems,
		Offset:     (number - 1) * PageSize,
		Limit:      PageSize,
	}
}

// FromRequest reads the ?page= query parameter and builds a Page.
// Missing or non-numeric values resolve to page 1.
func FromRequest(r *http.Request, totalItems int) Page {
	requested := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			requested = n
		}
	}
	return New(requested, totalItems)
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Prev returns the previous page number (valid only when HasPrev).
func (p Page) Prev() int { return p.Number - 1 }

// Next returns the next page number (valid only when HasNext).
func (p Page) Next() int { return p.Number + 1 }
