// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry written by a user under a category, optionally
// tagged with a location. CommentCount is denormalized: it is recomputed
// from the comments table after every comment create/delete rather than
// incremented, so it cannot drift from missed events.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Text         string     `json:"text"`
	PubDate      time.Time  `json:"pub_date"`
	IsPublished  bool       `json:"is_published"`
	AuthorID     uuid.UUID  `json:"author_id"`
	CategoryID   uuid.UUID  `json:"category_id"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods (joined rows).
	Author   *User     `json:"author,omitempty"`
	Category *Category `json:"category,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// VisibleAt reports whether the post passes the public visibility check
// at the given instant: published, publication date reached, and the
// category itself published. The author always sees their own posts;
// callers apply that bypass, not this predicate.
func (p *Post) VisibleAt(now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return p.Category != nil && p.Category.IsPublished
}

// HasVisibleLocation reports whether the post has a location that may be
// shown to readers.
func (p *Post) HasVisibleLocation() bool {
	return p.Location != nil && p.Location.IsPublished
}
