package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for user-submitted fields.
const (
	maxTitleLen    = 256
	maxPostTextLen = 50_000
	maxCommentLen  = 3_000
	maxUsernameLen = 150
	maxEmailLen    = 254
	maxNameLen     = 150
	minPasswordLen = 8
)

// validatePost checks post form inputs and returns the first error found.
func validatePost(title, text, pubDate, categoryID string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 256 characters)."
	}
	if strings.TrimSpace(text) == "" {
		return "Text is required."
	}
	if utf8.RuneCountInString(text) > maxPostTextLen {
		return "Text is too long (max 50,000 characters)."
	}
	if strings.TrimSpace(pubDate) == "" {
		return "Publication date is required."
	}
	if strings.TrimSpace(categoryID) == "" {
		return "Category is required."
	}
	return ""
}

// validateComment checks a comment body.
func validateComment(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Comment text is required."
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return "Comment is too long (max 3,000 characters)."
	}
	return ""
}

// validateUsername checks a username: letters, digits, and @/./+/-/_ only.
func validateUsername(username string) string {
	if username == "" {
		return "Username is required."
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "Username is too long (max 150 characters)."
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '@' || r == '.' || r == '+' || r == '-' || r == '_':
		default:
			return "Username may contain only letters, digits, and @/./+/-/_ characters."
		}
	}
	return ""
}

// validateEmail does a minimal sanity check; real verification would need
// a confirmation mail anyway.
func validateEmail(email string) string {
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "Enter a valid email address."
	}
	return ""
}

// validateRegistration checks the sign-up form.
func validateRegistration(username, email, password, password2 string) string {
	if msg := validateUsername(username); msg != "" {
		return msg
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if password != password2 {
		return "Passwords do not match."
	}
	return ""
}

// validateProfile checks the profile edit form.
func validateProfile(username, email, firstName, lastName string) string {
	if msg := validateUsername(username); msg != "" {
		return msg
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(firstName) > maxNameLen {
		return "First name is too long (max 150 characters)."
	}
	if utf8.RuneCountInString(lastName) > maxNameLen {
		return "Last name is too long (max 150 characters)."
	}
	return ""
}
