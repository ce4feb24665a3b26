package models

import (
	"time"
)

// User is the authenticated GitHub account behind the active credential
type User struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName returns the user's name, falling back to the login
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Issue is an immutable snapshot of a GitHub issue returned by search
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	State     string    `json:"state,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Label is a repository label, fetched in bulk and never mutated locally
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// RepositoryRef identifies the single repository all operations target
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the owner/name form used in search qualifiers
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// IsValid reports whether both parts are non-empty
func (r RepositoryRef) IsValid() bool {
	return r.Owner != "" && r.Name != ""
}

// IssueResult is the minimal DTO returned after creating an issue
type IssueResult struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// CommentResult is the minimal DTO returned after adding a comment
type CommentResult struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
