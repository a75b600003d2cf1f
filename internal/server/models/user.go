// Package models defines server-side data models.
package models

// User is one registered account.
//
// ID is assigned by the store on insert and never changes. PasswordHash is
// the stored credential produced by cryptox; it is never rendered to JSON.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
