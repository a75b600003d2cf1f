// Package models holds the client-side view of server resources.
package models

// User is a registered account as returned by the server.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Photo describes an image stored by the server.
type Photo struct {
	Filename string `json:"filename"`
	Location string `json:"location"`
}
