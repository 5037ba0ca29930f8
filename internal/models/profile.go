package models

import "time"

// Profile represents a row in the PostgreSQL profiles table.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"` // never serialize
	CreatedAt time.Time `json:"created_at"`
}

// Caller is the resolved identity of whoever issued a request.
// A nil *Caller means the request is anonymous.
type Caller struct {
	ID string
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
