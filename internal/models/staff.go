package models

import "time"

// Staff represents an employed staff member (teaching or administrative).
type Staff struct {
	ID        string    `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	FullName  string    `db:"full_name" json:"full_name"`
	Position  string    `db:"position" json:"position"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
