package models

import "time"

type Book struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Opinion   string    `db:"opinion" json:"opinion"`
	Theme     string    `db:"theme" json:"theme"`
	Progress  string    `db:"progress" json:"progress"`
	Rating    float64   `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
