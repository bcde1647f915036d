package models

import "time"

// User represents an account within the VidShelf platform.
type User struct {
	ID             string
	Email          string
	Password       string
	Name           string
	FavoriteVideos []string
	OwnedVideos    []string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Video is a catalog entry published by a user.
type Video struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Token is a signed session credential handed to clients after login.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
