package entities

import "time"

// QuerySession holds the query parameters of one directory view
type QuerySession struct {
	ID        string          `json:"id"`
	Query     QueryParameters `json:"query"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
