package dto

import "time"

// CustomerResponse describes a customer returned by the API.
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
