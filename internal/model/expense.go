package model

import "time"

// Expense is a single recorded business expense.
type Expense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}
