package model

import "time"

// AuditEntry is one append-only record of an inventory-affecting change.
// Entries are never mutated or deleted.
type AuditEntry struct {
	ID           int64     `json:"id"`
	InventoryID  int64     `json:"inventory_id"`
	UserID       *int64    `json:"user_id"`
	Action       string    `json:"action"`
	FieldChanged string    `json:"field_changed,omitempty"`
	OldValue     string    `json:"old_value,omitempty"`
	NewValue     string    `json:"new_value,omitempty"`
	Timestamp    time.Time `json:"timestamp"`

	// Joined fields (not always populated).
	ItemName string `json:"inventory_name,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionSale   = "SALE"
)
