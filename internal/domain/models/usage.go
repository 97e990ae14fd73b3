package models

import "time"

// UsageEvent is an immutable record of a consumption. The barcode is copied at
// event time so the audit trail survives later item edits.
type UsageEvent struct {
	ID           string    `bson:"_id" json:"id"`
	ItemID       string    `bson:"item_id" json:"item_id"`
	Barcode      string    `bson:"barcode" json:"barcode"`
	QuantityUsed int       `bson:"quantity_used" json:"quantity_used"`
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	// Seq is assigned at append time and breaks timestamp ties.
	Seq int64 `bson:"seq" json:"-"`
}

// UsageTotal is the consumption of one item over a period.
type UsageTotal struct {
	ItemID   string    `json:"item_id"`
	Barcode  string    `json:"barcode"`
	Name     string    `json:"name,omitempty"`
	Quantity int       `json:"quantity"`
	Events   int       `json:"events"`
	LastUsed time.Time `json:"last_used"`
}
