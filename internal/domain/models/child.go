package models

import "time"

// DateLayout is the wire format of a child's date of birth.
const DateLayout = "2006-01-02"

// Child is a growth-tracking record.
type Child struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	DateOfBirth string    `bson:"date_of_birth" json:"date_of_birth"`
	Gender      *string   `bson:"gender,omitempty" json:"gender,omitempty"`
	Height      *float64  `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight      *float64  `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Notes       *string   `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
	Seq         int64     `bson:"seq" json:"-"`
}

// ChildDraft carries the fields of a new child record.
type ChildDraft struct {
	Name        string   `json:"name"`
	DateOfBirth string   `json:"date_of_birth"`
	Gender      *string  `json:"gender"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	Notes       *string  `json:"notes"`
}

// ChildUpdate is a partial update; nil fields are left untouched.
type ChildUpdate struct {
	Name        *string  `json:"name"`
	DateOfBirth *string  `json:"date_of_birth"`
	Gender      *string  `json:"gender"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	Notes       *string  `json:"notes"`
}

// Apply copies the non-nil fields of u onto child.
func (u ChildUpdate) Apply(child *Child) {
	if u.Name != nil {
		child.Name = *u.Name
	}
	if u.DateOfBirth != nil {
		child.DateOfBirth = *u.DateOfBirth
	}
	if u.Gender != nil {
		child.Gender = u.Gender
	}
	if u.Height != nil {
		child.Height = u.Height
	}
	if u.Weight != nil {
		child.Weight = u.Weight
	}
	if u.Notes != nil {
		child.Notes = u.Notes
	}
}

// Age is a calendar-aware elapsed time.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// ChildView is a child record with its computed age.
type ChildView struct {
	Child
	Age Age `json:"age"`
}
