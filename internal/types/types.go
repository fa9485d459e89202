// Package types holds the records mirrored from the lending backend and
// the payloads the console sends back to it. Keeping them in one place
// lets the client, the handlers and the validators share them without
// import cycles.
//
// Payload structs carry two kinds of tags:
//
//  1. json:"..."     the key used on the wire to the backend.
//  2. validate:"..." rules checked by internal/validation before the
//     payload leaves the console.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Category groups tools at the top level.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// CategoryPayload is sent on create and update.
type CategoryPayload struct {
	Name        string `json:"name" validate:"required,entity_name"`
	Description string `json:"description" validate:"entity_description"`
}

// Subcategory belongs to exactly one category.
type Subcategory struct {
	ID           int64  `json:"id"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
}

// SubcategoryPayload is sent on create and update.
type SubcategoryPayload struct {
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,entity_name"`
	Description string `json:"description" validate:"entity_description"`
}

// Role is assigned to users and decides what they may do in the lending app.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// RolePayload is sent on create and update.
type RolePayload struct {
	Name        string `json:"name" validate:"required,entity_name"`
	Description string `json:"description" validate:"entity_description"`
}

// User is a person who can borrow tools or operate the system.
type User struct {
	ID             int64  `json:"id"`
	RoleID         int64  `json:"role_id"`
	RoleName       string `json:"role_name,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DocumentNumber string `json:"document_number"`
	IsActive       bool   `json:"is_active"`
}

// FullName joins first and last name for tables and toasts.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserPayload is sent on create and update. Password is only required on
// create; an empty password on update leaves the stored one untouched.
type UserPayload struct {
	RoleID         int64  `json:"role_id" validate:"required,gt=0"`
	FirstName      string `json:"first_name" validate:"required,entity_name"`
	LastName       string `json:"last_name" validate:"required,entity_name"`
	Email          string `json:"email" validate:"required,email,max=100"`
	Phone          string `json:"phone" validate:"omitempty,phone"`
	DocumentNumber string `json:"document_number" validate:"required,alphanum,min=5,max=20"`
	Password       string `json:"password,omitempty" validate:"omitempty,min=8,max=64"`
}

// DamageType classifies the damage a returned tool can have.
type DamageType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// DamageTypePayload is sent on create and update.
type DamageTypePayload struct {
	Name        string `json:"name" validate:"required,entity_name"`
	Description string `json:"description" validate:"entity_description"`
}

// FinesConfig is a priced fine rule. DamageTypeID is set when the rule
// applies to a specific kind of damage, and nil for general rules such
// as late returns.
type FinesConfig struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	DamageTypeID   *int64  `json:"damage_type_id"`
	DamageTypeName string  `json:"damage_type_name,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// FinesConfigPayload is sent on create and update. A nil DamageTypeID
// makes a general rule.
type FinesConfigPayload struct {
	Name         string  `json:"name" validate:"required,entity_name"`
	Description  string  `json:"description" validate:"entity_description"`
	Amount       float64 `json:"amount" validate:"gt=0,lte=100000000"`
	DamageTypeID *int64  `json:"damage_type_id" validate:"omitempty,gt=0"`
}

// DateLayout is the calendar date format used on the wire and in forms.
const DateLayout = "2006-01-02"

// Date decodes both calendar dates and RFC 3339 timestamps, since the
// backend is not consistent about which one it sends for fine dates.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts an RFC 3339 timestamp, a YYYY-MM-DD date or null.
// A timestamp keeps its own offset.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the calendar date only, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// String renders the date for tables and exports.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Fine statuses.
const (
	FineStatusPending = "pending"
	FineStatusPaid    = "paid"
)

// Fine is a charge issued against a user. The console only reads fines.
type Fine struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	UserName      string  `json:"user_name"`
	FinesConfigID int64   `json:"fines_config_id"`
	ConfigName    string  `json:"config_name"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	FineDate      Date    `json:"fine_date"`
	IsActive      bool    `json:"is_active"`
}

// ActivePayload is the body of a soft delete or restore.
type ActivePayload struct {
	IsActive bool `json:"is_active"`
}

// Audit outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// AuditEntry records one mutation issued from the console.
type AuditEntry struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	RecordID  int64     `json:"record_id"`
	Outcome   string    `json:"outcome"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
