package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender codes as stored
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Valid reports whether g is one of the known codes
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Person is a node of the family graph
type Person struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Gender       Gender    `json:"gender"`
	DateOfBirth  *Date     `json:"date_of_birth"`
	DateOfDeath  *Date     `json:"date_of_death"`
	ProfilePhoto *string   `json:"profile_photo"` // blob key, not a URL
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPerson creates a new Person with a generated UUID
func NewPerson(fullName string, gender Gender) *Person {
	now := time.Now().UTC()
	return &Person{
		ID:        uuid.New().String(),
		FullName:  fullName,
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the required fields
func (p *Person) Validate() error {
	if p.FullName == "" {
		return ErrFullNameRequired
	}
	if !p.Gender.Valid() {
		return ErrInvalidGender
	}
	return nil
}

// IsAlive is true iff no date of death is recorded
func (p *Person) IsAlive() bool {
	return p.DateOfDeath == nil
}

// Age returns the age today, or at death
func (p *Person) Age() *int {
	return p.AgeAt(time.Now())
}

// AgeAt returns whole years between birth and the death date, or now when
// still alive. Nil when the birth date is unknown.
func (p *Person) AgeAt(now time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}

	end := NewDate(now.Year(), now.Month(), now.Day())
	if p.DateOfDeath != nil {
		end = *p.DateOfDeath
	}

	birth := p.DateOfBirth
	age := end.Year() - birth.Year()
	if end.Month() < birth.Month() || (end.Month() == birth.Month() && end.Day() < birth.Day()) {
		age--
	}
	return &age
}
