package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipType distinguishes marriages from parent-child links
type RelationshipType string

const (
	RelationshipSpouse      RelationshipType = "spouse"
	RelationshipParentChild RelationshipType = "parent_child"
)

// Valid reports whether t is a known relationship type
func (t RelationshipType) Valid() bool {
	return t == RelationshipSpouse || t == RelationshipParentChild
}

// FamilyRelationship is an edge between two persons. For parent_child,
// Person1 is the parent and Person2 the child.
type FamilyRelationship struct {
	ID               string           `json:"id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	Person1ID        string           `json:"person1"`
	Person2ID        string           `json:"person2"`
	MarriageDate     *Date            `json:"marriage_date"`
	DivorceDate      *Date            `json:"divorce_date"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Filled by repository joins, not stored
	Person1Name string `json:"person1_name"`
	Person2Name string `json:"person2_name"`
}

// NewFamilyRelationship creates a relationship with a generated UUID
func NewFamilyRelationship(relType RelationshipType, person1ID, person2ID string) *FamilyRelationship {
	now := time.Now().UTC()
	return &FamilyRelationship{
		ID:               uuid.New().String(),
		RelationshipType: relType,
		Person1ID:        person1ID,
		Person2ID:        person2ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate checks the type and both participants
func (r *FamilyRelationship) Validate() error {
	if !r.RelationshipType.Valid() {
		return ErrInvalidRelationshipType
	}
	if r.Person1ID == "" {
		return &ValidationError{Field: "person1", Message: "person1 is required"}
	}
	if r.Person2ID == "" {
		return &ValidationError{Field: "person2", Message: "person2 is required"}
	}
	return nil
}

// IsActiveMarriage is true for a spouse relationship without a divorce date
func (r *FamilyRelationship) IsActiveMarriage() bool {
	return r.RelationshipType == RelationshipSpouse && r.DivorceDate == nil
}

// OtherPerson returns the participant that is not personID
func (r *FamilyRelationship) OtherPerson(personID string) string {
	if r.Person1ID == personID {
		return r.Person2ID
	}
	return r.Person1ID
}
