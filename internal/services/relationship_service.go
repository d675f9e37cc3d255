package services

import (
	"strings"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/pkg/logger"
	"github.com/sirupsen/logrus"
)

// RelationshipInput carries the writable relationship fields. Nil fields are
// left untouched on partial updates; an empty date string clears the date.
type RelationshipInput struct {
	RelationshipType *string
	Person1ID        *string
	Person2ID        *string
	MarriageDate     *string
	DivorceDate      *string
}

type RelationshipService struct {
	personRepo       *repositories.PersonRepository
	relationshipRepo *repositories.RelationshipRepository
}

func NewRelationshipService(personRepo *repositories.PersonRepository, relationshipRepo *repositories.RelationshipRepository) *RelationshipService {
	return &RelationshipService{
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
	}
}

// CreateSpouseRelationship links two persons as spouses. A marriage between
// the pair in either stored order is a conflict.
func (s *RelationshipService) CreateSpouseRelationship(person1ID, person2ID, marriageDate string) (*models.FamilyRelationship, error) {
	person1ID, person2ID = strings.TrimSpace(person1ID), strings.TrimSpace(person2ID)
	if person1ID == "" || person2ID == "" {
		return nil, &models.ValidationError{Message: "Both person1 and person2 are required"}
	}

	married, err := parseDateField(&marriageDate, "marriage_date")
	if err != nil {
		return nil, err
	}

	if err := s.requirePersons("One or both persons not found", person1ID, person2ID); err != nil {
		return nil, err
	}

	for _, pair := range [][2]string{{person1ID, person2ID}, {person2ID, person1ID}} {
		exists, err := s.relationshipRepo.Exists(models.RelationshipSpouse, pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &models.ConflictError{Message: "Spouse relationship already exists"}
		}
	}

	rel := models.NewFamilyRelationship(models.RelationshipSpouse, person1ID, person2ID)
	rel.MarriageDate = married
	return s.create(rel)
}

// CreateParentChildRelationship links parentID as a parent of childID. Only
// the exact ordered pair is checked for duplicates.
func (s *RelationshipService) CreateParentChildRelationship(parentID, childID string) (*models.FamilyRelationship, error) {
	parentID, childID = strings.TrimSpace(parentID), strings.TrimSpace(childID)
	if parentID == "" || childID == "" {
		return nil, &models.ValidationError{Message: "Both parent and child are required"}
	}

	if err := s.requirePersons("Parent or child not found", parentID, childID); err != nil {
		return nil, err
	}

	exists, err := s.relationshipRepo.Exists(models.RelationshipParentChild, parentID, childID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &models.ConflictError{Message: "Parent-child relationship already exists"}
	}

	return s.create(models.NewFamilyRelationship(models.RelationshipParentChild, parentID, childID))
}

// CreateRelationship creates a relationship of any type. Only the stored
// (person1, person2, type) triple is checked for duplicates.
func (s *RelationshipService) CreateRelationship(input RelationshipInput) (*models.FamilyRelationship, error) {
	rel := models.NewFamilyRelationship("", "", "")
	if err := s.apply(rel, input, true); err != nil {
		return nil, err
	}
	return s.create(rel)
}

// GetRelationship retrieves a relationship by ID
func (s *RelationshipService) GetRelationship(id string) (*models.FamilyRelationship, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, &models.NotFoundError{Resource: "relationship", ID: id}
	}
	return s.relationshipRepo.GetByID(id)
}

// ListRelationships filters by type and by participant on either side
func (s *RelationshipService) ListRelationships(relType, personID string) ([]*models.FamilyRelationship, error) {
	return s.relationshipRepo.List(repositories.RelationshipFilter{
		Type:     models.RelationshipType(strings.TrimSpace(relType)),
		PersonID: strings.TrimSpace(personID),
	})
}

// UpdateRelationship applies input to an existing relationship
func (s *RelationshipService) UpdateRelationship(id string, input RelationshipInput, partial bool) (*models.FamilyRelationship, error) {
	rel, err := s.GetRelationship(id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(rel, input, !partial); err != nil {
		return nil, err
	}

	if err := s.relationshipRepo.Update(rel); err != nil {
		return nil, err
	}

	logger.WithField("relationship_id", rel.ID).Info("Relationship updated")
	return s.relationshipRepo.GetByID(rel.ID)
}

// DeleteRelationship deletes a relationship by ID
func (s *RelationshipService) DeleteRelationship(id string) error {
	rel, err := s.GetRelationship(id)
	if err != nil {
		return err
	}

	if err := s.relationshipRepo.Delete(rel.ID); err != nil {
		return err
	}

	logger.WithField("relationship_id", rel.ID).Info("Relationship deleted")
	return nil
}

func (s *RelationshipService) create(rel *models.FamilyRelationship) (*models.FamilyRelationship, error) {
	if err := s.relationshipRepo.Create(rel); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"relationship_id": rel.ID,
		"type":            rel.RelationshipType,
		"person1":         rel.Person1ID,
		"person2":         rel.Person2ID,
	}).Info("Relationship created")

	// reload to pick up participant names
	return s.relationshipRepo.GetByID(rel.ID)
}

// requirePersons fails with NotFound unless every id names a stored person
func (s *RelationshipService) requirePersons(message string, ids ...string) error {
	for _, id := range ids {
		if _, ok := normalizeID(id); !ok {
			return &models.NotFoundError{Resource: "person", ID: id, Message: message}
		}
		exists, err := s.personRepo.Exists(id)
		if err != nil {
			return err
		}
		if !exists {
			return &models.NotFoundError{Resource: "person", ID: id, Message: message}
		}
	}
	return nil
}

func (s *RelationshipService) apply(rel *models.FamilyRelationship, input RelationshipInput, replace bool) error {
	if input.RelationshipType != nil {
		rel.RelationshipType = models.RelationshipType(strings.TrimSpace(*input.RelationshipType))
	} else if replace {
		rel.RelationshipType = ""
	}

	if input.Person1ID != nil {
		rel.Person1ID = strings.TrimSpace(*input.Person1ID)
	} else if replace {
		rel.Person1ID = ""
	}

	if input.Person2ID != nil {
		rel.Person2ID = strings.TrimSpace(*input.Person2ID)
	} else if replace {
		rel.Person2ID = ""
	}

	var err error
	if input.MarriageDate != nil || replace {
		if rel.MarriageDate, err = parseDateField(input.MarriageDate, "marriage_date"); err != nil {
			return err
		}
	}
	if input.DivorceDate != nil || replace {
		if rel.DivorceDate, err = parseDateField(input.DivorceDate, "divorce_date"); err != nil {
			return err
		}
	}

	if err := rel.Validate(); err != nil {
		return err
	}

	// referenced persons are a field error here, not a missing resource
	for _, ref := range [][2]string{{"person1", rel.Person1ID}, {"person2", rel.Person2ID}} {
		field, id := ref[0], ref[1]
		if _, ok := normalizeID(id); !ok {
			return &models.ValidationError{Field: field, Message: "Invalid pk \"" + id + "\" - object does not exist."}
		}
		exists, err := s.personRepo.Exists(id)
		if err != nil {
			return err
		}
		if !exists {
			return &models.ValidationError{Field: field, Message: "Invalid pk \"" + id + "\" - object does not exist."}
		}
	}

	return nil
}
