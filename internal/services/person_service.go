package services

import (
	"context"
	"io"
	"strings"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/pkg/logger"
	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PersonInput carries the writable person fields. Nil fields are left
// untouched on partial updates; an empty date string clears the date.
type PersonInput struct {
	FullName    *string
	Gender      *string
	DateOfBirth *string
	DateOfDeath *string
	Notes       *string
}

// PhotoUpload is an uploaded profile photo
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// SpouseLink pairs a spouse relationship with the person on its other side
type SpouseLink struct {
	Relationship *models.FamilyRelationship
	Spouse       *models.Person
	Children     []*models.Person
}

// PersonDetail is a person together with its immediate family
type PersonDetail struct {
	Person   *models.Person
	Spouses  []SpouseLink
	Parents  []*models.Person
	Children []*models.Person
}

type PersonService struct {
	personRepo       *repositories.PersonRepository
	relationshipRepo *repositories.RelationshipRepository
	photos           *storage.PhotoStore
	maxPhotoBytes    int64
}

func NewPersonService(personRepo *repositories.PersonRepository, relationshipRepo *repositories.RelationshipRepository,
	photos *storage.PhotoStore, maxPhotoBytes int64) *PersonService {
	return &PersonService{
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
		photos:           photos,
		maxPhotoBytes:    maxPhotoBytes,
	}
}

// CreatePerson validates the input, stores the optional photo and creates the person
func (s *PersonService) CreatePerson(ctx context.Context, input PersonInput, photo *PhotoUpload) (*models.Person, error) {
	person := models.NewPerson("", "")
	if err := applyPersonInput(person, input, true); err != nil {
		return nil, err
	}

	if err := s.attachPhoto(ctx, person, photo); err != nil {
		return nil, err
	}

	if err := s.personRepo.Create(person); err != nil {
		s.discardPhoto(ctx, person.ProfilePhoto)
		return nil, err
	}

	logger.WithFields(logrus.Fields{"person_id": person.ID, "full_name": person.FullName}).Info("Person created")
	return person, nil
}

// GetPerson retrieves a person by ID
func (s *PersonService) GetPerson(id string) (*models.Person, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, &models.NotFoundError{Resource: "person", ID: id}
	}
	return s.personRepo.GetByID(id)
}

// ListPersons returns persons filtered by name substring and exact gender
func (s *PersonService) ListPersons(name, gender string) ([]*models.Person, error) {
	return s.personRepo.List(repositories.PersonFilter{
		Name:   strings.TrimSpace(name),
		Gender: models.Gender(strings.TrimSpace(gender)),
	})
}

// UpdatePerson applies input to an existing person. With partial set, only
// provided fields change; otherwise the input replaces all writable fields.
func (s *PersonService) UpdatePerson(ctx context.Context, id string, input PersonInput, partial bool, photo *PhotoUpload) (*models.Person, error) {
	person, err := s.GetPerson(id)
	if err != nil {
		return nil, err
	}

	if err := applyPersonInput(person, input, !partial); err != nil {
		return nil, err
	}

	oldPhoto := person.ProfilePhoto
	if err := s.attachPhoto(ctx, person, photo); err != nil {
		return nil, err
	}

	if err := s.personRepo.Update(person); err != nil {
		if photo != nil {
			s.discardPhoto(ctx, person.ProfilePhoto)
		}
		return nil, err
	}

	if photo != nil {
		s.discardPhoto(ctx, oldPhoto)
	}

	logger.WithField("person_id", person.ID).Info("Person updated")
	return person, nil
}

// DeletePerson deletes a person, its relationships and its photo
func (s *PersonService) DeletePerson(ctx context.Context, id string) error {
	person, err := s.GetPerson(id)
	if err != nil {
		return err
	}

	if err := s.personRepo.Delete(person.ID); err != nil {
		return err
	}

	s.discardPhoto(ctx, person.ProfilePhoto)
	logger.WithField("person_id", person.ID).Info("Person deleted")
	return nil
}

// GetPersonDetail loads a person with spouses, parents and children
func (s *PersonService) GetPersonDetail(id string) (*PersonDetail, error) {
	person, err := s.GetPerson(id)
	if err != nil {
		return nil, err
	}

	spouses, err := spouseLinks(s.personRepo, s.relationshipRepo, person.ID)
	if err != nil {
		return nil, err
	}

	parents, err := s.relationshipRepo.ParentsOf(person.ID)
	if err != nil {
		return nil, err
	}

	children, err := s.relationshipRepo.ChildrenOf(person.ID)
	if err != nil {
		return nil, err
	}

	return &PersonDetail{Person: person, Spouses: spouses, Parents: parents, Children: children}, nil
}

// PhotoURL resolves a stored photo key to its URL
func (s *PersonService) PhotoURL(key *string) *string {
	if s.photos == nil {
		return nil
	}
	return s.photos.URL(key)
}

func (s *PersonService) attachPhoto(ctx context.Context, person *models.Person, photo *PhotoUpload) error {
	if photo == nil {
		return nil
	}

	if s.photos == nil {
		return &models.ValidationError{Field: "profile_photo", Message: "Photo uploads are not enabled"}
	}
	if !strings.HasPrefix(photo.ContentType, "image/") {
		return &models.ValidationError{Field: "profile_photo", Message: "Profile photo must be an image"}
	}
	if s.maxPhotoBytes > 0 && photo.Size > s.maxPhotoBytes {
		return &models.ValidationError{Field: "profile_photo", Message: "Profile photo is too large"}
	}

	key, err := s.photos.Save(ctx, photo.Filename, photo.ContentType, photo.Content)
	if err != nil {
		return errors.Wrap(err, "store profile photo")
	}

	person.ProfilePhoto = &key
	return nil
}

func (s *PersonService) discardPhoto(ctx context.Context, key *string) {
	if s.photos == nil || key == nil {
		return
	}
	if err := s.photos.Delete(ctx, *key); err != nil {
		logger.WithError(err).WithField("key", *key).Warn("Failed to delete profile photo")
	}
}

// applyPersonInput copies input onto person. With replace set, missing
// optional fields are cleared and missing required fields are rejected.
func applyPersonInput(person *models.Person, input PersonInput, replace bool) error {
	if input.FullName != nil {
		person.FullName = strings.TrimSpace(*input.FullName)
	} else if replace {
		person.FullName = ""
	}

	if input.Gender != nil {
		person.Gender = models.Gender(strings.TrimSpace(*input.Gender))
	} else if replace {
		person.Gender = ""
	}

	var err error
	if input.DateOfBirth != nil || replace {
		if person.DateOfBirth, err = parseDateField(input.DateOfBirth, "date_of_birth"); err != nil {
			return err
		}
	}
	if input.DateOfDeath != nil || replace {
		if person.DateOfDeath, err = parseDateField(input.DateOfDeath, "date_of_death"); err != nil {
			return err
		}
	}

	if input.Notes != nil {
		person.Notes = *input.Notes
	} else if replace {
		person.Notes = ""
	}

	return person.Validate()
}

func parseDateField(value *string, field string) (*models.Date, error) {
	if value == nil {
		return nil, nil
	}
	d, err := models.ParseOptionalDate(*value)
	if err != nil {
		return nil, &models.ValidationError{Field: field, Message: "Date has wrong format. Use YYYY-MM-DD"}
	}
	return d, nil
}

// spouseLinks resolves the other side of every spouse relationship of personID
func spouseLinks(personRepo *repositories.PersonRepository, relationshipRepo *repositories.RelationshipRepository, personID string) ([]SpouseLink, error) {
	relationships, err := relationshipRepo.SpousesOf(personID)
	if err != nil {
		return nil, err
	}

	links := make([]SpouseLink, 0, len(relationships))
	for _, rel := range relationships {
		spouse, err := personRepo.GetByID(rel.OtherPerson(personID))
		if err != nil {
			return nil, err
		}
		links = append(links, SpouseLink{Relationship: rel, Spouse: spouse})
	}

	return links, nil
}
