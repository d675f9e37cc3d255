package services

import (
	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/repositories"
)

// MaxGenerations bounds ancestor and descendant walks. The store does not
// reject cycles, so the bound is what guarantees termination.
const MaxGenerations = 5

// FamilyTree groups a person's children by the spouse they share them with
type FamilyTree struct {
	Person   *models.Person
	Spouses  []SpouseLink
	Children []*models.Person
}

type FamilyTreeService struct {
	personRepo       *repositories.PersonRepository
	relationshipRepo *repositories.RelationshipRepository
}

func NewFamilyTreeService(personRepo *repositories.PersonRepository, relationshipRepo *repositories.RelationshipRepository) *FamilyTreeService {
	return &FamilyTreeService{
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
	}
}

// Descendants walks parent_child edges downwards, pre-order, at most
// MaxGenerations deep. Persons reachable by several paths appear once per path.
func (s *FamilyTreeService) Descendants(id string) ([]*models.Person, error) {
	person, err := s.getPerson(id)
	if err != nil {
		return nil, err
	}
	return s.walk(person.ID, 0, s.relationshipRepo.ChildrenOf)
}

// Ancestors walks parent_child edges upwards with the same bound and ordering
func (s *FamilyTreeService) Ancestors(id string) ([]*models.Person, error) {
	person, err := s.getPerson(id)
	if err != nil {
		return nil, err
	}
	return s.walk(person.ID, 0, s.relationshipRepo.ParentsOf)
}

func (s *FamilyTreeService) walk(personID string, generation int, next func(string) ([]*models.Person, error)) ([]*models.Person, error) {
	found := []*models.Person{}
	if generation >= MaxGenerations {
		return found, nil
	}

	relatives, err := next(personID)
	if err != nil {
		return nil, err
	}

	for _, relative := range relatives {
		found = append(found, relative)

		further, err := s.walk(relative.ID, generation+1, next)
		if err != nil {
			return nil, err
		}
		found = append(found, further...)
	}

	return found, nil
}

// FamilyTree lists every spouse of the person with the children the two
// share, plus all of the person's children
func (s *FamilyTreeService) FamilyTree(id string) (*FamilyTree, error) {
	person, err := s.getPerson(id)
	if err != nil {
		return nil, err
	}

	children, err := s.relationshipRepo.ChildrenOf(person.ID)
	if err != nil {
		return nil, err
	}

	spouses, err := spouseLinks(s.personRepo, s.relationshipRepo, person.ID)
	if err != nil {
		return nil, err
	}

	for i := range spouses {
		spouseChildren, err := s.relationshipRepo.ChildrenOf(spouses[i].Spouse.ID)
		if err != nil {
			return nil, err
		}
		spouses[i].Children = sharedChildren(children, spouseChildren)
	}

	return &FamilyTree{Person: person, Spouses: spouses, Children: children}, nil
}

// sharedChildren keeps the entries of mine that also appear in theirs, in mine's order
func sharedChildren(mine, theirs []*models.Person) []*models.Person {
	ids := make(map[string]struct{}, len(theirs))
	for _, child := range theirs {
		ids[child.ID] = struct{}{}
	}

	shared := []*models.Person{}
	for _, child := range mine {
		if _, ok := ids[child.ID]; ok {
			shared = append(shared, child)
		}
	}
	return shared
}

func (s *FamilyTreeService) getPerson(id string) (*models.Person, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, &models.NotFoundError{Resource: "person", ID: id}
	}
	return s.personRepo.GetByID(id)
}
