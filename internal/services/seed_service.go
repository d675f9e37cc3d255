package services

import (
	"time"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/pkg/logger"
)

// SeedResult summarises a seeding run
type SeedResult struct {
	Persons       int
	Relationships int
	RootPersonID  string
	FirstChildID  string
	Generations   [][]string
}

type seedPerson struct {
	name   string
	gender models.Gender
	born   models.Date
	died   *models.Date
	notes  string
}

// SeedService replaces the stored data with a sample four-generation family
type SeedService struct {
	personRepo       *repositories.PersonRepository
	relationshipRepo *repositories.RelationshipRepository
}

func NewSeedService(personRepo *repositories.PersonRepository, relationshipRepo *repositories.RelationshipRepository) *SeedService {
	return &SeedService{
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
	}
}

// Seed clears all persons and relationships, then inserts the sample family
func (s *SeedService) Seed() (*SeedResult, error) {
	if err := s.personRepo.DeleteAll(); err != nil {
		return nil, err
	}

	died := func(y int, m time.Month, d int) *models.Date {
		date := models.NewDate(y, m, d)
		return &date
	}

	samples := []seedPerson{
		{"John Smith", models.GenderMale, models.NewDate(1920, time.May, 15), died(1995, time.August, 20), "World War II veteran, worked as a carpenter."},
		{"Mary Johnson", models.GenderFemale, models.NewDate(1925, time.March, 10), died(2000, time.December, 5), "Loved gardening and cooking for the family."},
		{"Robert Smith", models.GenderMale, models.NewDate(1950, time.July, 22), died(2010, time.November, 15), "Engineer, loved fishing and woodworking."},
		{"Elizabeth Davis", models.GenderFemale, models.NewDate(1952, time.September, 8), nil, "Retired teacher, active in community service."},
		{"Michael Smith", models.GenderMale, models.NewDate(1975, time.April, 12), nil, "Software engineer, enjoys hiking and photography."},
		{"Sarah Wilson", models.GenderFemale, models.NewDate(1978, time.June, 25), nil, "Marketing manager, loves reading and yoga."},
		{"Emma Smith", models.GenderFemale, models.NewDate(2005, time.February, 14), nil, "High school student, interested in art and music."},
		{"James Smith", models.GenderMale, models.NewDate(2008, time.August, 30), nil, "Middle school student, loves sports and video games."},
	}

	people := make([]*models.Person, len(samples))
	for i, sample := range samples {
		person := models.NewPerson(sample.name, sample.gender)
		born := sample.born
		person.DateOfBirth = &born
		person.DateOfDeath = sample.died
		person.Notes = sample.notes
		if err := s.personRepo.Create(person); err != nil {
			return nil, err
		}
		people[i] = person
	}

	greatGrandfather, greatGrandmother := people[0], people[1]
	grandfather, grandmother := people[2], people[3]
	father, mother := people[4], people[5]
	child1, child2 := people[6], people[7]

	marriages := []struct {
		a, b *models.Person
		date models.Date
	}{
		{greatGrandfather, greatGrandmother, models.NewDate(1945, time.June, 10)},
		{grandfather, grandmother, models.NewDate(1970, time.May, 20)},
		{father, mother, models.NewDate(2000, time.September, 15)},
	}
	for _, m := range marriages {
		rel := models.NewFamilyRelationship(models.RelationshipSpouse, m.a.ID, m.b.ID)
		date := m.date
		rel.MarriageDate = &date
		if err := s.relationshipRepo.Create(rel); err != nil {
			return nil, err
		}
	}

	parentage := [][2]*models.Person{
		{greatGrandfather, grandfather}, {greatGrandmother, grandfather},
		{grandfather, father}, {grandmother, father},
		{father, child1}, {mother, child1},
		{father, child2}, {mother, child2},
	}
	for _, pc := range parentage {
		rel := models.NewFamilyRelationship(models.RelationshipParentChild, pc[0].ID, pc[1].ID)
		if err := s.relationshipRepo.Create(rel); err != nil {
			return nil, err
		}
	}

	persons, err := s.personRepo.Count()
	if err != nil {
		return nil, err
	}
	relationships, err := s.relationshipRepo.Count()
	if err != nil {
		return nil, err
	}

	logger.Infof("Seeded %d people and %d relationships", persons, relationships)

	return &SeedResult{
		Persons:       persons,
		Relationships: relationships,
		RootPersonID:  father.ID,
		FirstChildID:  child1.ID,
		Generations: [][]string{
			{greatGrandfather.FullName, greatGrandmother.FullName},
			{grandfather.FullName, grandmother.FullName},
			{father.FullName, mother.FullName},
			{child1.FullName, child2.FullName},
		},
	}, nil
}
