package services

import (
	"testing"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/pkg/database"
	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type testEnv struct {
	personRepo       *repositories.PersonRepository
	relationshipRepo *repositories.RelationshipRepository
	photos           *storage.PhotoStore
	persons          *PersonService
	relationships    *RelationshipService
	tree             *FamilyTreeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	photos := storage.NewPhotoStore(memblob.OpenBucket(nil), "/media/")
	t.Cleanup(func() { photos.Close() })

	personRepo := repositories.NewPersonRepository(db)
	relationshipRepo := repositories.NewRelationshipRepository(db)

	return &testEnv{
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
		photos:           photos,
		persons:          NewPersonService(personRepo, relationshipRepo, photos, 1024),
		relationships:    NewRelationshipService(personRepo, relationshipRepo),
		tree:             NewFamilyTreeService(personRepo, relationshipRepo),
	}
}

func (e *testEnv) person(t *testing.T, name string) *models.Person {
	t.Helper()
	p := models.NewPerson(name, models.GenderOther)
	require.NoError(t, e.personRepo.Create(p))
	return p
}

func (e *testEnv) parentOf(t *testing.T, parent, child *models.Person) {
	t.Helper()
	_, err := e.relationships.CreateParentChildRelationship(parent.ID, child.ID)
	require.NoError(t, err)
}

func (e *testEnv) marry(t *testing.T, a, b *models.Person) *models.FamilyRelationship {
	t.Helper()
	rel, err := e.relationships.CreateSpouseRelationship(a.ID, b.ID, "")
	require.NoError(t, err)
	return rel
}

func strPtr(s string) *string {
	return &s
}

func personNames(people []*models.Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.FullName)
	}
	return out
}
