package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePerson(t *testing.T) {
	env := newTestEnv(t)

	person, err := env.persons.CreatePerson(context.Background(), PersonInput{
		FullName:    strPtr("  Ann Smith "),
		Gender:      strPtr("F"),
		DateOfBirth: strPtr("1980-05-01"),
		Notes:       strPtr("notes"),
	}, nil)
	require.NoError(t, err)

	_, err = uuid.Parse(person.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Ann Smith", person.FullName)
	assert.True(t, person.IsAlive())

	stored, err := env.persons.GetPerson(person.ID)
	require.NoError(t, err)
	assert.Equal(t, "1980-05-01", stored.DateOfBirth.String())
	assert.Nil(t, stored.ProfilePhoto)
}

func TestCreatePersonValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	var vErr *models.ValidationError

	_, err := env.persons.CreatePerson(ctx, PersonInput{Gender: strPtr("F")}, nil)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "full_name", vErr.Field)

	_, err = env.persons.CreatePerson(ctx, PersonInput{FullName: strPtr("Ann"), Gender: strPtr("female")}, nil)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "gender", vErr.Field)

	_, err = env.persons.CreatePerson(ctx, PersonInput{FullName: strPtr("Ann"), Gender: strPtr("F"), DateOfDeath: strPtr("yesterday")}, nil)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date_of_death", vErr.Field)
}

func TestCreatePersonWithPhoto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	person, err := env.persons.CreatePerson(ctx, PersonInput{FullName: strPtr("Ann"), Gender: strPtr("F")}, &PhotoUpload{
		Filename:    "ann.png",
		ContentType: "image/png",
		Size:        3,
		Content:     strings.NewReader("png"),
	})
	require.NoError(t, err)
	require.NotNil(t, person.ProfilePhoto)
	assert.True(t, strings.HasPrefix(*person.ProfilePhoto, storage.PhotoPrefix))

	r, err := env.photos.Open(ctx, *person.ProfilePhoto)
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "png", string(data))

	url := env.persons.PhotoURL(person.ProfilePhoto)
	require.NotNil(t, url)
	assert.Equal(t, "/media/"+*person.ProfilePhoto, *url)

	// replacing the photo removes the old blob
	oldKey := *person.ProfilePhoto
	updated, err := env.persons.UpdatePerson(ctx, person.ID, PersonInput{}, true, &PhotoUpload{
		Filename: "new.jpg", ContentType: "image/jpeg", Size: 3, Content: strings.NewReader("jpg"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, *updated.ProfilePhoto)
	_, err = env.photos.Open(ctx, oldKey)
	assert.ErrorIs(t, err, storage.ErrPhotoNotFound)

	// deleting the person removes the current blob
	require.NoError(t, env.persons.DeletePerson(ctx, person.ID))
	_, err = env.photos.Open(ctx, *updated.ProfilePhoto)
	assert.ErrorIs(t, err, storage.ErrPhotoNotFound)
}

func TestCreatePersonRejectsBadPhoto(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	var vErr *models.ValidationError

	_, err := env.persons.CreatePerson(ctx, PersonInput{FullName: strPtr("Ann"), Gender: strPtr("F")}, &PhotoUpload{
		Filename: "notes.txt", ContentType: "text/plain", Size: 4, Content: strings.NewReader("text"),
	})
	assert.ErrorAs(t, err, &vErr)

	_, err = env.persons.CreatePerson(ctx, PersonInput{FullName: strPtr("Ann"), Gender: strPtr("F")}, &PhotoUpload{
		Filename: "huge.png", ContentType: "image/png", Size: 4096, Content: strings.NewReader("png"),
	})
	assert.ErrorAs(t, err, &vErr)

	persons, err := env.persons.ListPersons("", "")
	require.NoError(t, err)
	assert.Empty(t, persons)
}

func TestUpdatePersonPartialAndFull(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	person, err := env.persons.CreatePerson(ctx, PersonInput{
		FullName:    strPtr("Ann"),
		Gender:      strPtr("F"),
		DateOfBirth: strPtr("1950-01-01"),
		Notes:       strPtr("original"),
	}, nil)
	require.NoError(t, err)

	patched, err := env.persons.UpdatePerson(ctx, person.ID, PersonInput{DateOfDeath: strPtr("2020-06-01")}, true, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ann", patched.FullName)
	assert.Equal(t, "original", patched.Notes)
	assert.False(t, patched.IsAlive())
	require.NotNil(t, patched.DateOfBirth)

	cleared, err := env.persons.UpdatePerson(ctx, person.ID, PersonInput{DateOfDeath: strPtr("")}, true, nil)
	require.NoError(t, err)
	assert.True(t, cleared.IsAlive())

	var vErr *models.ValidationError
	_, err = env.persons.UpdatePerson(ctx, person.ID, PersonInput{Notes: strPtr("x")}, false, nil)
	assert.ErrorAs(t, err, &vErr, "full update requires name and gender")

	replaced, err := env.persons.UpdatePerson(ctx, person.ID, PersonInput{FullName: strPtr("Anne"), Gender: strPtr("O")}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "Anne", replaced.FullName)
	assert.Nil(t, replaced.DateOfBirth)
	assert.Empty(t, replaced.Notes)

	var notFound *models.NotFoundError
	_, err = env.persons.UpdatePerson(ctx, uuid.New().String(), PersonInput{}, true, nil)
	assert.ErrorAs(t, err, &notFound)
}

func TestDeletePersonCascades(t *testing.T) {
	env := newTestEnv(t)
	ann := env.person(t, "Ann")
	bob := env.person(t, "Bob")
	kid := env.person(t, "Kid")
	marriage := env.marry(t, bob, ann)
	env.parentOf(t, ann, kid)
	env.parentOf(t, bob, kid)

	require.NoError(t, env.persons.DeletePerson(context.Background(), ann.ID))

	var notFound *models.NotFoundError
	_, err := env.relationships.GetRelationship(marriage.ID)
	assert.ErrorAs(t, err, &notFound)

	remaining, err := env.relationships.ListRelationships("", "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bob.ID, remaining[0].Person1ID)

	assert.ErrorAs(t, env.persons.DeletePerson(context.Background(), ann.ID), &notFound)
}

func TestGetPersonDetail(t *testing.T) {
	env := newTestEnv(t)
	mum := env.person(t, "Mum")
	dad := env.person(t, "Dad")
	me := env.person(t, "Me")
	wife := env.person(t, "Wife")
	kid := env.person(t, "Kid")

	env.parentOf(t, mum, me)
	env.parentOf(t, dad, me)
	env.marry(t, wife, me)
	env.parentOf(t, me, kid)

	detail, err := env.persons.GetPersonDetail(me.ID)
	require.NoError(t, err)
	assert.Equal(t, "Me", detail.Person.FullName)
	assert.ElementsMatch(t, []string{"Mum", "Dad"}, personNames(detail.Parents))
	assert.Equal(t, []string{"Kid"}, personNames(detail.Children))
	require.Len(t, detail.Spouses, 1)
	assert.Equal(t, "Wife", detail.Spouses[0].Spouse.FullName)

	var notFound *models.NotFoundError
	_, err = env.persons.GetPersonDetail("nope")
	assert.ErrorAs(t, err, &notFound)
}

func TestListPersons(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, in := range []PersonInput{
		{FullName: strPtr("Michael Smith"), Gender: strPtr("M")},
		{FullName: strPtr("Emma Smith"), Gender: strPtr("F")},
		{FullName: strPtr("Sarah Wilson"), Gender: strPtr("F")},
	} {
		_, err := env.persons.CreatePerson(ctx, in, nil)
		require.NoError(t, err)
	}

	all, err := env.persons.ListPersons("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma Smith", "Michael Smith", "Sarah Wilson"}, personNames(all))

	smiths, err := env.persons.ListPersons("SMITH", "F")
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma Smith"}, personNames(smiths))
}
