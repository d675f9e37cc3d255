package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/pkg/errors"
)

const personResource = "person"

const personColumns = `id, full_name, gender, date_of_birth, date_of_death, profile_photo, notes, created_at, updated_at`

// PersonFilter narrows List results; zero values match everything
type PersonFilter struct {
	Name   string // case-insensitive substring of full_name
	Gender models.Gender
}

type PersonRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create creates a new person
func (r *PersonRepository) Create(person *models.Person) error {
	query := `
		INSERT INTO persons (
			id, full_name, gender, date_of_birth, date_of_death, profile_photo, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		person.ID, person.FullName, person.Gender, person.DateOfBirth, person.DateOfDeath,
		person.ProfilePhoto, person.Notes, person.CreatedAt, person.UpdatedAt,
	)
	return translateError(err, personResource, person.ID)
}

// GetByID retrieves a person by ID
func (r *PersonRepository) GetByID(id string) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = ?`

	person, err := scanPerson(r.db.QueryRow(query, id))
	if err != nil {
		return nil, translateError(err, personResource, id)
	}

	return person, nil
}

// Exists checks if a person with the given ID exists
func (r *PersonRepository) Exists(id string) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM persons WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "count persons")
	}
	return count > 0, nil
}

// List returns persons matching the filter ordered by full name
func (r *PersonRepository) List(filter PersonFilter) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE 1 = 1`
	var args []interface{}

	if filter.Name != "" {
		query += ` AND full_name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(filter.Name))
	}
	if filter.Gender != "" {
		query += ` AND gender = ?`
		args = append(args, filter.Gender)
	}
	query += ` ORDER BY full_name ASC, id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list persons")
	}
	defer rows.Close()

	return scanPeople(rows)
}

// Update updates an existing person
func (r *PersonRepository) Update(person *models.Person) error {
	query := `
		UPDATE persons SET
			full_name = ?, gender = ?, date_of_birth = ?, date_of_death = ?,
			profile_photo = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	person.UpdatedAt = time.Now().UTC()
	result, err := r.db.Exec(query,
		person.FullName, person.Gender, person.DateOfBirth, person.DateOfDeath,
		person.ProfilePhoto, person.Notes, person.UpdatedAt, person.ID,
	)
	if err != nil {
		return translateError(err, personResource, person.ID)
	}

	return requireAffected(result, personResource, person.ID)
}

// Delete deletes a person by ID. Relationships referencing the person are
// removed by the foreign key cascade.
func (r *PersonRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return translateError(err, personResource, id)
	}

	return requireAffected(result, personResource, id)
}

// DeleteAll removes every person and, through the cascade, every relationship
func (r *PersonRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM persons`)
	return errors.Wrap(err, "delete all persons")
}

// Count returns the number of stored persons
func (r *PersonRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM persons`).Scan(&count)
	return count, errors.Wrap(err, "count persons")
}

// PhotoKeys returns the set of photo keys still referenced by a person
func (r *PersonRepository) PhotoKeys() (map[string]struct{}, error) {
	rows, err := r.db.Query(`SELECT profile_photo FROM persons WHERE profile_photo IS NOT NULL AND profile_photo != ''`)
	if err != nil {
		return nil, errors.Wrap(err, "query photo keys")
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "scan photo key")
		}
		keys[key] = struct{}{}
	}
	return keys, errors.Wrap(rows.Err(), "iterate photo keys")
}

func scanPerson(row rowScanner) (*models.Person, error) {
	person := &models.Person{}
	err := row.Scan(
		&person.ID, &person.FullName, &person.Gender, &person.DateOfBirth, &person.DateOfDeath,
		&person.ProfilePhoto, &person.Notes, &person.CreatedAt, &person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return person, nil
}

func scanPeople(rows *sql.Rows) ([]*models.Person, error) {
	people := []*models.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan person")
		}
		people = append(people, person)
	}

	return people, errors.Wrap(rows.Err(), "iterate persons")
}
