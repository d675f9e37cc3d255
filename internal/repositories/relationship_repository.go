package repositories

import (
	"database/sql"
	"time"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/pkg/errors"
)

const relationshipResource = "relationship"

const relationshipSelect = `
	SELECT r.id, r.relationship_type, r.person1_id, r.person2_id, r.marriage_date, r.divorce_date,
		r.created_at, r.updated_at, p1.full_name, p2.full_name
	FROM family_relationships r
	INNER JOIN persons p1 ON p1.id = r.person1_id
	INNER JOIN persons p2 ON p2.id = r.person2_id
`

// Newest first. rowid breaks ties between rows created within the same clock tick.
const relationshipOrder = ` ORDER BY r.created_at DESC, r.rowid DESC`

// RelationshipFilter narrows List results; zero values match everything
type RelationshipFilter struct {
	Type     models.RelationshipType
	PersonID string // matches either side
}

type RelationshipRepository struct {
	db *sql.DB
}

func NewRelationshipRepository(db *sql.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

// Create creates a new relationship
func (r *RelationshipRepository) Create(rel *models.FamilyRelationship) error {
	query := `
		INSERT INTO family_relationships (
			id, relationship_type, person1_id, person2_id, marriage_date, divorce_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		rel.ID, rel.RelationshipType, rel.Person1ID, rel.Person2ID,
		rel.MarriageDate, rel.DivorceDate, rel.CreatedAt, rel.UpdatedAt,
	)
	return translateError(err, relationshipResource, rel.ID)
}

// GetByID retrieves a relationship with both participant names
func (r *RelationshipRepository) GetByID(id string) (*models.FamilyRelationship, error) {
	rel, err := scanRelationship(r.db.QueryRow(relationshipSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return nil, translateError(err, relationshipResource, id)
	}
	return rel, nil
}

// List returns relationships matching the filter, newest first
func (r *RelationshipRepository) List(filter RelationshipFilter) ([]*models.FamilyRelationship, error) {
	query := relationshipSelect + ` WHERE 1 = 1`
	var args []interface{}

	if filter.Type != "" {
		query += ` AND r.relationship_type = ?`
		args = append(args, filter.Type)
	}
	if filter.PersonID != "" {
		query += ` AND (r.person1_id = ? OR r.person2_id = ?)`
		args = append(args, filter.PersonID, filter.PersonID)
	}

	return r.query(query+relationshipOrder, args...)
}

// Exists checks for a relationship with exactly this ordered pair and type
func (r *RelationshipRepository) Exists(relType models.RelationshipType, person1ID, person2ID string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM family_relationships
		WHERE relationship_type = ? AND person1_id = ? AND person2_id = ?
	`

	var count int
	if err := r.db.QueryRow(query, relType, person1ID, person2ID).Scan(&count); err != nil {
		return false, errors.Wrap(err, "count relationships")
	}
	return count > 0, nil
}

// SpousesOf returns spouse relationships where the person is on either side
func (r *RelationshipRepository) SpousesOf(personID string) ([]*models.FamilyRelationship, error) {
	return r.List(RelationshipFilter{Type: models.RelationshipSpouse, PersonID: personID})
}

// ChildrenOf returns the persons linked as children of parentID
func (r *RelationshipRepository) ChildrenOf(parentID string) ([]*models.Person, error) {
	return r.relatives(`r.person1_id = ?`, `p.id = r.person2_id`, parentID)
}

// ParentsOf returns the persons linked as parents of childID
func (r *RelationshipRepository) ParentsOf(childID string) ([]*models.Person, error) {
	return r.relatives(`r.person2_id = ?`, `p.id = r.person1_id`, childID)
}

func (r *RelationshipRepository) relatives(where, join, personID string) ([]*models.Person, error) {
	query := `
		SELECT p.id, p.full_name, p.gender, p.date_of_birth, p.date_of_death, p.profile_photo,
			p.notes, p.created_at, p.updated_at
		FROM family_relationships r
		INNER JOIN persons p ON ` + join + `
		WHERE r.relationship_type = ? AND ` + where + relationshipOrder

	rows, err := r.db.Query(query, models.RelationshipParentChild, personID)
	if err != nil {
		return nil, errors.Wrap(err, "query relatives")
	}
	defer rows.Close()

	return scanPeople(rows)
}

// Update updates an existing relationship
func (r *RelationshipRepository) Update(rel *models.FamilyRelationship) error {
	query := `
		UPDATE family_relationships SET
			relationship_type = ?, person1_id = ?, person2_id = ?,
			marriage_date = ?, divorce_date = ?, updated_at = ?
		WHERE id = ?
	`

	rel.UpdatedAt = time.Now().UTC()
	result, err := r.db.Exec(query,
		rel.RelationshipType, rel.Person1ID, rel.Person2ID,
		rel.MarriageDate, rel.DivorceDate, rel.UpdatedAt, rel.ID,
	)
	if err != nil {
		return translateError(err, relationshipResource, rel.ID)
	}

	return requireAffected(result, relationshipResource, rel.ID)
}

// Delete deletes a relationship by ID
func (r *RelationshipRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM family_relationships WHERE id = ?`, id)
	if err != nil {
		return translateError(err, relationshipResource, id)
	}

	return requireAffected(result, relationshipResource, id)
}

// Count returns the number of stored relationships
func (r *RelationshipRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM family_relationships`).Scan(&count)
	return count, errors.Wrap(err, "count relationships")
}

func (r *RelationshipRepository) query(query string, args ...interface{}) ([]*models.FamilyRelationship, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query relationships")
	}
	defer rows.Close()

	relationships := []*models.FamilyRelationship{}
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan relationship")
		}
		relationships = append(relationships, rel)
	}

	return relationships, errors.Wrap(rows.Err(), "iterate relationships")
}

func scanRelationship(row rowScanner) (*models.FamilyRelationship, error) {
	rel := &models.FamilyRelationship{}
	err := row.Scan(
		&rel.ID, &rel.RelationshipType, &rel.Person1ID, &rel.Person2ID, &rel.MarriageDate, &rel.DivorceDate,
		&rel.CreatedAt, &rel.UpdatedAt, &rel.Person1Name, &rel.Person2Name,
	)
	if err != nil {
		return nil, err
	}
	return rel, nil
}
