package repositories

import (
	"database/sql"
	"strings"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// translateError maps driver errors onto domain errors
func translateError(err error, resource, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Resource: resource, ID: id}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &models.ValidationError{Message: resource + " with these fields already exists"}
		case sqlite3.ErrConstraintForeignKey:
			return &models.ValidationError{Message: "referenced person does not exist"}
		case sqlite3.ErrConstraintCheck:
			return &models.ValidationError{Message: "invalid " + resource + " field value"}
		}
	}

	return errors.Wrapf(err, "%s %s", resource, id)
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// requireAffected turns a zero-row update or delete into NotFound
func requireAffected(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}

	if rowsAffected == 0 {
		return &models.NotFoundError{Resource: resource, ID: id}
	}

	return nil
}
