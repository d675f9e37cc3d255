package services

import (
	"io"
	"time"

	"github.com/alimgiray/familytree/internal/models"
	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	peopleSheet        = "People"
	relationshipsSheet = "Relationships"
)

var (
	peopleHeader        = []interface{}{"ID", "Full name", "Gender", "Date of birth", "Date of death", "Age", "Alive", "Notes"}
	relationshipsHeader = []interface{}{"ID", "Type", "Person 1", "Person 2", "Marriage date", "Divorce date", "Active marriage"}
)

// ExportService renders the whole tree as an xlsx workbook
type ExportService struct {
	personRepo       *repositories.PersonRepository
	relationshipRepo *repositories.RelationshipRepository
	now              func() time.Time
}

func NewExportService(personRepo *repositories.PersonRepository, relationshipRepo *repositories.RelationshipRepository) *ExportService {
	return &ExportService{
		personRepo:       personRepo,
		relationshipRepo: relationshipRepo,
		now:              time.Now,
	}
}

// WriteWorkbook writes a People sheet and a Relationships sheet to w
func (s *ExportService) WriteWorkbook(w io.Writer) error {
	people, err := s.personRepo.List(repositories.PersonFilter{})
	if err != nil {
		return err
	}

	relationships, err := s.relationshipRepo.List(repositories.RelationshipFilter{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", peopleSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if _, err := f.NewSheet(relationshipsSheet); err != nil {
		return errors.Wrap(err, "create sheet")
	}

	now := s.now()
	rows := [][]interface{}{peopleHeader}
	for _, p := range people {
		var age interface{}
		if a := p.AgeAt(now); a != nil {
			age = *a
		}
		rows = append(rows, []interface{}{
			p.ID, p.FullName, string(p.Gender), dateCell(p.DateOfBirth), dateCell(p.DateOfDeath), age, p.IsAlive(), p.Notes,
		})
	}
	if err := writeRows(f, peopleSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{relationshipsHeader}
	for _, r := range relationships {
		rows = append(rows, []interface{}{
			r.ID, string(r.RelationshipType), r.Person1Name, r.Person2Name,
			dateCell(r.MarriageDate), dateCell(r.DivorceDate), r.IsActiveMarriage(),
		})
	}
	if err := writeRows(f, relationshipsSheet, rows); err != nil {
		return err
	}

	return errors.Wrap(f.Write(w), "write workbook")
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, i+1)
		}
	}
	return nil
}

func dateCell(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}
