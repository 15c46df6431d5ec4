package ontology

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

// Column names of the ontology CSV exports.
const (
	colConceptID    = "conceptId"
	colArabicSynset = "arabicSynset"
	colEnglish      = "englishSynset"
	colGloss        = "gloss"
	colExample      = "example"
	colDataSource   = "dataSourceId"

	colRelConceptID = "concept_id"
	colSubTypeOfID  = "subTypeOfID"
	colPartOfID     = "partOfID"
	colInstanceOfID = "instanceOfID"
)

// Load reads Concepts.csv and Relations.csv and builds the concept table.
func Load(conceptsPath, relationsPath, delimiter string) (*Table, error) {
	cf, err := os.Open(conceptsPath)
	if err != nil {
		return nil, fmt.Errorf("open concepts file: %w", err)
	}
	defer cf.Close()

	concepts, err := ParseConcepts(cf, delimiter)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", conceptsPath, err)
	}

	rf, err := os.Open(relationsPath)
	if err != nil {
		return nil, fmt.Errorf("open relations file: %w", err)
	}
	defer rf.Close()

	relations, err := ParseRelations(rf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relationsPath, err)
	}

	return NewTable(concepts, relations), nil
}

// ParseConcepts reads the concepts CSV. Rows without a concept id are
// skipped.
func ParseConcepts(r io.Reader, delimiter string) ([]Concept, error) {
	rows, err := readRows(r, colConceptID, colArabicSynset)
	if err != nil {
		return nil, err
	}
	concepts := make([]Concept, 0, len(rows))
	for _, row := range rows {
		id := row.get(colConceptID)
		if id == "" {
			continue
		}
		raw := row.get(colArabicSynset)
		concepts = append(concepts, Concept{
			ID:         id,
			Lemmas:     SplitLemmas(raw, delimiter),
			RawLemmas:  raw,
			English:    optional(row.get(colEnglish)),
			Gloss:      optional(row.get(colGloss)),
			Example:    optional(row.get(colExample)),
			DataSource: optional(row.get(colDataSource)),
		})
	}
	return concepts, nil
}

// ParseRelations reads the relations CSV. "NULL" and "0" parent ids mean
// the relation is absent.
func ParseRelations(r io.Reader) ([]Relation, error) {
	rows, err := readRows(r, colRelConceptID, colSubTypeOfID)
	if err != nil {
		return nil, err
	}
	relations := make([]Relation, 0, len(rows))
	for _, row := range rows {
		id := row.get(colRelConceptID)
		if id == "" {
			continue
		}
		relations = append(relations, Relation{
			ConceptID:  id,
			SubTypeOf:  parentID(row.get(colSubTypeOfID)),
			PartOf:     parentID(row.get(colPartOfID)),
			InstanceOf: parentID(row.get(colInstanceOfID)),
		})
	}
	return relations, nil
}

type csvRow struct {
	header map[string]int
	record []string
}

func (r csvRow) get(col string) string {
	idx, ok := r.header[col]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

// readRows reads a headed CSV and fails when any required column is missing.
func readRows(r io.Reader, required ...string) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	head, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, apperrors.New(apperrors.ErrInvalidInput, "empty CSV: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(head))
	for i, name := range head {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		header[name] = i
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, apperrors.Newf(apperrors.ErrMissingColumn, "column %q not found in header", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		rows = append(rows, csvRow{header: header, record: record})
	}
	return rows, nil
}

func optional(v string) string {
	if v == "NULL" {
		return ""
	}
	return v
}

func parentID(v string) string {
	switch v {
	case "", "NULL", "0":
		return ""
	}
	return v
}
