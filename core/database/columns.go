package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is a table column as reported by the database.
type Column struct {
	Field string
	Type  string
}

// TableColumns returns the columns of table with lower-cased names and types.
// A missing table yields no columns.
func TableColumns(db *gorm.DB, table string) ([]Column, error) {
	var columns []Column

	if db.Dialector.Name() == "sqlite" {
		var rows []struct {
			Name string
			Type string
		}
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
		}
		for _, r := range rows {
			columns = append(columns, Column{Field: strings.ToLower(r.Name), Type: strings.ToLower(r.Type)})
		}
		return columns, nil
	}

	var rows []struct {
		Field string
		Type  string
	}
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	for _, r := range rows {
		columns = append(columns, Column{Field: strings.ToLower(r.Field), Type: strings.ToLower(r.Type)})
	}
	return columns, nil
}

// MissingColumns lists the expected columns that table does not have.
func MissingColumns(db *gorm.DB, table string, expected []string) ([]string, error) {
	columns, err := TableColumns(db, table)
	if err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c.Field] = struct{}{}
	}
	var missing []string
	for _, name := range expected {
		if _, ok := have[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
