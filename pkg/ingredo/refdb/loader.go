package refdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

// Load reads a reference dataset, choosing the format by file extension:
// .json for the FooDB JSON export, .db/.sqlite/.sqlite3 for a SQLite file
// with a foods table. Every failure wraps internalerr.ErrInvalidConfig; the
// dataset is a startup precondition, not something to retry per scan.
func Load(ctx context.Context, path string) (*Index, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unsupported dataset format %q", internalerr.ErrInvalidConfig, path)
	}
}

// LoadJSON reads a JSON array of records from path.
func LoadJSON(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open dataset: %w", internalerr.ErrInvalidConfig, err)
	}
	defer f.Close()

	ix, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// ReadJSON decodes a JSON array of records.
func ReadJSON(r io.Reader) (*Index, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode dataset: %w", internalerr.ErrInvalidConfig, err)
	}
	return newChecked(records)
}

// LoadSQLite reads records from the foods table of a SQLite file. Only name is
// required; missing optional columns read as zero values and a missing id
// column falls back to rowid.
func LoadSQLite(ctx context.Context, path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: open dataset: %w", internalerr.ErrInvalidConfig, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open dataset: %w", internalerr.ErrInvalidConfig, err)
	}
	defer db.Close()

	cols, err := tableColumns(ctx, db, "foods")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", internalerr.ErrInvalidConfig, path, err)
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: %s: foods table has no name column", internalerr.ErrInvalidConfig, path)
	}

	query := "SELECT " + strings.Join([]string{
		intColumn(cols, "id", "rowid"),
		"name",
		textColumn(cols, "name_scientific"),
		textColumn(cols, "description"),
		textColumn(cols, "itis_id"),
		textColumn(cols, "wikipedia_id"),
		textColumn(cols, "food_group"),
		textColumn(cols, "food_subgroup"),
		textColumn(cols, "food_type"),
		textColumn(cols, "category"),
		intColumn(cols, "ncbi_taxonomy_id", "0"),
		textColumn(cols, "public_id"),
	}, ", ") + " FROM foods ORDER BY rowid"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", internalerr.ErrInvalidConfig, path, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var name sql.NullString
		if err := rows.Scan(
			&r.ID, &name, &r.NameScientific, &r.Description, &r.ITISID, &r.WikipediaID,
			&r.FoodGroup, &r.FoodSubgroup, &r.FoodType, &r.Category, &r.NCBITaxonomyID, &r.PublicID,
		); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", internalerr.ErrInvalidConfig, path, err)
		}
		r.Name = name.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", internalerr.ErrInvalidConfig, path, err)
	}

	ix, err := newChecked(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// WriteSQLite stores records in a new foods table at path, replacing any
// existing table. It is the inverse of LoadSQLite.
func WriteSQLite(ctx context.Context, path string, records []Record) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const schema = `
DROP TABLE IF EXISTS foods;
CREATE TABLE foods (
	id INTEGER NOT NULL,
	name TEXT NOT NULL,
	name_scientific TEXT,
	description TEXT,
	itis_id TEXT,
	wikipedia_id TEXT,
	food_group TEXT,
	food_subgroup TEXT,
	food_type TEXT,
	category TEXT,
	ncbi_taxonomy_id INTEGER,
	public_id TEXT
);`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO foods (id, name, name_scientific, description, itis_id, wikipedia_id,
	food_group, food_subgroup, food_type, category, ncbi_taxonomy_id, public_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Name, nullable(r.NameScientific), nullable(r.Description),
			nullable(r.ITISID), nullable(r.WikipediaID), nullable(r.FoodGroup),
			nullable(r.FoodSubgroup), nullable(r.FoodType), nullable(r.Category),
			r.NCBITaxonomyID, nullable(r.PublicID),
		); err != nil {
			return fmt.Errorf("insert %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

func newChecked(records []Record) (*Index, error) {
	ix := NewIndex(records)
	if ix.Len() == 0 {
		return nil, fmt.Errorf("%w: dataset has no named records", internalerr.ErrInvalidConfig)
	}
	return ix, nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.New("no foods table")
	}
	return cols, nil
}

func textColumn(cols map[string]struct{}, name string) string {
	if _, ok := cols[name]; ok {
		return "COALESCE(" + name + ", '')"
	}
	return "''"
}

func intColumn(cols map[string]struct{}, name, fallback string) string {
	if _, ok := cols[name]; ok {
		return "COALESCE(" + name + ", " + fallback + ")"
	}
	return fallback
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
