package contacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// searchVector is the expression the GIN index is built over. The search
// query must use the same expression (including the text-search language as
// a literal) or the planner cannot match it to the index.
const searchVector = "to_tsvector('%s', first_name || ' ' || last_name || ' ' || email)"

type Repository struct {
	Pool     *pgxpool.Pool
	table    string
	language string
}

// NewRepository builds a repository over the given table and text-search
// language. Both come from operator configuration, never from request or
// feed input.
func NewRepository(pool *pgxpool.Pool, table, language string) *Repository {
	return &Repository{Pool: pool, table: table, language: language}
}

// Search runs a full-text query over the concatenated name and email
// columns. A keyword with invalid tsquery syntax comes back as a regular
// storage error.
func (r *Repository) Search(ctx context.Context, keyword string) ([]Contact, error) {
	query := fmt.Sprintf(
		`SELECT id, first_name, last_name, email
		 FROM %s
		 WHERE `+searchVector+` @@ to_tsquery('%s', $1)`,
		r.table, r.language, r.language,
	)

	rows, err := r.Pool.Query(ctx, query, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// Exists reports whether a row with exactly this (first_name, last_name,
// email) triple is already stored. A nil field matches only a NULL column,
// never an empty string.
func (r *Repository) Exists(ctx context.Context, firstName, lastName, email *string) (bool, error) {
	query, args := buildExistsQuery(r.table, firstName, lastName, email)

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// buildExistsQuery branches per field between "col = $n" and "col IS NULL".
// Values are always passed as parameters, never spliced into the SQL.
func buildExistsQuery(table string, firstName, lastName, email *string) (string, []any) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)

	for _, f := range []struct {
		column string
		value  *string
	}{
		{"first_name", firstName},
		{"last_name", lastName},
		{"email", email},
	} {
		if f.value == nil {
			conds = append(conds, f.column+" IS NULL")
			continue
		}
		args = append(args, *f.value)
		conds = append(conds, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s)",
		table, strings.Join(conds, " AND "),
	)
	return query, args
}

// Insert stores a new contact and returns its assigned id.
func (r *Repository) Insert(ctx context.Context, firstName, lastName, email *string) (int64, error) {
	var id int64
	err := r.Pool.QueryRow(
		ctx,
		fmt.Sprintf(
			`INSERT INTO %s (first_name, last_name, email)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			r.table,
		),
		firstName, lastName, email,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Count returns the number of stored contacts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.Pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
