package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/peopledb/internal/database"
	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/deppfellow/peopledb/internal/person"
	"github.com/deppfellow/peopledb/internal/sqlerr"
)

const peopleColumns = "id, name, surname, birth_date, gender, birth_city"

// PeopleRepository runs statements against the people table. Each method
// issues exactly one statement. Store failures come back as
// *errs.ConnectionError or *errs.QueryError.
type PeopleRepository struct {
	store database.Store
}

func NewPeopleRepository(store database.Store) *PeopleRepository {
	return &PeopleRepository{store: store}
}

// GetByID returns errs.ErrNotFound when no row matches.
func (r *PeopleRepository) GetByID(ctx context.Context, id int64) (*person.Record, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM people WHERE id = %s`, peopleColumns, r.store.Placeholder(1))

	rows, err := r.store.Execute(ctx, stmt, id)
	if err != nil {
		return nil, sqlerr.Classify("load", err)
	}
	if len(rows) == 0 {
		return nil, errs.ErrNotFound
	}

	rec, err := recordFromRow(rows[0])
	if err != nil {
		return nil, &errs.QueryError{Op: "load", Cause: err}
	}
	return rec, nil
}

// Insert adds rec as a new row. A duplicate id is a *errs.QueryError
// classified as sqlerr.UniqueViolation.
func (r *PeopleRepository) Insert(ctx context.Context, rec *person.Record) error {
	stmt := fmt.Sprintf(`INSERT INTO people (%s) VALUES (%s) RETURNING id`,
		peopleColumns, r.placeholders(1, 6))

	_, err := r.store.Execute(ctx, stmt,
		rec.ID,
		rec.Name,
		rec.Surname,
		rec.BirthDate,
		int64(rec.Gender),
		rec.BirthCity,
	)
	return sqlerr.Classify("insert", err)
}

// DeleteByID removes one row. errs.ErrNotFound means nothing was removed.
func (r *PeopleRepository) DeleteByID(ctx context.Context, id int64) error {
	stmt := fmt.Sprintf(`DELETE FROM people WHERE id = %s RETURNING id`, r.store.Placeholder(1))

	rows, err := r.store.Execute(ctx, stmt, id)
	if err != nil {
		return sqlerr.Classify("delete", err)
	}
	if len(rows) == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// predicateClause renders p against placeholder. Integer values are bound
// as BIGINT so Postgres does not narrow them to a SMALLINT column's type.
func predicateClause(p person.Predicate, placeholder string) string {
	if person.Columns[p.Field] == person.IntegerColumn {
		placeholder = "CAST(" + placeholder + " AS BIGINT)"
	}
	return fmt.Sprintf("%s %s %s", p.Field, p.Operator, placeholder)
}

// FindIDs returns the ids matching p in ascending order.
func (r *PeopleRepository) FindIDs(ctx context.Context, p person.Predicate) ([]int64, error) {
	if _, ok := person.Columns[p.Field]; !ok || !p.Operator.Valid() {
		return nil, fmt.Errorf("unchecked predicate %q", p.String())
	}

	stmt := fmt.Sprintf(`SELECT id FROM people WHERE %s ORDER BY id`,
		predicateClause(p, r.store.Placeholder(1)))

	rows, err := r.store.Execute(ctx, stmt, p.Arg)
	if err != nil {
		return nil, sqlerr.Classify("query", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := asInt64(row["id"])
		if err != nil {
			return nil, &errs.QueryError{Op: "query", Cause: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetByIDs loads every row whose id is in ids with one statement. Missing
// ids are simply absent from the result.
func (r *PeopleRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*person.Record, error) {
	out := make(map[int64]*person.Record, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	stmt := fmt.Sprintf(`SELECT %s FROM people WHERE id IN (%s)`, peopleColumns, r.placeholders(1, len(ids)))

	rows, err := r.store.Execute(ctx, stmt, int64Args(ids)...)
	if err != nil {
		return nil, sqlerr.Classify("load_batch", err)
	}

	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, &errs.QueryError{Op: "load_batch", Cause: err}
		}
		out[rec.ID] = rec
	}
	return out, nil
}

// DeleteByIDs removes every row whose id is in ids with one statement and
// returns the ids that were actually removed.
func (r *PeopleRepository) DeleteByIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	stmt := fmt.Sprintf(`DELETE FROM people WHERE id IN (%s) RETURNING id`, r.placeholders(1, len(ids)))

	rows, err := r.store.Execute(ctx, stmt, int64Args(ids)...)
	if err != nil {
		return nil, sqlerr.Classify("delete_batch", err)
	}

	deleted := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := asInt64(row["id"])
		if err != nil {
			return nil, &errs.QueryError{Op: "delete_batch", Cause: err}
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// Ping checks that the store is reachable.
func (r *PeopleRepository) Ping(ctx context.Context) error {
	return sqlerr.Classify("ping", r.store.Ping(ctx))
}

// placeholders returns count comma-separated bind markers starting at from.
func (r *PeopleRepository) placeholders(from, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = r.store.Placeholder(from + i)
	}
	return strings.Join(marks, ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func recordFromRow(row database.Row) (*person.Record, error) {
	id, err := asInt64(row["id"])
	if err != nil {
		return nil, fmt.Errorf("column id: %w", err)
	}
	gender, err := asInt64(row["gender"])
	if err != nil {
		return nil, fmt.Errorf("column gender: %w", err)
	}

	return &person.Record{
		ID:        id,
		Name:      asString(row["name"]),
		Surname:   asString(row["surname"]),
		BirthDate: asString(row["birth_date"]),
		Gender:    person.Gender(gender),
		BirthCity: asString(row["birth_city"]),
	}, nil
}

// asInt64 accepts every integer width the drivers produce.
func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected integer value %v (%T)", v, v)
	}
}

// asString renders text columns; a DATE column read as time.Time is
// formatted back to yyyy-mm-dd.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case time.Time:
		return s.Format(person.DateLayout)
	default:
		return fmt.Sprint(s)
	}
}
