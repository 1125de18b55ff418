package repository

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/peopledb/internal/database"
	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/deppfellow/peopledb/internal/person"
	"github.com/deppfellow/peopledb/internal/sqlerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *PeopleRepository {
	t.Helper()

	logger := zerolog.Nop()
	store, err := database.NewSQLite(context.Background(), ":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewPeopleRepository(store)
}

func seed(t *testing.T, repo *PeopleRepository, recs ...*person.Record) {
	t.Helper()
	for _, rec := range recs {
		require.NoError(t, repo.Insert(context.Background(), rec))
	}
}

var (
	ivan  = &person.Record{ID: 1, Name: "Ivan", Surname: "Krause", BirthDate: "1990-05-10", Gender: person.Male, BirthCity: "Moscow"}
	anna  = &person.Record{ID: 3, Name: "Anna", Surname: "Ivanova", BirthDate: "1985-02-11", Gender: person.Female, BirthCity: "Tver"}
	olga  = &person.Record{ID: 7, Name: "Olga", Surname: "Smirnova", BirthDate: "2001-12-01", Gender: person.Female, BirthCity: "Moscow"}
	petya = &person.Record{ID: 9, Name: "Петр", Surname: "Петров", BirthDate: "1979-07-30", Gender: person.Male, BirthCity: "Санкт-Петербург"}
)

func TestPeopleRepository_InsertGetDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed(t, repo, ivan)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ivan, got)

	require.NoError(t, repo.DeleteByID(ctx, 1))

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteByID(ctx, 1), errs.ErrNotFound)
}

func TestPeopleRepository_InsertDuplicate(t *testing.T) {
	repo := newTestRepository(t)
	seed(t, repo, ivan)

	err := repo.Insert(context.Background(), ivan)

	var queryErr *errs.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "insert", queryErr.Op)
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err))
}

func TestPeopleRepository_FindIDs(t *testing.T) {
	repo := newTestRepository(t)
	seed(t, repo, olga, ivan, petya, anna)
	ctx := context.Background()

	tests := []struct {
		field, op, value string
		want             []int64
	}{
		{"id", ">", "2", []int64{3, 7, 9}},
		{"id", "<", "8", []int64{1, 3, 7}},
		{"gender", "<>", "0", []int64{3, 7}},
		{"birth_city", "<>", "Moscow", []int64{3, 9}},
		{"birth_date", "<", "1986-01-01", []int64{3, 9}},
		{"name", "<>", "Nobody", []int64{1, 3, 7, 9}},
		{"id", ">", "100", []int64{}},
		{"gender", "<", "100000", []int64{1, 3, 7, 9}},
		{"id", "<", "9223372036854775807", []int64{1, 3, 7, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.field+tt.op+tt.value, func(t *testing.T) {
			p, err := person.NewPredicate(tt.field, tt.value, tt.op)
			require.NoError(t, err)

			ids, err := repo.FindIDs(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestPredicateClause(t *testing.T) {
	gender, err := person.NewPredicate("gender", "100000", "<")
	require.NoError(t, err)
	assert.Equal(t, "gender < CAST($1 AS BIGINT)", predicateClause(gender, "$1"))

	city, err := person.NewPredicate("birth_city", "Moscow", "<>")
	require.NoError(t, err)
	assert.Equal(t, "birth_city <> ?", predicateClause(city, "?"))
}

func TestPeopleRepository_FindIDsRejectsUncheckedPredicate(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.FindIDs(context.Background(), person.Predicate{Field: "1=1 OR id", Operator: person.Less, Arg: "x"})
	assert.Error(t, err)
}

func TestPeopleRepository_Batches(t *testing.T) {
	repo := newTestRepository(t)
	seed(t, repo, ivan, anna, olga)
	ctx := context.Background()

	found, err := repo.GetByIDs(ctx, []int64{1, 7, 42})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, olga, found[7])
	assert.NotContains(t, found, int64(42))

	deleted, err := repo.DeleteByIDs(ctx, []int64{3, 7, 42})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 7}, deleted)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPeopleRepository_ClosedStoreIsConnectionError(t *testing.T) {
	logger := zerolog.Nop()
	store, err := database.NewSQLite(context.Background(), ":memory:", &logger)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = NewPeopleRepository(store).GetByID(context.Background(), 1)

	var connErr *errs.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestAsInt64(t *testing.T) {
	for _, v := range []any{int64(4), int32(4), int16(4), 4} {
		n, err := asInt64(v)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	}

	_, err := asInt64("4")
	assert.Error(t, err)
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "Moscow", asString("Moscow"))
	assert.Equal(t, "Tver", asString([]byte("Tver")))
	assert.Equal(t, "1990-05-10", asString(time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", asString(nil))
}
