package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useSQLite points the config at a fresh SQLite file shared by every
// command run within the test.
func useSQLite(t *testing.T) {
	t.Helper()

	t.Setenv("PEOPLEDB_PRIMARY.ENV", "test")
	t.Setenv("PEOPLEDB_DATABASE.DRIVER", "sqlite")
	t.Setenv("PEOPLEDB_DATABASE.PATH", filepath.Join(t.TempDir(), "people.db"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := run(t, args...)
	require.NoError(t, err)
	return out
}

func TestPersonCommand_CreateThenLoad(t *testing.T) {
	useSQLite(t)

	out := mustRun(t, "person", "1", "Ivan", "Krause", "1990-05-10", "0", "Moscow")
	assert.JSONEq(t, `{
		"id": 1,
		"name": "Ivan",
		"surname": "Krause",
		"birth_date": "1990-05-10",
		"gender": 0,
		"birth_city": "Moscow"
	}`, out)

	out = mustRun(t, "person", "1", "--gender-label", "--age")

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "male", view["gender_label"])
	assert.Contains(t, view, "age")

	out = mustRun(t, "person", "1", "--output", "yaml")
	assert.Contains(t, out, "name: Ivan")
	assert.Contains(t, out, "birth_city: Moscow")
}

func TestPersonCommand_Errors(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "person", "1", "Ivan")
	var cfgErr *errs.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 2, cfgErr.Got)

	_, err = run(t, "person", "x1", "Ivan", "Krause", "1990-13-10", "7", "Moscow")
	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, validationErr.Has("id"))
	assert.True(t, validationErr.Has("birth_date"))
	assert.True(t, validationErr.Has("gender"))

	_, err = run(t, "person", "404")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = run(t, "person", "1", "--output", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestDeleteCommand(t *testing.T) {
	useSQLite(t)
	mustRun(t, "person", "3", "Anna", "Ivanova", "1985-02-11", "1", "Tver")

	out := mustRun(t, "delete", "3")
	assert.Contains(t, out, `"name": "Anna"`)

	_, err := run(t, "delete", "3")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestQueryCommand(t *testing.T) {
	useSQLite(t)
	mustRun(t, "person", "9", "Петр", "Петров", "1979-07-30", "0", "Санкт-Петербург")
	mustRun(t, "person", "3", "Anna", "Ivanova", "1985-02-11", "1", "Tver")
	mustRun(t, "person", "7", "Olga", "Smirnova", "2001-12-01", "1", "Moscow")

	out := mustRun(t, "query", "id", ">", "0")
	assert.JSONEq(t, `{"predicate": "id > 0", "ids": [3, 7, 9], "count": 3}`, out)

	out = mustRun(t, "query", "gender", "<>", "0", "--expand")

	var expanded queryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &expanded))
	assert.Equal(t, []int64{3, 7}, expanded.IDs)
	require.Len(t, expanded.People, 2)
	assert.Equal(t, "Anna", expanded.People[0]["name"])
	assert.Equal(t, "Olga", expanded.People[1]["name"])

	out = mustRun(t, "query", "gender", "<>", "0", "--delete")

	var report deleteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []int64{3, 7}, report.Deleted)
	assert.Equal(t, "Deleted 2 records", report.Summary)
	assert.Empty(t, report.Failed)

	out = mustRun(t, "query", "id", ">", "0")
	assert.JSONEq(t, `{"predicate": "id > 0", "ids": [9], "count": 1}`, out)
}

func TestQueryCommand_Errors(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "query", "id", "=", "1")
	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, validationErr.Has("operator"))

	_, err = run(t, "query", "id", ">", "0", "--expand", "--delete")
	assert.Error(t, err)

	_, err = run(t, "query", "id", ">")
	assert.Error(t, err)
}
