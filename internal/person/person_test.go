package person

import (
	"testing"
	"time"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() Fields {
	return Fields{
		ID:        "1",
		Name:      "Ivan",
		Surname:   "Krause",
		BirthDate: "1990-05-10",
		Gender:    "0",
		BirthCity: "Moscow",
	}
}

func TestFields_Record(t *testing.T) {
	rec, err := validFields().Record()
	require.NoError(t, err)

	assert.Equal(t, &Record{
		ID:        1,
		Name:      "Ivan",
		Surname:   "Krause",
		BirthDate: "1990-05-10",
		Gender:    Male,
		BirthCity: "Moscow",
	}, rec)
}

func TestValidate_AcceptsCyrillicAndCityPunctuation(t *testing.T) {
	f := validFields()
	f.Name = "Иван"
	f.Surname = "Петров"
	f.BirthCity = "Санкт-Петербург"
	f.Gender = "1"

	rec, err := f.Record()
	require.NoError(t, err)
	assert.Equal(t, Female, rec.Gender)

	f.BirthCity = "St.Louis"
	assert.NoError(t, Validate(f))
}

func TestValidate_SingleFieldViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Fields)
		field   string
		message string
	}{
		{"id with letters", func(f *Fields) { f.ID = "12a" }, "id", "id must contain only digits"},
		{"negative id", func(f *Fields) { f.ID = "-1" }, "id", "id must contain only digits"},
		{"empty id", func(f *Fields) { f.ID = "" }, "id", "id must contain only digits"},
		{"id overflows", func(f *Fields) { f.ID = "99999999999999999999" }, "id", "id is out of range"},
		{"name with digit", func(f *Fields) { f.Name = "Iv4n" }, "name", "name must contain only Cyrillic or Latin letters"},
		{"name with space", func(f *Fields) { f.Name = "Ivan Ivan" }, "name", "name must contain only Cyrillic or Latin letters"},
		{"empty surname", func(f *Fields) { f.Surname = "" }, "surname", "surname must contain only Cyrillic or Latin letters"},
		{"bad date shape", func(f *Fields) { f.BirthDate = "10.05.1990" }, "birth_date", "birth_date must be formatted as yyyy-mm-dd"},
		{"impossible date", func(f *Fields) { f.BirthDate = "2022-13-40" }, "birth_date", "birth_date is not a valid calendar date"},
		{"february 30", func(f *Fields) { f.BirthDate = "2021-02-30" }, "birth_date", "birth_date is not a valid calendar date"},
		{"gender two", func(f *Fields) { f.Gender = "2" }, "gender", "gender must be 0 or 1"},
		{"gender padded", func(f *Fields) { f.Gender = " 0" }, "gender", "gender must be 0 or 1"},
		{"gender word", func(f *Fields) { f.Gender = "male" }, "gender", "gender must be 0 or 1"},
		{"city with digit", func(f *Fields) { f.BirthCity = "Moscow1" }, "birth_city", "birth_city must contain only Cyrillic or Latin letters, '.' or '-'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			err := Validate(f)
			var validationErr *errs.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Len(t, validationErr.Fields, 1)
			assert.Equal(t, tt.field, validationErr.Fields[0].Field)
			assert.Equal(t, tt.message, validationErr.Fields[0].Error)
		})
	}
}

func TestValidate_AggregatesEveryViolation(t *testing.T) {
	rec, err := Fields{
		ID:        "x",
		Name:      "1",
		Surname:   "Krause",
		BirthDate: "2022-13-40",
		Gender:    "3",
		BirthCity: "Moscow!",
	}.Record()
	assert.Nil(t, rec)

	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 5)
	for _, field := range []string{"id", "name", "birth_date", "gender", "birth_city"} {
		assert.True(t, validationErr.Has(field), field)
		assert.Contains(t, err.Error(), field)
	}
	assert.False(t, validationErr.Has("surname"))
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"0", "1", "0042", "99999999999999999999"} {
		assert.NoError(t, ValidateID(id), id)
	}
	for _, id := range []string{"", "a", "1a", " 1", "1.5", "-3", "١٢"} {
		var validationErr *errs.ValidationError
		assert.ErrorAs(t, ValidateID(id), &validationErr, id)
	}
}

func TestFieldsFromArgs(t *testing.T) {
	f := FieldsFromArgs([]string{"1", "Ivan", "Krause", "1990-05-10", "0", "Moscow"})
	assert.Equal(t, validFields(), f)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		birth string
		now   time.Time
		want  int
	}{
		{"2000-01-01", date(2024, time.January, 1), 24},
		{"2000-01-01", date(2023, time.December, 31), 23},
		{"1990-05-10", date(2024, time.May, 9), 33},
		{"1990-05-10", date(2024, time.May, 10), 34},
		{"2000-02-29", date(2023, time.February, 28), 22},
		{"2000-02-29", date(2023, time.March, 1), 23},
		{"2000-02-29", date(2024, time.February, 29), 24},
		{"2024-06-01", date(2024, time.June, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.birth+"@"+tt.now.Format(DateLayout), func(t *testing.T) {
			got, err := AgeAt(tt.birth, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := AgeAt("not-a-date", date(2024, time.January, 1))
	assert.Error(t, err)
}

func TestGenderLabel(t *testing.T) {
	assert.Equal(t, "male", GenderLabel(Male))
	assert.Equal(t, "female", GenderLabel(Female))
	assert.Equal(t, "female", GenderLabel(Gender(7)))
}

func TestRecord_ViewAt(t *testing.T) {
	rec := &Record{ID: 1, Name: "Ivan", Surname: "Krause", BirthDate: "1990-05-10", Gender: Male, BirthCity: "Moscow"}
	now := date(2024, time.January, 1)

	plain := rec.ViewAt(now, false, false)
	assert.Len(t, plain, 6)
	assert.NotContains(t, plain, "age")
	assert.NotContains(t, plain, "gender_label")

	full := rec.ViewAt(now, true, true)
	assert.Equal(t, 33, full["age"])
	assert.Equal(t, "male", full["gender_label"])
	assert.Equal(t, int64(1), full["id"])
	assert.Equal(t, "Moscow", full["birth_city"])

	// The record itself is untouched.
	assert.Equal(t, "Krause", rec.Surname)
}

func TestNewPredicate(t *testing.T) {
	p, err := NewPredicate("birth_city", "Moscow", "<>")
	require.NoError(t, err)
	assert.Equal(t, NotEqual, p.Operator)
	assert.Equal(t, "Moscow", p.Arg)
	assert.Equal(t, "birth_city <> Moscow", p.String())

	p, err = NewPredicate("id", "10", ">")
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Arg)
}

func TestNewPredicate_RejectsEquals(t *testing.T) {
	_, err := NewPredicate("name", "Ivan", "=")

	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, validationErr.Has("operator"))
	for _, op := range []string{"<", ">", "<>"} {
		assert.Contains(t, err.Error(), op)
	}
}

func TestNewPredicate_RejectsUnknownColumnAndNonIntegerValue(t *testing.T) {
	_, err := NewPredicate("name; DROP TABLE people", "x", "<")
	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, validationErr.Has("field"))

	_, err = NewPredicate("gender", "abc", ">")
	require.ErrorAs(t, err, &validationErr)
	assert.True(t, validationErr.Has("value"))

	_, err = NewPredicate("nope", "x", "=")
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 2)
}
