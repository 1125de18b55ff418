// Package person is the people domain: the validated Record, the raw
// Fields it is created from, derived values (age, gender label) and the
// Predicate a search is built from.
//
// Nothing here touches the store.
package person

import (
	"strconv"
	"time"
)

// DateLayout is the only accepted birth date format (yyyy-mm-dd).
const DateLayout = "2006-01-02"

// Gender is stored as a small integer.
type Gender int16

const (
	Male   Gender = 0
	Female Gender = 1
)

// GenderLabel returns "male" for 0 and "female" for anything else.
func GenderLabel(g Gender) string {
	if g == Male {
		return "male"
	}
	return "female"
}

// Record is one person backed by exactly one row of the people table.
// A Record returned by the service always holds six valid fields.
type Record struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Surname   string `json:"surname" yaml:"surname"`
	BirthDate string `json:"birth_date" yaml:"birth_date"`
	Gender    Gender `json:"gender" yaml:"gender"`
	BirthCity string `json:"birth_city" yaml:"birth_city"`
}

// Fields is the raw, unvalidated input of a create. Every value is text;
// Gender is the literal "0" or "1".
type Fields struct {
	ID        string `json:"id" validate:"digits,int64"`
	Name      string `json:"name" validate:"letters"`
	Surname   string `json:"surname" validate:"letters"`
	BirthDate string `json:"birth_date" validate:"date_shape,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"oneof=0 1"`
	BirthCity string `json:"birth_city" validate:"city"`
}

// FieldsFromArgs maps six positional values onto Fields in table order.
// It panics if args does not hold exactly six values.
func FieldsFromArgs(args []string) Fields {
	_ = args[5]
	return Fields{
		ID:        args[0],
		Name:      args[1],
		Surname:   args[2],
		BirthDate: args[3],
		Gender:    args[4],
		BirthCity: args[5],
	}
}

// Record validates f and converts it. On failure the error is an
// *errs.ValidationError listing every violated field and no Record is
// produced.
func (f Fields) Record() (*Record, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}

	id, _ := strconv.ParseInt(f.ID, 10, 64)
	gender := Male
	if f.Gender == "1" {
		gender = Female
	}

	return &Record{
		ID:        id,
		Name:      f.Name,
		Surname:   f.Surname,
		BirthDate: f.BirthDate,
		Gender:    gender,
		BirthCity: f.BirthCity,
	}, nil
}

// AgeAt returns the number of whole calendar years between birthDate and now.
// The year difference is reduced by one when now falls before this year's
// birthday; a 29 February birthday is reached on 1 March in common years.
func AgeAt(birthDate string, now time.Time) (int, error) {
	born, err := time.Parse(DateLayout, birthDate)
	if err != nil {
		return 0, err
	}

	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years, nil
}

// Age is AgeAt with the current local date.
func Age(birthDate string) (int, error) {
	return AgeAt(birthDate, time.Now())
}

// View renders the six raw fields, optionally with "age" and "gender_label".
func (r *Record) View(includeAge, includeGenderLabel bool) map[string]any {
	return r.ViewAt(time.Now(), includeAge, includeGenderLabel)
}

// ViewAt is View with age computed against now. An unparsable birth date
// leaves "age" out.
func (r *Record) ViewAt(now time.Time, includeAge, includeGenderLabel bool) map[string]any {
	view := map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"surname":    r.Surname,
		"birth_date": r.BirthDate,
		"gender":     r.Gender,
		"birth_city": r.BirthCity,
	}

	if includeAge {
		if age, err := AgeAt(r.BirthDate, now); err == nil {
			view["age"] = age
		}
	}
	if includeGenderLabel {
		view["gender_label"] = GenderLabel(r.Gender)
	}

	return view
}
