package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/deppfellow/peopledb/internal/person"
	"github.com/deppfellow/peopledb/internal/repository"
	"github.com/rs/zerolog"
)

// DefaultBatchSize bounds the ids bound into one IN (...) statement.
const DefaultBatchSize = 500

// PeopleService implements the record operations: load, create, save,
// delete and the dual-mode FromArgs.
type PeopleService struct {
	repo      *repository.PeopleRepository
	logger    *zerolog.Logger
	batchSize int
}

func NewPeopleService(repo *repository.PeopleRepository, logger *zerolog.Logger) *PeopleService {
	return &PeopleService{
		repo:      repo,
		logger:    logger,
		batchSize: DefaultBatchSize,
	}
}

// log prefers the request-scoped logger carried by ctx.
func (s *PeopleService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// WithBatchSize sets how many ids Query.Records and Query.DeleteAll bind
// into one IN (...) statement (database.batch_size). Values below 1 keep
// the current size.
func (s *PeopleService) WithBatchSize(n int) *PeopleService {
	if n >= 1 {
		s.batchSize = n
	}
	return s
}

// Load fetches the person whose id is the digit string id.
//
// Output:
//   - *errs.ValidationError if id is not all digits (no store access)
//   - errs.ErrNotFound when no row matches; the absent state
//   - *errs.ConnectionError / *errs.QueryError on store failure
func (s *PeopleService) Load(ctx context.Context, id string) (*person.Record, error) {
	if err := person.ValidateID(id); err != nil {
		return nil, err
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// All digits but wider than the column: no row can match.
		s.log(ctx).Info().Str("id", id).Msg("person not found")
		return nil, errs.ErrNotFound
	}

	return s.loadByID(ctx, n)
}

func (s *PeopleService) loadByID(ctx context.Context, id int64) (*person.Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		s.log(ctx).Info().Int64("id", id).Msg("person not found")
		return nil, err
	case err != nil:
		s.log(ctx).Error().Err(err).Int64("id", id).Msg("failed to load person")
		return nil, err
	}
	return rec, nil
}

// Create validates every field, then inserts the record at once. No
// Record is returned unless both steps succeed.
func (s *PeopleService) Create(ctx context.Context, fields person.Fields) (*person.Record, error) {
	rec, err := fields.Record()
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save inserts rec as a new row. It is not idempotent: saving the same id
// twice fails with a unique violation.
func (s *PeopleService) Save(ctx context.Context, rec *person.Record) error {
	if err := s.repo.Insert(ctx, rec); err != nil {
		s.log(ctx).Error().Err(err).Int64("id", rec.ID).Msg("failed to save person")
		return err
	}

	s.log(ctx).Debug().Int64("id", rec.ID).Msg("person saved")
	return nil
}

// Delete removes the row backing rec. rec itself stays readable.
// errs.ErrNotFound means there was no row to remove.
func (s *PeopleService) Delete(ctx context.Context, rec *person.Record) error {
	if err := s.repo.DeleteByID(ctx, rec.ID); err != nil {
		s.log(ctx).Error().Err(err).Int64("id", rec.ID).Msg("failed to delete person")
		return err
	}

	s.log(ctx).Debug().Int64("id", rec.ID).Msg("person deleted")
	return nil
}

// FromArgs is Load for one argument and Create for six, in table column
// order. Any other count is an *errs.ConfigurationError.
func (s *PeopleService) FromArgs(ctx context.Context, args ...string) (*person.Record, error) {
	switch len(args) {
	case 1:
		return s.Load(ctx, args[0])
	case 6:
		return s.Create(ctx, person.FieldsFromArgs(args))
	default:
		return nil, &errs.ConfigurationError{Got: len(args)}
	}
}

// Ping reports whether the store is reachable.
func (s *PeopleService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
