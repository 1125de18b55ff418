package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/deppfellow/peopledb/internal/errs"
	"github.com/deppfellow/peopledb/internal/person"
)

// Query is the snapshot of ids matching one predicate, taken when the
// Query was built. It never changes afterwards.
type Query struct {
	Predicate person.Predicate

	ids []int64
	svc *PeopleService
}

// LoadResult is the outcome for one id of Query.Records.
type LoadResult struct {
	ID     int64
	Record *person.Record
	Err    error
}

// ItemError is one failed id of a bulk operation.
type ItemError struct {
	ID  int64
	Err error
}

// DeleteReport is the outcome of Query.DeleteAll.
type DeleteReport struct {
	Deleted []int64
	Failed  []ItemError
}

// Count is the number of rows deleted.
func (r *DeleteReport) Count() int {
	return len(r.Deleted)
}

func (r *DeleteReport) Summary() string {
	return fmt.Sprintf("Deleted %d records", r.Count())
}

// NewQuery checks the predicate and captures the matching ids in
// ascending order. Zero matches is not an error.
func (s *PeopleService) NewQuery(ctx context.Context, field, value, operator string) (*Query, error) {
	p, err := person.NewPredicate(field, value, operator)
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.FindIDs(ctx, p)
	if err != nil {
		s.log(ctx).Error().Err(err).Str("predicate", p.String()).Msg("failed to query people")
		return nil, err
	}

	if len(ids) == 0 {
		s.log(ctx).Info().Str("predicate", p.String()).Msg("no people match the query")
	}

	return &Query{Predicate: p, ids: ids, svc: s}, nil
}

// IDs returns a copy of the captured ids.
func (q *Query) IDs() []int64 {
	return slices.Clone(q.ids)
}

// Records loads every captured id, in capture order. Ids are fetched in
// batches; when a batch statement fails its ids are loaded one by one, so
// one failure never hides the others.
func (q *Query) Records(ctx context.Context) []LoadResult {
	results := make([]LoadResult, 0, len(q.ids))

	for batch := range slices.Chunk(q.ids, q.svc.batchSize) {
		found, err := q.svc.repo.GetByIDs(ctx, batch)
		if err != nil {
			q.svc.log(ctx).Warn().Err(err).Int("batch_size", len(batch)).Msg("batch load failed, loading one by one")

			for _, id := range batch {
				rec, err := q.svc.loadByID(ctx, id)
				results = append(results, LoadResult{ID: id, Record: rec, Err: err})
			}
			continue
		}

		for _, id := range batch {
			if rec, ok := found[id]; ok {
				results = append(results, LoadResult{ID: id, Record: rec})
				continue
			}
			q.svc.log(ctx).Info().Int64("id", id).Msg("person not found")
			results = append(results, LoadResult{ID: id, Err: errs.ErrNotFound})
		}
	}

	return results
}

// DeleteAll deletes every captured id and reports per id. Batches that
// fail as a whole are retried id by id, continuing past failures. The
// summary is logged.
func (q *Query) DeleteAll(ctx context.Context) *DeleteReport {
	report := &DeleteReport{}

	for batch := range slices.Chunk(q.ids, q.svc.batchSize) {
		deleted, err := q.svc.repo.DeleteByIDs(ctx, batch)
		if err != nil {
			q.svc.log(ctx).Warn().Err(err).Int("batch_size", len(batch)).Msg("batch delete failed, deleting one by one")

			for _, id := range batch {
				if err := q.svc.Delete(ctx, &person.Record{ID: id}); err != nil {
					report.Failed = append(report.Failed, ItemError{ID: id, Err: err})
					continue
				}
				report.Deleted = append(report.Deleted, id)
			}
			continue
		}

		for _, id := range batch {
			if slices.Contains(deleted, id) {
				report.Deleted = append(report.Deleted, id)
				continue
			}
			report.Failed = append(report.Failed, ItemError{ID: id, Err: errs.ErrNotFound})
		}
	}

	q.svc.log(ctx).Info().
		Int("deleted", report.Count()).
		Int("failed", len(report.Failed)).
		Str("predicate", q.Predicate.String()).
		Msg(report.Summary())

	return report
}
