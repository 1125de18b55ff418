package handler

import (
	"github.com/deppfellow/peopledb/internal/person"
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/deppfellow/peopledb/internal/service"
	"github.com/deppfellow/peopledb/internal/sqlerr"
	"github.com/labstack/echo/v4"
)

// PersonHandler exposes the record and query operations under /people.
type PersonHandler struct {
	Handler
	people *service.PeopleService
}

func NewPersonHandler(s *server.Server, people *service.PeopleService) *PersonHandler {
	return &PersonHandler{
		Handler: NewHandler(s),
		people:  people,
	}
}

// ViewOptions are the optional derived fields a response may carry.
type ViewOptions struct {
	Age         bool `query:"age"`
	GenderLabel bool `query:"gender_label"`
}

type GetPersonRequest struct {
	ID string `param:"id"`
	ViewOptions
}

func (r *GetPersonRequest) Validate() error {
	return person.ValidateID(r.ID)
}

type DeletePersonRequest struct {
	ID string `param:"id"`
}

func (r *DeletePersonRequest) Validate() error {
	return person.ValidateID(r.ID)
}

// CreatePersonRequest carries the six fields as strings, exactly as a
// caller would type them.
type CreatePersonRequest struct {
	person.Fields
}

func (r *CreatePersonRequest) Validate() error {
	return person.Validate(r.Fields)
}

type QueryPeopleRequest struct {
	Field    string `query:"field"`
	Operator string `query:"operator"`
	Value    string `query:"value"`
	Expand   bool   `query:"expand"`
	ViewOptions
}

func (r *QueryPeopleRequest) Validate() error {
	_, err := person.NewPredicate(r.Field, r.Value, r.Operator)
	return err
}

// QueryResponse lists the ids matching a predicate and, when expanded,
// the loaded records and per-id failures.
type QueryResponse struct {
	Predicate string           `json:"predicate"`
	IDs       []int64          `json:"ids"`
	Count     int              `json:"count"`
	People    []map[string]any `json:"people,omitempty"`
	Errors    []ItemErrorView  `json:"errors,omitempty"`
}

func (r *QueryResponse) Size() int {
	return r.Count
}

type ItemErrorView struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

type DeleteReportResponse struct {
	Predicate string          `json:"predicate"`
	Deleted   []int64         `json:"deleted"`
	Failed    []ItemErrorView `json:"failed,omitempty"`
	Count     int             `json:"count"`
	Summary   string          `json:"summary"`
}

func (r *DeleteReportResponse) Size() int {
	return r.Count
}

func (h *PersonHandler) GetPerson(c echo.Context, req *GetPersonRequest) (map[string]any, error) {
	rec, err := h.people.Load(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return rec.View(req.Age, req.GenderLabel), nil
}

func (h *PersonHandler) CreatePerson(c echo.Context, req *CreatePersonRequest) (map[string]any, error) {
	rec, err := h.people.Create(c.Request().Context(), req.Fields)
	if err != nil {
		return nil, err
	}
	return rec.View(false, false), nil
}

// DeletePerson loads the person first so a missing id answers 404 without
// issuing a DELETE.
func (h *PersonHandler) DeletePerson(c echo.Context, req *DeletePersonRequest) error {
	ctx := c.Request().Context()

	rec, err := h.people.Load(ctx, req.ID)
	if err != nil {
		return err
	}
	return h.people.Delete(ctx, rec)
}

func (h *PersonHandler) QueryPeople(c echo.Context, req *QueryPeopleRequest) (*QueryResponse, error) {
	ctx := c.Request().Context()

	q, err := h.people.NewQuery(ctx, req.Field, req.Value, req.Operator)
	if err != nil {
		return nil, err
	}

	ids := q.IDs()
	if ids == nil {
		ids = []int64{}
	}
	resp := &QueryResponse{
		Predicate: q.Predicate.String(),
		IDs:       ids,
		Count:     len(ids),
	}

	if !req.Expand {
		return resp, nil
	}

	for _, result := range q.Records(ctx) {
		if result.Err != nil {
			resp.Errors = append(resp.Errors, ItemErrorView{ID: result.ID, Error: itemMessage(result.Err)})
			continue
		}
		resp.People = append(resp.People, result.Record.View(req.Age, req.GenderLabel))
	}

	return resp, nil
}

func (h *PersonHandler) DeletePeople(c echo.Context, req *QueryPeopleRequest) (*DeleteReportResponse, error) {
	ctx := c.Request().Context()

	q, err := h.people.NewQuery(ctx, req.Field, req.Value, req.Operator)
	if err != nil {
		return nil, err
	}

	report := q.DeleteAll(ctx)

	resp := &DeleteReportResponse{
		Predicate: q.Predicate.String(),
		Deleted:   report.Deleted,
		Count:     report.Count(),
		Summary:   report.Summary(),
	}
	if resp.Deleted == nil {
		resp.Deleted = []int64{}
	}
	for _, item := range report.Failed {
		resp.Failed = append(resp.Failed, ItemErrorView{ID: item.ID, Error: itemMessage(item.Err)})
	}

	return resp, nil
}

// itemMessage renders a per-id failure with the same client-safe message
// the error handler would send for it.
func itemMessage(err error) string {
	return sqlerr.HandleError(err).Error()
}
