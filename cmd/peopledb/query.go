package main

import (
	"github.com/deppfellow/peopledb/internal/lib/utils"
	"github.com/deppfellow/peopledb/internal/service"
	"github.com/spf13/cobra"
)

type itemError struct {
	ID    int64  `json:"id" yaml:"id"`
	Error string `json:"error" yaml:"error"`
}

type queryOutput struct {
	Predicate string           `json:"predicate" yaml:"predicate"`
	IDs       []int64          `json:"ids" yaml:"ids"`
	Count     int              `json:"count" yaml:"count"`
	People    []map[string]any `json:"people,omitempty" yaml:"people,omitempty"`
	Errors    []itemError      `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type deleteOutput struct {
	Predicate string      `json:"predicate" yaml:"predicate"`
	Deleted   []int64     `json:"deleted" yaml:"deleted"`
	Failed    []itemError `json:"failed,omitempty" yaml:"failed,omitempty"`
	Count     int         `json:"count" yaml:"count"`
	Summary   string      `json:"summary" yaml:"summary"`
}

func newQueryCmd(opts *outputOptions) *cobra.Command {
	var expand, remove bool

	cmd := &cobra.Command{
		Use:   "query <field> <operator> <value>",
		Short: "Select people by one field comparison",
		Long: `Capture the ids of every person matching "field operator value",
in ascending id order.

field is one of id, name, surname, birth_date, gender, birth_city.
operator is one of <, > or <>. id and gender compare as integers,
every other field as text.

By default only the ids are printed. --expand loads each record;
--delete removes each record and prints a per-id report. Failures
for one id never stop the others.`,
		Example: `  peopledb query gender '<>' 0 --expand --age
  peopledb query birth_date '<' 1950-01-01 --delete`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			q, err := a.services.People.NewQuery(ctx, args[0], args[2], args[1])
			if err != nil {
				return err
			}

			var out any
			switch {
			case remove:
				out = deleteOutputFrom(q, q.DeleteAll(ctx))
			case expand:
				out = expandedOutput(q, q.Records(ctx), opts)
			default:
				out = idsOutput(q)
			}

			return utils.WriteFormatted(cmd.OutOrStdout(), opts.format, out)
		},
	}

	cmd.Flags().BoolVar(&expand, "expand", false, "load and print every matching record")
	cmd.Flags().BoolVar(&remove, "delete", false, "delete every matching record")
	cmd.MarkFlagsMutuallyExclusive("expand", "delete")

	return cmd
}

func idsOutput(q *service.Query) *queryOutput {
	ids := q.IDs()
	if ids == nil {
		ids = []int64{}
	}
	return &queryOutput{
		Predicate: q.Predicate.String(),
		IDs:       ids,
		Count:     len(ids),
	}
}

func expandedOutput(q *service.Query, results []service.LoadResult, opts *outputOptions) *queryOutput {
	out := idsOutput(q)
	for _, r := range results {
		if r.Err != nil {
			out.Errors = append(out.Errors, itemError{ID: r.ID, Error: r.Err.Error()})
			continue
		}
		out.People = append(out.People, r.Record.View(opts.age, opts.genderLabel))
	}
	return out
}

func deleteOutputFrom(q *service.Query, report *service.DeleteReport) *deleteOutput {
	out := &deleteOutput{
		Predicate: q.Predicate.String(),
		Deleted:   report.Deleted,
		Count:     report.Count(),
		Summary:   report.Summary(),
	}
	if out.Deleted == nil {
		out.Deleted = []int64{}
	}
	for _, f := range report.Failed {
		out.Failed = append(out.Failed, itemError{ID: f.ID, Error: f.Err.Error()})
	}
	return out
}
