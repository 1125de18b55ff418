package main

import (
	"github.com/deppfellow/peopledb/internal/lib/utils"
	"github.com/spf13/cobra"
)

func newPersonCmd(opts *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "person <id> [name surname birth_date gender birth_city]",
		Short: "Load a person by id, or create one from all six fields",
		Long: `With one argument, load the person with that id.

With six arguments, validate every field and store a new person. The
fields are, in order: id, name, surname, birth_date (yyyy-mm-dd),
gender (0 male, 1 female) and birth_city. Every invalid field is
reported at once and nothing is stored.`,
		Example: `  peopledb person 1 --age --gender-label
  peopledb person 1 Ivan Krause 1990-05-10 0 Moscow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.services.People.FromArgs(cmd.Context(), args...)
			if err != nil {
				return err
			}

			return utils.WriteFormatted(cmd.OutOrStdout(), opts.format, rec.View(opts.age, opts.genderLabel))
		},
	}
}
