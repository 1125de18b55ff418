package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/peopledb/internal/lib/utils"
	"github.com/spf13/cobra"
)

// outputOptions are the persistent flags shared by every data command.
type outputOptions struct {
	format      string
	age         bool
	genderLabel bool
}

func newRootCmd() *cobra.Command {
	opts := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "peopledb",
		Short: "peopledb - person records backed by one relational table",
		Long: `peopledb validates, stores, looks up and deletes person records.

A record has six fields: id, name, surname, birth_date, gender and
birth_city. Records can be selected by one "field operator value"
predicate, where the operator is one of <, > or <>.

The store is PostgreSQL or SQLite, selected with PEOPLEDB_DATABASE.DRIVER.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case utils.FormatJSON, utils.FormatYAML:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (want json or yaml)", opts.format)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.format, "output", "o", utils.FormatJSON, "output format (json, yaml)")
	cmd.PersistentFlags().BoolVar(&opts.age, "age", false, "include the computed age")
	cmd.PersistentFlags().BoolVar(&opts.genderLabel, "gender-label", false, "include the gender label")

	cmd.AddCommand(
		newServeCmd(),
		newPersonCmd(opts),
		newDeleteCmd(opts),
		newQueryCmd(opts),
	)

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
