package main

import (
	"github.com/deppfellow/peopledb/internal/lib/utils"
	"github.com/spf13/cobra"
)

func newDeleteCmd(opts *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one person and print the removed record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			people := a.services.People

			rec, err := people.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := people.Delete(cmd.Context(), rec); err != nil {
				return err
			}

			return utils.WriteFormatted(cmd.OutOrStdout(), opts.format, rec.View(opts.age, opts.genderLabel))
		},
	}
}
