package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storeadmin/pkg/entity"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create a store and print its dashboard address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := a.catalog.Get(entity.KindStore)
			if err != nil {
				return err
			}
			path, err := a.form(cmd.Context(), def, "", false)
			if err != nil || path == "" {
				return err
			}
			fmt.Fprintf(a.out, "Dashboard: %s%s\n", strings.TrimRight(a.cfg.APIBase, "/"), path)
			return nil
		},
	}
}
