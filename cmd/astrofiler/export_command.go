package main

import (
	"context"

	"github.com/spf13/cobra"

	"astrofiler/internal/archive"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the whole catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(cmd, func(_ context.Context, svc *archive.Service) error {
				return writeFormatted(cmd, format, svc.Snapshot())
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}
