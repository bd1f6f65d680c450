package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"astrofiler/internal/archive"
	"astrofiler/internal/faults"
	"astrofiler/internal/progress"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var session string
	var progressMode string
	cmd := &cobra.Command{
		Use:   "classify <id>",
		Short: "Copy a frame's queued files into the archive",
		Long: "Copy every queued file of a frame into the archive and record it in the catalog.\n" +
			"With --session, files go into an existing imaging-session folder instead of the\n" +
			"configured naming pattern (not available for bias frames).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			mode := strings.ToLower(strings.TrimSpace(progressMode))
			var observer progress.Observer
			switch mode {
			case "", "log":
				observer = progress.LogObserver(logger)
			case "json":
				observer = progress.JSONObserver(cmd.OutOrStdout())
			case "none":
				observer = progress.Nop
			default:
				return fmt.Errorf("unsupported --progress %q (use log, json, or none)", progressMode)
			}

			id := args[0]
			return ctx.withArchive(cmd, func(c context.Context, svc *archive.Service) error {
				c = faults.WithRequestID(c, uuid.NewString())
				if strings.TrimSpace(session) != "" {
					err = svc.ClassifyIntoSession(c, id, session, observer)
				} else {
					err = svc.ClassifyFrame(c, id, observer)
				}
				if err != nil {
					return err
				}
				if mode != "json" {
					frame, ferr := svc.Frame(id)
					if ferr == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "Classified frame %s: %d files archived, %d queued\n",
							id, len(frame.Base().FramesClassified), len(frame.Base().FramesToClassify))
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Existing session folder to classify into")
	cmd.Flags().StringVar(&progressMode, "progress", "log", "Progress output: log, json, or none")
	return cmd
}
