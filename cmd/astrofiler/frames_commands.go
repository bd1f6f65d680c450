package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"astrofiler/internal/archive"
	"astrofiler/internal/equipment"
	"astrofiler/internal/frames"
	"astrofiler/internal/importer"
	"astrofiler/internal/pattern"
)

func newFramesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Manage catalogued frames",
	}
	cmd.AddCommand(newFramesAddCommand(ctx))
	cmd.AddCommand(newFramesListCommand(ctx))
	cmd.AddCommand(newFramesShowCommand(ctx))
	cmd.AddCommand(newFramesRemoveCommand(ctx))
	cmd.AddCommand(newFramesQueueCommand(ctx))
	return cmd
}

type frameFlags struct {
	camera      string
	gain        int
	totalSubs   int
	date        string
	target      string
	filter      string
	telescope   string
	flattener   string
	mount       string
	location    string
	subLength   float64
	seeing      float64
	temperature float64
	cameraTemp  float64
	notes       string
}

func (f *frameFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.camera, "camera", "", "Camera id or name")
	flags.IntVar(&f.gain, "gain", 0, "Sensor gain")
	flags.IntVar(&f.totalSubs, "total-subs", 0, "Number of sub-exposures")
	flags.StringVar(&f.date, "date", "", "Capture date (YYYY-MM-DD; light and flat)")
	flags.StringVar(&f.target, "target", "", "Target name (light)")
	flags.StringVar(&f.filter, "filter", "", "Filter id or name (light and flat)")
	flags.StringVar(&f.telescope, "telescope", "", "Telescope id or name (light)")
	flags.StringVar(&f.flattener, "flattener", "", "Flattener or reducer id or name (light)")
	flags.StringVar(&f.mount, "mount", "", "Mount id or name (light)")
	flags.StringVar(&f.location, "location", "", "Location id or name (light)")
	flags.Float64Var(&f.subLength, "sub-length", 0, "Sub-exposure length in seconds (light and dark)")
	flags.Float64Var(&f.seeing, "seeing", 0, "Seeing in arcseconds (light)")
	flags.Float64Var(&f.temperature, "temperature", 0, "Ambient temperature in °C (light)")
	flags.Float64Var(&f.cameraTemp, "camera-temp", 0, "Sensor temperature in °C (dark)")
	flags.StringVar(&f.notes, "notes", "", "Free-text notes (light)")
}

// build fills a new frame of kind from the flags, resolving equipment names.
func (f *frameFlags) build(kind frames.Kind, dir *equipment.Directory) (frames.Frame, error) {
	frame, err := frames.New(kind)
	if err != nil {
		return nil, err
	}
	ref := func(k equipment.Kind, value string) (string, error) {
		if strings.TrimSpace(value) == "" {
			return "", nil
		}
		id, ok := dir.Resolve(k, value)
		if !ok {
			return "", fmt.Errorf("no %s named %q; add it with `astrofiler equipment add %s`", k, value, k)
		}
		return id, nil
	}
	date, err := frames.ParseDate(f.date)
	if err != nil {
		return nil, err
	}

	base := frame.Base()
	if base.CameraID, err = ref(equipment.KindCamera, f.camera); err != nil {
		return nil, err
	}
	base.Gain = f.gain
	base.TotalSubs = f.totalSubs

	switch fr := frame.(type) {
	case *frames.LightFrame:
		fr.Date = date
		fr.Target = strings.TrimSpace(f.target)
		fr.SubLength = f.subLength
		fr.Seeing = f.seeing
		fr.Temperature = f.temperature
		fr.Notes = f.notes
		refs := []struct {
			kind  equipment.Kind
			value string
			dst   *string
		}{
			{equipment.KindFilter, f.filter, &fr.FilterID},
			{equipment.KindTelescope, f.telescope, &fr.TelescopeID},
			{equipment.KindFlattener, f.flattener, &fr.FlattenerID},
			{equipment.KindMount, f.mount, &fr.MountID},
			{equipment.KindLocation, f.location, &fr.LocationID},
		}
		for _, r := range refs {
			if *r.dst, err = ref(r.kind, r.value); err != nil {
				return nil, err
			}
		}
	case *frames.DarkFrame:
		fr.CameraTemp = f.cameraTemp
		fr.SubLength = f.subLength
	case *frames.FlatFrame:
		fr.Date = date
		if fr.FilterID, err = ref(equipment.KindFilter, f.filter); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

func newFramesAddCommand(ctx *commandContext) *cobra.Command {
	var flags frameFlags
	cmd := &cobra.Command{
		Use:   "add <light|dark|bias|flat>",
		Short: "Add a frame to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := frames.ParseKind(args[0])
			if err != nil {
				return err
			}
			dir, err := ctx.loadDirectory(cmd)
			if err != nil {
				return err
			}
			frame, err := flags.build(kind, dir)
			if err != nil {
				return err
			}
			return ctx.withArchive(cmd, func(c context.Context, svc *archive.Service) error {
				if err := svc.AddFrame(c, frame); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s frame %s\n", kind, frame.FrameID())
				return nil
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newFramesListCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			var only frames.Kind
			if strings.TrimSpace(kindFlag) != "" {
				kind, err := frames.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				only = kind
			}
			return ctx.withArchive(cmd, func(_ context.Context, svc *archive.Service) error {
				all := svc.Frames()
				selected := make([]frames.Frame, 0, len(all))
				for _, f := range all {
					if only == "" || f.Kind() == only {
						selected = append(selected, f)
					}
				}
				if jsonOutput {
					return writeJSON(cmd, frameViews(selected))
				}
				out := cmd.OutOrStdout()
				if len(selected) == 0 {
					fmt.Fprintln(out, "No frames catalogued")
					return nil
				}
				eq := svc.Equipment()
				rows := make([][]string, 0, len(selected))
				for _, f := range selected {
					rows = append(rows, []string{
						f.FrameID(),
						f.Kind().Title(),
						frameSummary(f, eq),
						fmt.Sprintf("%d", len(f.Base().FramesToClassify)),
						fmt.Sprintf("%d", len(f.Base().FramesClassified)),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Kind", "Summary", "Queued", "Classified"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only list one kind")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newFramesShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one frame and where it would be classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(cmd, func(_ context.Context, svc *archive.Service) error {
				frame, err := svc.Frame(args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, frameView{Kind: frame.Kind(), Frame: frame})
				}
				dest, err := svc.Destination(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				base := frame.Base()
				fmt.Fprintf(out, "ID:          %s\n", frame.FrameID())
				fmt.Fprintf(out, "Kind:        %s\n", frame.Kind().Title())
				fmt.Fprintf(out, "Summary:     %s\n", frameSummary(frame, svc.Equipment()))
				fmt.Fprintf(out, "Destination: %s\n", dest)
				_, sessionCapable := frame.(frames.SessionFrame)
				fmt.Fprintf(out, "Sessions:    %s\n", yesNo(sessionCapable))
				fmt.Fprintf(out, "Queued:      %d\n", len(base.FramesToClassify))
				for _, p := range base.FramesToClassify {
					fmt.Fprintf(out, "  %s\n", p)
				}
				fmt.Fprintf(out, "Classified:  %d\n", len(base.FramesClassified))
				for _, p := range base.FramesClassified {
					fmt.Fprintf(out, "  %s\n", p)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newFramesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a frame from the catalog (archived files are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(cmd, func(c context.Context, svc *archive.Service) error {
				if err := svc.RemoveFrame(c, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed frame %s\n", args[0])
				return nil
			})
		},
	}
}

func newFramesQueueCommand(ctx *commandContext) *cobra.Command {
	var fromDir string
	var globPattern string
	cmd := &cobra.Command{
		Use:   "queue <id> [files...]",
		Short: "Queue raw capture files on a frame",
		Long: "Queue raw capture files on a frame. Pass files directly, or use --from to scan a\n" +
			"capture directory with classify.import_pattern (override with --pattern).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var paths []string
			for _, arg := range args[1:] {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", arg, err)
				}
				paths = append(paths, abs)
			}
			if strings.TrimSpace(fromDir) != "" {
				glob := globPattern
				if strings.TrimSpace(glob) == "" {
					glob = cfg.Classify.ImportPattern
				}
				scanned, err := importer.Scan(fromDir, glob)
				if err != nil {
					return err
				}
				paths = append(paths, scanned...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files to queue; pass file paths or --from <dir>")
			}
			return ctx.withArchive(cmd, func(c context.Context, svc *archive.Service) error {
				added, err := svc.QueueFiles(c, args[0], paths)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d of %d files on frame %s\n", added, len(paths), args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fromDir, "from", "", "Capture directory to scan")
	cmd.Flags().StringVar(&globPattern, "pattern", "", "Glob used with --from (doublestar syntax)")
	return cmd
}

type frameView struct {
	Kind  frames.Kind  `json:"kind"`
	Frame frames.Frame `json:"frame"`
}

func frameViews(list []frames.Frame) []frameView {
	views := make([]frameView, 0, len(list))
	for _, f := range list {
		views = append(views, frameView{Kind: f.Kind(), Frame: f})
	}
	return views
}

func frameSummary(f frames.Frame, eq equipment.Resolver) string {
	switch fr := f.(type) {
	case *frames.LightFrame:
		return fmt.Sprintf("%s %s %s %ss",
			pattern.Text(fr.Target),
			pattern.FormatDate(fr.Date),
			eq.Name(equipment.KindFilter, fr.FilterID),
			pattern.FormatFloat(fr.SubLength))
	case *frames.DarkFrame:
		return fmt.Sprintf("%s %s°C %ss",
			eq.Name(equipment.KindCamera, fr.CameraID),
			pattern.FormatFloat(fr.CameraTemp),
			pattern.FormatFloat(fr.SubLength))
	case *frames.FlatFrame:
		return fmt.Sprintf("%s %s",
			pattern.FormatDate(fr.Date),
			eq.Name(equipment.KindFilter, fr.FilterID))
	case *frames.BiasFrame:
		return fmt.Sprintf("%s gain %d",
			eq.Name(equipment.KindCamera, fr.CameraID),
			fr.Gain)
	}
	return ""
}
