package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"astrofiler/internal/equipment"
)

func newEquipmentCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "equipment",
		Aliases: []string{"eq"},
		Short:   "Manage cameras, telescopes, filters, and other equipment",
	}
	cmd.AddCommand(newEquipmentAddCommand(ctx))
	cmd.AddCommand(newEquipmentListCommand(ctx))
	cmd.AddCommand(newEquipmentRemoveCommand(ctx))
	return cmd
}

func newEquipmentAddCommand(ctx *commandContext) *cobra.Command {
	var detail string
	cmd := &cobra.Command{
		Use:   "add <kind> <name>",
		Short: "Record a piece of equipment",
		Long: "Record a piece of equipment. Kinds: camera, telescope, filter, flattener, mount, location.\n" +
			"For filters, --detail sets the filter type used by the {FILTERTYPE} token.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := equipment.ParseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withEquipment(cmd, func(store *equipment.Store) error {
				item, err := store.Add(cmd.Context(), equipment.Item{Kind: kind, Name: args[1], Detail: detail})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s)\n", item.Kind, item.Name, item.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&detail, "detail", "", "Kind-specific detail (filter type for filters)")
	return cmd
}

func newEquipmentListCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var kinds []equipment.Kind
			if strings.TrimSpace(kindFlag) != "" {
				kind, err := equipment.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				kinds = append(kinds, kind)
			}
			return ctx.withEquipment(cmd, func(store *equipment.Store) error {
				items, err := store.List(cmd.Context(), kinds...)
				if err != nil {
					return err
				}
				if jsonOutput {
					if items == nil {
						items = []equipment.Item{}
					}
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No equipment recorded")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{string(item.Kind), item.Name, item.Detail, item.ID})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Kind", "Name", "Detail", "ID"}, rows, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only list one kind")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newEquipmentRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an equipment record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEquipment(cmd, func(store *equipment.Store) error {
				if err := store.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed equipment %s\n", args[0])
				return nil
			})
		},
	}
}
