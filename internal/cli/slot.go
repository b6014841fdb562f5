package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bsave/internal/slotstore"
)

// NewSlotCommand creates the slot command group for the save-slot catalog.
func NewSlotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Manage a save-slot catalog",
		Long: `Manage a save-slot catalog.

The catalog is a SQLite database holding named, opaque save buffers. Slots
store whatever bytes they are given - typically the output of pack.`,
	}

	cmd.AddCommand(newSlotPutCommand(rootOpts))
	cmd.AddCommand(newSlotGetCommand(rootOpts))
	cmd.AddCommand(newSlotListCommand(rootOpts))
	cmd.AddCommand(newSlotRmCommand(rootOpts))
	return cmd
}

func newSlotPutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "put <catalog.db> <name> <file>",
		Short:         "Store a save file under a slot name",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[2])
			if err != nil {
				return WrapExitError(ExitCommandError, "read save file", err)
			}

			store, err := slotstore.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "open catalog", err)
			}
			defer store.Close()

			if err := store.Put(cmd.Context(), args[1], data); err != nil {
				return WrapExitError(ExitCommandError, "store slot", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			return out.Success(fmt.Sprintf("stored %s (%d bytes) as slot %q", args[2], len(data), args[1]))
		},
	}
}

func newSlotGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <catalog.db> <name> <out file>",
		Short:         "Extract a slot's save buffer to a file",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := slotstore.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "open catalog", err)
			}
			defer store.Close()

			data, err := store.Get(cmd.Context(), args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "get slot", err)
			}

			if err := os.WriteFile(args[2], data, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write output file", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			return out.Success(fmt.Sprintf("extracted slot %q to %s (%d bytes)", args[1], args[2], len(data)))
		},
	}
}

func newSlotListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list <catalog.db>",
		Short:         "List catalog slots in write order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := slotstore.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "open catalog", err)
			}
			defer store.Close()

			slots, err := store.List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "list slots", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(slots)
			}
			for _, s := range slots {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %8d bytes  seq=%d\n", s.Name, s.ByteSize, s.Seq)
			}
			return nil
		},
	}
}

func newSlotRmCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <catalog.db> <name>",
		Short:         "Delete a slot from the catalog",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := slotstore.Open(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "open catalog", err)
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[1]); err != nil {
				return WrapExitError(ExitCommandError, "delete slot", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			return out.Success(fmt.Sprintf("deleted slot %q", args[1]))
		},
	}
}
