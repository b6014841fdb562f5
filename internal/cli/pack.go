package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bsave/internal/savefile"
)

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &codecFlags{}

	cmd := &cobra.Command{
		Use:   "pack <in.yaml> <out file>",
		Short: "Encode a YAML document into a binary save file",
		Long: `Encode a YAML document into a binary save file.

Mapping order in the YAML becomes record field order in the save. Integers
that fit 32 bits encode as int32; wider integers need --u64.

Example:
  bsave pack --compress player.yaml player.bsave`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read YAML file", err)
			}

			var doc yaml.Node
			if err := yaml.Unmarshal(raw, &doc); err != nil {
				return WrapExitError(ExitCommandError, "parse YAML", err)
			}

			v, err := valueFromYAML(&doc)
			if err != nil {
				return WrapExitError(ExitCommandError, "convert YAML to save tree", err)
			}

			if err := savefile.Write(args[1], v, opts); err != nil {
				return WrapExitError(ExitFailure, "write save file", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			return out.Success(fmt.Sprintf("packed %s -> %s", args[0], args[1]))
		},
	}

	flags.register(cmd)
	return cmd
}
