package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bsave/internal/savefile"
)

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &codecFlags{}

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Decode a save file and print it as YAML",
		Long: `Decode a save file and print it as YAML.

Record field order is preserved in the output - it is part of the save's
identity. Pass the same --compress/--compression/--u64/--realint flags the
file was written with.

Example:
  bsave dump --compress player.bsave`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}

			v, err := savefile.Read(args[0], opts)
			if err != nil {
				return WrapExitError(ExitFailure, "read save file", err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(valueToYAML(v)); err != nil {
				return WrapExitError(ExitCommandError, "encode YAML", err)
			}
			return enc.Close()
		},
	}

	flags.register(cmd)
	return cmd
}
