package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bsave/internal/savefile"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &codecFlags{}

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Round-trip a save file and check structural equality",
		Long: `Round-trip a save file and check structural equality.

Decodes the file, re-encodes the result, decodes that, and compares the
two trees with the structural comparator. A mismatch means the file
exercises a codec defect or was produced by an incompatible writer.

Exit codes: 0 verified, 1 mismatch or corrupt file, 2 command error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}

			first, err := savefile.Read(args[0], opts)
			if err != nil {
				out.Error("DECODE", "save file failed to decode", err.Error())
				return WrapExitError(ExitFailure, "read save file", err)
			}

			wh, err := savefile.BeginWrite(first, opts)
			if err != nil {
				out.Error("REENCODE", "decoded tree failed to re-encode", err.Error())
				return WrapExitError(ExitFailure, "re-encode save tree", err)
			}

			rh, err := savefile.BeginRead(args[0], opts)
			if err != nil {
				return WrapExitError(ExitCommandError, "prepare re-read", err)
			}
			second, err := savefile.FinishRead(rh, wh.Bytes())
			if err != nil {
				out.Error("REDECODE", "re-encoded buffer failed to decode", err.Error())
				return WrapExitError(ExitFailure, "decode re-encoded buffer", err)
			}

			if !savefile.DeepEqual(first, second, opts) {
				out.Error("MISMATCH", "round-trip produced a different tree", nil)
				return WrapExitError(ExitFailure, "round-trip mismatch", nil)
			}

			return out.Success(fmt.Sprintf("verified %s (%d bytes re-encoded)", args[0], len(wh.Bytes())))
		},
	}

	flags.register(cmd)
	return cmd
}
