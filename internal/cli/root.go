package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nixpig/bindroot/internal/bindmount"
	"github.com/nixpig/bindroot/internal/logging"
	"github.com/nixpig/bindroot/internal/mounttable"
	"github.com/nixpig/bindroot/internal/validation"
	"github.com/spf13/cobra"
)

const long = `Bind mount TARGET from a mirror of it under BIND_ROOT.

The mirror (SOURCE) is BIND_ROOT joined with TARGET. If SOURCE doesn't exist it
is created with the same type as TARGET: an empty directory, or an empty file
with its parent directories. Mounting something already mounted and unmounting
something not mounted both succeed without doing anything.`

const example = `  Bind mount /etc/dir (TARGET) directory having the BIND_ROOT /overlay (SOURCE).
  The tool will create an empty directory /overlay/etc/dir (if not available)
  and bind mount /overlay/etc/dir in /etc/dir.

    bindroot --target /etc/dir --bind-root /overlay

  Bind mount /etc/file (TARGET) file having the BIND_ROOT /overlay (SOURCE).
  The tool will create an empty file /overlay/etc/file (if not available) and
  bind mount /overlay/etc/file in /etc/file.

    bindroot --target /etc/file --bind-root /overlay

  In case of shadowing (TARGET directory/file is not empty) the tool warns and
  proceeds with mount.

  Unmount /etc/dir again.

    bindroot --target /etc/dir --bind-root /overlay --command unmount`

func RootCmd() *cobra.Command {
	var logger *slog.Logger

	cmd := &cobra.Command{
		Use:          "bindroot --target TARGET --bind-root BIND_ROOT [--command mount|unmount]",
		Short:        "Idempotently bind mount a path from its mirror under a bind root.",
		Long:         long,
		Example:      example,
		Version:      "0.0.1",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logfile, _ := cmd.Flags().GetString("log")
			debug, _ := cmd.Flags().GetBool("debug")

			var err error
			logger, err = logging.NewLogger(logfile, debug)
			if err != nil {
				return fmt.Errorf("initialise logging: %w", err)
			}

			cmd.Root().SetErr(logging.NewErrorWriter(logger))

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("target")
			bindRoot, _ := cmd.Flags().GetString("bind-root")
			command, _ := cmd.Flags().GetString("command")
			mountTable, _ := cmd.Flags().GetString("mount-table")

			target, err := validation.Target(target)
			if err != nil {
				return fmt.Errorf("invalid target: %w", err)
			}

			if err := validation.BindRoot(bindRoot); err != nil {
				return fmt.Errorf("invalid bind root: %w", err)
			}

			c, err := bindmount.ParseCommand(command)
			if err != nil {
				return err
			}

			req, err := bindmount.NewRequest(target, bindRoot, c)
			if err != nil {
				return err
			}

			// From here failures are reported by the orchestrator.
			cmd.SilenceErrors = true

			_, err = bindmount.New(
				logger,
				bindmount.WithMountTable(&mounttable.Reader{Path: mountTable}),
			).Run(req)

			return err
		},
	}

	cmd.Flags().StringP("target", "t", "", "Path to bind mount over")
	cmd.Flags().StringP("bind-root", "b", "", "Root directory of the bind mount sources")
	cmd.Flags().StringP(
		"command",
		"c",
		bindmount.Mount.String(),
		fmt.Sprintf("Command to run (%s)", strings.Join(bindmount.Commands, "|")),
	)
	cmd.Flags().String("mount-table", mounttable.DefaultPath, "Mount table to check for existing mounts")

	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("bind-root")
	_ = cmd.Flags().MarkHidden("mount-table")
	_ = cmd.RegisterFlagCompletionFunc(
		"command",
		cobra.FixedCompletions(bindmount.Commands, cobra.ShellCompDirectiveNoFileComp),
	)

	cmd.PersistentFlags().StringP(
		"log",
		"l",
		"",
		"Destination to write logs (default is stderr)",
	)

	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	cmd.CompletionOptions.HiddenDefaultCmd = true

	return cmd
}
