package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canonical/ubuntu-advantage-client/internal/entitlement"
	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

func newEnableCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.EnableUse,
		Short: messages.EnableShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupDefinition(args[0])
			if err != nil {
				return err
			}
			if err := requireRoot(); err != nil {
				return err
			}
			svc, cfg, err := newServiceFunc(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return withLockFunc(cfg.LockFile, "ua enable "+def.Name, func() error {
				_, _ = fmt.Fprintf(out, messages.EnableStartingFmt, def.Title)
				outcome, err := svc.Enable(cmd.Context(), def.Name)
				printWarnings(out, outcome.Warnings)
				if err != nil {
					return reportFailure(out, err)
				}
				_, _ = fmt.Fprint(out, color.GreenString(messages.EnableSucceededFmt, def.Title))
				if outcome.RebootRequired() {
					_, _ = fmt.Fprintf(out, messages.EnableRebootNoticeFmt, outcome.Message)
				}
				return nil
			})
		},
	}
}

func printWarnings(out io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprint(out, color.YellowString(messages.EnableWarningFmt, warning))
	}
}

// reportFailure prints expected refusals and converts them to a silent exit.
// Other errors are returned for runMain to print.
func reportFailure(out io.Writer, err error) error {
	var blocked *entitlement.BlockedError
	switch {
	case errors.As(err, &blocked):
		_, _ = fmt.Fprint(out, color.RedString(messages.EnableBlockedFmt, blocked.Reason))
	case errors.Is(err, entitlement.ErrNotEnabled):
		_, _ = fmt.Fprint(out, color.YellowString(messages.EnableBlockedFmt, err.Error()))
	case errors.Is(err, entitlement.ErrUserDeclined):
		_, _ = fmt.Fprint(out, color.YellowString(messages.EnableBlockedFmt, err.Error()))
	default:
		return err
	}
	return &SilentExitError{Code: 1}
}
