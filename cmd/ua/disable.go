package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

func newDisableCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DisableUse,
		Short: messages.DisableShort,
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
			return withLockFunc(cfg.LockFile, "ua disable "+def.Name, func() error {
				_, _ = fmt.Fprintf(out, messages.DisableStartingFmt, def.Title)
				if _, err := svc.Disable(cmd.Context(), def.Name); err != nil {
					return reportFailure(out, err)
				}
				_, _ = fmt.Fprint(out, color.GreenString(messages.DisableSucceededFmt, def.Title))
				return nil
			})
		},
	}
}
