package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/canonical/ubuntu-advantage-client/internal/config"
	"github.com/canonical/ubuntu-advantage-client/internal/entitlement"
	"github.com/canonical/ubuntu-advantage-client/internal/messages"
	"github.com/canonical/ubuntu-advantage-client/internal/system"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, err := newServiceFunc(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			platform := platformInfoFunc(cmd.Context())

			var rows [][]string
			var notices []string
			for _, name := range entitlement.Names() {
				def, _ := entitlement.Lookup(name)
				status, msg, err := svc.ApplicationStatus(cmd.Context(), name)
				if err != nil {
					return err
				}
				state := entitlement.TriState(status, msg)
				if state == entitlement.StatusPending {
					notices = append(notices, fmt.Sprintf(messages.StatusNoticeRebootFmt, def.Title, msg, orUnknown(platform.Kernel)))
				}
				rows = append(rows, []string{def.Name, colorStatus(state), def.Description})
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, formatPlatform(platform))
			_, _ = fmt.Fprintln(out)
			printTable(out, []string{messages.StatusHeaderService, messages.StatusHeaderStatus, messages.StatusHeaderDescription}, rows)
			printSection(out, messages.StatusNoticeHeader, notices)
			printSection(out, messages.StatusFeaturesHeader, enabledFeatures(cfg))
			return nil
		},
	}
}

func formatPlatform(info system.PlatformInfo) string {
	return fmt.Sprintf(messages.StatusPlatformFmt, orUnknown(info.Release), info.Series, orUnknown(info.Arch), orUnknown(info.Kernel))
}

// enabledFeatures lists the feature switches turned on in cfg, in registry order.
func enabledFeatures(cfg *config.Config) []string {
	var lines []string
	for _, feature := range config.Features() {
		if cfg.FeatureEnabled(feature.Key) {
			lines = append(lines, fmt.Sprintf(messages.StatusFeatureFmt, feature.Key, feature.Description))
		}
	}
	return lines
}

func printSection(out io.Writer, header string, lines []string) {
	if len(lines) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, header)
	for _, line := range lines {
		_, _ = fmt.Fprintln(out, line)
	}
}

func orUnknown(value string) string {
	if value == "" {
		return messages.StatusUnknownValue
	}
	return value
}

func colorStatus(status entitlement.ApplicationStatus) string {
	switch status {
	case entitlement.StatusEnabled:
		return color.GreenString(status.String())
	case entitlement.StatusPending:
		return color.YellowString(status.String())
	default:
		return status.String()
	}
}

func printTable(writer io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
