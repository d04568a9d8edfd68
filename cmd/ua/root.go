package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canonical/ubuntu-advantage-client/internal/apt"
	"github.com/canonical/ubuntu-advantage-client/internal/cloud"
	"github.com/canonical/ubuntu-advantage-client/internal/config"
	"github.com/canonical/ubuntu-advantage-client/internal/entitlement"
	"github.com/canonical/ubuntu-advantage-client/internal/lock"
	"github.com/canonical/ubuntu-advantage-client/internal/logging"
	"github.com/canonical/ubuntu-advantage-client/internal/messages"
	"github.com/canonical/ubuntu-advantage-client/internal/prompt"
	"github.com/canonical/ubuntu-advantage-client/internal/repo"
	"github.com/canonical/ubuntu-advantage-client/internal/system"
)

const (
	flagAssumeYes = "assume-yes"
	flagConfig    = "config"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	assumeYes  bool
	configPath string
}

// service is the entitlement engine as seen by the commands.
type service interface {
	Enable(ctx context.Context, name string) (entitlement.Outcome, error)
	Disable(ctx context.Context, name string) (entitlement.Outcome, error)
	ApplicationStatus(ctx context.Context, name string) (entitlement.ApplicationStatus, string, error)
}

var (
	newServiceFunc   = newService
	withLockFunc     = lock.WithLock
	platformInfoFunc = hostPlatformInfo
	geteuid          = os.Geteuid
	environ          = os.Environ
	fsRoot           = "/"
)

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)
	cmd.PersistentFlags().BoolVarP(&opts.assumeYes, flagAssumeYes, "y", false, messages.RootFlagAssumeYes)
	cmd.PersistentFlags().StringVar(&opts.configPath, flagConfig, "", messages.RootFlagConfig)

	cmd.AddCommand(
		newEnableCmd(opts),
		newDisableCmd(opts),
		newStatusCmd(opts),
	)
	return cmd
}

// newService loads configuration, initialises logging and wires the controller.
func newService(opts *rootOptions, stderr io.Writer) (service, *config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPaths(fsRoot).ConfigPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range cfg.ApplyFeatureOverrides(environ()) {
		_, _ = fmt.Fprintln(stderr, color.YellowString(warning))
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, FilePath: cfg.LogFile, Fallback: stderr})

	runner := apt.NewRunner()
	controller := entitlement.NewController(entitlement.Deps{
		Platform:   system.NewEvaluator(nil),
		Cloud:      cloud.NewDetector(nil),
		Packages:   runner,
		Repo:       repo.New(fsRoot, runner),
		Prompt:     prompt.NewConfirmer(),
		Services:   entitlement.NewLivepatchProbe(runner),
		Directives: cfg.Entitlement,
		Options:    entitlement.OptionsFromFlags(cfg),
		AssumeYes:  opts.assumeYes,
	})
	return controller, cfg, nil
}

func hostPlatformInfo(ctx context.Context) system.PlatformInfo {
	return system.NewEvaluator(nil).PlatformInfo(ctx)
}

// lookupDefinition resolves a service name given on the command line.
func lookupDefinition(name string) (entitlement.Definition, error) {
	def, ok := entitlement.Lookup(strings.TrimSpace(name))
	if !ok {
		return entitlement.Definition{}, fmt.Errorf(messages.RootUnknownNameFmt, name, strings.Join(entitlement.Names(), ", "))
	}
	return def, nil
}

func requireRoot() error {
	if geteuid() != 0 {
		return errors.New(messages.RootRequiresRoot)
	}
	return nil
}
