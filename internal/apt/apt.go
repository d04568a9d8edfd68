// Package apt runs package-manager commands and reads package state.
package apt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// NoninteractiveEnv suppresses debconf prompts for mutating commands.
var NoninteractiveEnv = map[string]string{"DEBIAN_FRONTEND": "noninteractive"}

// ConffileOptions keeps locally modified configuration files without prompting.
var ConffileOptions = []string{
	"-o", "Dpkg::Options::=--force-confdef",
	"-o", "Dpkg::Options::=--force-confold",
}

var execCommandContext = exec.CommandContext

// CommandFailedError reports a package-manager command that exited non-zero
// or could not be started.
type CommandFailedError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Message  string
	Err      error
}

func (e *CommandFailedError) Error() string {
	cmd := strings.Join(e.Args, " ")
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf(messages.AptCommandFailedFmt, cmd)
	}
	if e.ExitCode < 0 {
		return fmt.Sprintf(messages.AptCommandNotStartedFmt, msg, cmd, e.Err)
	}
	return fmt.Sprintf(messages.AptCommandFailedDetailFmt, msg, cmd, e.ExitCode, strings.TrimSpace(e.Stderr))
}

func (e *CommandFailedError) Unwrap() error {
	return e.Err
}

// Runner executes apt, apt-mark and dpkg-query.
type Runner struct{}

// NewRunner returns a Runner for the host package manager.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes args with env merged into the process environment and returns
// captured stdout. A non-zero exit returns a *CommandFailedError carrying
// failureMsg, the exit code and captured stderr.
func (r *Runner) Run(ctx context.Context, args []string, failureMsg string, env map[string]string) (string, error) {
	if len(args) == 0 {
		return "", errors.New(messages.AptPackagesRequired)
	}
	cmd := execCommandContext(ctx, args[0], args[1:]...)
	if len(env) > 0 {
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, envList(env)...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("args", args).Msg("running package command")
	if err := cmd.Run(); err != nil {
		failure := &CommandFailedError{
			Args:     append([]string(nil), args...),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Message:  failureMsg,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			failure.ExitCode = exitErr.ExitCode()
		}
		log.Debug().Err(err).Int("exit_code", failure.ExitCode).Str("stderr", failure.Stderr).Msg("package command failed")
		return stdout.String(), failure
	}
	return stdout.String(), nil
}

// InstalledPackages returns the names of the packages dpkg reports as
// installed. Removed packages that only left config files behind are skipped.
func (r *Runner) InstalledPackages(ctx context.Context) (map[string]struct{}, error) {
	out, err := r.Run(ctx, []string{"dpkg-query", "-W", "--showformat=${db:Status-Abbrev} ${Package}\\n"}, "", nil)
	if err != nil {
		return nil, fmt.Errorf(messages.AptInstalledQueryFmt, err)
	}
	installed := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || !isInstalledState(fields[0]) {
			continue
		}
		installed[fields[1]] = struct{}{}
	}
	return installed, nil
}

// isInstalledState reports whether a dpkg status abbreviation such as "ii" or
// "hi" describes an installed package. The second letter is the current state.
func isInstalledState(abbrev string) bool {
	return len(abbrev) >= 2 && abbrev[1] == 'i'
}

// ShowHolds returns the packages currently marked held.
func (r *Runner) ShowHolds(ctx context.Context) ([]string, error) {
	args := []string{"apt-mark", "showholds"}
	out, err := r.Run(ctx, args, fmt.Sprintf(messages.AptCommandFailedFmt, strings.Join(args, " ")), nil)
	if err != nil {
		return nil, err
	}
	var holds []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			holds = append(holds, name)
		}
	}
	return holds, nil
}

// Unhold clears the hold marker on pkgs.
func (r *Runner) Unhold(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"apt-mark", "unhold"}, pkgs...)
	_, err := r.Run(ctx, args, fmt.Sprintf(messages.AptCommandFailedFmt, strings.Join(args, " ")), NoninteractiveEnv)
	return err
}

// Install installs pkgs non-interactively, keeping existing conffiles.
func (r *Runner) Install(ctx context.Context, pkgs []string, failureMsg string) error {
	if len(pkgs) == 0 {
		return errors.New(messages.AptPackagesRequired)
	}
	args := []string{"apt-get", "install", "--assume-yes", "--allow-downgrades"}
	args = append(args, ConffileOptions...)
	args = append(args, pkgs...)
	_, err := r.Run(ctx, args, failureMsg, NoninteractiveEnv)
	return err
}

// Remove removes pkgs non-interactively, keeping existing conffiles.
func (r *Runner) Remove(ctx context.Context, pkgs []string, failureMsg string) error {
	if len(pkgs) == 0 {
		return errors.New(messages.AptPackagesRequired)
	}
	args := []string{"apt-get", "remove", "--assume-yes"}
	args = append(args, ConffileOptions...)
	args = append(args, pkgs...)
	_, err := r.Run(ctx, args, failureMsg, NoninteractiveEnv)
	return err
}

// Update refreshes the package index.
func (r *Runner) Update(ctx context.Context) error {
	_, err := r.Run(ctx, []string{"apt-get", "update"}, messages.AptUpdateFailed, NoninteractiveEnv)
	return err
}

// PolicyContains reports whether apt-cache policy lists a source at the
// repository base url. The url must be followed by "/ubuntu " so that a
// sibling repository sharing the prefix does not match.
func (r *Runner) PolicyContains(ctx context.Context, url string) (bool, error) {
	out, err := r.Run(ctx, []string{"apt-cache", "policy"}, messages.AptPolicyFailed, nil)
	if err != nil {
		return false, err
	}
	return strings.Contains(out, strings.TrimRight(url, "/")+"/ubuntu "), nil
}

// envList renders env as KEY=VALUE pairs in a stable order.
func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
