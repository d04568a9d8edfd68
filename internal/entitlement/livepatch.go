package entitlement

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog/log"
)

const livepatchCommand = "canonical-livepatch"

var lookPathFunc = exec.LookPath

// CommandRunner runs a command and returns its captured stdout.
type CommandRunner interface {
	Run(ctx context.Context, args []string, failureMsg string, env map[string]string) (string, error)
}

// LivepatchProbe reports on and disables the Livepatch client.
type LivepatchProbe struct {
	runner CommandRunner
}

// NewLivepatchProbe returns a ServiceProbe backed by canonical-livepatch.
func NewLivepatchProbe(runner CommandRunner) *LivepatchProbe {
	return &LivepatchProbe{runner: runner}
}

// Enabled reports whether the named service is installed and reports a healthy status.
func (p *LivepatchProbe) Enabled(ctx context.Context, name string) bool {
	if name != NameLivepatch {
		return false
	}
	if _, err := lookPathFunc(livepatchCommand); err != nil {
		return false
	}
	if _, err := p.runner.Run(ctx, []string{livepatchCommand, "status"}, "", nil); err != nil {
		log.Debug().Err(err).Msg("livepatch status failed")
		return false
	}
	return true
}

// Disable turns off the named service.
func (p *LivepatchProbe) Disable(ctx context.Context, name string) error {
	if name != NameLivepatch {
		return nil
	}
	_, err := p.runner.Run(ctx, []string{livepatchCommand, "disable"}, "", nil)
	return err
}
