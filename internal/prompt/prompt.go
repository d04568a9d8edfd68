// Package prompt asks the user to confirm entitlement changes.
package prompt

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
	"github.com/canonical/ubuntu-advantage-client/internal/terminal"
)

// ErrCancelled is returned when the user interrupts a prompt with Ctrl+C.
var ErrCancelled = errors.New(messages.PromptCancelled)

// yesNoSuffix is the legacy answer hint carried by prompt texts; huh renders its own buttons.
const yesNoSuffix = "(y/N)"

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// Confirmer renders yes/no prompts with huh.
type Confirmer struct {
	isTerminal func() bool
	ctrlCAbort bool
}

// NewConfirmer returns a Confirmer that requires an interactive terminal.
func NewConfirmer() *Confirmer {
	return &Confirmer{isTerminal: terminal.IsInteractive}
}

// Confirm asks the user to accept text. assumeYes answers yes without prompting.
// Esc declines; Ctrl+C returns ErrCancelled.
func (c *Confirmer) Confirm(text string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if err := c.ensureInteractive(); err != nil {
		return false, err
	}

	var accepted bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(displayText(text)).
			Affirmative("Yes").
			Negative("No").
			Value(&accepted),
	))
	c.ctrlCAbort = false
	form.WithKeyMap(confirmKeyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(c.formFilter()),
	)

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		if c.ctrlCAbort {
			return false, ErrCancelled
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return accepted, nil
}

func (c *Confirmer) ensureInteractive() error {
	checker := c.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	if checker() {
		return nil
	}
	return errors.New(messages.PromptRequiresTerminal)
}

// confirmKeyMap maps both Esc and Ctrl+C to abort; the filter tells them apart.
func confirmKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	km.Confirm.Prev = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "decline"))
	return km
}

// formFilter records Ctrl+C presses and turns interrupts into a graceful quit
// so the renderer clears the prompt.
func (c *Confirmer) formFilter() func(tea.Model, tea.Msg) tea.Msg {
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyCtrlC {
			c.ctrlCAbort = true
		}
		if _, ok := msg.(tea.InterruptMsg); ok {
			return tea.QuitMsg{}
		}
		return msg
	}
}

func displayText(text string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), yesNoSuffix))
}
