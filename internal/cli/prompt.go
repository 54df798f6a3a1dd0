package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mygroup/apphub/internal/client/session"
)

// Prompter asks the user for input.
type Prompter interface {
	Credentials(username string) (session.Credentials, error)
	Confirm(message string) (bool, error)
}

type huhPrompter struct{}

func (huhPrompter) Credentials(username string) (session.Credentials, error) {
	creds := session.Credentials{Username: username}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&creds.Username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("username is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password),
	))
	if err := form.Run(); err != nil {
		return session.Credentials{}, fmt.Errorf("prompt failed: %w", err)
	}
	return creds, nil
}

func (huhPrompter) Confirm(message string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(message).Value(&ok)))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}
