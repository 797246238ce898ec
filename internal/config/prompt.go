package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// PromptPassword asks for the device password interactively without echo.
// It fails when stdin is not a terminal, so unattended runs must supply the
// password via flag, file, or JUNOS_PASSWORD.
func PromptPassword(ctx context.Context) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", errors.New("password not provided and stdin is not a terminal")
	}

	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Device password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("password cannot be empty")
					}
					return nil
				}),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}
	return password, nil
}
