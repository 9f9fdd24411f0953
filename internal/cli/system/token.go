package system

import (
	"errors"
	"fmt"

	"github.com/focusfortress/fortress/internal/cli"
	"github.com/focusfortress/fortress/internal/keyring"
)

// TokenSetCmd stores the remote API token in the OS keyring.
type TokenSetCmd struct {
	Token string `arg:"" help:"API token for the remote fortress server."`
}

func (cmd *TokenSetCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetToken(cmd.Token); err != nil {
		return err
	}
	fmt.Println("✓ API token stored successfully in OS keyring")
	fmt.Println("  Remote backends now authenticate automatically")
	return nil
}

// TokenDeleteCmd removes the remote API token from the OS keyring.
type TokenDeleteCmd struct{}

func (cmd *TokenDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API token found in keyring")
		}
		return err
	}
	fmt.Println("✓ API token deleted from OS keyring")
	return nil
}

// TokenStatusCmd checks keyring availability and whether a token is stored.
type TokenStatusCmd struct{}

func (cmd *TokenStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	_, err := keyring.GetToken()
	switch {
	case err == nil:
		fmt.Println("✓ API token is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No API token stored in keyring")
	default:
		return err
	}
	return nil
}
