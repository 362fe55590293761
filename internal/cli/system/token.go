package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitheat/internal/cli"
	"github.com/julianstephens/habitheat/internal/keyring"
)

type TokenCmd struct {
	Set   TokenSetCmd   `cmd:"" help:"Store the app token."`
	Show  TokenShowCmd  `cmd:"" help:"Show whether an app token is stored."`
	Clear TokenClearCmd `cmd:"" help:"Remove the app token."`
}

type TokenSetCmd struct {
	Token string `arg:"" help:"Token value."`
}

// Run stores the token in the OS keyring when one responds, otherwise in the
// meta row so the token survives on headless systems too.
func (c *TokenSetCmd) Run(ctx *cli.Context) error {
	if keyring.IsAvailable() {
		if err := keyring.SetToken(c.Token); err != nil {
			return err
		}
		fmt.Println("✓ App token stored in OS keyring.")
		return nil
	}

	meta, err := ctx.Store.GetMeta()
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	meta.AppToken = c.Token
	if err := ctx.Store.PutMeta(meta); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	fmt.Println("✓ App token stored in database (keyring unavailable).")
	return nil
}

type TokenShowCmd struct{}

func (c *TokenShowCmd) Run(ctx *cli.Context) error {
	if _, err := keyring.GetToken(); err == nil {
		fmt.Println("App token present (OS keyring).")
		return nil
	} else if !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
		return err
	}

	meta, err := ctx.Store.GetMeta()
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	if meta.AppToken != "" {
		fmt.Println("App token present (database fallback).")
		return nil
	}
	fmt.Println("No app token stored.")
	return nil
}

type TokenClearCmd struct{}

func (c *TokenClearCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
		return err
	}

	meta, err := ctx.Store.GetMeta()
	if err != nil {
		return fmt.Errorf("failed to load metadata: %w", err)
	}
	if meta.AppToken != "" {
		meta.AppToken = ""
		if err := ctx.Store.PutMeta(meta); err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}
	}
	fmt.Println("✓ App token cleared.")
	return nil
}
