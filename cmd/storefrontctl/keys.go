package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/gorilla/securecookie"
	"github.com/urfave/cli/v3"

	"github.com/angelmondragon/storefront-backend/pkg/config"
)

func keysCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate-keys",
		Usage: "print fresh session and JWT keys for the environment file",
		Action: func(ctx context.Context, c *cli.Command) error {
			return writeKeys(c.Root().Writer)
		},
	}
}

// writeKeys prints hex encoded keys. The 16 random bytes of the encryption key
// encode to the 32 characters AES-256 expects.
func writeKeys(w io.Writer) error {
	auth := securecookie.GenerateRandomKey(32)
	enc := securecookie.GenerateRandomKey(16)
	jwt := securecookie.GenerateRandomKey(32)
	if auth == nil || enc == nil || jwt == nil {
		return errors.New("random source unavailable")
	}
	_, err := fmt.Fprintf(w, "%s=%s\n%s=%s\n%s=%s\n",
		config.EnvSessionAuthKey, hex.EncodeToString(auth),
		config.EnvSessionEncryptKey, hex.EncodeToString(enc),
		config.EnvJWTSecret, hex.EncodeToString(jwt),
	)
	return err
}
