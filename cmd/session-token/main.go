package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"studio/internal/auth"
	"studio/pkg/sealer"

	"github.com/urfave/cli/v2"
)

const defaultTTL = 24 * time.Hour

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	keyFlag := &cli.StringFlag{
		Name:     "key",
		Usage:    "base64 encoded 32-byte session key",
		EnvVars:  []string{"SESSION_KEY"},
		Required: true,
	}

	return &cli.App{
		Name:  "session-token",
		Usage: "mint and inspect bookings API session tokens",
		Commands: []*cli.Command{
			{
				Name:   "generate-key",
				Usage:  "print a new random session key",
				Action: generateKey,
			},
			{
				Name:  "issue",
				Usage: "issue a token for a user",
				Flags: []cli.Flag{
					keyFlag,
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "user id", Required: true},
					&cli.StringSliceFlag{Name: "role", Aliases: []string{"r"}, Usage: "role to grant (repeatable)"},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: defaultTTL},
				},
				Action: issue,
			},
			{
				Name:      "inspect",
				Usage:     "open a token and print its principal",
				ArgsUsage: "<token>",
				Flags:     []cli.Flag{keyFlag},
				Action:    inspect,
			},
		},
	}
}

func generateKey(c *cli.Context) error {
	key, err := sealer.GenerateKey()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, key)
	return err
}

func issue(c *cli.Context) error {
	tokens, err := auth.NewTokensFromKey(c.String("key"))
	if err != nil {
		return err
	}

	token, err := tokens.Issue(auth.Principal{
		UserID: c.String("user"),
		Roles:  c.StringSlice("role"),
	}, c.Duration("ttl"))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, token)
	return err
}

func inspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one token argument, got %d", c.NArg())
	}

	tokens, err := auth.NewTokensFromKey(c.String("key"))
	if err != nil {
		return err
	}

	p, expiresAt, err := tokens.Parse(c.Args().First())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "user:    %s\nroles:   %s\nexpires: %s\n",
		p.UserID, strings.Join(p.Roles, ","), expiresAt.Format(time.RFC3339))
	return err
}
