// Command lox is the CLI entry point for the Lox interpreter.
//
// Usage:
//
//	lox run    <file>                   Run a source file
//	lox tokens <file> [--json|--repr]   Print tokens
//	lox parse  <file> [--json|--repr]   Print the AST as s-expressions
//	lox repl                            Start interactive REPL
//	lox --path <file>                   Run a file, or start the REPL without one
package main

import (
	"fmt"
	"log/slog"
	"os"

	"lox-lang/internal/config"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// Exit statuses follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65 // scan or parse fault
	exitSoftware = 70 // runtime fault
	exitIOErr    = 74
)

func main() {
	h := &host{stdout: os.Stdout, stderr: os.Stderr}
	app := newApp(h)
	if err := app.Run(os.Args); err != nil {
		h.reportHostError(err)
		os.Exit(1)
	}
}

func newApp(h *host) *cli.App {
	return &cli.App{
		Name:      "lox",
		Usage:     "tree-walking interpreter for the Lox language",
		Writer:    h.stdout,
		ErrWriter: h.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "source file to run; starts the REPL when omitted",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file",
				Value: config.DefaultPath,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "interpreter log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored diagnostics",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print stack traces for host errors",
			},
		},
		Before: h.setup,
		Action: func(c *cli.Context) error {
			if path := c.String("path"); path != "" {
				return h.runFile(path)
			}
			return h.repl()
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a source file",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					path, err := fileArg(c)
					if err != nil {
						return err
					}
					return h.runFile(path)
				},
			},
			{
				Name:      "tokens",
				Usage:     "print the tokens of a source file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print tokens as JSON"},
					&cli.BoolFlag{Name: "repr", Usage: "print tokens as Go values"},
				},
				Action: func(c *cli.Context) error {
					path, err := fileArg(c)
					if err != nil {
						return err
					}
					return h.tokens(path, outputMode(c))
				},
			},
			{
				Name:      "parse",
				Usage:     "print the syntax tree of a source file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the tree as JSON"},
					&cli.BoolFlag{Name: "repr", Usage: "print the tree as Go values"},
				},
				Action: func(c *cli.Context) error {
					path, err := fileArg(c)
					if err != nil {
						return err
					}
					return h.parse(path, outputMode(c))
				},
			},
			{
				Name:  "repl",
				Usage: "start an interactive session",
				Action: func(c *cli.Context) error {
					return h.repl()
				},
			},
		},
	}
}

func fileArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("usage: lox %s <file>", c.Command.Name), exitUsage)
	}
	return c.Args().First(), nil
}

// setup loads the config file and applies flag overrides.
func (h *host) setup(c *cli.Context) error {
	h.trace = c.Bool("trace")

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if c.Bool("no-color") {
		cfg.Color = false
	}
	level, err := cfg.Level()
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	h.cfg = cfg
	h.color = cfg.Color
	h.logger = slog.New(slog.NewTextHandler(h.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// reportHostError prints an error that is not a Lox fault.
func (h *host) reportHostError(err error) {
	if h.trace {
		fmt.Fprintln(h.stderr, tracerr.SprintSourceColor(tracerr.Wrap(err)))
		return
	}
	fmt.Fprintf(h.stderr, "error: %v\n", err)
}
