package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lox-lang/internal/ast"
	"lox-lang/internal/config"
	"lox-lang/internal/diag"
	"lox-lang/internal/lexer"
	"lox-lang/internal/parser"
	"lox-lang/internal/runtime"

	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

// host drives the scan, parse and run pipeline for the CLI and REPL.
type host struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
	color  bool
	trace  bool
}

func (h *host) newInterpreter(out io.Writer) *runtime.Interpreter {
	return runtime.NewInterpreter(out, runtime.WithLogger(h.logger))
}

func (h *host) renderer(source string) *diag.Renderer {
	r := diag.NewRenderer(source)
	r.Color = h.color
	return r
}

func readSource(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", tracerr.Wrap(fmt.Errorf("cannot read file %s: %w", path, err))
	}
	return string(source), nil
}

// sourceError turns a failed read into the I/O exit status. With --trace
// the wrapped stack is printed instead of the bare message.
func (h *host) sourceError(err error) error {
	if h.trace {
		h.reportHostError(err)
		return cli.Exit("", exitIOErr)
	}
	return cli.Exit(err.Error(), exitIOErr)
}

// ---- run ----

func (h *host) runFile(path string) error {
	source, err := readSource(path)
	if err != nil {
		return h.sourceError(err)
	}
	if status := h.execute(h.newInterpreter(h.stdout), source); status != exitOK {
		return cli.Exit("", status)
	}
	return nil
}

// execute scans, parses and runs source on interp, rendering any faults to
// stderr. It returns the process exit status for the outcome.
func (h *host) execute(interp *runtime.Interpreter, source string) int {
	r := h.renderer(source)

	tokens, diags := lexer.New(source).Tokenize()
	if len(diags) > 0 {
		r.RenderAll(h.stderr, diags)
		return exitDataErr
	}

	file, diags := parser.New(tokens).ParseFile()
	if len(diags) > 0 {
		r.RenderAll(h.stderr, diags)
		return exitDataErr
	}

	if err := interp.Run(file.Body); err != nil {
		var rerr *runtime.RuntimeError
		if errors.As(err, &rerr) {
			r.Render(h.stderr, rerr.Diagnostic())
		} else {
			h.reportHostError(err)
		}
		return exitSoftware
	}
	return exitOK
}

// ---- tokens ----

type dumpMode int

const (
	dumpText dumpMode = iota
	dumpJSON
	dumpRepr
)

func outputMode(c *cli.Context) dumpMode {
	switch {
	case c.Bool("json"):
		return dumpJSON
	case c.Bool("repr"):
		return dumpRepr
	default:
		return dumpText
	}
}

func (h *host) tokens(path string, mode dumpMode) error {
	source, err := readSource(path)
	if err != nil {
		return h.sourceError(err)
	}
	tokens, diags := lexer.New(source).Tokenize()

	switch mode {
	case dumpJSON:
		err = printJSON(h.stdout, map[string]interface{}{
			"tokens":      tokensToSlice(tokens),
			"diagnostics": diagsToSlice(diags),
		})
	case dumpRepr:
		printRepr(h.stdout, tokens)
	default:
		printTokensText(h.stdout, tokens)
	}
	if err != nil {
		return err
	}

	if len(diags) > 0 {
		if mode != dumpJSON {
			h.renderer(source).RenderAll(h.stderr, diags)
		}
		return cli.Exit("", exitDataErr)
	}
	return nil
}

// ---- parse ----

func (h *host) parse(path string, mode dumpMode) error {
	source, err := readSource(path)
	if err != nil {
		return h.sourceError(err)
	}
	tokens, diags := lexer.New(source).Tokenize()
	var file *ast.File
	if len(diags) == 0 {
		file, diags = parser.New(tokens).ParseFile()
	}

	// A program with faults has no tree; only the faults are shown.
	if len(diags) > 0 {
		if mode == dumpJSON {
			if err := printJSON(h.stdout, map[string]interface{}{"diagnostics": diagsToSlice(diags)}); err != nil {
				return err
			}
		} else {
			h.renderer(source).RenderAll(h.stderr, diags)
		}
		return cli.Exit("", exitDataErr)
	}

	switch mode {
	case dumpJSON:
		return printJSON(h.stdout, map[string]interface{}{
			"ast":         ast.NodeToMap(file),
			"diagnostics": diagsToSlice(diags),
		})
	case dumpRepr:
		printRepr(h.stdout, file)
	default:
		if len(file.Body) > 0 {
			fmt.Fprintln(h.stdout, ast.Sprint(file))
		}
	}
	return nil
}

