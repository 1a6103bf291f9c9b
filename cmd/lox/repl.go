package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lox-lang/internal/diag"
	"lox-lang/internal/lexer"
	"lox-lang/internal/token"

	"github.com/chzyer/readline"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// lineReader is the part of *readline.Instance the REPL loop needs.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// ---- repl command ----

func (h *host) repl() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            h.paint(colorGreen, h.cfg.Prompt),
		HistoryFile:       historyPath(h.cfg.HistoryFile),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		h.paint(colorBold+colorCyan, "lox REPL"), h.paint(colorGray, "(type 'exit' or Ctrl+D to quit)"))

	session := *h
	session.stdout = rl.Stdout()
	session.stderr = rl.Stderr()
	session.replLoop(rl)
	return nil
}

// replLoop reads until EOF or 'exit'. Globals persist between inputs, and a
// fault in one input is reported without ending the session.
func (h *host) replLoop(rl lineReader) {
	interp := h.newInterpreter(h.stdout)
	var accumulated strings.Builder

	for {
		if accumulated.Len() > 0 {
			rl.SetPrompt(h.paint(colorGray, "...   "))
		} else {
			rl.SetPrompt(h.paint(colorGreen, h.cfg.Prompt))
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if accumulated.Len() > 0 {
					accumulated.Reset()
					continue
				}
				fmt.Fprintf(h.stdout, "\n%s\n", h.paint(colorGray, "(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(h.stdout)
			}
			return
		}

		if accumulated.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return
		}

		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		source := accumulated.String()
		if needsMore(source) {
			continue
		}
		accumulated.Reset()

		if strings.TrimSpace(source) == "" {
			continue
		}
		h.execute(interp, source)
	}
}

// needsMore reports whether source is an unfinished entry: an open brace,
// or a string or block comment still running at the end of input.
func needsMore(source string) bool {
	tokens, diags := lexer.New(source).Tokenize()
	for _, d := range diags {
		if d.Code == diag.CodeUnterminatedString || d.Code == diag.CodeUnterminatedComment {
			return true
		}
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
		}
	}
	return depth > 0
}

func (h *host) paint(color, s string) string {
	if !h.color {
		return s
	}
	return color + s + colorReset
}

// historyPath resolves a relative history file against the home directory.
func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}
