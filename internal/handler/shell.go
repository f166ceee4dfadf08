package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/clinic-records/internal/app"
	"github.com/jwalitptl/clinic-records/internal/middleware"
	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/logger"
)

// ErrQuit is returned by Exec when the user asks to leave the shell.
var ErrQuit = errors.New("quit")

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, s *Shell, args []string) error
}

// Shell is a line-oriented screen controller over an App.
type Shell struct {
	app      *app.App
	out      io.Writer
	gatherer prometheus.Gatherer
	commands map[string]command
	chain    []middleware.Middleware
}

func NewShell(a *app.App, out io.Writer, log *logger.Logger) *Shell {
	if log == nil {
		log = logger.Nop()
	}
	s := &Shell{
		app:      a,
		out:      out,
		gatherer: a.Registry(),
	}
	s.commands = commandTable()
	s.chain = []middleware.Middleware{
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.Timeout(a.Config().Shell.CommandTimeout),
	}
	return s
}

// Run reads commands from in until EOF or quit.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.Exec(ctx, scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.printError(err)
		}
		s.prompt()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return apperrors.BadRequest(err.Error(), nil)
	}
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	cmd, ok := s.commands[name]
	if !ok {
		return apperrors.BadRequest(fmt.Sprintf("unknown command %q, try help", args[0]), nil)
	}
	if name == "quit" || name == "exit" {
		return cmd.run(ctx, s, args[1:])
	}
	run := middleware.Chain(name, func(ctx context.Context, args []string) error {
		return cmd.run(ctx, s, args)
	}, s.chain...)
	return run(ctx, args[1:])
}

func (s *Shell) prompt() {
	state := s.app.State()
	if sess, ok := s.app.Session(); ok {
		fmt.Fprintf(s.out, "%s@%s> ", sess.DisplayName, state.Screen)
		return
	}
	fmt.Fprint(s.out, "> ")
}

func (s *Shell) printError(err error) {
	fields := apperrors.FieldsOf(err)
	if len(fields) == 0 {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "error: validation failed")
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.out, "  %s: %s\n", k, fields[k])
	}
}

// splitArgs splits a line on whitespace, honouring double quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case !quoted && (r == ' ' || r == '\t'):
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if pending {
		args = append(args, cur.String())
	}
	return args, nil
}
