package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/mcncl/anyrt/internal/bridge"
	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/parser"
	"github.com/mcncl/anyrt/internal/value"
)

const (
	historyFile = ".anyrt_history"
	promptMain  = "anyrt> "
	promptCont  = "  ...> "
)

const replHelp = `Enter a JSON document to inspect it. Multi-line input continues until the
document is complete. Commands:
  :type            show the type of the last value
  :yaml            describe the type of the last value as YAML
  :set NAME        store the last value in the session object under NAME
  :take PATH       take PATH from the session object (first segment is NAME)
  :keys            list the names stored in the session object
  :cast KIND       check whether the last value may be cast to KIND
  :env             load the environment into the session object as "env"
  :help            show this help
  :quit            leave the session
`

// ReplCmd starts an interactive session.
type ReplCmd struct {
	NoHistory bool `help:"Do not read or write the history file." name:"no-history"`
}

func (cmd *ReplCmd) Run(ctx *Context) error {
	ln := liner.NewLiner()
	defer func() { _ = ln.Close() }()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil && !cmd.NoHistory {
		histPath = filepath.Join(home, historyFile)
	}
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(os.Stderr, "anyrt interactive mode. Type :help for commands, :quit to exit.")

	s := newSession(ctx)
	for {
		src, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(os.Stderr)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		out, quit, err := s.eval(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.UserFriendlyError(err))
		} else if err := ctx.write(out); err != nil {
			return err
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if quit {
			return nil
		}
	}
}

// readByParseProbe reads lines until they form a complete JSON document or
// a command. Ctrl+D ends the session; Ctrl+C drops the pending input.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if stderrors.Is(err, io.EOF) {
			return "", false
		}
		if stderrors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := parser.ParseString(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// session is the state of one interactive session: the last parsed value
// and a dynamic object the user stores values in.
type session struct {
	ctx    *Context
	bridge *bridge.Bridge
	store  *value.AnyObject
	last   value.AnyValue
}

func newSession(ctx *Context) *session {
	return &session{
		ctx:    ctx,
		bridge: ctx.bridge(),
		store:  value.NewAnyObject(),
		last:   value.None(),
	}
}

// eval runs one complete input and returns the text to print.
func (s *session) eval(src string) (string, bool, error) {
	line := strings.TrimSpace(src)
	if !strings.HasPrefix(line, ":") {
		v, err := s.bridge.Parse(src)
		if err != nil {
			return "", false, err
		}
		s.last = v
		return s.ctx.printer().Dump(v), false, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return "", true, nil
	case "help":
		return replHelp, false, nil
	case "type":
		return s.ctx.renderer().Render(s.last.Type()) + "\n", false, nil
	case "yaml":
		doc, err := s.ctx.printer().DescribeYAML(s.last.Type())
		if err != nil {
			return "", false, errors.NewOutputError("failed to describe type", err)
		}
		return doc, false, nil
	case "set":
		if arg == "" {
			return "", false, errors.NewInputError("usage: :set NAME", nil)
		}
		s.store.Insert(arg, s.last)
		return fmt.Sprintf("stored %s\n", arg), false, nil
	case "take":
		v, err := value.Box(s.store).At(value.SplitPath(arg), s.ctx.Config.Objects.StrictTake)
		if err != nil {
			return "", false, err
		}
		s.last = v
		return s.ctx.printer().Dump(v), false, nil
	case "keys":
		keys := s.store.Keys()
		if len(keys) == 0 {
			return "(empty)\n", false, nil
		}
		return strings.Join(keys, "\n") + "\n", false, nil
	case "cast":
		target, err := targetDescriptor(arg, "", 0)
		if err != nil {
			return "", false, err
		}
		if err := s.ctx.validator().Validate(target, s.last.Type()); err != nil {
			return "", false, err
		}
		r := s.ctx.renderer()
		return fmt.Sprintf("ok: `%s` -> `%s`\n", r.Render(s.last.Type()), r.Render(target)), false, nil
	case "env":
		s.store.Insert("env", value.Box(value.FromEnviron(s.ctx.Environ())))
		return "stored env\n", false, nil
	default:
		return "", false, errors.NewInputError(fmt.Sprintf("unknown command :%s, type :help", name), nil)
	}
}
