package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/anyrt/internal/bridge"
	"github.com/mcncl/anyrt/internal/cast"
	"github.com/mcncl/anyrt/internal/config"
	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/printer"
	"github.com/mcncl/anyrt/internal/schema"
	"github.com/mcncl/anyrt/internal/types"
	"github.com/mcncl/anyrt/internal/value"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are flags shared by every command. Unset flags leave the
// configuration file value in place.
type Globals struct {
	Config   string `help:"Path to config file. Defaults to .anyrt.yml searched upwards from the working directory." short:"c"`
	Debug    bool   `help:"Enable debug logging." short:"d" negatable:""`
	Locale   string `help:"Language of rendered type names (de, en)." short:"l"`
	Strict   bool   `help:"Compare pointer depth and nested types when validating casts." short:"s" negatable:""`
	MaxDepth int    `help:"Maximum JSON nesting depth." name:"max-depth"`
	KeyStyle string `help:"Rename object keys (none, snake, camel, lower_camel, kebab)." name:"key-style"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Inspect InspectCmd `cmd:"" help:"Show a JSON document as a dynamic value tree."`
	Keys    KeysCmd    `cmd:"" help:"List the keys of a JSON object."`
	Take    TakeCmd    `cmd:"" help:"Extract the value at a dotted path."`
	Cast    CastCmd    `cmd:"" help:"Check whether a document may be cast to a type."`
	Convert ConvertCmd `cmd:"" help:"Convert a value to another primitive type."`
	Env     EnvCmd     `cmd:"" help:"Show environment variables as a dynamic object."`
	Repl    ReplCmd    `cmd:"" default:"1" help:"Interactive session for parsing and inspecting JSON."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Context holds the runtime context shared by all commands
type Context struct {
	Config  *config.Config
	Logger  *slog.Logger
	Out     io.Writer
	In      io.Reader
	Environ func() []string

	// given holds the names of flags that appeared on the command line.
	given map[string]bool
}

// givenFlags collects the flags the user passed, so boolean flags can
// override the config file in both directions.
func givenFlags(kctx *kong.Context) map[string]bool {
	given := make(map[string]bool)
	for _, f := range kctx.Flags() {
		if f.Set {
			given[f.Name] = true
		}
	}
	return given
}

func newContext(g *Globals, given map[string]bool, out io.Writer, in io.Reader, logOut io.Writer) (*Context, error) {
	var o config.Overrides
	if g.Locale != "" {
		o.Locale = &g.Locale
	}
	if given["strict"] {
		o.Strict = &g.Strict
	}
	if g.MaxDepth > 0 {
		o.MaxDepth = &g.MaxDepth
	}
	if g.KeyStyle != "" {
		o.KeyStyle = &g.KeyStyle
	}
	if given["debug"] {
		o.Debug = &g.Debug
	}

	cfg, err := config.LoadConfigWithCLI(g.Config, o)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}

	level := slog.LevelWarn
	if cfg.Dev.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	return &Context{
		Config:  cfg,
		Logger:  logger,
		Out:     out,
		In:      in,
		Environ: os.Environ,
		given:   given,
	}, nil
}

func (c *Context) bridge() *bridge.Bridge {
	return bridge.NewBridgeWithConfig(c.Config).WithLogger(c.Logger)
}

func (c *Context) renderer() *types.Renderer {
	r, err := c.Config.Renderer()
	if err != nil {
		r, _ = types.NewRenderer(types.DefaultLocale)
	}
	return r
}

func (c *Context) validator() *cast.Validator {
	return cast.NewValidatorWith(c.Config.Cast.Strict, c.renderer())
}

func (c *Context) printer() *printer.Printer {
	return printer.NewPrinter(c.renderer())
}

func (c *Context) write(s string) error {
	if _, err := io.WriteString(c.Out, s); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}

// readDocument parses the JSON document in path, or standard input when
// path is empty or "-".
func (c *Context) readDocument(path string) (value.AnyValue, error) {
	if path != "" && path != "-" {
		c.Logger.Debug("reading document", "path", path)
		return c.bridge().ParseFile(path)
	}

	if f, ok := c.In.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return value.None(), errors.NewInputError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			return value.None(), errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}
	if c.In == nil {
		return value.None(), errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(c.In)
	if err != nil {
		return value.None(), errors.NewInputError("failed to read from stdin", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return value.None(), errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return c.bridge().ParseReader(bytes.NewReader(data))
}

// targetDescriptor builds a cast target from a kind name or a schema file.
func targetDescriptor(kind, schemaPath string, ptrDepth int) (types.Descriptor, error) {
	var target types.Descriptor
	switch {
	case schemaPath != "":
		d, err := schema.LoadDescriptor(schemaPath)
		if err != nil {
			return types.Descriptor{}, errors.NewInputError(fmt.Sprintf("failed to load schema '%s'", schemaPath), err)
		}
		target = d
	case kind != "":
		k, err := types.ParseKind(kind)
		if err != nil {
			return types.Descriptor{}, errors.NewInputError(err.Error(), err)
		}
		switch k {
		case types.List:
			target = types.ListOf(types.Primitive(types.None))
		case types.Object:
			target = types.ObjectOf(nil)
		default:
			target = types.Primitive(k)
		}
	default:
		return types.Descriptor{}, errors.NewInputError("a target type is required: use --to or --schema", nil)
	}

	if ptrDepth < 0 {
		return types.Descriptor{}, errors.NewInputError(fmt.Sprintf("pointer depth must not be negative, got %d", ptrDepth), nil)
	}
	if ptrDepth > 0 {
		target = target.WithPtrDepth(target.PtrDepth + ptrDepth)
	}
	return target, nil
}

// InspectCmd dumps a document.
type InspectCmd struct {
	Input string `arg:"" optional:"" help:"JSON file, or - for stdin."`
	YAML  bool   `help:"Describe the value's type as YAML instead of dumping the value." name:"yaml"`
}

func (cmd *InspectCmd) Run(ctx *Context) error {
	v, err := ctx.readDocument(cmd.Input)
	if err != nil {
		return err
	}
	if cmd.YAML {
		doc, err := ctx.printer().DescribeYAML(v.Type())
		if err != nil {
			return errors.NewOutputError("failed to describe type", err)
		}
		return ctx.write(doc)
	}
	return ctx.write(ctx.printer().Dump(v))
}

// KeysCmd lists the keys of the root object.
type KeysCmd struct {
	Input string `arg:"" optional:"" help:"JSON file, or - for stdin."`
}

func (cmd *KeysCmd) Run(ctx *Context) error {
	v, err := ctx.readDocument(cmd.Input)
	if err != nil {
		return err
	}
	obj, ok := v.AsAnyObject()
	if !ok {
		return errors.NewLookupError(
			fmt.Sprintf("root value is `%s`, not an object", ctx.renderer().Render(v.Type())),
			errors.ErrNotAnObject,
		)
	}

	var b strings.Builder
	for _, k := range obj.Keys() {
		b.WriteString(k)
		b.WriteString("\n")
	}
	return ctx.write(b.String())
}

// TakeCmd extracts a nested value.
type TakeCmd struct {
	Path       string `arg:"" help:"Dotted path such as users.0.name."`
	Input      string `arg:"" optional:"" help:"JSON file, or - for stdin."`
	StrictTake bool   `help:"Report missing keys as errors instead of returning none." name:"strict-take" negatable:""`
}

func (cmd *TakeCmd) Run(ctx *Context) error {
	v, err := ctx.readDocument(cmd.Input)
	if err != nil {
		return err
	}
	strict := ctx.Config.Objects.StrictTake
	if ctx.given["strict-take"] {
		strict = cmd.StrictTake
	}
	got, err := v.At(value.SplitPath(cmd.Path), strict)
	if err != nil {
		return err
	}
	return ctx.write(ctx.printer().Dump(got))
}

// CastCmd validates a runtime cast of a document.
type CastCmd struct {
	Input    string `arg:"" optional:"" help:"JSON file, or - for stdin."`
	To       string `help:"Target kind (none, int, float, char, bool, string, list, object, anyobject)." xor:"target"`
	Schema   string `help:"JSON Schema file describing the target type." xor:"target"`
	PtrDepth int    `help:"Pointer depth of the target type." name:"ptr-depth"`
}

func (cmd *CastCmd) Run(ctx *Context) error {
	target, err := targetDescriptor(cmd.To, cmd.Schema, cmd.PtrDepth)
	if err != nil {
		return err
	}
	v, err := ctx.readDocument(cmd.Input)
	if err != nil {
		return err
	}

	ctx.Logger.Debug("validating cast", "strict", ctx.Config.Cast.Strict)
	if err := ctx.validator().Validate(target, v.Type()); err != nil {
		return err
	}

	r := ctx.renderer()
	return ctx.write(fmt.Sprintf("ok: `%s` -> `%s`\n", r.Render(v.Type()), r.Render(target)))
}

// ConvertCmd performs an explicit conversion.
type ConvertCmd struct {
	Input string `arg:"" optional:"" help:"JSON file, or - for stdin."`
	To    string `help:"Target kind." required:""`
}

func (cmd *ConvertCmd) Run(ctx *Context) error {
	target, err := targetDescriptor(cmd.To, "", 0)
	if err != nil {
		return err
	}
	v, err := ctx.readDocument(cmd.Input)
	if err != nil {
		return err
	}
	out, err := value.NewConverter(ctx.validator()).Convert(v, target)
	if err != nil {
		return err
	}
	return ctx.write(ctx.printer().Dump(out))
}

// EnvCmd exposes the process environment.
type EnvCmd struct {
	Key string `arg:"" optional:"" help:"Variable to show. Shows all variables when omitted."`
}

func (cmd *EnvCmd) Run(ctx *Context) error {
	env := value.FromEnviron(ctx.Environ())
	if cmd.Key == "" {
		return ctx.write(ctx.printer().Dump(value.Box(env)))
	}

	if ctx.Config.Objects.StrictTake {
		v, err := env.Get(cmd.Key)
		if err != nil {
			return err
		}
		return ctx.write(ctx.printer().Dump(v))
	}
	return ctx.write(ctx.printer().Dump(env.Take(cmd.Key)))
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	return ctx.write(fmt.Sprintf("anyrt version %s\n", Version))
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("anyrt"),
		kong.Description("Inspect JSON documents as dynamic values and check runtime casts"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, err := newContext(&cli.Globals, givenFlags(kctx), os.Stdout, os.Stdin, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		ctx.Logger.Debug("command failed", "command", kctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: anyrt --help\n")
		os.Exit(1)
	}
}
