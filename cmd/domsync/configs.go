package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"domsync/element"
	"domsync/parse"
)

type MainConfig struct {
	Kind  string `cli:"name=k aliases=kind desc='source kind: markup/m, component/c (default by extension)'"`
	Write bool   `cli:"name=w aliases=write desc='write results back to the source file'"`
	Color bool   `cli:"name=color desc='force colored output'"`

	Main *cli.Command
}

func (cfg *MainConfig) parserFor(path string) (parse.Parser, error) {
	switch cfg.Kind {
	case "":
		return parse.ForPath(path), nil
	case "markup", "m":
		return parse.For(parse.KindMarkup), nil
	case "component", "c":
		return parse.For(parse.KindComponent), nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", cli.ErrUsage, cfg.Kind)
}

func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// readSource reads the file at path, or cc.In when path is "-".
func readSource(cc *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	return d, nil
}

// emit writes a mutation result: back to the source file with -w,
// otherwise to the command output.
func (cfg *MainConfig) emit(cc *cli.Context, path string, out []byte) error {
	if cfg.Write && path != "-" {
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("could not write %q: %w", path, err)
		}
		return nil
	}
	_, err := cc.Out.Write(out)
	return err
}

func parsePath(arg string) (element.SelectorPath, error) {
	p, err := element.ParseSelectorPath(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}
