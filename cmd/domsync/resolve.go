package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"domsync/resolve"
)

func resolveCmd(cfg *ResolveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Resolve.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: resolve requires a selector path", cli.ErrUsage)
	}
	path, err := parsePath(args[0])
	if err != nil {
		return err
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		text, err := readSource(cc, file)
		if err != nil {
			return err
		}
		p, err := cfg.parserFor(file)
		if err != nil {
			return err
		}
		res, err := p.Parse(text)
		if err != nil {
			return fmt.Errorf("error parsing %s: %w", file, err)
		}
		n, err := resolve.Resolve(res.Roots, path)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		fmt.Fprintf(cc.Out, "%s:%d:%d: %s [%d,%d)\n",
			file, n.Start.Line+1, n.Start.Col+1, n.Path(), n.SourceStart, n.SourceEnd)
	}
	return nil
}
