package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/scott-cotton/cli"

	"domsync/element"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires an expression", cli.ErrUsage)
	}
	prog, err := expr.Compile(args[0], expr.Env(queryEnv(nil)), expr.AsBool())
	if err != nil {
		return fmt.Errorf("%w: bad expression: %w", cli.ErrUsage, err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		if err := queryFile(cfg, cc, prog, file); err != nil {
			return fmt.Errorf("error querying %s: %w", file, err)
		}
	}
	return nil
}

func queryFile(cfg *QueryConfig, cc *cli.Context, prog *vm.Program, file string) error {
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
		return err
	}
	var walkErr error
	for _, root := range res.Roots {
		root.Visit(func(n *element.Node) bool {
			out, err := expr.Run(prog, queryEnv(n))
			if err != nil {
				walkErr = err
				return false
			}
			if out.(bool) {
				fmt.Fprintf(cc.Out, "%s:%d: %s\n", file, n.Start.Line+1, n.Path())
			}
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}

func queryEnv(n *element.Node) map[string]any {
	if n == nil {
		return map[string]any{
			"tag": "", "id": "", "class": "",
			"ordinal": 0, "line": 0, "component": false,
		}
	}
	return map[string]any{
		"tag":       n.TagName,
		"id":        n.ID(),
		"class":     n.Class(),
		"ordinal":   n.Ordinal,
		"line":      n.Start.Line + 1,
		"component": n.Component,
	}
}
