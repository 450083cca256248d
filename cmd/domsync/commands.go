package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "domsync").
		WithSynopsis("domsync [opts] command [opts]").
		WithDescription("domsync is a tool for structural edits to markup and component sources.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Main.Parse(cc, args)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return cli.ErrNoCommandProvided
			}
			return fmt.Errorf("%w: unknown command %q", cli.ErrUsage, args[0])
		}).
		WithSubs(
			TreeCommand(cfg),
			ResolveCommand(cfg),
			QueryCommand(cfg),
			TextCommand(cfg),
			StyleCommand(cfg),
			DeleteCommand(cfg),
			DupCommand(cfg),
			MoveCommand(cfg),
			DiffCommand(cfg))
}

type TreeConfig struct {
	*MainConfig
	Spans bool `cli:"name=spans desc='print byte spans with each element'"`

	Tree *cli.Command
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TreeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tree, "tree").
		WithAliases("t").
		WithSynopsis("tree [files]").
		WithDescription("print the element tree of source files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tree(cfg, cc, args)
		})
}

type ResolveConfig struct {
	*MainConfig
	Resolve *cli.Command
}

func ResolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResolveConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Resolve, "resolve").
		WithAliases("r").
		WithSynopsis("resolve <selectorpath> [files]").
		WithDescription("resolve a selector path to its source span").
		WithRun(func(cc *cli.Context, args []string) error {
			return resolveCmd(cfg, cc, args)
		})
}

type QueryConfig struct {
	*MainConfig
	Query *cli.Command
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Query, "query").
		WithAliases("q").
		WithSynopsis("query <expr> [files]").
		WithDescription("list elements matching an expression over {tag, id, class, ordinal, line, component}").
		WithRun(func(cc *cli.Context, args []string) error {
			return query(cfg, cc, args)
		})
}

type TextConfig struct {
	*MainConfig
	Text *cli.Command
}

func TextCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TextConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Text, "edit-text").
		WithAliases("et").
		WithSynopsis("edit-text <selectorpath> <newtext> <file>").
		WithDescription("replace the text content of an element").
		WithRun(func(cc *cli.Context, args []string) error {
			return editText(cfg, cc, args)
		})
}

type StyleConfig struct {
	*MainConfig
	Style *cli.Command
}

func StyleCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StyleConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Style, "edit-style").
		WithAliases("es").
		WithSynopsis("edit-style <selectorpath> <prop:value;...> <file>").
		WithDescription("merge inline style declarations into an element (empty value removes)").
		WithRun(func(cc *cli.Context, args []string) error {
			return editStyle(cfg, cc, args)
		})
}

type DeleteConfig struct {
	*MainConfig
	Delete *cli.Command
}

func DeleteCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DeleteConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Delete, "delete").
		WithAliases("del").
		WithSynopsis("delete <selectorpath> <file>").
		WithDescription("remove an element and its subtree").
		WithRun(func(cc *cli.Context, args []string) error {
			return deleteCmd(cfg, cc, args)
		})
}

type DupConfig struct {
	*MainConfig
	Dup *cli.Command
}

func DupCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DupConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Dup, "duplicate").
		WithAliases("dup").
		WithSynopsis("duplicate <selectorpath> <file>").
		WithDescription("insert a copy of an element after itself").
		WithRun(func(cc *cli.Context, args []string) error {
			return duplicateCmd(cfg, cc, args)
		})
}

type MoveConfig struct {
	*MainConfig
	Index int `cli:"name=i aliases=index desc='child index in the new parent'"`

	Move *cli.Command
}

func MoveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MoveConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Move, "move").
		WithAliases("mv").
		WithSynopsis("move [-i index] <selectorpath> <parentpath> <file>").
		WithDescription("reparent an element at a child index").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return move(cfg, cc, args)
		})
}

type DiffConfig struct {
	*MainConfig
	Diff *cli.Command
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff <old> <new>").
		WithDescription("show line additions and deletions between two files").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}
