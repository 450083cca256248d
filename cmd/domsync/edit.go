package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"domsync/element"
	"domsync/mutate"
	"domsync/parse"
)

func editText(cfg *TextConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Text.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: edit-text requires a selector path, the new text, and a file", cli.ErrUsage)
	}
	return mutateFile(cfg.MainConfig, cc, args[0], args[2],
		func(text []byte, loc element.Locator, p parse.Parser) ([]byte, error) {
			return mutate.EditText(text, loc, nil, p, args[1])
		})
}

func editStyle(cfg *StyleConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Style.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: edit-style requires a selector path, declarations, and a file", cli.ErrUsage)
	}
	styles, err := parseStyleArg(args[1])
	if err != nil {
		return err
	}
	return mutateFile(cfg.MainConfig, cc, args[0], args[2],
		func(text []byte, loc element.Locator, p parse.Parser) ([]byte, error) {
			return mutate.BatchStyle(text, loc, nil, p, styles)
		})
}

func deleteCmd(cfg *DeleteConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Delete.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: delete requires a selector path and a file", cli.ErrUsage)
	}
	return mutateFile(cfg.MainConfig, cc, args[0], args[1],
		func(text []byte, loc element.Locator, p parse.Parser) ([]byte, error) {
			return mutate.Delete(text, loc, nil, p)
		})
}

func duplicateCmd(cfg *DupConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dup.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: duplicate requires a selector path and a file", cli.ErrUsage)
	}
	return mutateFile(cfg.MainConfig, cc, args[0], args[1],
		func(text []byte, loc element.Locator, p parse.Parser) ([]byte, error) {
			return mutate.Duplicate(text, loc, nil, p)
		})
}

func move(cfg *MoveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Move.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: move requires a selector path, a parent path, and a file", cli.ErrUsage)
	}
	parentPath, err := parsePath(args[1])
	if err != nil {
		return err
	}
	return mutateFile(cfg.MainConfig, cc, args[0], args[2],
		func(text []byte, loc element.Locator, p parse.Parser) ([]byte, error) {
			return mutate.Move(text, loc, element.Locator{Path: parentPath}, cfg.Index, nil, p)
		})
}

func mutateFile(cfg *MainConfig, cc *cli.Context, pathArg, file string,
	f func(text []byte, loc element.Locator, p parse.Parser) ([]byte, error)) error {
	path, err := parsePath(pathArg)
	if err != nil {
		return err
	}
	text, err := readSource(cc, file)
	if err != nil {
		return err
	}
	p, err := cfg.parserFor(file)
	if err != nil {
		return err
	}
	out, err := f(text, element.Locator{Path: path}, p)
	if err != nil {
		return fmt.Errorf("error editing %s: %w", file, err)
	}
	return cfg.emit(cc, file, out)
}

func parseStyleArg(arg string) (map[string]string, error) {
	styles := map[string]string{}
	for _, decl := range strings.Split(arg, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			return nil, fmt.Errorf("%w: declaration %q is not prop:value", cli.ErrUsage, decl)
		}
		styles[strings.TrimSpace(prop)] = strings.TrimSpace(val)
	}
	if len(styles) == 0 {
		return nil, fmt.Errorf("%w: no style declarations given", cli.ErrUsage)
	}
	return styles, nil
}
