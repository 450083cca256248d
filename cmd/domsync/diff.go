package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"domsync/linediff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	oldText, err := readSource(cc, args[0])
	if err != nil {
		return err
	}
	newText, err := readSource(cc, args[1])
	if err != nil {
		return err
	}
	res := linediff.Diff(string(oldText), string(newText))
	if res.Empty() {
		return nil
	}
	newLines := strings.Split(string(newText), "\n")

	add := fmt.Sprintf
	del := fmt.Sprintf
	if cfg.colorize(cc.Out) {
		add = color.New(color.FgGreen).Sprintf
		del = color.New(color.FgRed).Sprintf
	}
	added := map[int]bool{}
	for _, i := range res.Added {
		added[i] = true
	}
	delsAt := map[int][]linediff.DeletedLine{}
	for _, d := range res.Deleted {
		delsAt[d.Anchor] = append(delsAt[d.Anchor], d)
	}
	for i, line := range newLines {
		for _, d := range delsAt[i] {
			fmt.Fprintln(cc.Out, del("- %s", d.Content))
		}
		if added[i] {
			fmt.Fprintln(cc.Out, add("+ %s", line))
		} else {
			fmt.Fprintf(cc.Out, "  %s\n", line)
		}
	}
	return cli.ExitCodeErr(1)
}
