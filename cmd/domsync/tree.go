package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"domsync/element"
)

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if i > 0 {
			cc.Out.Write([]byte("---\n"))
		}
		if err := treeFile(cfg, cc, file); err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
	}
	return nil
}

func treeFile(cfg *TreeConfig, cc *cli.Context, file string) error {
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
	for _, root := range res.Roots {
		printNode(cfg, cc.Out, root, 0)
	}
	return nil
}

func printNode(cfg *TreeConfig, w io.Writer, n *element.Node, depth int) {
	fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), n.TagName)
	if id := n.ID(); id != "" {
		fmt.Fprintf(w, "#%s", id)
	}
	for _, c := range n.ClassList() {
		fmt.Fprintf(w, ".%s", c)
	}
	if n.Component {
		fmt.Fprint(w, " (component)")
	}
	if cfg.Spans {
		fmt.Fprintf(w, " [%d,%d)", n.SourceStart, n.SourceEnd)
	}
	fmt.Fprintln(w)
	for _, c := range n.Children {
		printNode(cfg, w, c, depth+1)
	}
}
