package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/llir/llvm/asm"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tstanisl/llipy/ll"
	"github.com/tstanisl/llipy/ll/format"
	"github.com/tstanisl/llipy/ll/llirconv"
	"github.com/tstanisl/llipy/ll/parse"
	"github.com/tstanisl/llipy/ll/tp"
)

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse modules and print their types and globals",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("dump", false, "dump parsed structures"),
		},
	}

	layoutCmd := &cli.Command{
		Name:        "layout",
		Description: "print size and element offsets of a type",
		Action:      layoutAct,
		Flags: []*cli.Flag{
			cli.NewFlag("type,t", "", "type expression"),
			cli.NewFlag("module,m", "", "module file the type may refer to"),
			cli.NewFlag("yaml", false, "print yaml"),
		},
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "compare parsed global types with llir/llvm",
		Action:      checkAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "llipy",
		Description: "llipy reads type and global definitions of LLVM IR files",
		Commands: []*cli.Command{
			parseCmd,
			layoutCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		m, err := ll.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		if c.Bool("dump") {
			pretty.Println(m)
			continue
		}

		b, err := format.Format(ctx, nil, m)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("; %s\n%s", a, b)
	}

	return nil
}

func layoutAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	text := c.String("type")
	if text == "" {
		return errors.New("type expected")
	}

	var types map[string]tp.Type

	if name := c.String("module"); name != "" {
		m, err := ll.ParseFile(ctx, name)
		if err != nil {
			return errors.Wrap(err, "parse module")
		}

		types = m.Types
	}

	t, err := parse.ParseTypeIn(ctx, types, []byte(text))
	if err != nil {
		return errors.Wrap(err, "parse type")
	}

	l, err := newLayout(t, 0)
	if err != nil {
		return errors.Wrap(err, "layout")
	}

	var b []byte

	if c.Bool("yaml") {
		b, err = l.YAML()
	} else {
		b = l.AppendText(nil, 0)
	}
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	_, err = os.Stdout.Write(b)

	return err
}

func checkAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	bad := 0

	for _, a := range c.Args {
		m, err := ll.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		ref, err := asm.ParseFile(a)
		if err != nil {
			return errors.Wrap(err, "llir: parse %v", a)
		}

		for _, rg := range ref.Globals {
			g := m.Global("@" + rg.Name())
			if g == nil {
				fmt.Printf("%s: @%s: missing\n", a, rg.Name())
				bad++

				continue
			}

			x, err := llirconv.FromLLIR(rg.ContentType)
			if err != nil {
				fmt.Printf("%s: %s: convert: %v\n", a, g.Name, err)
				bad++

				continue
			}

			if !tp.Equal(g.Type, x) {
				fmt.Printf("%s: %s: type %v, llir %v\n", a, g.Name, g.Type, x)
				bad++
			}
		}

		tlog.SpanFromContext(ctx).Printw("checked", "file", a, "globals", len(m.Globals), "mismatches", bad)
	}

	if bad != 0 {
		return errors.New("%d mismatches", bad)
	}

	return nil
}
