// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The argdemo command shows a base schema shared by two sub-commands.
//
//	argdemo [--log_level LEVEL] subparser1 -i 5 -f 1.5
//	argdemo subparser2 --store_true --store_false
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/yeetrun/argmodel/pkg/argmodel"
	"github.com/yeetrun/argmodel/pkg/cli"
	"github.com/yeetrun/argmodel/pkg/typeshape"
)

var (
	baseSchema = argmodel.MustSchema(
		argmodel.Field("log_level", typeshape.LogLevel(),
			argmodel.Default("INFO"),
			argmodel.Group("logging"),
			argmodel.Description("Set the logging level")),
	)
	subparser1Schema = argmodel.MustSchema(
		argmodel.Field("integer", typeshape.Int(), argmodel.Short("i")),
		argmodel.Field("fp", typeshape.Float(), argmodel.Short("f")),
	)
	subparser2Schema = argmodel.MustSchema(
		argmodel.Field("store_true", typeshape.Bool()),
		argmodel.Field("store_false", typeshape.Bool(), argmodel.WithAction(argmodel.ActionStoreFalse)),
	)
)

type baseArgs struct {
	LogLevel string `arg:"log_level"`
}

type subparser1Args struct {
	Integer int     `arg:"integer"`
	FP      float64 `arg:"fp"`
}

type subparser2Args struct {
	StoreTrue  bool `arg:"store_true"`
	StoreFalse bool `arg:"store_false"`
}

// handle decodes both records into their structs and prints them. The
// parent is printed first when baseFirst is set.
func handle[T any](w io.Writer, baseFirst bool) argmodel.Handler {
	return func(_ context.Context, parent, cmd *argmodel.Record) error {
		var (
			base baseArgs
			args T
		)
		if err := parent.Decode(&base); err != nil {
			return err
		}
		if err := cmd.Decode(&args); err != nil {
			return err
		}
		if baseFirst {
			fmt.Fprintf(w, "%+v\n%+v\n", base, args)
		} else {
			fmt.Fprintf(w, "%+v\n%+v\n", args, base)
		}
		return nil
	}
}

func newParser(w io.Writer, opts argmodel.Options) (*argmodel.Parser, error) {
	root, err := baseSchema.WithSubcommands("").
		Add("subparser1", subparser1Schema, handle[subparser1Args](w, true)).
		Add("subparser2", subparser2Schema, handle[subparser2Args](w, false)).
		Build()
	if err != nil {
		return nil, err
	}
	return argmodel.NewParser(root, opts)
}

func main() {
	opts, args, err := cli.Setup(os.Args[1:], argmodel.Options{
		Prog:        "argdemo",
		Description: "A base schema with two sub-commands",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(argmodel.ExitUsage)
	}
	p, err := newParser(os.Stdout, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(argmodel.ExitValidation)
	}
	p.MustRun(context.Background(), args)
}
