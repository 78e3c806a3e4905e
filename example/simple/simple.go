// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The simple example declares its flags as a tagged struct.
package main

import (
	"fmt"
	"os"

	"github.com/yeetrun/argmodel/pkg/argmodel"
)

type exampleArgs struct {
	LogLevel      string   `arg:"log_level" default:"INFO" choices:"DEBUG,INFO,WARNING,ERROR,CRITICAL" group:"logging" help:"Set the logging level"`
	Integer       int      `short:"i" group:"number" help:"An integer"`
	FP            float64  `arg:"fp" short:"f" group:"number" help:"A floating point number"`
	StoreTrue     bool     `group:"boolean" help:"Set to true when given"`
	StoreFalse    bool     `action:"store_false" group:"boolean" help:"Set to false when given"`
	ListOfStrings []string `default:"[]" nargs:"*" group:"list" help:"Any number of strings"`
	Choices       string   `choices:"a,b,c" group:"choices" help:"One of a, b or c"`
}

func main() {
	args := argmodel.MustParse[exampleArgs](os.Args[1:], argmodel.Options{
		Prog:        "example",
		Description: "An example program",
	})
	fmt.Printf("%+v\n", args)
}
