// File: cmd/threadctl/main.go
// Package main
// threadctl spawns the threads described by an HCL profile file, runs a
// short busy loop on each and reports exit codes and debug probes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "threadctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "threadctl",
		Usage: "exercise hioload-thread handles from HCL thread profiles",
		Commands: []*cli.Command{
			runCommand(),
			checkCommand(),
		},
	}
}

func profilesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "profiles",
		Aliases: []string{"p"},
		Value:   "threads.hcl",
		Usage:   "HCL thread profile file",
	}
}
