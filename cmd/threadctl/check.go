// File: cmd/threadctl/check.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/momentics/hioload-thread/control"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate a profile file and print the resulting creation parameters",
		Flags: []cli.Flag{profilesFlag()},
		Action: func(c *cli.Context) error {
			return check(c.String("profiles"))
		},
	}
}

func check(path string) error {
	set, err := control.LoadProfiles(path)
	if err != nil {
		return err
	}
	rows, err := profileRows(set)
	if err != nil {
		return err
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// profileRows renders one row per profile.
func profileRows(set *control.ProfileSet) (pterm.TableData, error) {
	rows := pterm.TableData{{"profile", "priority", "override", "cpu", "suspended", "count"}}
	for _, p := range set.Profiles {
		params, err := p.Params()
		if err != nil {
			return nil, err
		}
		override := "-"
		if class, ok := p.OverrideClass(); ok {
			override = class.String()
		}
		rows = append(rows, []string{
			params.Name,
			params.Priority.String(),
			override,
			params.InitialAffinity.String(),
			fmt.Sprint(params.CreateSuspended),
			fmt.Sprint(p.Instances()),
		})
	}
	return rows, nil
}
