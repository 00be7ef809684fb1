package main

import (
	"flag"
	"fmt"
	"os"
)

type presetInfo struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Seconds int64  `json:"seconds"`
}

func (a *app) cmdPresets(args []string) int {
	flags := flag.NewFlagSet("presets", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	var list []presetInfo
	for _, name := range a.cfg.PresetNames() {
		d, err := a.cfg.Preset(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ct: presets: %v\n", err)
			return 1
		}
		list = append(list, presetInfo{Name: name, Value: d.String(), Seconds: d.TotalSeconds()})
	}

	if *jsonOut {
		if list == nil {
			list = []presetInfo{}
		}
		printJSON(list)
		return 0
	}
	if len(list) == 0 {
		fmt.Printf("no presets in %s\n", a.cfgPath)
		return 0
	}
	for _, p := range list {
		fmt.Printf("%-12s %s\n", p.Name, p.Value)
	}
	return 0
}
