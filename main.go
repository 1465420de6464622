package main

import (
	"fmt"
	"os"

	"retab/config"
	"retab/editor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	files := []string{}
	args := os.Args[1:]

	// A leading directory argument becomes the working directory
	if len(args) > 0 {
		info, err := os.Stat(args[0])
		if err == nil && info.IsDir() {
			if err := os.Chdir(args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "error: cannot change to directory %s: %v\n", args[0], err)
				os.Exit(1)
			}
			files = args[1:]
		} else {
			files = args
		}
	}

	e := editor.New(cfg)
	if err := e.Run(files); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
