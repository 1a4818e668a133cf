package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chefkjd/MixSplitR/internal/tui"
)

func main() {
	configFlag := flag.String("config", "config.json", "Path to config file")
	flag.Parse()

	if err := tui.Run(*configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
