// Package main implements the gones NES emulator executable.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rg9k/gones-core/internal/app"
	"github.com/rg9k/gones-core/internal/config"
	"github.com/rg9k/gones-core/internal/nes"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-help" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	}

	data, err := os.ReadFile(cfg.ROMPath)
	if err != nil {
		log.Fatalf("failed to read ROM %s: %v", cfg.ROMPath, err)
	}

	core := nes.New()
	if err := core.InsertCartridge(data); err != nil {
		log.Fatalf("failed to load ROM %s: %v", cfg.ROMPath, err)
	}

	if err := app.Run(core, cfg); err != nil {
		log.Fatalf("emulation run failed: %v", err)
	}
}

func printUsage() {
	fmt.Println("gones - a cycle-accurate NES emulator core with an Ebitengine frontend")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones --rom <file> [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  --rom string         path to an iNES ROM image (required)")
	fmt.Println("  --scale int          window scale, NES resolution multiplier (default 2)")
	fmt.Println("  --fullscreen         start in fullscreen")
	fmt.Println("  --filter string      scaling filter: nearest or linear (default \"nearest\")")
	fmt.Println()
	fmt.Println("CONTROLS (Player 1):")
	fmt.Println("  Arrow keys  - D-Pad")
	fmt.Println("  Z / X       - A / B")
	fmt.Println("  Enter       - Start")
	fmt.Println("  Backslash   - Select")
	fmt.Println()
	fmt.Println("SUPPORTED FORMATS:")
	fmt.Println("  - iNES (.nes), mappers NROM (0) and CNROM (3)")
}
