// structool decodes a structure file from disk and prints a summary, useful
// for checking an export before uploading it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
)

func main() {
	var (
		format  = flag.String("format", "", "format token (default: file extension)")
		asJSON  = flag.Bool("json", false, "emit the full decoded model as JSON")
		palette = flag.Bool("palette", false, "list the palette")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: structool [flags] <file>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	token := *format
	if token == "" {
		token = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	s, err := schematic.Parse(raw, token)
	if err != nil {
		log.Fatalf("decode %s: %v", path, err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}

	fmt.Printf("%s: %dx%dx%d, %d blocks, %d palette entries\n",
		filepath.Base(path), s.SizeX, s.SizeY, s.SizeZ, s.BlockCount, len(s.Palette))
	if *palette {
		for i, e := range s.Palette {
			if len(e.Properties) > 0 {
				fmt.Printf("  %3d %s %v\n", i, e.Name, e.Properties)
			} else {
				fmt.Printf("  %3d %s\n", i, e.Name)
			}
		}
	}
}
