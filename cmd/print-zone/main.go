package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/zonegen/internal/zonefile"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: print-zone path/to/zonefile|path/to/dir\n")
		os.Exit(2)
	}

	paths := []string{flag.Arg(0)}
	if info, err := os.Stat(flag.Arg(0)); err == nil && info.IsDir() {
		paths, err = zonefile.DiscoverZoneFiles(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list zone files: %v\n", err)
			os.Exit(1)
		}
	}

	failed := false
	for _, path := range paths {
		f, err := zonefile.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load zone %s: %v\n", path, err)
			failed = true
			continue
		}

		fmt.Printf("ORIGIN: %s\n", f.Origin)
		fmt.Printf("RECORDS: %d\n", len(f.Records))
		for _, rr := range f.Records {
			name := rr.Subdomain + "." + f.Origin
			if rr.Subdomain == "@" {
				name = f.Origin
			}
			fmt.Printf("  %s %d %s %s %s\n", name, rr.TTL, rr.Class, rr.Type, rr.Data)
		}
	}
	if failed {
		os.Exit(1)
	}
}
