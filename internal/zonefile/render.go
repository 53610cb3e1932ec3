// Package zonefile renders stored zones as BIND-style zone files and writes
// them atomically, skipping files whose content did not change.
package zonefile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jroosing/zonegen/internal/database"
)

// Extension is appended to the zone name to form the file name.
const Extension = ".zone"

const banner = `; This file was automatically generated by zonegen.
; Do not edit or your changes will be overwritten!

`

// Path returns the location of the file for zone inside dir.
func Path(dir, zone string) string {
	return filepath.Join(dir, zone+Extension)
}

// Render returns the file content for zone. Records are written in the
// order given; callers pass them in the store's canonical order so that the
// output is byte-identical for identical record sets.
func Render(zone string, records []database.Record) string {
	var b strings.Builder
	b.WriteString(banner)
	fmt.Fprintf(&b, "$ORIGIN %s.\n", zone)
	for _, r := range records {
		b.WriteString(formatRecord(r))
	}
	return b.String()
}

func formatRecord(r database.Record) string {
	return fmt.Sprintf("%-20s %6d %-3s %-5s %s\n", r.Subdomain, r.TTL, r.Class, r.Type, r.Data)
}
