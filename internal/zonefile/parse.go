package zonefile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jroosing/zonegen/internal/database"
)

// File is a generated zone file read back from disk.
type File struct {
	Origin  string // zone name without the trailing dot
	Records []database.Record
}

// LoadFile reads and parses a generated zone file.
func LoadFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseText(string(b))
}

// ParseText parses the output of Render. Only the subset Render produces is
// accepted: comment lines, one $ORIGIN directive and one record per line
// with all five columns present.
func ParseText(text string) (*File, error) {
	f := &File{}
	haveOrigin := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		fields := strings.Fields(line)
		if strings.HasPrefix(fields[0], "$") {
			if !strings.EqualFold(fields[0], "$ORIGIN") {
				return nil, fmt.Errorf("line %d: unsupported directive %s", lineNo, fields[0])
			}
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: invalid $ORIGIN directive", lineNo)
			}
			if haveOrigin {
				return nil, fmt.Errorf("line %d: duplicate $ORIGIN directive", lineNo)
			}
			f.Origin = strings.TrimSuffix(fields[1], ".")
			haveOrigin = true
			continue
		}
		if !haveOrigin {
			return nil, errors.New("zone file missing $ORIGIN")
		}

		rr, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		f.Records = append(f.Records, rr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading zone file: %w", err)
	}
	if !haveOrigin {
		return nil, errors.New("zone file missing $ORIGIN")
	}
	return f, nil
}

func parseRecord(fields []string) (database.Record, error) {
	if len(fields) != 5 {
		return database.Record{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	ttl, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return database.Record{}, fmt.Errorf("invalid TTL %q", fields[1])
	}
	return database.Record{
		Subdomain: fields[0],
		TTL:       uint32(ttl),
		Class:     fields[2],
		Type:      fields[3],
		Data:      fields[4],
	}, nil
}

// DiscoverZoneFiles returns the sorted list of zone files in dir.
func DiscoverZoneFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
