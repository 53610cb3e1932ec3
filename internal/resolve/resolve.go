// Package resolve maps fully qualified names to the zone that owns them.
//
// The zone of a name is its registrable domain ("{domain}.{suffix}"), the
// subdomain is what remains to the left of it, or "@" for the zone apex.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Apex is the subdomain label used for the zone's own name.
const Apex = "@"

// ErrResolution is wrapped by every error returned from a Resolver.
var ErrResolution = errors.New("cannot resolve zone")

// Resolver splits a name into its zone and the subdomain relative to it.
type Resolver interface {
	Resolve(name string) (zone, subdomain string, err error)
}

// Func adapts a plain function to the Resolver interface.
type Func func(name string) (zone, subdomain string, err error)

func (f Func) Resolve(name string) (string, string, error) { return f(name) }

// PublicSuffix resolves names with the ICANN section of the public suffix
// list compiled into golang.org/x/net/publicsuffix. Private suffixes such as
// github.io are not zone boundaries, and a name under a TLD the list does not
// know is an error rather than a guess.
type PublicSuffix struct{}

func (PublicSuffix) Resolve(name string) (string, string, error) {
	fqdn, err := normalize(name)
	if err != nil {
		return "", "", err
	}
	if strings.HasPrefix(fqdn, ".") || strings.Contains(fqdn, "..") {
		return "", "", fmt.Errorf("%w: empty label in %q", ErrResolution, name)
	}

	suffix, err := icannSuffix(fqdn)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %v", ErrResolution, name, err)
	}
	if fqdn == suffix {
		return "", "", fmt.Errorf("%w: %q is a public suffix", ErrResolution, name)
	}

	rest := strings.TrimSuffix(fqdn, "."+suffix)
	zone := rest[strings.LastIndex(rest, ".")+1:] + "." + suffix
	return zone, subdomainOf(fqdn, zone), nil
}

// icannSuffix returns the longest ICANN public suffix of fqdn. A private rule
// match is shortened one label at a time until an ICANN rule is hit. When only
// the implicit "*" rule matches the TLD is unknown.
func icannSuffix(fqdn string) (string, error) {
	suffix, icann := publicsuffix.PublicSuffix(fqdn)
	for !icann {
		i := strings.IndexByte(suffix, '.')
		if i < 0 {
			return "", fmt.Errorf("unknown top-level domain %q", suffix)
		}
		suffix, icann = publicsuffix.PublicSuffix(suffix[i+1:])
	}
	return suffix, nil
}

// Fixed returns a Resolver that only knows the given zones. A name resolves
// to the longest zone it equals or ends with.
func Fixed(zones ...string) Resolver {
	known := make([]string, 0, len(zones))
	for _, z := range zones {
		known = append(known, strings.TrimSuffix(strings.ToLower(z), "."))
	}
	sort.Slice(known, func(i, j int) bool { return len(known[i]) > len(known[j]) })

	return Func(func(name string) (string, string, error) {
		fqdn, err := normalize(name)
		if err != nil {
			return "", "", err
		}
		for _, zone := range known {
			if fqdn == zone || strings.HasSuffix(fqdn, "."+zone) {
				return zone, subdomainOf(fqdn, zone), nil
			}
		}
		return "", "", fmt.Errorf("%w: no known zone for %q", ErrResolution, name)
	})
}

// normalize drops a single trailing root dot.
func normalize(name string) (string, error) {
	fqdn := strings.TrimSuffix(name, ".")
	if fqdn == "" {
		return "", fmt.Errorf("%w: empty name %q", ErrResolution, name)
	}
	return fqdn, nil
}

func subdomainOf(fqdn, zone string) string {
	if fqdn == zone {
		return Apex
	}
	return strings.TrimSuffix(fqdn, "."+zone)
}
