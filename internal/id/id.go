package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record kinds, used as ID prefixes.
const (
	PrefixInvoice = "inv"
	PrefixDriver  = "driver"
	PrefixFuel    = "fuel"
	PrefixVehicle = "vehicle"
)

const suffixLen = 12

// New returns an ID like "inv-3f2a9c01b7de".
func New(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + hex[:suffixLen]
}

// Parse splits "inv-3f2a9c01b7de" into its prefix and hex suffix.
func Parse(id string) (prefix, suffix string, err error) {
	i := strings.LastIndexByte(id, '-')
	if i <= 0 {
		return "", "", fmt.Errorf("invalid record ID format: %q", id)
	}
	prefix, suffix = id[:i], id[i+1:]
	if len(suffix) != suffixLen {
		return "", "", fmt.Errorf("invalid suffix length in record ID %q", id)
	}
	for _, r := range suffix {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", "", fmt.Errorf("invalid hex suffix in record ID %q", id)
		}
	}
	return prefix, suffix, nil
}

// Prefix returns the record kind of id, or "" if id is malformed.
// "fuel-3f2a9c01b7de" -> "fuel"
func Prefix(id string) string {
	p, _, err := Parse(id)
	if err != nil {
		return ""
	}
	return p
}

// Valid reports whether id is well formed and carries prefix.
func Valid(id, prefix string) bool {
	return Prefix(id) == prefix
}
