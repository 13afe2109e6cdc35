// Package scenario seeds origin RIBs and ROV flags from two input files: an
// ROV ASN list and an announcements CSV.
package scenario

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Emeline-1/asrel-sim/internal/asgraph"
	"github.com/Emeline-1/asrel-sim/internal/bgp"
)

// PrefixDict interns prefix strings into PrefixIDs on first sight and
// recovers the original string for output. Append-only, populated entirely
// before propagation begins.
type PrefixDict struct {
	toID     map[string]bgp.PrefixID
	toPrefix []string
}

// NewPrefixDict allocates a dictionary sized up front to cut rehashing.
func NewPrefixDict() *PrefixDict {
	return &PrefixDict{
		toID:     make(map[string]bgp.PrefixID, 1024),
		toPrefix: make([]string, 0, 1024),
	}
}

// Intern returns the PrefixID for prefix, assigning a new one if needed.
func (d *PrefixDict) Intern(prefix string) bgp.PrefixID {
	if id, ok := d.toID[prefix]; ok {
		return id
	}
	id := bgp.PrefixID(len(d.toPrefix))
	d.toPrefix = append(d.toPrefix, prefix)
	d.toID[prefix] = id
	return id
}

// Prefix recovers the original string for id.
func (d *PrefixDict) Prefix(id bgp.PrefixID) (string, bool) {
	if int(id) >= len(d.toPrefix) {
		return "", false
	}
	return d.toPrefix[id], true
}

// LoadROVASNs reads one ASN per line ('#'-comments skipped) and marks the
// corresponding AS's BGP state as ROV-enabled, for every ASN recognized in
// the graph. Unrecognized or unparseable lines are skipped.
func LoadROVASNs(path string, g *asgraph.Graph, states []*bgp.State) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scenario: opening ROV file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		asn, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			continue
		}
		idx, ok := g.NodeByASN(bgp.ASN(asn))
		if !ok {
			continue
		}
		states[idx].IsROV = true
	}
	return scanner.Err()
}

// LoadAnnouncements reads the announcements CSV (header row, then
// originASN,prefix,rov_invalid) and seeds one origin RIB entry per row whose
// origin ASN exists in the graph. Rows with an unknown origin, or that fail
// to parse, are skipped. Later rows for the same (origin, prefix) overwrite
// earlier ones.
func LoadAnnouncements(path string, g *asgraph.Graph, states []*bgp.State, dict *PrefixDict) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scenario: opening announcements file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows rather than aborting the whole file

	if _, err := r.Read(); err != nil { // header
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("scenario: reading header: %w", err)
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // malformed row: skip it and keep reading
		}
		if len(record) < 3 {
			continue
		}
		asn, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 32)
		if err != nil {
			continue
		}
		idx, ok := g.NodeByASN(bgp.ASN(asn))
		if !ok {
			continue
		}

		prefixID := dict.Intern(strings.TrimSpace(record[1]))
		rovInvalid := isTruthy(strings.TrimSpace(record[2]))

		states[idx].RIB[prefixID] = bgp.Announcement{
			PrefixID:   prefixID,
			ASPath:     []bgp.ASN{bgp.ASN(asn)},
			NextHop:    bgp.ASN(asn),
			Rel:        bgp.ORIGIN,
			ROVInvalid: rovInvalid,
		}
	}
	return nil
}

// isTruthy matches §6: rov_invalid is truthy iff exactly one of
// "True", "true", "1".
func isTruthy(s string) bool {
	return s == "True" || s == "true" || s == "1"
}
