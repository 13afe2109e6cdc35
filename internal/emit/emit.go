// Package emit writes the final simulation result as CSV, per spec.md §4.6.
package emit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Emeline-1/asrel-sim/internal/asgraph"
	"github.com/Emeline-1/asrel-sim/internal/bgp"
	"github.com/Emeline-1/asrel-sim/internal/scenario"
)

// Write dumps one CSV row per (node, RIB entry) pair, in node-index order,
// with header asn,prefix,as_path. as_path is the path ASNs joined by '-',
// most-recent (emitting AS) first. Iteration order within a node's RIB is
// whatever Go's map iteration gives; §4.6 explicitly leaves that
// unspecified.
func Write(w io.Writer, g *asgraph.Graph, states []*bgp.State, dict *scenario.PrefixDict) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"asn", "prefix", "as_path"}); err != nil {
		return fmt.Errorf("emit: writing header: %w", err)
	}

	for idx, node := range g.Nodes {
		for prefixID, ann := range states[idx].RIB {
			prefix, ok := dict.Prefix(prefixID)
			if !ok {
				continue
			}
			row := []string{
				strconv.FormatUint(uint64(node.ASN), 10),
				prefix,
				joinPath(ann.ASPath),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("emit: writing row for AS %d: %w", node.ASN, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinPath(path []bgp.ASN) string {
	parts := make([]string, len(path))
	for i, asn := range path {
		parts[i] = strconv.FormatUint(uint64(asn), 10)
	}
	return strings.Join(parts, "-")
}
