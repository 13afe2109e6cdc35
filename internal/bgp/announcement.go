// Package bgp implements the per-AS BGP decision process: the Announcement
// value type, its preference order, and the receive-queue/RIB primitives
// each AS runs during propagation.
package bgp

// ASN is a 32-bit Autonomous System Number.
type ASN uint32

// PrefixID is a dense index assigned to a prefix string on first sight. The
// prefix dictionary that recovers the original string lives in the scenario
// loader, not here: Announcement only ever carries the index.
type PrefixID uint32

// Rel records how the current holder of an Announcement learned the route.
// It governs both preference (§3) and Gao-Rexford export (§4.3): higher
// values are strictly preferred.
type Rel int8

const (
	PROV   Rel = 0
	PEER   Rel = 1
	CUST   Rel = 2
	ORIGIN Rel = 3
)

func (r Rel) String() string {
	switch r {
	case PROV:
		return "PROV"
	case PEER:
		return "PEER"
	case CUST:
		return "CUST"
	case ORIGIN:
		return "ORIGIN"
	default:
		return "UNKNOWN"
	}
}

// Announcement is an immutable (copyable) route record. Callers that hand an
// Announcement to another AS must clone it first (see Clone) so the AS_path
// backing arrays are never aliased between RIBs.
type Announcement struct {
	PrefixID   PrefixID
	ASPath     []ASN // most-recent first; empty only transiently before origin seeding
	NextHop    ASN   // the AS this holder received the route from (or itself, at origin)
	Rel        Rel
	ROVInvalid bool
}

// Clone returns a deep copy of a, so that mutating the returned value's
// ASPath never affects a's backing array. Required at every point an
// Announcement crosses a RIB/recv_queue boundary (§5, memory model).
func (a Announcement) Clone() Announcement {
	path := make([]ASN, len(a.ASPath))
	copy(path, a.ASPath)
	a.ASPath = path
	return a
}

// Better reports whether a is strictly preferred over b under the §3 order:
// higher Rel wins; ties broken by shorter AS path; ties broken by smaller
// NextHop. This is the only tie-break point in the system and must stay a
// strict total order (irreflexive, transitive, antisymmetric modulo equal
// tuples) for Receive's keep-the-best-candidate semantics to be well defined.
func (a Announcement) Better(b Announcement) bool {
	if a.Rel != b.Rel {
		return a.Rel > b.Rel
	}
	if len(a.ASPath) != len(b.ASPath) {
		return len(a.ASPath) < len(b.ASPath)
	}
	return a.NextHop < b.NextHop
}
