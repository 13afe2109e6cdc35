package bgp

// State holds the per-AS BGP RIB and staging receive queue. Node and state
// share an index rather than state holding a pointer back to its owning
// node: callers fetch the State for a node index out of a parallel slice
// rather than following a pointer stored on the node (see engine.go).
type State struct {
	RIB       map[PrefixID]Announcement
	RecvQueue map[PrefixID]Announcement
	IsROV     bool

	// OnROVDrop, if set, is called once for every announcement dropped by
	// Receive because this AS is ROV-enabled and the candidate is invalid.
	// nil is a valid, no-op observer; it exists so callers can feed a
	// metrics counter without Receive depending on the metrics package.
	OnROVDrop func()
}

// NewState allocates empty RIB and receive-queue maps, sized up front to
// cut down on rehashing for AS with many prefixes.
func NewState() *State {
	return &State{
		RIB:       make(map[PrefixID]Announcement, 64),
		RecvQueue: make(map[PrefixID]Announcement, 64),
	}
}

// Receive stages ann as a candidate for prefix_id. If the AS performs ROV
// and ann is ROV-invalid, it is silently dropped (correct behavior, not an
// error). Otherwise the receive queue keeps only the single best candidate
// seen for that prefix since the last drain.
func (s *State) Receive(prefixID PrefixID, ann Announcement) {
	if s.IsROV && ann.ROVInvalid {
		if s.OnROVDrop != nil {
			s.OnROVDrop()
		}
		return
	}
	existing, ok := s.RecvQueue[prefixID]
	if !ok || ann.Better(existing) {
		s.RecvQueue[prefixID] = ann
	}
}

// ProcessQueue drains the receive queue into the RIB for selfASN. Every
// drained announcement gets selfASN prepended to its path unless it is
// already the head (true for origin announcements, whose path already
// starts with the origin itself). The RIB entry for that prefix is then
// unconditionally overwritten ("last phase wins"): the drained candidate is
// not compared against the installed entry, so it replaces it even when the
// installed entry ranks higher under Better (an ORIGIN entry can be
// replaced by a CUST one).
func (s *State) ProcessQueue(selfASN ASN) {
	for prefixID, ann := range s.RecvQueue {
		if len(ann.ASPath) == 0 || ann.ASPath[0] != selfASN {
			path := make([]ASN, 0, len(ann.ASPath)+1)
			path = append(path, selfASN)
			path = append(path, ann.ASPath...)
			ann.ASPath = path
		}
		s.RIB[prefixID] = ann
		delete(s.RecvQueue, prefixID)
	}
}
