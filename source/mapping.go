package source

// A remote/local column name pair
type FieldPair struct {
	Remote string
	Local  string
}

// FieldMapping is an ordered, bidirectional mapping between remote field
// names and local column names. Only mapped columns participate in diffing,
// in declaration order. Remote and local names never literally match, so
// every source declares its own mapping.
type FieldMapping struct {
	pairs []FieldPair
}

func NewFieldMapping(pairs ...FieldPair) FieldMapping {
	return FieldMapping{pairs: pairs}
}

func (m FieldMapping) Pairs() []FieldPair {
	return m.pairs
}

func (m FieldMapping) Len() int {
	return len(m.pairs)
}

// Local column names in mapping order
func (m FieldMapping) Locals() []string {
	out := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = p.Local
	}
	return out
}

// Remote field names in mapping order
func (m FieldMapping) Remotes() []string {
	out := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = p.Remote
	}
	return out
}

func (m FieldMapping) LocalFor(remote string) (string, bool) {
	for _, p := range m.pairs {
		if p.Remote == remote {
			return p.Local, true
		}
	}
	return "", false
}

func (m FieldMapping) RemoteFor(local string) (string, bool) {
	for _, p := range m.pairs {
		if p.Local == local {
			return p.Remote, true
		}
	}
	return "", false
}
