package domain

// Reserved labels. Neither is ever produced by splitting a real query name;
// both are synthesized ("@" for the apex) or written deliberately ("*").
const (
	LabelApex     = "@"
	LabelWildcard = "*"
)

// TypeRecords maps a record type to its ordered value sequence. Order is
// preserved verbatim through encode/decode and answer emission.
type TypeRecords map[RRType][]RecordData

// RecordSet is the full collection of records for one apex domain, keyed by
// label relative to the apex. A RecordSet is fetched fresh from the backing
// store on every read and never cached in-process.
type RecordSet map[string]TypeRecords

// NewRecordSet returns an empty RecordSet ready for writes.
func NewRecordSet() RecordSet {
	return make(RecordSet)
}

// Lookup returns the records stored for a label. When no exact entry exists
// and the label is not the apex, the wildcard entry is consulted instead.
// The apex never falls through to the wildcard.
func (rs RecordSet) Lookup(label string) (TypeRecords, bool) {
	if tr, ok := rs[label]; ok {
		return tr, true
	}
	if label != LabelApex {
		if tr, ok := rs[LabelWildcard]; ok {
			return tr, true
		}
	}
	return nil, false
}

// Set replaces the value sequence for exactly one (label, type) pair,
// leaving every other pair untouched.
func (rs RecordSet) Set(label string, rrtype RRType, values []RecordData) {
	tr, ok := rs[label]
	if !ok {
		tr = make(TypeRecords)
		rs[label] = tr
	}
	tr[rrtype] = values
}

// IsEmpty reports whether the set holds no records at all.
func (rs RecordSet) IsEmpty() bool {
	return len(rs) == 0
}

// Equal reports deep equality between two record sets, including value order.
func (rs RecordSet) Equal(other RecordSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for label, tr := range rs {
		otr, ok := other[label]
		if !ok || len(tr) != len(otr) {
			return false
		}
		for rrtype, values := range tr {
			ovalues, ok := otr[rrtype]
			if !ok || len(values) != len(ovalues) {
				return false
			}
			for i := range values {
				if values[i] != ovalues[i] {
					return false
				}
			}
		}
	}
	return true
}
