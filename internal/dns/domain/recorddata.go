package domain

import "fmt"

// RecordData is the value carried by a single DNS record. It is a closed
// sum type: exactly one variant exists per supported record type, and
// consumers dispatch with exhaustive type switches rather than field
// presence checks.
type RecordData interface {
	// Type returns the record type this value belongs to.
	Type() RRType
	isRecordData()
}

// ARecord holds an IPv4 address in dotted-quad text form.
type ARecord struct {
	Addr string
}

func (ARecord) Type() RRType  { return RRTypeA }
func (ARecord) isRecordData() {}

func (a ARecord) String() string { return a.Addr }

// CNAMERecord holds the canonical name target.
type CNAMERecord struct {
	Target string
}

func (CNAMERecord) Type() RRType  { return RRTypeCNAME }
func (CNAMERecord) isRecordData() {}

func (c CNAMERecord) String() string { return c.Target }

// MXRecord holds a mail exchange with its preference value. Stored order is
// significant; MX answers are emitted verbatim, never re-sorted by priority.
type MXRecord struct {
	Priority uint16
	Exchange string
}

func (MXRecord) Type() RRType  { return RRTypeMX }
func (MXRecord) isRecordData() {}

func (m MXRecord) String() string { return fmt.Sprintf("%d %s", m.Priority, m.Exchange) }

// ValidateRecordData checks the structural invariants of a record value.
func ValidateRecordData(d RecordData) error {
	switch v := d.(type) {
	case ARecord:
		if v.Addr == "" {
			return fmt.Errorf("A record address must not be empty")
		}
	case CNAMERecord:
		if v.Target == "" {
			return fmt.Errorf("CNAME record target must not be empty")
		}
	case MXRecord:
		if v.Exchange == "" {
			return fmt.Errorf("MX record exchange must not be empty")
		}
	default:
		return fmt.Errorf("unknown record data variant %T", d)
	}
	return nil
}
