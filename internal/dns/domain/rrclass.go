package domain

// RRClass represents a DNS class (usually IN for Internet).
type RRClass uint16

const (
	RRClassIN  RRClass = 1   // IN - Internet
	RRClassANY RRClass = 255 // ANY - Any class (query only)
)

// String returns the textual representation of the RRClass.
func (c RRClass) String() string {
	switch c {
	case RRClassIN:
		return "IN"
	case RRClassANY:
		return "ANY"
	default:
		return "UNKNOWN"
	}
}
