package domain

import "fmt"

// RRType represents a DNS resource record type. Codes follow the IANA DNS
// Parameters registry so they map directly onto wire values.
type RRType uint16

// Record types the server knows how to store and answer.
const (
	RRTypeA     RRType = 1  // A - IPv4 address
	RRTypeCNAME RRType = 5  // CNAME - Canonical name
	RRTypeMX    RRType = 15 // MX - Mail exchange
)

// IsSupported returns true if records of this type can be stored and served.
// Queries for any other type are legal but always yield an empty answer.
func (t RRType) IsSupported() bool {
	switch t {
	case RRTypeA, RRTypeCNAME, RRTypeMX:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the RRType.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeCNAME:
		return "CNAME"
	case RRTypeMX:
		return "MX"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", t)
	}
}

// RRTypeFromString converts a record type string to its corresponding RRType value.
// Unknown strings return 0.
func RRTypeFromString(s string) RRType {
	switch s {
	case "A":
		return RRTypeA
	case "CNAME":
		return RRTypeCNAME
	case "MX":
		return RRTypeMX
	default:
		return 0
	}
}
