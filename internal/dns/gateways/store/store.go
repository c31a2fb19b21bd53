// Package store talks to the external record store: a payments platform's
// customer objects, used purely as a keyed string store. Each customer that
// participates carries two metadata fields: dns_domain (the apex domain the
// record set belongs to) and dns_records (the serialized blob).
package store

// Metadata field names on the backing customer object.
const (
	MetaDomain  = "dns_domain"
	MetaRecords = "dns_records"
)

// StoreRecord is the slice of a customer object the DNS core cares about.
type StoreRecord struct {
	// Identity is the store's identifier for the customer holding the
	// record set. Required to update it in place.
	Identity string
	// Records is the serialized record blob, possibly empty.
	Records string
}
