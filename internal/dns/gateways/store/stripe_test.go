package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metadns/metadns/internal/dns/common/log"
)

func TestNewStripeStore(t *testing.T) {
	s := NewStripeStore("sk_test_123", log.NewNoopLogger())
	assert.NotNil(t, s)
	assert.NotNil(t, s.api)
}

func TestMetadataFieldNames(t *testing.T) {
	// the field names are part of the store contract; existing customer
	// objects were written with these exact keys
	assert.Equal(t, "dns_domain", MetaDomain)
	assert.Equal(t, "dns_records", MetaRecords)
}
