package store

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/metadns/metadns/internal/dns/common/log"
)

// listPageSize is the page size used when walking the customer list.
const listPageSize = 100

// StripeStore implements record lookup and persistence against the Stripe
// customer API.
//
// Lookups walk the customer *list* endpoint and filter on metadata client
// side. The list endpoint is read-after-write consistent, which the write
// path depends on; the search endpoint is backed by an eventually
// consistent index and must not be substituted here.
type StripeStore struct {
	api    *client.API
	logger log.Logger
}

// NewStripeStore returns a store client authenticated with the given secret key.
func NewStripeStore(apiKey string, logger log.Logger) *StripeStore {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeStore{api: api, logger: logger}
}

// Lookup finds the customer holding records for the apex domain. It returns
// (nil, nil) when no customer carries the domain; that is a valid outcome,
// not an error.
func (s *StripeStore) Lookup(ctx context.Context, apex string) (*StoreRecord, error) {
	params := &stripe.CustomerListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(listPageSize)

	iter := s.api.Customers.List(params)
	for iter.Next() {
		c := iter.Customer()
		if c.Metadata[MetaDomain] != apex {
			continue
		}
		s.logger.Debug(map[string]any{
			"apex":     apex,
			"customer": c.ID,
		}, "Record store lookup hit")
		return &StoreRecord{
			Identity: c.ID,
			Records:  c.Metadata[MetaRecords],
		}, nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing store customers: %w", err)
	}
	return nil, nil
}

// Upsert writes the serialized blob back to the store. An empty identity
// creates a new customer for the apex; otherwise the existing customer's
// metadata is updated in place.
func (s *StripeStore) Upsert(ctx context.Context, identity, apex, blob string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddMetadata(MetaDomain, apex)
	params.AddMetadata(MetaRecords, blob)

	if identity == "" {
		params.Description = stripe.String(fmt.Sprintf("DNS records for %s", apex))
		c, err := s.api.Customers.New(params)
		if err != nil {
			return fmt.Errorf("creating store customer for %s: %w", apex, err)
		}
		s.logger.Info(map[string]any{
			"apex":     apex,
			"customer": c.ID,
		}, "Record store entry created")
		return nil
	}

	if _, err := s.api.Customers.Update(identity, params); err != nil {
		return fmt.Errorf("updating store customer %s: %w", identity, err)
	}
	s.logger.Info(map[string]any{
		"apex":     apex,
		"customer": identity,
	}, "Record store entry updated")
	return nil
}
