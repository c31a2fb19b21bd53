// Package transport serves DNS over UDP and TCP using miekg/dns for all
// wire-format concerns, handing decoded questions to the service layer as
// domain objects.
package transport

import (
	"context"

	"github.com/metadns/metadns/internal/dns/services/resolver"
)

// ServerTransport defines the contract between the server lifecycle owner
// and a concrete listener implementation.
type ServerTransport interface {
	// Start begins listening and handling requests via the provided handler.
	Start(ctx context.Context, handler resolver.DNSResponder) error

	// Stop gracefully shuts down the transport.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}
