package resolver

import (
	"context"
	"net"

	"github.com/metadns/metadns/internal/dns/domain"
	"github.com/metadns/metadns/internal/dns/gateways/store"
)

// RecordStore is the read side of the external record store. Lookup returns
// (nil, nil) when the apex domain is unknown to the store; that is a valid
// outcome, not an error. Implementations must use a read-after-write
// consistent lookup primitive.
type RecordStore interface {
	Lookup(ctx context.Context, apex string) (*store.StoreRecord, error)
}

// DNSResponder is how the transport layer hands queries to the service
// layer. The transport handles all wire concerns; the responder only sees
// domain objects. The returned answers may be empty, which the transport
// encodes as a response with an empty answer section.
type DNSResponder interface {
	HandleQuery(ctx context.Context, query domain.Question, clientAddr net.Addr) []domain.Answer
}
