package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metadns/metadns/internal/dns/common/log"
)

func TestTransport_StartStop(t *testing.T) {
	tr := NewDNSTransport("127.0.0.1:0", log.NewNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, tr.Start(ctx, &fakeResponder{}))

	// a second start while running must fail
	assert.Error(t, tr.Start(ctx, &fakeResponder{}))

	require.NoError(t, tr.Stop())
	// stopping twice is a no-op
	assert.NoError(t, tr.Stop())
}
