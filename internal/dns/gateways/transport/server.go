package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/miekg/dns"

	"github.com/metadns/metadns/internal/dns/common/log"
	"github.com/metadns/metadns/internal/dns/services/resolver"
)

const shutdownTimeout = 5 * time.Second

// DNSTransport listens for DNS queries over UDP and TCP on the same
// address. One slow query never blocks others: miekg/dns dispatches each
// request on its own goroutine.
type DNSTransport struct {
	addr   string
	logger log.Logger

	mu      sync.Mutex
	running bool
	servers []*dns.Server
}

// NewDNSTransport creates a transport bound to addr (host:port).
func NewDNSTransport(addr string, logger log.Logger) *DNSTransport {
	return &DNSTransport{
		addr:   addr,
		logger: logger,
	}
}

// Start launches the UDP and TCP listeners. It returns once both are
// accepting; listener failures after that are logged. The transport stops
// itself when ctx is cancelled.
func (t *DNSTransport) Start(ctx context.Context, handler resolver.DNSResponder) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("transport already running")
	}

	mux := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		t.serveDNS(ctx, w, req, handler)
	})

	started := make(chan error, 2)
	for _, network := range []string{"udp", "tcp"} {
		srv := &dns.Server{
			Addr:    t.addr,
			Net:     network,
			Handler: mux,
			NotifyStartedFunc: func() {
				started <- nil
			},
		}
		t.servers = append(t.servers, srv)
		go func(srv *dns.Server) {
			// returns nil on graceful shutdown
			if err := srv.ListenAndServe(); err != nil {
				t.logger.Error(map[string]any{
					"net":     srv.Net,
					"address": t.addr,
					"error":   err.Error(),
				}, "DNS listener failed")
				select {
				case started <- err:
				default:
				}
			}
		}(srv)
	}

	for i := 0; i < 2; i++ {
		if err := <-started; err != nil {
			t.stopLocked()
			return fmt.Errorf("starting DNS listeners on %s: %w", t.addr, err)
		}
	}

	t.running = true
	t.logger.Info(map[string]any{
		"address":  t.addr,
		"networks": []string{"udp", "tcp"},
	}, "DNS transport started")

	go func() {
		<-ctx.Done()
		if err := t.Stop(); err != nil {
			t.logger.Warn(map[string]any{"error": err.Error()}, "Error stopping DNS transport")
		}
	}()

	return nil
}

// Stop gracefully shuts down both listeners.
func (t *DNSTransport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return nil
	}
	t.running = false
	err := t.stopLocked()
	t.logger.Info(map[string]any{"address": t.addr}, "DNS transport stopped")
	return err
}

func (t *DNSTransport) stopLocked() error {
	var firstErr error
	for _, srv := range t.servers {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := srv.ShutdownContext(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		cancel()
	}
	t.servers = nil
	return firstErr
}

// Address returns the network address the transport is bound to.
func (t *DNSTransport) Address() string {
	return t.addr
}

// serveDNS converts one wire message to a domain question, resolves it, and
// writes the reply. The answer section may legitimately be empty; the
// response code is always NOERROR because "no data" is a valid outcome and
// unexpected failures were already converted into the fallback answer.
func (t *DNSTransport) serveDNS(ctx context.Context, w dns.ResponseWriter, req *dns.Msg, handler resolver.DNSResponder) {
	reply := new(dns.Msg)
	reply.SetReply(req)
	reply.Authoritative = true

	// Only the first question is answered; multi-question messages are a
	// protocol curiosity nothing sends in practice.
	question, err := questionFromMsg(req)
	if err != nil {
		t.logger.Warn(map[string]any{
			"client": w.RemoteAddr().String(),
			"error":  err.Error(),
		}, "Dropping unanswerable DNS message")
		t.writeReply(w, reply)
		return
	}

	answers := handler.HandleQuery(ctx, question, w.RemoteAddr())
	for _, answer := range answers {
		rr, err := answerToRR(answer)
		if err != nil {
			t.logger.Warn(map[string]any{
				"name":  answer.Name,
				"type":  answer.Type.String(),
				"error": err.Error(),
			}, "Skipping unencodable answer record")
			continue
		}
		reply.Answer = append(reply.Answer, rr)
	}

	t.writeReply(w, reply)
}

func (t *DNSTransport) writeReply(w dns.ResponseWriter, reply *dns.Msg) {
	if err := w.WriteMsg(reply); err != nil {
		t.logger.Warn(map[string]any{
			"client": w.RemoteAddr().String(),
			"error":  err.Error(),
		}, "Failed to write DNS response")
	}
}
