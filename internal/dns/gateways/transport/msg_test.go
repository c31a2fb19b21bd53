package transport

import (
	"context"
	"net"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metadns/metadns/internal/dns/common/log"
	"github.com/metadns/metadns/internal/dns/domain"
)

func TestQuestionFromMsg(t *testing.T) {
	req := new(dns.Msg)
	req.SetQuestion("www.example.com.", dns.TypeA)
	req.Id = 42

	q, err := questionFromMsg(req)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), q.ID)
	assert.Equal(t, "www.example.com.", q.Name, "wire name kept verbatim")
	assert.Equal(t, domain.RRTypeA, q.Type)
	assert.Equal(t, domain.RRClassIN, q.Class)
}

func TestQuestionFromMsg_NoQuestion(t *testing.T) {
	req := new(dns.Msg)
	_, err := questionFromMsg(req)
	assert.Error(t, err)
}

func TestAnswerToRR(t *testing.T) {
	tests := []struct {
		name   string
		answer domain.Answer
		verify func(t *testing.T, rr dns.RR)
	}{
		{
			name:   "A record",
			answer: mustAnswer(t, "www.example.com.", domain.RRTypeA, domain.ARecord{Addr: "1.2.3.4"}),
			verify: func(t *testing.T, rr dns.RR) {
				a, ok := rr.(*dns.A)
				require.True(t, ok)
				assert.Equal(t, "1.2.3.4", a.A.String())
			},
		},
		{
			name:   "CNAME record qualifies target",
			answer: mustAnswer(t, "www.example.com.", domain.RRTypeCNAME, domain.CNAMERecord{Target: "a.com"}),
			verify: func(t *testing.T, rr dns.RR) {
				c, ok := rr.(*dns.CNAME)
				require.True(t, ok)
				assert.Equal(t, "a.com.", c.Target)
			},
		},
		{
			name:   "MX record",
			answer: mustAnswer(t, "example.com.", domain.RRTypeMX, domain.MXRecord{Priority: 10, Exchange: "mail.x.com."}),
			verify: func(t *testing.T, rr dns.RR) {
				mx, ok := rr.(*dns.MX)
				require.True(t, ok)
				assert.Equal(t, uint16(10), mx.Preference)
				assert.Equal(t, "mail.x.com.", mx.Mx)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, err := answerToRR(tt.answer)
			require.NoError(t, err)
			assert.Equal(t, uint32(300), rr.Header().Ttl)
			assert.Equal(t, uint16(dns.ClassINET), rr.Header().Class)
			tt.verify(t, rr)
		})
	}
}

func TestAnswerToRR_BadAddress(t *testing.T) {
	a := mustAnswer(t, "example.com.", domain.RRTypeA, domain.ARecord{Addr: "not-an-ip"})
	_, err := answerToRR(a)
	assert.Error(t, err)
}

func mustAnswer(t *testing.T, name string, rrtype domain.RRType, data domain.RecordData) domain.Answer {
	t.Helper()
	a, err := domain.NewAnswer(name, rrtype, data)
	require.NoError(t, err)
	return a
}

// fakeResponder returns canned answers for serveDNS tests.
type fakeResponder struct {
	answers []domain.Answer
	gotName string
}

func (f *fakeResponder) HandleQuery(_ context.Context, q domain.Question, _ net.Addr) []domain.Answer {
	f.gotName = q.Name
	return f.answers
}

// fakeWriter captures the written reply.
type fakeWriter struct {
	dns.ResponseWriter
	msg *dns.Msg
}

func (f *fakeWriter) WriteMsg(m *dns.Msg) error { f.msg = m; return nil }
func (f *fakeWriter) RemoteAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 53000}
}

func TestServeDNS(t *testing.T) {
	responder := &fakeResponder{answers: []domain.Answer{
		mustAnswer(t, "www.example.com.", domain.RRTypeA, domain.ARecord{Addr: "1.2.3.4"}),
	}}
	tr := NewDNSTransport("127.0.0.1:0", log.NewNoopLogger())

	req := new(dns.Msg)
	req.SetQuestion("www.example.com.", dns.TypeA)
	w := &fakeWriter{}

	tr.serveDNS(context.Background(), w, req, responder)

	require.NotNil(t, w.msg)
	assert.True(t, w.msg.Authoritative)
	assert.Equal(t, "www.example.com.", responder.gotName)
	require.Len(t, w.msg.Answer, 1)
	assert.Equal(t, dns.RcodeSuccess, w.msg.Rcode)
}

func TestServeDNS_EmptyAnswerIsStillAReply(t *testing.T) {
	responder := &fakeResponder{}
	tr := NewDNSTransport("127.0.0.1:0", log.NewNoopLogger())

	req := new(dns.Msg)
	req.SetQuestion("unknown.example.com.", dns.TypeMX)
	w := &fakeWriter{}

	tr.serveDNS(context.Background(), w, req, responder)

	require.NotNil(t, w.msg)
	assert.Empty(t, w.msg.Answer)
	assert.Equal(t, dns.RcodeSuccess, w.msg.Rcode)
}

func TestServeDNS_NoQuestion(t *testing.T) {
	responder := &fakeResponder{}
	tr := NewDNSTransport("127.0.0.1:0", log.NewNoopLogger())

	w := &fakeWriter{}
	tr.serveDNS(context.Background(), w, new(dns.Msg), responder)

	require.NotNil(t, w.msg, "even an unanswerable message gets a reply")
	assert.Empty(t, w.msg.Answer)
}

func TestAddress(t *testing.T) {
	tr := NewDNSTransport("0.0.0.0:5333", log.NewNoopLogger())
	assert.Equal(t, "0.0.0.0:5333", tr.Address())
}
