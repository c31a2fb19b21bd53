package transport

import (
	"fmt"
	"net"

	"github.com/miekg/dns"

	"github.com/metadns/metadns/internal/dns/domain"
)

// questionFromMsg extracts the first question of a message as a domain
// Question. The name is kept verbatim (fully qualified, as it arrived on
// the wire) so answers echo exactly what was asked.
func questionFromMsg(req *dns.Msg) (domain.Question, error) {
	if len(req.Question) == 0 {
		return domain.Question{}, fmt.Errorf("message %d has no question section", req.Id)
	}
	q := req.Question[0]
	return domain.NewQuestion(req.Id, q.Name, domain.RRType(q.Qtype), domain.RRClass(q.Qclass))
}

// answerToRR converts a synthesized answer into a wire resource record.
// Record type codes are IANA-assigned on both sides, so the header type is
// a direct cast. CNAME targets and MX exchanges are fully qualified for the
// wire; the stored values normally carry the trailing dot already.
func answerToRR(a domain.Answer) (dns.RR, error) {
	hdr := dns.RR_Header{
		Name:   dns.Fqdn(a.Name),
		Rrtype: uint16(a.Type),
		Class:  dns.ClassINET,
		Ttl:    a.TTL,
	}
	switch data := a.Data.(type) {
	case domain.ARecord:
		ip := net.ParseIP(data.Addr)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("invalid IPv4 address %q", data.Addr)
		}
		return &dns.A{Hdr: hdr, A: ip.To4()}, nil
	case domain.CNAMERecord:
		return &dns.CNAME{Hdr: hdr, Target: dns.Fqdn(data.Target)}, nil
	case domain.MXRecord:
		return &dns.MX{Hdr: hdr, Preference: data.Priority, Mx: dns.Fqdn(data.Exchange)}, nil
	default:
		return nil, fmt.Errorf("no wire encoding for %T", a.Data)
	}
}
