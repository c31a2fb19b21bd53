package domain

import "testing"

func TestNewAnswer(t *testing.T) {
	a, err := NewAnswer("www.example.com", RRTypeCNAME, CNAMERecord{Target: "example.com."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TTL != AnswerTTL {
		t.Errorf("expected TTL %d, got %d", AnswerTTL, a.TTL)
	}
	if a.Class != RRClassIN {
		t.Errorf("expected class IN, got %s", a.Class)
	}
	if a.Name != "www.example.com" {
		t.Errorf("answer name must be the queried name verbatim, got %q", a.Name)
	}
}

func TestNewAnswer_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		qname  string
		rrtype RRType
		data   RecordData
	}{
		{name: "empty name", qname: "", rrtype: RRTypeA, data: ARecord{Addr: "1.1.1.1"}},
		{name: "nil data", qname: "example.com", rrtype: RRTypeA, data: nil},
		{name: "type mismatch", qname: "example.com", rrtype: RRTypeA, data: CNAMERecord{Target: "x."}},
		{name: "empty address", qname: "example.com", rrtype: RRTypeA, data: ARecord{}},
		{name: "empty exchange", qname: "example.com", rrtype: RRTypeMX, data: MXRecord{Priority: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnswer(tt.qname, tt.rrtype, tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFallbackAnswer(t *testing.T) {
	a := FallbackAnswer("whatever.example.com")
	if a.Type != RRTypeA {
		t.Errorf("fallback answer must be an A record, got %s", a.Type)
	}
	if a.TTL != 300 {
		t.Errorf("fallback answer TTL must be 300, got %d", a.TTL)
	}
	if a.Data != (ARecord{Addr: "127.0.0.1"}) {
		t.Errorf("fallback answer must point at loopback, got %v", a.Data)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("fallback answer must validate: %v", err)
	}
}

func TestRRType(t *testing.T) {
	if !RRTypeA.IsSupported() || !RRTypeCNAME.IsSupported() || !RRTypeMX.IsSupported() {
		t.Error("A, CNAME and MX must be supported")
	}
	if RRType(16).IsSupported() {
		t.Error("TXT must not be supported")
	}
	if RRTypeFromString("MX") != RRTypeMX {
		t.Error("RRTypeFromString(MX) mismatch")
	}
	if RRTypeFromString("TXT") != 0 {
		t.Error("unknown type strings must map to 0")
	}
	if got := RRType(28).String(); got != "UNKNOWN(28)" {
		t.Errorf("unexpected String() for unknown type: %q", got)
	}
}
