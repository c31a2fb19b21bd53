package domain

import "fmt"

// AnswerTTL is the fixed TTL stamped on every synthesized answer.
const AnswerTTL uint32 = 300

// FallbackAddr is the address returned as the sole answer when the query
// pipeline fails unexpectedly. The client always receives a syntactically
// valid response, at the cost of masking the real failure.
const FallbackAddr = "127.0.0.1"

// Answer is one synthesized answer record. Name is the exact string as
// queried, not canonicalized or re-qualified.
type Answer struct {
	Name  string
	Type  RRType
	Class RRClass
	TTL   uint32
	Data  RecordData
}

// NewAnswer constructs an Answer and validates that the data variant
// matches the answer type.
func NewAnswer(name string, rrtype RRType, data RecordData) (Answer, error) {
	a := Answer{
		Name:  name,
		Type:  rrtype,
		Class: RRClassIN,
		TTL:   AnswerTTL,
		Data:  data,
	}
	if err := a.Validate(); err != nil {
		return Answer{}, err
	}
	return a, nil
}

// Validate checks whether the Answer fields are structurally valid.
func (a Answer) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("answer name must not be empty")
	}
	if a.Data == nil {
		return fmt.Errorf("answer data must not be nil")
	}
	if a.Data.Type() != a.Type {
		return fmt.Errorf("answer type %s does not match data variant %s", a.Type, a.Data.Type())
	}
	return ValidateRecordData(a.Data)
}

// FallbackAnswer returns the fixed loopback answer emitted when the
// pipeline fails unexpectedly.
func FallbackAnswer(name string) Answer {
	return Answer{
		Name:  name,
		Type:  RRTypeA,
		Class: RRClassIN,
		TTL:   AnswerTTL,
		Data:  ARecord{Addr: FallbackAddr},
	}
}
