// Package records converts between the serialized blob held in the backing
// store's metadata field and the structured record-set. Decoding is strict:
// a malformed blob yields an error and no partial result. Whether a decode
// failure degrades to "no records" is a policy decision made by the caller,
// never here.
package records

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metadns/metadns/internal/dns/domain"
)

// SchemaVersion is the blob schema this codec reads and writes.
const SchemaVersion = 1

// ErrDecode marks any failure to decode a stored blob.
var ErrDecode = errors.New("malformed record blob")

// blob is the wire shape of a serialized record set:
//
//	{"v":1,"labels":{"@":{"A":["1.1.1.1"],"MX":[{"priority":10,"exchange":"mail.x.com."}]}}}
type blob struct {
	Version int                                   `json:"v"`
	Labels  map[string]map[string]json.RawMessage `json:"labels"`
}

type mxValue struct {
	Priority uint16 `json:"priority"`
	Exchange string `json:"exchange"`
}

// Decode parses a serialized blob into a RecordSet. Bad JSON, an unknown
// schema version, an unknown record-type key, or a malformed value all fail
// the whole decode.
func Decode(data string) (domain.RecordSet, error) {
	var b blob
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if b.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrDecode, b.Version)
	}

	rs := domain.NewRecordSet()
	for label, types := range b.Labels {
		for typeName, raw := range types {
			rrtype := domain.RRTypeFromString(typeName)
			if !rrtype.IsSupported() {
				return nil, fmt.Errorf("%w: unknown record type %q for label %q", ErrDecode, typeName, label)
			}
			values, err := decodeValues(rrtype, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: label %q type %s: %v", ErrDecode, label, rrtype, err)
			}
			rs.Set(label, rrtype, values)
		}
	}
	return rs, nil
}

// Encode serializes a RecordSet. It is the left inverse of Decode:
// Decode(Encode(r)) == r for every valid record set. No size limit is
// enforced; blobs past the store's field limit are an operational concern.
func Encode(rs domain.RecordSet) (string, error) {
	b := blob{
		Version: SchemaVersion,
		Labels:  make(map[string]map[string]json.RawMessage, len(rs)),
	}
	for label, types := range rs {
		encoded := make(map[string]json.RawMessage, len(types))
		for rrtype, values := range types {
			raw, err := encodeValues(rrtype, values)
			if err != nil {
				return "", fmt.Errorf("encoding label %q type %s: %w", label, rrtype, err)
			}
			encoded[rrtype.String()] = raw
		}
		b.Labels[label] = encoded
	}
	out, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encoding record set: %w", err)
	}
	return string(out), nil
}

func decodeValues(rrtype domain.RRType, raw json.RawMessage) ([]domain.RecordData, error) {
	switch rrtype {
	case domain.RRTypeA, domain.RRTypeCNAME:
		var strs []string
		if err := json.Unmarshal(raw, &strs); err != nil {
			return nil, err
		}
		values := make([]domain.RecordData, 0, len(strs))
		for _, s := range strs {
			if s == "" {
				return nil, fmt.Errorf("empty value")
			}
			if rrtype == domain.RRTypeA {
				values = append(values, domain.ARecord{Addr: s})
			} else {
				values = append(values, domain.CNAMERecord{Target: s})
			}
		}
		return values, nil
	case domain.RRTypeMX:
		var mxs []mxValue
		if err := json.Unmarshal(raw, &mxs); err != nil {
			return nil, err
		}
		values := make([]domain.RecordData, 0, len(mxs))
		for _, mx := range mxs {
			if mx.Exchange == "" {
				return nil, fmt.Errorf("MX value missing exchange")
			}
			values = append(values, domain.MXRecord{Priority: mx.Priority, Exchange: mx.Exchange})
		}
		return values, nil
	default:
		return nil, fmt.Errorf("unsupported record type %s", rrtype)
	}
}

func encodeValues(rrtype domain.RRType, values []domain.RecordData) (json.RawMessage, error) {
	switch rrtype {
	case domain.RRTypeA, domain.RRTypeCNAME:
		strs := make([]string, 0, len(values))
		for _, v := range values {
			if v.Type() != rrtype {
				return nil, fmt.Errorf("value %T does not belong under %s", v, rrtype)
			}
			switch d := v.(type) {
			case domain.ARecord:
				strs = append(strs, d.Addr)
			case domain.CNAMERecord:
				strs = append(strs, d.Target)
			}
		}
		return json.Marshal(strs)
	case domain.RRTypeMX:
		mxs := make([]mxValue, 0, len(values))
		for _, v := range values {
			mx, ok := v.(domain.MXRecord)
			if !ok {
				return nil, fmt.Errorf("value %T does not belong under MX", v)
			}
			mxs = append(mxs, mxValue{Priority: mx.Priority, Exchange: mx.Exchange})
		}
		return json.Marshal(mxs)
	default:
		return nil, fmt.Errorf("unsupported record type %s", rrtype)
	}
}
