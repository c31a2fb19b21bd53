// Package writer implements the out-of-band write path: normalize an input
// value string, merge it into the apex's existing record set, and persist
// the re-encoded blob. Writes follow a read-modify-write pattern with no
// optimistic-concurrency guard; concurrent writers to the same apex can
// lose updates, which is an accepted limitation.
package writer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/metadns/metadns/internal/dns/common/log"
	"github.com/metadns/metadns/internal/dns/common/utils"
	"github.com/metadns/metadns/internal/dns/domain"
	"github.com/metadns/metadns/internal/dns/gateways/store"
	"github.com/metadns/metadns/internal/dns/records"
)

// RecordStore is the read-write store surface the writer consumes.
type RecordStore interface {
	Lookup(ctx context.Context, apex string) (*store.StoreRecord, error)
	Upsert(ctx context.Context, identity, apex, blob string) error
}

// Writer merges record updates into the external store.
type Writer struct {
	store  RecordStore
	logger log.Logger
}

// New constructs a Writer. A nil logger defaults to the noop logger.
func New(s RecordStore, logger log.Logger) *Writer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Writer{store: s, logger: logger}
}

// Update sets the value sequence for one (label, type) pair under the given
// apex domain, creating the store entry if the apex is new. All other
// (label, type) pairs are left untouched. Unlike the read path, a malformed
// stored blob is a hard error here: silently replacing a record set someone
// else wrote would destroy it.
func (w *Writer) Update(ctx context.Context, apexDomain, label, recordType, rawValue string) error {
	apex := utils.CanonicalDNSName(apexDomain)
	if apex == "" {
		return fmt.Errorf("apex domain must not be empty")
	}

	rrtype := domain.RRTypeFromString(strings.ToUpper(strings.TrimSpace(recordType)))
	if !rrtype.IsSupported() {
		return fmt.Errorf("unsupported record type %q (supported: A, CNAME, MX)", recordType)
	}

	label = utils.CanonicalDNSName(label)
	if label == "" {
		label = domain.LabelApex
	}

	values, err := normalizeValues(rrtype, rawValue)
	if err != nil {
		return fmt.Errorf("normalizing %s value %q: %w", rrtype, rawValue, err)
	}

	rec, err := w.store.Lookup(ctx, apex)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", apex, err)
	}

	recordSet := domain.NewRecordSet()
	identity := ""
	if rec != nil {
		identity = rec.Identity
		if rec.Records != "" {
			recordSet, err = records.Decode(rec.Records)
			if err != nil {
				return fmt.Errorf("existing record set for %s is unreadable, refusing to overwrite: %w", apex, err)
			}
		}
	}

	recordSet.Set(label, rrtype, values)

	blob, err := records.Encode(recordSet)
	if err != nil {
		return fmt.Errorf("encoding record set for %s: %w", apex, err)
	}

	if err := w.store.Upsert(ctx, identity, apex, blob); err != nil {
		return fmt.Errorf("persisting record set for %s: %w", apex, err)
	}

	w.logger.Info(map[string]any{
		"apex":   apex,
		"label":  label,
		"type":   rrtype.String(),
		"values": len(values),
	}, "Record set updated")
	return nil
}

// normalizeValues turns a raw CLI value string into an ordered value
// sequence for one record type.
//
//	A, CNAME: comma separated, whitespace trimmed
//	MX:       comma separated; each entry "<priority> <exchange>" split on
//	          the first whitespace, with a trailing dot appended to the
//	          exchange when missing
func normalizeValues(rrtype domain.RRType, raw string) ([]domain.RecordData, error) {
	segments := strings.Split(raw, ",")
	values := make([]domain.RecordData, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return nil, fmt.Errorf("empty value segment")
		}
		switch rrtype {
		case domain.RRTypeA:
			values = append(values, domain.ARecord{Addr: seg})
		case domain.RRTypeCNAME:
			values = append(values, domain.CNAMERecord{Target: seg})
		case domain.RRTypeMX:
			mx, err := parseMX(seg)
			if err != nil {
				return nil, err
			}
			values = append(values, mx)
		default:
			return nil, fmt.Errorf("unsupported record type %s", rrtype)
		}
	}
	return values, nil
}

// parseMX splits "<priority> <exchange>" on the first run of whitespace.
func parseMX(seg string) (domain.MXRecord, error) {
	cut := strings.IndexFunc(seg, unicode.IsSpace)
	if cut < 0 {
		return domain.MXRecord{}, fmt.Errorf("MX value %q must be \"<priority> <exchange>\"", seg)
	}
	priority, err := strconv.ParseUint(seg[:cut], 10, 16)
	if err != nil {
		return domain.MXRecord{}, fmt.Errorf("MX priority %q is not an integer: %w", seg[:cut], err)
	}
	exchange := strings.TrimSpace(seg[cut:])
	if exchange == "" {
		return domain.MXRecord{}, fmt.Errorf("MX value %q is missing an exchange", seg)
	}
	if !strings.HasSuffix(exchange, ".") {
		exchange += "."
	}
	return domain.MXRecord{Priority: uint16(priority), Exchange: exchange}, nil
}
