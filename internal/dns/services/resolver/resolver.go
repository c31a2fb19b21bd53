// Package resolver answers DNS questions from record sets held in the
// external store. Every query performs its own store lookup and decode;
// there is no in-process cache, so concurrent queries share no mutable
// state.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/metadns/metadns/internal/dns/common/clock"
	"github.com/metadns/metadns/internal/dns/common/log"
	"github.com/metadns/metadns/internal/dns/common/utils"
	"github.com/metadns/metadns/internal/dns/domain"
	"github.com/metadns/metadns/internal/dns/records"
)

// DefaultLookupTimeout bounds a single store lookup. A lookup that exceeds
// it is treated as an unexpected pipeline failure, not as "no records".
const DefaultLookupTimeout = 5 * time.Second

// Resolver is the query-path service. It owns the fail-soft versus
// fail-fast decision for everything upstream of answer synthesis.
type Resolver struct {
	store         RecordStore
	logger        log.Logger
	clock         clock.Clock
	lookupTimeout time.Duration
}

// Options carries the collaborators for NewResolver.
type Options struct {
	Store         RecordStore
	Logger        log.Logger
	Clock         clock.Clock
	LookupTimeout time.Duration
}

// NewResolver constructs a Resolver. Logger and Clock default to the noop
// logger and the real clock; LookupTimeout defaults to DefaultLookupTimeout.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		store:         opts.Store,
		logger:        opts.Logger,
		clock:         opts.Clock,
		lookupTimeout: opts.LookupTimeout,
	}
	if r.logger == nil {
		r.logger = log.NewNoopLogger()
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.lookupTimeout <= 0 {
		r.lookupTimeout = DefaultLookupTimeout
	}
	return r
}

// HandleQuery resolves a single question. It never fails: legitimate "no
// data" outcomes produce an empty answer slice, and any unexpected failure
// (including a panic below this frame) produces the single fixed loopback
// answer so the client always receives a valid response.
func (r *Resolver) HandleQuery(ctx context.Context, query domain.Question, clientAddr net.Addr) (answers []domain.Answer) {
	start := r.clock.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(map[string]any{
				"name":  query.Name,
				"type":  query.Type.String(),
				"panic": fmt.Sprint(rec),
			}, "Panic during query resolution, serving fallback answer")
			answers = []domain.Answer{domain.FallbackAnswer(query.Name)}
		}
	}()

	answers, err := r.resolve(ctx, query)
	if err != nil {
		// Anything that escapes the fail-soft boundary inside resolve is an
		// unexpected pipeline failure: answer with the fixed loopback record
		// rather than surfacing a protocol-level error.
		r.logger.Error(map[string]any{
			"name":  query.Name,
			"type":  query.Type.String(),
			"error": err.Error(),
		}, "Unexpected query pipeline failure, serving fallback answer")
		answers = []domain.Answer{domain.FallbackAnswer(query.Name)}
	}

	fields := map[string]any{
		"name":       query.Name,
		"type":       query.Type.String(),
		"answers":    len(answers),
		"elapsed_ms": r.clock.Now().Sub(start).Milliseconds(),
	}
	if clientAddr != nil {
		fields["client"] = clientAddr.String()
	}
	r.logger.Info(fields, "Query resolved")
	return answers
}

// resolve runs the query pipeline: parse, fetch, decode, select, synthesize.
// A nil, nil return means a legitimate empty answer. A non-nil error means
// the failure escaped the fail-soft boundary and the caller must serve the
// fallback answer.
func (r *Resolver) resolve(ctx context.Context, query domain.Question) ([]domain.Answer, error) {
	apex, label := utils.SplitName(query.Name)
	if apex == "" {
		return nil, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	rec, err := r.store.Lookup(lookupCtx, apex)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("store lookup exceeded %s: %w", r.lookupTimeout, err)
		}
		// A store failure is coerced into "no record" so the client sees an
		// empty answer. Logged loudly because it is indistinguishable from a
		// genuine miss at the protocol level.
		r.logger.Error(map[string]any{
			"apex":  apex,
			"error": err.Error(),
		}, "Record store lookup failed, serving empty answer")
		return nil, nil
	}
	if rec == nil || rec.Records == "" {
		r.logger.Debug(map[string]any{"apex": apex}, "No record set stored for apex")
		return nil, nil
	}

	recordSet, err := records.Decode(rec.Records)
	if err != nil {
		// Same fail-soft coercion as a store failure, logged distinctly so a
		// corrupt blob is tellable apart from an unreachable store.
		r.logger.Error(map[string]any{
			"apex":  apex,
			"error": err.Error(),
		}, "Stored record blob failed to decode, serving empty answer")
		return nil, nil
	}

	typeRecords, found := recordSet.Lookup(label)
	if !found {
		r.logger.Debug(map[string]any{
			"apex":  apex,
			"label": label,
		}, "No entry for label after wildcard fallback")
		return nil, nil
	}

	answerType, values := selectAnswer(query.Type, typeRecords)
	if len(values) == 0 {
		return nil, nil
	}
	return buildAnswers(query.Name, answerType, values)
}

// selectAnswer picks the value sequence to serve for a query type. It is a
// pure function of (queryType, typeRecords):
//
//	A     -> A values; else the stored CNAME (answer type becomes CNAME)
//	CNAME -> the stored CNAME
//	MX    -> MX values in stored order, never re-sorted by preference
//	other -> nothing
//
// Although multiple CNAME values can be written, only the first stored
// value is ever authoritative; the rest are retained but never served.
func selectAnswer(queryType domain.RRType, typeRecords domain.TypeRecords) (domain.RRType, []domain.RecordData) {
	switch queryType {
	case domain.RRTypeA:
		if values := typeRecords[domain.RRTypeA]; len(values) > 0 {
			return domain.RRTypeA, values
		}
		if values := typeRecords[domain.RRTypeCNAME]; len(values) > 0 {
			return domain.RRTypeCNAME, values[:1]
		}
	case domain.RRTypeCNAME:
		if values := typeRecords[domain.RRTypeCNAME]; len(values) > 0 {
			return domain.RRTypeCNAME, values[:1]
		}
	case domain.RRTypeMX:
		if values := typeRecords[domain.RRTypeMX]; len(values) > 0 {
			return domain.RRTypeMX, values
		}
	}
	return queryType, nil
}

// buildAnswers synthesizes one answer per selected value, stamped with the
// verbatim query name and the fixed TTL.
func buildAnswers(queryName string, answerType domain.RRType, values []domain.RecordData) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0, len(values))
	for _, value := range values {
		a, err := domain.NewAnswer(queryName, answerType, value)
		if err != nil {
			return nil, fmt.Errorf("synthesizing %s answer for %s: %w", answerType, queryName, err)
		}
		answers = append(answers, a)
	}
	return answers, nil
}
