package labels

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/numerator"
	"labelkit/pkg/logger"
)

var tracer = otel.Tracer("labelkit/labels")

// ServiceConfig wires the record store.
type ServiceConfig struct {
	Repo      Repository
	Numerator numerator.Generator
	Policy    DuplicatePolicy

	// Clock stamps CreatedAt. Defaults to time.Now.
	Clock func() time.Time

	// Logger defaults to logger.Default().
	Logger *logger.Logger
}

// Service is the record store: an ordered list of records whose order is
// the printed order. Every mutation is persisted before it returns; a failed
// save leaves the previously stored list as the visible state.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	policy    DuplicatePolicy
	clock     func() time.Time
	log       *logger.Logger

	// mu serializes load-modify-save cycles.
	mu sync.Mutex
}

// NewService creates the record store.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("labels: repository is required")
	}
	if cfg.Numerator == nil {
		return nil, errors.New("labels: serial generator is required")
	}
	if !cfg.Policy.Valid() {
		return nil, errors.New("labels: duplicate policy must be set explicitly (reject or allow)")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	return &Service{
		repo:      cfg.Repo,
		numerator: cfg.Numerator,
		policy:    cfg.Policy,
		clock:     cfg.Clock,
		log:       cfg.Logger.WithComponent("labels"),
	}, nil
}

// Policy returns the configured duplicate policy.
func (s *Service) Policy() DuplicatePolicy {
	return s.policy
}

// Add validates the identifier and prefix, generates a serial and appends
// the new record.
func (s *Service) Add(ctx context.Context, rawIdentifier, prefixCode string) (Record, error) {
	rec, _, err := s.AddIndexed(ctx, rawIdentifier, prefixCode)
	return rec, err
}

// AddIndexed is Add that also reports the zero-based position the record
// was stored at, taken under the same lock as the save.
func (s *Service) AddIndexed(ctx context.Context, rawIdentifier, prefixCode string) (rec Record, index int, err error) {
	ctx, span := tracer.Start(ctx, "labels.Add")
	defer func() { endSpan(span, err) }()

	identifier, err := ParseIdentifier(rawIdentifier)
	if err != nil {
		return Record{}, -1, err
	}
	prefix := strings.TrimSpace(prefixCode)
	if err := numerator.ValidatePrefix(prefix); err != nil {
		return Record{}, -1, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return Record{}, -1, err
	}

	if s.policy == DuplicatesReject {
		if idx := indexOf(records, identifier); idx >= 0 {
			return Record{}, -1, apperror.NewDuplicateIdentifier(identifier, idx)
		}
	}

	serial, err := s.numerator.Generate(prefix)
	if err != nil {
		return Record{}, -1, err
	}

	rec = Record{
		Identifier: identifier,
		PrefixCode: prefix,
		Serial:     serial,
		CreatedAt:  s.clock(),
	}

	next := append(slices.Clip(records), rec)
	if err := s.save(ctx, next); err != nil {
		return Record{}, -1, err
	}

	span.SetAttributes(attribute.Int("labels.count", len(next)))
	s.log.WithContext(ctx).Infow("label added",
		"identifier", rec.Identifier,
		"serial", rec.Serial,
		"index", len(next)-1,
	)
	return rec, len(next) - 1, nil
}

// RemoveAt deletes the record at a zero-based position; later records shift left.
func (s *Service) RemoveAt(ctx context.Context, index int) (err error) {
	ctx, span := tracer.Start(ctx, "labels.RemoveAt", trace.WithAttributes(attribute.Int("labels.index", index)))
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(records) {
		return apperror.NewIndexOutOfRange(index, len(records))
	}

	removed := records[index]
	next := slices.Delete(slices.Clone(records), index, index+1)
	if err := s.save(ctx, next); err != nil {
		return err
	}

	s.log.WithContext(ctx).Infow("label removed",
		"identifier", removed.Identifier,
		"index", index,
		"remaining", len(next),
	)
	return nil
}

// Clear empties the store.
func (s *Service) Clear(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "labels.Clear")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, []Record{}); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("labels cleared")
	return nil
}

// List returns the records in printed order.
func (s *Service) List(ctx context.Context) (records []Record, err error) {
	ctx, span := tracer.Start(ctx, "labels.List")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Select returns the records matching the filter, order preserved.
// A nil filter selects everything.
func (s *Service) Select(ctx context.Context, filter *Filter) ([]Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter.MatchesAll() {
		return records, nil
	}

	selected := make([]Record, 0, len(records))
	for i, rec := range records {
		ok, err := filter.Match(i, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, rec)
		}
	}
	s.log.WithContext(ctx).Debugw("labels selected",
		"filter", filter.String(),
		"selected", len(selected),
		"total", len(records),
	)
	return selected, nil
}

func (s *Service) load(ctx context.Context) ([]Record, error) {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, apperror.NewPersistence("load", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *Service) save(ctx context.Context, records []Record) error {
	if err := s.repo.SaveAll(ctx, records); err != nil {
		s.log.WithContext(ctx).Errorw("failed to persist labels", "records", len(records), "error", err)
		return apperror.NewPersistence("save", err)
	}
	return nil
}

func indexOf(records []Record, identifier string) int {
	return slices.IndexFunc(records, func(r Record) bool {
		return r.Identifier == identifier
	})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
