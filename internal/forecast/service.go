package forecast

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"renewable-surplus/internal/analysis"
	"renewable-surplus/internal/data"
	"renewable-surplus/internal/model"
)

// Fetcher retrieves raw forecast documents. *data.EntsoeClient implements it.
type Fetcher interface {
	FetchGenerationForecast(ctx context.Context, inDomain, periodStart, periodEnd string) (*model.MarketDocument, error)
	FetchLoadForecast(ctx context.Context, outBiddingZone, periodStart, periodEnd string) (*model.MarketDocument, error)
}

var _ Fetcher = (*data.EntsoeClient)(nil)

// Pair is a generation and a load document covering the same window.
type Pair struct {
	Generation *model.MarketDocument
	Load       *model.MarketDocument
}

// Service turns forecast documents into surplus series. It keeps no
// per-request state and is safe for concurrent use.
type Service struct {
	fetcher     Fetcher
	log         *zap.SugaredLogger
	now         func() time.Time
	bufferHours int
}

type Option func(*Service)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now for lookahead windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBufferHours widens lookahead fetches past the requested horizon.
func WithBufferHours(h int) Option {
	return func(s *Service) { s.bufferHours = h }
}

func NewService(f Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:     f,
		log:         zap.NewNop().Sugar(),
		now:         time.Now,
		bufferHours: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// FetchPair fetches generation and load concurrently. Either failure cancels
// the other request and is returned unchanged; no partial pair is returned.
func (s *Service) FetchPair(ctx context.Context, domain string, start, end time.Time) (*Pair, error) {
	periodStart, periodEnd := data.FormatPeriod(start), data.FormatPeriod(end)

	var pair Pair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := s.fetcher.FetchGenerationForecast(gctx, domain, periodStart, periodEnd)
		if err != nil {
			return err
		}
		pair.Generation = doc
		return nil
	})
	g.Go(func() error {
		doc, err := s.fetcher.FetchLoadForecast(gctx, domain, periodStart, periodEnd)
		if err != nil {
			return err
		}
		pair.Load = doc
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Warnw("fetch pair failed", "domain", domain, "period_start", periodStart, "period_end", periodEnd, "error", err)
		return nil, err
	}
	return &pair, nil
}

// SurplusSeries fetches both documents for [start, end] and returns the
// joined surplus series, sorted by time.
func (s *Service) SurplusSeries(ctx context.Context, domain string, start, end time.Time) ([]model.SurplusPoint, error) {
	_, points, err := s.SeriesWithDocuments(ctx, domain, start, end)
	return points, err
}

// SeriesWithDocuments is SurplusSeries that also hands back the two fetched
// documents, for callers that report on the raw forecasts.
func (s *Service) SeriesWithDocuments(ctx context.Context, domain string, start, end time.Time) (*Pair, []model.SurplusPoint, error) {
	pair, err := s.FetchPair(ctx, domain, start, end)
	if err != nil {
		return nil, nil, err
	}
	points, err := analysis.SurplusSeries(pair.Generation, pair.Load)
	if err != nil {
		s.log.Warnw("malformed forecast", "domain", domain, "error", err)
		return nil, nil, err
	}
	s.log.Debugw("surplus series",
		"domain", domain,
		"generation_points", pair.Generation.PointCount(),
		"load_points", pair.Load.PointCount(),
		"joined", len(points))
	return pair, points, nil
}

// MaxSurplus returns the instant of greatest surplus over [start, end].
func (s *Service) MaxSurplus(ctx context.Context, domain string, start, end time.Time) (model.SurplusPoint, error) {
	points, err := s.SurplusSeries(ctx, domain, start, end)
	if err != nil {
		return model.SurplusPoint{}, err
	}
	return analysis.MaxSurplus(points)
}

// Upcoming fetches the series from `from` to from+hours, widened by the
// buffer. Callers narrow the result with an analysis filter.
func (s *Service) Upcoming(ctx context.Context, domain string, from time.Time, hours int) ([]model.SurplusPoint, error) {
	_, points, err := s.UpcomingWithDocuments(ctx, domain, from, hours)
	return points, err
}

func (s *Service) UpcomingWithDocuments(ctx context.Context, domain string, from time.Time, hours int) (*Pair, []model.SurplusPoint, error) {
	end := from.Add(time.Duration(hours+s.bufferHours) * time.Hour)
	return s.SeriesWithDocuments(ctx, domain, from, end)
}
