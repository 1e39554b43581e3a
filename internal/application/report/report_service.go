package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/batchledger/backend/internal/domain/ledger"
	"github.com/batchledger/backend/internal/domain/report"
	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/infrastructure/logger"
	"github.com/batchledger/backend/internal/infrastructure/telemetry"
)

// Report kinds, used as span names, metric labels and cache key prefixes
const (
	KindBatchUtilization     = "batch_utilization"
	KindCustomerBalances     = "customer_balances"
	KindRevenueByProductType = "revenue_by_product_type"
	KindCashFlow             = "cash_flow"
	KindOrderTracking        = "order_tracking"
	KindCustomerStatement    = "customer_statement"
)

// Recorder receives one observation per report invocation.
// telemetry.ReportMetrics satisfies it.
type Recorder interface {
	RecordReport(ctx context.Context, kind string, rows int, elapsed time.Duration, err error)
}

// ReportService builds reporting views from ledger snapshots. It holds no
// mutable state and is safe for concurrent use.
type ReportService struct {
	reader   report.SnapshotReader
	clock    func() time.Time
	logger   *zap.Logger
	cache    report.ResultCache
	cacheTTL time.Duration
	recorder Recorder
}

// Option configures a ReportService
type Option func(*ReportService)

// WithClock sets the source of "today"
func WithClock(clock func() time.Time) Option {
	return func(s *ReportService) {
		s.clock = clock
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *ReportService) {
		s.logger = l
	}
}

// WithCache enables result caching with the given TTL
func WithCache(cache report.ResultCache, ttl time.Duration) Option {
	return func(s *ReportService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *ReportService) {
		s.recorder = r
	}
}

// NewReportService creates a new ReportService
func NewReportService(reader report.SnapshotReader, opts ...Option) *ReportService {
	s := &ReportService{
		reader: reader,
		clock:  func() time.Time { return time.Now().UTC() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today resolves the reporting date once per invocation
func (s *ReportService) today(asOf *time.Time) time.Time {
	if asOf != nil {
		return ledger.DateOf(*asOf)
	}
	return ledger.DateOf(s.clock())
}

// GetBatchUtilization returns every batch, newest first
func (s *ReportService) GetBatchUtilization(ctx context.Context) ([]report.BatchUtilizationItem, error) {
	return generate(ctx, s, KindBatchUtilization, KindBatchUtilization, countRows[report.BatchUtilizationItem],
		func(ctx context.Context) ([]report.BatchUtilizationItem, error) {
			batches, err := s.reader.FetchBatchesWithOrders(ctx)
			if err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return report.BuildBatchUtilization(batches), nil
		})
}

// GetCustomerBalances returns every customer's balance and aging, ordered by name.
// A nil asOf means today.
func (s *ReportService) GetCustomerBalances(ctx context.Context, asOf *time.Time) ([]report.CustomerBalanceItem, error) {
	today := s.today(asOf)
	return generate(ctx, s, KindCustomerBalances, datedKey(KindCustomerBalances, today), countRows[report.CustomerBalanceItem],
		func(ctx context.Context) ([]report.CustomerBalanceItem, error) {
			customers, err := s.reader.FetchCustomersWithOrdersAndPayments(ctx)
			if err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return report.BuildCustomerBalances(customers, today), nil
		})
}

// GetRevenueByProductType returns revenue per product type, highest first
func (s *ReportService) GetRevenueByProductType(ctx context.Context) ([]report.ProductRevenueItem, error) {
	return generate(ctx, s, KindRevenueByProductType, KindRevenueByProductType, countRows[report.ProductRevenueItem],
		func(ctx context.Context) ([]report.ProductRevenueItem, error) {
			var (
				orders       []ledger.Order
				productTypes []ledger.ProductType
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				orders, err = s.reader.FetchAllOrdersWithDetails(gctx)
				return err
			})
			g.Go(func() (err error) {
				productTypes, err = s.reader.FetchAllProductTypes(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return report.BuildRevenueByProductType(orders, productTypes), nil
		})
}

// GetCashFlowTimeline returns daily charged and paid totals with running coverage
func (s *ReportService) GetCashFlowTimeline(ctx context.Context) (*report.CashFlowReport, error) {
	return generate(ctx, s, KindCashFlow, KindCashFlow,
		func(r *report.CashFlowReport) int { return len(r.Timeline) },
		func(ctx context.Context) (*report.CashFlowReport, error) {
			var (
				orders   []ledger.Order
				payments []ledger.Payment
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				orders, err = s.reader.FetchAllOrdersWithDetails(gctx)
				return err
			})
			g.Go(func() (err error) {
				payments, err = s.reader.FetchAllPayments(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r := report.BuildCashFlowTimeline(report.DatedCharges(orders), report.DatedPayments(payments))
			return &r, nil
		})
}

// GetOperationalOrderTracking returns one row per order line with its due-date
// status, most recently placed orders first. A nil asOf means today.
func (s *ReportService) GetOperationalOrderTracking(ctx context.Context, asOf *time.Time) ([]report.OrderTrackingItem, error) {
	today := s.today(asOf)
	return generate(ctx, s, KindOrderTracking, datedKey(KindOrderTracking, today), countRows[report.OrderTrackingItem],
		func(ctx context.Context) ([]report.OrderTrackingItem, error) {
			var (
				orders  []ledger.Order
				lookups report.TrackingLookups
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				orders, err = s.reader.FetchAllOrdersWithDetails(gctx)
				return err
			})
			g.Go(func() (err error) {
				lookups.BatchNumbers, err = s.reader.FetchBatchIDsToNumbers(gctx)
				return err
			})
			g.Go(func() (err error) {
				lookups.CustomerNames, err = s.reader.FetchCustomerIDsToNames(gctx)
				return err
			})
			g.Go(func() (err error) {
				lookups.ProductTypeNames, err = s.reader.FetchProductTypeIDsToNames(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return report.BuildOrderTracking(orders, lookups, today), nil
		})
}

// GetCustomerStatement returns one customer's orders and payments with totals.
// An unknown customer yields shared.ErrNotFound.
func (s *ReportService) GetCustomerStatement(ctx context.Context, customerID uuid.UUID) (*report.CustomerStatement, error) {
	return generate(ctx, s, KindCustomerStatement, KindCustomerStatement+":"+customerID.String(),
		func(r *report.CustomerStatement) int { return len(r.Orders) + len(r.Payments) },
		func(ctx context.Context) (*report.CustomerStatement, error) {
			var (
				customer         *ledger.Customer
				batchNumbers     map[uuid.UUID]int
				productTypeNames map[uuid.UUID]string
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				customer, err = s.reader.FetchCustomerWithOrdersAndPayments(gctx, customerID)
				return err
			})
			g.Go(func() (err error) {
				batchNumbers, err = s.reader.FetchBatchIDsToNumbers(gctx)
				return err
			})
			g.Go(func() (err error) {
				productTypeNames, err = s.reader.FetchProductTypeIDsToNames(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if customer == nil {
				return nil, shared.ErrNotFound
			}
			st := report.BuildCustomerStatement(*customer, batchNumbers, productTypeNames)
			return &st, nil
		})
}

func countRows[T any](items []T) int {
	return len(items)
}

func datedKey(kind string, today time.Time) string {
	return kind + ":" + today.Format(time.DateOnly)
}

// generate wraps a report build with a span, the result cache, logging and
// metrics. Build errors are returned unchanged.
func generate[T any](
	ctx context.Context,
	s *ReportService,
	kind, cacheKey string,
	rows func(T) int,
	build func(ctx context.Context) (T, error),
) (T, error) {
	ctx, span := telemetry.StartReportSpan(ctx, kind, telemetry.AttrCacheKey.String(cacheKey))
	defer span.End()

	start := time.Now()
	log := s.log(ctx).With(zap.String("report", kind))

	var zero T
	if err := ctx.Err(); err != nil {
		s.fail(ctx, log, span, kind, start, err)
		return zero, err
	}

	if s.cache != nil {
		var cached T
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		switch {
		case err != nil:
			log.Warn("Report cache read failed", zap.String("key", cacheKey), zap.Error(err))
		case hit:
			telemetry.MarkCacheHit(span, true)
			log.Debug("Report served from cache", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	result, err := build(ctx)
	if err != nil {
		s.fail(ctx, log, span, kind, start, err)
		return zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			log.Warn("Report cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	n := rows(result)
	elapsed := time.Since(start)
	telemetry.SetRowCount(span, n)
	log.Debug("Report generated", zap.Int("rows", n), zap.Duration("elapsed", elapsed))
	if s.recorder != nil {
		s.recorder.RecordReport(ctx, kind, n, elapsed, nil)
	}
	return result, nil
}

func (s *ReportService) fail(ctx context.Context, log *zap.Logger, span trace.Span, kind string, start time.Time, err error) {
	elapsed := time.Since(start)
	telemetry.RecordError(span, err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Debug("Report cancelled", zap.Error(err))
	} else {
		log.Error("Report failed", zap.Duration("elapsed", elapsed), zap.Error(err))
	}
	if s.recorder != nil {
		s.recorder.RecordReport(ctx, kind, 0, elapsed, err)
	}
}

// log returns the service logger tagged with the request and trace ids in ctx
func (s *ReportService) log(ctx context.Context) *zap.Logger {
	l := logger.WithTraceContext(ctx, s.logger)
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	return l
}
