package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"primenum/internal/primes/factor"
	"primenum/internal/primes/metrics"
	"primenum/internal/primes/registry"
	"primenum/internal/primes/service/mocks"
	"primenum/internal/primes/sieve"
	"primenum/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctx           context.Context
	ctrl          *gomock.Controller
	mockStore     *mocks.MockStore
	mockPublisher *mocks.MockPublisher
	metrics       *metrics.Metrics
	reg           *registry.Registry
	service       *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockPublisher = mocks.NewMockPublisher(s.ctrl)
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())

	reg, err := registry.New(true)
	s.Require().NoError(err)
	s.reg = reg
	s.service = s.newService(reg)
}

func (s *ServiceSuite) newService(reg *registry.Registry, opts ...Option) *Service {
	base := []Option{
		WithStore(s.mockStore),
		WithPublisher(s.mockPublisher),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	}
	svc, err := New(reg, append(base, opts...)...)
	s.Require().NoError(err)
	return svc
}

// expectPersisted expects each value to reach the store and then the
// publisher, in order.
func (s *ServiceSuite) expectPersisted(values ...uint64) {
	calls := make([]any, 0, 2*len(values))
	for _, v := range values {
		calls = append(calls,
			s.mockStore.EXPECT().Append(gomock.Any(), v).Return(nil),
			s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), v).Return(nil),
		)
	}
	gomock.InOrder(calls...)
}

func (s *ServiceSuite) TestNewRequiresRegistry() {
	_, err := New(nil)
	s.Require().Error(err)
}

func (s *ServiceSuite) TestSieve() {
	s.expectPersisted(11, 13, 17, 19, 23, 29)

	result, err := s.service.Sieve(s.ctx, sieve.AtValue(30))
	s.Require().NoError(err)
	s.NotEmpty(result.RunID)
	s.Equal("value<=30", result.Policy)
	s.Equal([]uint64{11, 13, 17, 19, 23, 29}, result.Found)
	s.Equal(uint64(9), result.Tested)
	s.Equal(10, result.Total)
	s.Equal(uint64(29), result.Largest)

	s.Equal(float64(6), testutil.ToFloat64(s.metrics.PrimesFound))
	s.Equal(float64(9), testutil.ToFloat64(s.metrics.CandidatesTested))
	s.Equal(float64(10), testutil.ToFloat64(s.metrics.RegistrySize))
	s.Equal(float64(29), testutil.ToFloat64(s.metrics.LargestPrime))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Outcomes.WithLabelValues("sieve", "ok")))
}

func (s *ServiceSuite) TestSievePublishesUnderRunID() {
	var runIDs []string
	s.mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, runID string, _ uint64) error {
			runIDs = append(runIDs, runID)
			return nil
		}).Times(2)

	result, err := s.service.Sieve(s.ctx, sieve.AtCount(6))
	s.Require().NoError(err)
	s.Equal([]string{result.RunID, result.RunID}, runIDs)
}

func (s *ServiceSuite) TestSieveRejectsUnboundedAndOversizedRuns() {
	svc := s.newService(s.reg, WithLimits(Limits{MaxBound: 1000, MaxCount: 50}))

	for _, stop := range []sieve.StopPolicy{sieve.Never(), sieve.AtValue(1001), sieve.AtCount(51)} {
		_, err := svc.Sieve(s.ctx, stop)
		s.ErrorIs(err, sentinel.ErrInvalidInput, stop.String())
	}
	s.Equal(4, s.reg.Len())
}

func (s *ServiceSuite) TestSieveStoreFailure() {
	storeErr := fmt.Errorf("write prime 11: %w", sentinel.ErrStorageExhausted)
	s.mockStore.EXPECT().Append(gomock.Any(), uint64(11)).Return(storeErr)

	_, err := s.service.Sieve(s.ctx, sieve.AtValue(100))
	s.ErrorIs(err, sentinel.ErrStorageExhausted)

	// The prime is in the registry even though it never reached storage.
	s.Equal(Stats{Count: 5, Largest: 11}, s.service.Snapshot(s.ctx))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Outcomes.WithLabelValues("sieve", "storage_exhausted")))
}

func (s *ServiceSuite) TestSievePublisherFailure() {
	s.mockStore.EXPECT().Append(gomock.Any(), uint64(11)).Return(nil)
	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), uint64(11)).
		Return(fmt.Errorf("publish prime 11: %w", sentinel.ErrStorageExhausted))

	_, err := s.service.Sieve(s.ctx, sieve.AtValue(100))
	s.ErrorIs(err, sentinel.ErrStorageExhausted)
}

func (s *ServiceSuite) TestSieveResourceExhausted() {
	reg, err := registry.New(true, registry.WithCapacity(5))
	s.Require().NoError(err)
	svc := s.newService(reg)
	s.expectPersisted(11)

	_, err = svc.Sieve(s.ctx, sieve.AtValue(100))
	s.ErrorIs(err, sentinel.ErrResourceExhausted)
	s.Equal(5, reg.Len())
}

func (s *ServiceSuite) TestSieveHonorsCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.expectPersisted(11)

	_, err := s.service.Sieve(ctx, sieve.AtValue(1000))
	s.ErrorIs(err, context.Canceled)
	s.Equal(5, s.reg.Len())
}

func (s *ServiceSuite) TestFactorize() {
	s.mockStore.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	result, err := s.service.Factorize(s.ctx, 360)
	s.Require().NoError(err)
	s.Equal(uint64(360), result.Value)
	s.Equal([]uint64{2, 2, 2, 3, 3, 5}, result.Factors)
	s.Equal([]factor.Power{{Base: 2, Exponent: 3}, {Base: 3, Exponent: 2}, {Base: 5, Exponent: 1}}, result.Powers)

	// Every prime found on the way was persisted.
	s.Equal(uint64(359), s.service.Snapshot(s.ctx).Largest)
}

func (s *ServiceSuite) TestFactorizeOne() {
	result, err := s.service.Factorize(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(result.Factors)
	s.Empty(result.Powers)
}

func (s *ServiceSuite) TestFactorizeInvalidInput() {
	svc := s.newService(s.reg, WithLimits(Limits{MaxBound: 100}))

	_, err := svc.Factorize(s.ctx, 0)
	s.ErrorIs(err, sentinel.ErrInvalidInput)

	_, err = svc.Factorize(s.ctx, 101)
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *ServiceSuite) TestIsPrime() {
	// Roots of these values are below 11, so nothing new is found.
	for value, expected := range map[uint64]bool{0: false, 1: false, 2: true, 91: false, 97: true} {
		prime, err := s.service.IsPrime(s.ctx, value)
		s.Require().NoError(err)
		s.Equal(expected, prime, "value=%d", value)
	}
}

func (s *ServiceSuite) TestIsPrimeExtendsToRoot() {
	s.expectPersisted(11, 13, 17, 19, 23, 29, 31)

	prime, err := s.service.IsPrime(s.ctx, 1021)
	s.Require().NoError(err)
	s.True(prime)
	s.Equal(uint64(31), s.service.Snapshot(s.ctx).Largest)
}

func (s *ServiceSuite) TestIsPrimeRootAboveLimit() {
	svc := s.newService(s.reg, WithLimits(Limits{MaxBound: 100}))
	_, err := svc.IsPrime(s.ctx, 200*200)
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *ServiceSuite) TestPrimes() {
	s.expectPersisted(11, 13, 17, 19)

	primes, err := s.service.Primes(s.ctx, 20)
	s.Require().NoError(err)
	s.Equal([]uint64{2, 3, 5, 7, 11, 13, 17, 19}, primes)

	// A smaller bound is served from the registry.
	primes, err = s.service.Primes(s.ctx, 6)
	s.Require().NoError(err)
	s.Equal([]uint64{2, 3, 5}, primes)
}

func (s *ServiceSuite) TestFirstN() {
	primes, err := s.service.FirstN(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal([]uint64{2, 3}, primes)

	s.expectPersisted(11, 13)
	primes, err = s.service.FirstN(s.ctx, 6)
	s.Require().NoError(err)
	s.Equal([]uint64{2, 3, 5, 7, 11, 13}, primes)

	primes, err = s.service.FirstN(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(primes)
}

func (s *ServiceSuite) TestFirstNAboveLimit() {
	svc := s.newService(s.reg, WithLimits(Limits{MaxCount: 10}))
	_, err := svc.FirstN(s.ctx, 11)
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *ServiceSuite) TestRestore() {
	s.mockStore.EXPECT().Load(gomock.Any(), s.reg).
		DoAndReturn(func(_ context.Context, reg *registry.Registry) (int, error) {
			for _, v := range []uint64{11, 13} {
				if _, err := reg.Append(v); err != nil {
					return 0, err
				}
			}
			return 2, nil
		})

	n, err := s.service.Restore(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
	s.Equal(Stats{Count: 6, Largest: 13}, s.service.Snapshot(s.ctx))
}

func (s *ServiceSuite) TestRestoreFailure() {
	loadErr := errors.New("connection refused")
	s.mockStore.EXPECT().Load(gomock.Any(), gomock.Any()).Return(0, loadErr)

	_, err := s.service.Restore(s.ctx)
	s.ErrorIs(err, loadErr)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Outcomes.WithLabelValues("restore", "error")))
}

func (s *ServiceSuite) TestWithoutBackends() {
	svc, err := New(s.reg)
	s.Require().NoError(err)

	n, err := svc.Restore(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)

	result, err := svc.Sieve(s.ctx, sieve.AtCount(10))
	s.Require().NoError(err)
	s.Len(result.Found, 6)
	s.Equal(uint64(29), result.Largest)
}
