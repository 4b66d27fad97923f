package closing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const defaultHistoryDays = 30

// CloseRecorder counts finalized closings
type CloseRecorder interface {
	RecordDailyClose(ctx context.Context, tenantID uuid.UUID)
}

// Options holds the closing policy
type Options struct {
	Location    *time.Location
	MaxAttempts int
	Lockout     time.Duration
}

// ClosingService summarizes and closes business days
type ClosingService struct {
	saleRepo       sales.SaleRepository
	closureRepo    closing.ClosureRepository
	passcodeRepo   closing.PasscodeRepository
	limiter        closing.AttemptLimiter
	eventPublisher shared.EventPublisher
	metrics        CloseRecorder
	opts           Options
	logger         *zap.Logger
	now            func() time.Time
}

// NewClosingService creates a new ClosingService
func NewClosingService(
	saleRepo sales.SaleRepository,
	closureRepo closing.ClosureRepository,
	passcodeRepo closing.PasscodeRepository,
	limiter closing.AttemptLimiter,
	opts Options,
	logger *zap.Logger,
) *ClosingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = closing.MaxPasscodeAttempts
	}
	if opts.Lockout <= 0 {
		opts.Lockout = closing.PasscodeLockout
	}
	return &ClosingService{
		saleRepo:     saleRepo,
		closureRepo:  closureRepo,
		passcodeRepo: passcodeRepo,
		limiter:      limiter,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ClosingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics wires the business meter
func (s *ClosingService) SetMetrics(metrics CloseRecorder) {
	s.metrics = metrics
}

// resolveDate defaults to today in the shop's zone and rejects malformed dates
func (s *ClosingService) resolveDate(date string) (string, error) {
	if date == "" {
		return sales.BusinessDate(s.now(), s.opts.Location), nil
	}
	if _, err := time.Parse(sales.BusinessDateLayout, date); err != nil {
		return "", shared.NewDomainError("INVALID_DATE", "Date must be YYYY-MM-DD")
	}
	return date, nil
}

// Summary aggregates the completed sales of a day
func (s *ClosingService) Summary(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DailySummary, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	daySales, err := s.saleRepo.FindByBusinessDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	summary := closing.Summarize(date, daySales)
	return &summary, nil
}

// Status reports whether a day has been closed
func (s *ClosingService) Status(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DayStatus, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	c, err := s.closureRepo.FindByDate(ctx, tenantID, date)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	status := closing.StatusOf(date, c)
	return &status, nil
}

// Close verifies the passcode and finalizes the day. Repeated wrong
// passcodes lock closing for the shop.
func (s *ClosingService) Close(ctx context.Context, tenantID uuid.UUID, input CloseDayInput) (*ClosureResponse, error) {
	date, err := s.resolveDate(input.Date)
	if err != nil {
		return nil, err
	}
	log := logger.Ctx(ctx, s.logger).With(zap.String("date", date))
	key := tenantID.String()

	locked, left, err := s.limiter.Locked(ctx, key)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, lockedError(left)
	}

	closed, err := s.closureRepo.IsClosed(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, shared.NewDomainError("DAY_CLOSED", fmt.Sprintf("Sales for %s have already been closed", date))
	}

	settings, err := s.passcodeRepo.Find(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if !settings.IsSet() {
		return nil, shared.ErrPasscodeNotSet
	}
	if !settings.Verify(input.Passcode) {
		count, err := s.limiter.Fail(ctx, key, s.opts.MaxAttempts, s.opts.Lockout)
		if err != nil {
			return nil, err
		}
		log.Warn("Invalid closing passcode", zap.Int("attempt", count), zap.String("user_id", input.UserID.String()))
		if count >= s.opts.MaxAttempts {
			return nil, lockedError(s.opts.Lockout)
		}
		return nil, shared.NewDomainError("INVALID_PASSCODE",
			fmt.Sprintf("Incorrect passcode, %d attempts remaining", s.opts.MaxAttempts-count))
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		log.Warn("Failed to reset passcode attempts", zap.Error(err))
	}

	daySales, err := s.saleRepo.FindByBusinessDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	summary := closing.Summarize(date, daySales)
	closure, err := closing.NewDailyClosure(tenantID, summary, daySales, input.Role, input.UserID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.closureRepo.Create(ctx, closure); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("DAY_CLOSED", fmt.Sprintf("Sales for %s have already been closed", date))
		}
		return nil, err
	}

	if events := closure.PullDomainEvents(); s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			log.Error("Failed to publish closing events", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordDailyClose(ctx, tenantID)
	}
	log.Info("Day closed",
		zap.String("total_sales", closure.TotalSales.String()),
		zap.Int("transactions", closure.TotalTransactions),
		zap.String("closed_by", input.Role),
	)
	resp := ToClosureResponse(closure, false)
	return &resp, nil
}

func lockedError(left time.Duration) error {
	minutes := int(math.Ceil(left.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return shared.NewDomainError("PASSCODE_LOCKED",
		fmt.Sprintf("Too many failed passcode attempts, try again in %d minutes", minutes))
}

// PasscodeStatus reports whether the shop has a closing passcode
func (s *ClosingService) PasscodeStatus(ctx context.Context, tenantID uuid.UUID) (*PasscodeStatusResponse, error) {
	settings, err := s.passcodeRepo.Find(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if !settings.IsSet() {
		return &PasscodeStatusResponse{}, nil
	}
	updated := settings.UpdatedAt
	return &PasscodeStatusResponse{IsSet: true, UpdatedAt: &updated}, nil
}

// SetPasscode creates the passcode, or changes it when the current one is given
func (s *ClosingService) SetPasscode(ctx context.Context, tenantID uuid.UUID, input SetPasscodeInput) error {
	settings, err := s.passcodeRepo.Find(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		settings = &closing.PasscodeSettings{TenantID: tenantID}
	}
	if err := settings.Change(input.CurrentPasscode, input.NewPasscode, input.UserID, s.now()); err != nil {
		return err
	}
	if err := s.passcodeRepo.Save(ctx, settings); err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Info("Closing passcode updated", zap.String("user_id", input.UserID.String()))
	return nil
}

// History lists closures between from and to inclusive. Empty bounds
// default to the last thirty days.
func (s *ClosingService) History(ctx context.Context, tenantID uuid.UUID, from, to string) ([]ClosureResponse, error) {
	today := s.now().In(s.opts.Location)
	if to == "" {
		to = today.Format(sales.BusinessDateLayout)
	}
	if from == "" {
		from = today.AddDate(0, 0, -defaultHistoryDays).Format(sales.BusinessDateLayout)
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse(sales.BusinessDateLayout, d); err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Date must be YYYY-MM-DD")
		}
	}
	if from > to {
		return nil, shared.NewDomainError("INVALID_DATE", "from must not be after to")
	}

	closures, err := s.closureRepo.FindInRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]ClosureResponse, len(closures))
	for i := range closures {
		out[i] = ToClosureResponse(&closures[i], false)
	}
	return out, nil
}
