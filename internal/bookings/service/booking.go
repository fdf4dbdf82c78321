package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"deskly/internal/bookings/conflict"
	bookingserrors "deskly/internal/bookings/errors"
	"deskly/internal/bookings/events"
	"deskly/internal/bookings/lifecycle"
	"deskly/internal/bookings/repository"
	"deskly/internal/bookings/validator"
	"deskly/pkg/config"
	apperrors "deskly/pkg/errors"
	"deskly/pkg/lock"
	"deskly/pkg/metrics"
	"deskly/pkg/model"
	"deskly/pkg/sanitizer"
)

// WorkspaceReader resolves workspaces. Implementations return AppErrors,
// NotFound for unknown ids.
type WorkspaceReader interface {
	GetByID(ctx context.Context, id string) (*model.Workspace, error)
}

type BookingService interface {
	Create(ctx context.Context, requester model.Requester, req *model.BookingCreate) (*model.Booking, error)
	GetByID(ctx context.Context, requester model.Requester, id string) (*model.Booking, error)
	UpdateStatus(ctx context.Context, requester model.Requester, id string, req *model.BookingStatusChange) (*model.Booking, error)
	Reschedule(ctx context.Context, requester model.Requester, id string, req *model.BookingReschedule) (*model.Booking, error)
	Cancel(ctx context.Context, requester model.Requester, id string, req *model.BookingCancel) (*model.Booking, error)
	CheckAvailability(ctx context.Context, workspaceID string, r lifecycle.Range) (*Availability, error)
	ListUserBookings(ctx context.Context, requester model.Requester, status string, page, limit int) (*BookingPage, error)
	ListWorkspaceBookings(ctx context.Context, requester model.Requester, workspaceID, status string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type Availability struct {
	Available bool             `json:"available"`
	Conflicts []conflict.Range `json:"conflicts"`
}

type BookingPage struct {
	Bookings   []*model.Booking `json:"bookings"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

type bookingService struct {
	repo       repository.BookingRepository
	workspaces WorkspaceReader
	locker     lock.Locker
	detector   *conflict.Detector
	publisher  events.Publisher
	validator  *validator.BookingValidator
	cfg        *config.Config
	now        func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	workspaces WorkspaceReader,
	locker lock.Locker,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:       repo,
		workspaces: workspaces,
		locker:     locker,
		detector:   conflict.NewDetector(repo, cfg.Log),
		publisher:  publisher,
		validator:  validator,
		cfg:        cfg,
		now:        cfg.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, requester model.Requester, req *model.BookingCreate) (*model.Booking, error) {
	if requester.ID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	s.sanitizeCreate(req)
	if err := s.validator.ValidateCreate(req); err != nil {
		return nil, validationError(err)
	}

	ws, err := s.workspaces.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	r := lifecycle.Range{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := lifecycle.ValidateRange(r, ws.IsHourly(), lifecycle.Today(s.now())); err != nil {
		return nil, err
	}
	if ws.Capacity > 0 && req.GuestCount > ws.Capacity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("guest_count exceeds workspace capacity of %d", ws.Capacity)).
			WithDetails(map[string]any{"guest_count": req.GuestCount, "capacity": ws.Capacity})
	}

	price, err := lifecycle.Price(ws, r)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	booking := &model.Booking{
		WorkspaceID:     ws.ID,
		UserID:          requester.ID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Status:          lifecycle.InitialStatus(ws),
		TotalPrice:      price,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
		ContactInfo:     req.ContactInfo,
	}

	err = s.withWorkspaceLock(ctx, ws.ID, func(ctx context.Context) error {
		return s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.ensureFree(txCtx, "create", ws, r, ""); err != nil {
				return err
			}
			if err := s.repo.Create(txCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			return nil
		})
	})
	if err != nil {
		s.logFailure("Failed to create booking", err,
			"workspace_id", ws.ID,
			"user_id", requester.ID,
			"start_date", r.StartDate,
			"end_date", r.EndDate,
		)
		return nil, err
	}

	metrics.IncBookingCreated(string(booking.Status))
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"workspace_id", booking.WorkspaceID,
		"user_id", booking.UserID,
		"status", booking.Status,
		"total_price", booking.TotalPrice,
	)
	s.publish(ctx, events.TypeBookingCreated, booking, ws, requester.ID, "")
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, requester model.Requester, id string) (*model.Booking, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID == requester.ID {
		return booking, nil
	}

	ws, err := s.workspaces.GetByID(ctx, booking.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := authorizeParticipant(requester, booking, ws); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, requester model.Requester, id string, req *model.BookingStatusChange) (*model.Booking, error) {
	if err := s.validator.ValidateStatusChange(req); err != nil {
		return nil, validationError(err)
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	ws, err := s.workspaces.GetByID(ctx, booking.WorkspaceID)
	if err != nil {
		return nil, err
	}

	role, err := authorizeParticipant(requester, booking, ws)
	if err != nil {
		return nil, err
	}

	to, ok := model.ParseBookingStatus(req.Status)
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown booking status %q", req.Status)).
			WithDetails(map[string]any{"allowed_values": model.BookingStatuses})
	}
	if err := lifecycle.Transition(booking.Status, to); err != nil {
		return nil, err
	}
	if role == participantGuest && to != model.BookingCancelled {
		return nil, apperrors.Forbidden("Only the workspace owner can set this status").
			WithDetails(map[string]any{"requested_status": to})
	}

	return s.changeStatus(ctx, requester, booking, ws, to, sanitizer.NormalizeText(req.CancellationReason))
}

func (s *bookingService) Cancel(ctx context.Context, requester model.Requester, id string, req *model.BookingCancel) (*model.Booking, error) {
	if err := s.validator.ValidateCancel(req); err != nil {
		return nil, validationError(err)
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requester.ID {
		return nil, apperrors.Forbidden("Only the guest who made the booking can cancel it")
	}
	if err := lifecycle.Transition(booking.Status, model.BookingCancelled); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.GetByID(ctx, booking.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, requester, booking, ws, model.BookingCancelled, sanitizer.NormalizeText(req.Reason))
}

func (s *bookingService) changeStatus(ctx context.Context, requester model.Requester, booking *model.Booking, ws *model.Workspace, to model.BookingStatus, reason string) (*model.Booking, error) {
	from := booking.Status
	if to != model.BookingCancelled {
		reason = ""
	}

	updated, err := s.repo.UpdateStatus(ctx, booking.ID, from, to, reason)
	if err != nil {
		err = s.translateRepoError(err, booking.ID)
		s.logFailure("Failed to update booking status", err,
			"id", booking.ID,
			"from", from,
			"to", to,
		)
		return nil, err
	}

	metrics.IncBookingTransition(string(from), string(to))
	s.cfg.Log.Info("Booking status updated",
		"id", updated.ID,
		"from", from,
		"to", to,
		"requester_id", requester.ID,
	)
	s.publish(ctx, events.TypeBookingStatusChanged, updated, ws, requester.ID, from)
	return updated, nil
}

// Reschedule moves an active booking to a new range and reprices it. A
// cancelled or completed booking is rejected with InvalidTransition.
func (s *bookingService) Reschedule(ctx context.Context, requester model.Requester, id string, req *model.BookingReschedule) (*model.Booking, error) {
	if err := s.validator.ValidateReschedule(req); err != nil {
		return nil, validationError(err)
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requester.ID {
		return nil, apperrors.Forbidden("Only the guest who made the booking can reschedule it")
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(booking.Status), nil)
	}

	ws, err := s.workspaces.GetByID(ctx, booking.WorkspaceID)
	if err != nil {
		return nil, err
	}

	r := lifecycle.Range{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := lifecycle.ValidateRange(r, ws.IsHourly(), lifecycle.Today(s.now())); err != nil {
		return nil, err
	}
	price, err := lifecycle.Price(ws, r)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	next := *booking
	next.StartDate = r.StartDate
	next.EndDate = r.EndDate
	next.StartTime = r.StartTime
	next.EndTime = r.EndTime
	next.TotalPrice = price

	var updated *model.Booking
	err = s.withWorkspaceLock(ctx, ws.ID, func(ctx context.Context) error {
		return s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.ensureFree(txCtx, "reschedule", ws, r, booking.ID); err != nil {
				return err
			}
			var err error
			updated, err = s.repo.UpdateSchedule(txCtx, booking.ID, booking.Status, &next)
			if err != nil {
				return s.translateRepoError(err, booking.ID)
			}
			return nil
		})
	})
	if err != nil {
		s.logFailure("Failed to reschedule booking", err,
			"id", booking.ID,
			"start_date", r.StartDate,
			"end_date", r.EndDate,
		)
		return nil, err
	}

	metrics.IncBookingRescheduled()
	s.cfg.Log.Info("Booking rescheduled",
		"id", updated.ID,
		"start_date", updated.StartDate,
		"end_date", updated.EndDate,
		"total_price", updated.TotalPrice,
	)
	s.publish(ctx, events.TypeBookingRescheduled, updated, ws, requester.ID, "")
	return updated, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, workspaceID string, r lifecycle.Range) (*Availability, error) {
	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	// A query without times on an hourly workspace asks about whole days.
	// Past dates are answered too; the query is read-only.
	if err := lifecycle.ValidateShape(r, false); err != nil {
		return nil, err
	}

	result, err := s.detector.Check(ctx, conflict.Query{
		WorkspaceID: ws.ID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}, ws.IsHourly())
	if err != nil {
		return nil, err
	}

	return &Availability{
		Available: !result.HasConflict(),
		Conflicts: result.Ranges(),
	}, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, requester model.Requester, status string, page, limit int) (*BookingPage, error) {
	if requester.ID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	filter, err := statusFilter(status)
	if err != nil {
		return nil, err
	}
	filter.UserID = requester.ID

	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)

	bookings, total, err := s.list(ctx, filter, limit, int64(page-1)*int64(limit))
	if err != nil {
		return nil, err
	}

	return &BookingPage{
		Bookings:   bookings,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *bookingService) ListWorkspaceBookings(ctx context.Context, requester model.Requester, workspaceID, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorizeOwner(requester, ws); err != nil {
		return nil, 0, err
	}

	filter, err := statusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	filter.WorkspaceID = ws.ID

	return s.list(ctx, filter, config.NormalizePaginationLimit(limit), max(0, offset))
}

func (s *bookingService) list(ctx context.Context, filter repository.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.repo.Count(ctx, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		bookings, err = s.repo.Find(ctx, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"user_id", filter.UserID,
				"workspace_id", filter.WorkspaceID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

// ensureFree runs the conflict detector and turns a hit into a Conflict
// error listing the clashing ranges.
func (s *bookingService) ensureFree(ctx context.Context, operation string, ws *model.Workspace, r lifecycle.Range, excludeID string) error {
	result, err := s.detector.Check(ctx, conflict.Query{
		WorkspaceID:      ws.ID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		ExcludeBookingID: excludeID,
	}, ws.IsHourly())
	if err != nil {
		return err
	}
	if result.HasConflict() {
		metrics.IncBookingConflict(operation)
		return apperrors.Conflict("Workspace is already booked for the requested dates").
			WithDetails(map[string]any{"conflicts": result.Ranges()})
	}
	return nil
}

func (s *bookingService) withWorkspaceLock(ctx context.Context, workspaceID string, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}

	key := lock.WorkspaceKey(workspaceID)
	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Unavailable("Lock store", err)
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
		defer cancel()
		if err := release(releaseCtx); err != nil {
			s.cfg.Log.Warn("Failed to release workspace lock", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}

func (s *bookingService) getBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, bookingserrors.ErrNotFound) && !errors.Is(err, bookingserrors.ErrInvalidID) && !apperrors.IsAppError(err) {
			err = apperrors.Unavailable("Booking store", err)
		}
		err = s.translateRepoError(err, id)
		s.logFailure("Failed to get booking by ID", err, "id", id)
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) translateRepoError(err error, id string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.Conflict("Booking was modified concurrently, please reload and retry")
	default:
		return apperrors.Internal("Failed to access booking", err)
	}
}

func (s *bookingService) publish(ctx context.Context, t events.Type, b *model.Booking, ws *model.Workspace, actorID string, previous model.BookingStatus) {
	ev := events.NewBookingEvent(t, b, ws, actorID, s.now())
	ev.PreviousStatus = previous
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", t,
			"booking_id", b.ID,
			"error", err,
		)
	}
}

// logFailure logs server-side failures at error level and caller mistakes
// at debug level.
func (s *bookingService) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() >= 500 {
		s.cfg.Log.Error(msg, args...)
		return
	}
	s.cfg.Log.Debug(msg, args...)
}

func (s *bookingService) sanitizeCreate(req *model.BookingCreate) {
	if req.GuestCount == 0 {
		req.GuestCount = 1
	}
	req.SpecialRequests = sanitizer.NormalizeText(req.SpecialRequests)
	if req.ContactInfo != nil {
		req.ContactInfo.Name = sanitizer.NormalizeName(req.ContactInfo.Name)
		req.ContactInfo.Email = sanitizer.NormalizeEmail(req.ContactInfo.Email)
		if phone := sanitizer.NormalizePhone(req.ContactInfo.Phone, ""); phone != "" {
			req.ContactInfo.Phone = phone
		}
	}
}

func statusFilter(status string) (repository.BookingFilter, error) {
	if status == "" {
		return repository.BookingFilter{}, nil
	}
	parsed, ok := model.ParseBookingStatus(status)
	if !ok {
		return repository.BookingFilter{}, apperrors.InvalidInput(fmt.Sprintf("unknown booking status %q", status))
	}
	return repository.BookingFilter{Status: parsed}, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{
		"error": err.Error(),
	})
}
