package booking

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/inventory"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// paymentReferencePattern: bank transfer references are exactly five
// digits.
var paymentReferencePattern = regexp.MustCompile(`^[0-9]{5}$`)

const dateLayout = "2006-01-02"

// Service owns the booking state machine and orchestrates the
// admission controller on the transitions that touch inventory:
// create reserves, cancel and delete release.
type Service struct {
	bookings  BookingRepository
	roomTypes RoomTypeReader
	admission AdmissionController
	notifs    NotificationSender
}

func NewService(bookings BookingRepository, roomTypes RoomTypeReader, admission AdmissionController, notifs NotificationSender) *Service {
	return &Service{
		bookings:  bookings,
		roomTypes: roomTypes,
		admission: admission,
		notifs:    notifs,
	}
}

// Create admits the stay through the admission controller and, on
// success, persists the booking in pending. A rejected admission
// leaves no booking record and no touched counter behind.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		return nil, ErrValidation
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		return nil, ErrValidation
	}
	checkIn = domain.NormalizeDate(checkIn)
	checkOut = domain.NormalizeDate(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrValidation
	}

	rt, err := s.roomTypes.GetByID(ctx, req.RoomTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !rt.IsAvailable {
		return nil, inventory.ErrRoomUnavailable
	}
	if rt.MaxGuests > 0 && req.NumberOfGuests > rt.MaxGuests {
		return nil, ErrValidation
	}

	recs, err := s.admission.TryReserve(ctx, rt.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, rec := range recs {
		total += rec.NightlyPrice(rt)
	}

	b := &domain.Booking{
		ReferenceCode:  newReferenceCode(),
		RoomTypeID:     rt.ID,
		GuestName:      strings.TrimSpace(req.GuestName),
		GuestEmail:     strings.ToLower(strings.TrimSpace(req.GuestEmail)),
		GuestPhone:     strings.TrimSpace(req.GuestPhone),
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: req.NumberOfGuests,
		TotalPrice:     total,
		Status:         domain.BookingPending,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		// The nights were already reserved; give them back so a
		// failed insert cannot leak capacity.
		if relErr := s.admission.Release(ctx, rt.ID, checkIn, checkOut); relErr != nil {
			log.Printf("booking_create_release_failed room_type_id=%d error=%q", rt.ID, relErr)
		}
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.NotifyBookingCreated(b)
	}
	return b, nil
}

// Confirm moves pending -> confirmed. No inventory effect: the nights
// were reserved at creation.
func (s *Service) Confirm(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingConfirmed, nil)
}

// SelectPaymentMethod moves confirmed -> pending_payment for bank
// transfer, or straight to cash_on_site.
func (s *Service) SelectPaymentMethod(ctx context.Context, id int64, method domain.PaymentMethod) (*domain.Booking, error) {
	var to domain.BookingStatus
	switch method {
	case domain.PaymentBankTransfer:
		to = domain.BookingPendingPayment
	case domain.PaymentCashOnSite:
		to = domain.BookingCashOnSite
	default:
		return nil, ErrValidation
	}

	return s.transition(ctx, id, to, map[string]interface{}{"payment_method": method})
}

// ConfirmPayment moves pending_payment -> paid after validating the
// transfer reference.
func (s *Service) ConfirmPayment(ctx context.Context, id int64, reference string) (*domain.Booking, error) {
	reference = strings.TrimSpace(reference)
	if !paymentReferencePattern.MatchString(reference) {
		return nil, ErrInvalidPaymentReference
	}

	return s.transition(ctx, id, domain.BookingPaid, map[string]interface{}{"payment_reference": reference})
}

// MarkCompleted moves paid or cash_on_site -> completed. The stay's
// nights stay counted as consumed (historical occupancy).
func (s *Service) MarkCompleted(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingCompleted, nil)
}

// Cancel moves any non-terminal status -> cancelled and releases the
// stay's inventory exactly once: the status CAS is the idempotency
// guard, a booking can only enter cancelled a single time.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now()
	ok, err := s.bookings.UpdateStatusFrom(ctx, id, b.Status, domain.BookingCancelled, map[string]interface{}{
		"cancellation_reason": reason,
		"cancelled_at":        &now,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against another transition; that transition
		// owns any inventory effect.
		return nil, ErrInvalidStatusTransition
	}

	if err := s.admission.Release(ctx, b.RoomTypeID, b.CheckInDate, b.CheckOutDate); err != nil {
		// Nothing was decremented; put the booking back so a retried
		// cancel can run the release again.
		s.revertCancel(ctx, id, b.Status)
		return nil, err
	}

	old := b.Status
	b, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingStatusChanged(b, old, domain.BookingCancelled)
	}
	return b, nil
}

// Delete hard-removes the booking. A booking still consuming inventory
// is cancelled first, so deletion is "cancel, then erase" and never a
// silent leak; deleting an already cancelled booking releases nothing.
func (s *Service) Delete(ctx context.Context, id int64) error {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}

	if b.Status.ConsumesInventory() {
		ok, err := s.bookings.UpdateStatusFrom(ctx, id, b.Status, domain.BookingCancelled, nil)
		if err != nil {
			return err
		}
		if ok {
			if err := s.admission.Release(ctx, b.RoomTypeID, b.CheckInDate, b.CheckOutDate); err != nil {
				s.revertCancel(ctx, id, b.Status)
				return err
			}
		}
		// CAS failure means a concurrent cancel already released.
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	if s.notifs != nil {
		s.notifs.NotifyBookingDeleted(b)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.getByID(ctx, id)
}

// GetByReference is the guest-facing lookup; guests never authenticate,
// the reference code is their handle on the booking.
func (s *Service) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	b, err := s.bookings.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(ref)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.List(ctx, status, limit, offset)
}

// transition applies one lifecycle step with a compare-and-set on the
// status column, so two racing requests cannot both succeed.
func (s *Service) transition(ctx context.Context, id int64, to domain.BookingStatus, extra map[string]interface{}) (*domain.Booking, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(b.Status, to) {
		return nil, ErrInvalidStatusTransition
	}

	ok, err := s.bookings.UpdateStatusFrom(ctx, id, b.Status, to, extra)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidStatusTransition
	}

	old := b.Status
	b, err = s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifs != nil {
		s.notifs.NotifyBookingStatusChanged(b, old, to)
	}
	return b, nil
}

// revertCancel undoes the cancel CAS when the inventory release could
// not be applied. Release is all-or-nothing, so at this point no
// counter was touched; restoring the previous status keeps the booking
// consuming and the release retryable. A failed revert is logged: the
// booking then sits in cancelled with its nights still counted, which
// only staff can repair.
func (s *Service) revertCancel(ctx context.Context, id int64, prev domain.BookingStatus) {
	ok, err := s.bookings.UpdateStatusFrom(ctx, id, domain.BookingCancelled, prev, map[string]interface{}{
		"cancellation_reason": "",
		"cancelled_at":        nil,
	})
	if err != nil || !ok {
		log.Printf("booking_cancel_revert_failed id=%d ok=%v error=%v", id, ok, err)
	}
}

func (s *Service) getByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func newReferenceCode() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}
