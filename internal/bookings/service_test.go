package bookings

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"stagedoor/internal/payments"
	"stagedoor/internal/shared/apperrors"
	"stagedoor/internal/shows"
	"stagedoor/pkg/cache"
	"stagedoor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepository struct {
	mu       sync.Mutex
	byRef    map[string]*Booking
	byID     map[uuid.UUID]*Booking
	seats    map[uuid.UUID]int
	sentIDs  map[uuid.UUID]bool
	failNext error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byRef:   make(map[string]*Booking),
		byID:    make(map[uuid.UUID]*Booking),
		seats:   make(map[uuid.UUID]int),
		sentIDs: make(map[uuid.UUID]bool),
	}
}

func (r *fakeRepository) addShow(seats int) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.seats[id] = seats
	return id
}

func (r *fakeRepository) CreateWithReservation(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	seats, ok := r.seats[booking.ShowID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if seats < booking.TicketCount {
		return apperrors.ErrInsufficientInventory
	}
	if _, exists := r.byRef[booking.PaymentRef]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.seats[booking.ShowID] = seats - booking.TicketCount
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	r.byRef[booking.PaymentRef] = booking
	r.byID[booking.ID] = booking
	return nil
}

func (r *fakeRepository) RefundWithRelease(ctx context.Context, paymentRef string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.byRef[paymentRef]
	if !ok || booking.PaymentStatus != PaymentStatusSucceeded {
		return nil, apperrors.ErrNotFound
	}
	booking.PaymentStatus = PaymentStatusRefunded
	r.seats[booking.ShowID] += booking.TicketCount
	return booking, nil
}

func (r *fakeRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.byRef[paymentRef]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return booking, nil
}

func (r *fakeRepository) GetByTicketCode(ctx context.Context, code string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.byRef {
		if booking.TicketCode == code {
			return booking, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return booking, nil
}

func (r *fakeRepository) ListRecent(ctx context.Context, limit int) ([]Booking, error) {
	return nil, nil
}

func (r *fakeRepository) ListByShow(ctx context.Context, showID uuid.UUID) ([]Booking, error) {
	return nil, nil
}

func (r *fakeRepository) MarkConfirmationSent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return apperrors.ErrNotFound
	}
	r.sentIDs[id] = true
	return nil
}

func (r *fakeRepository) bookingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRef)
}

func (r *fakeRepository) seatsLeft(showID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seats[showID]
}

type stubShowService struct{}

func (stubShowService) SetCacheService(cache.Service, time.Duration) {}
func (stubShowService) CreateShow(context.Context, shows.CreateShowRequest) (*shows.ShowResponse, error) {
	return nil, nil
}
func (stubShowService) ListUpcoming(context.Context, shows.ListShowsQuery) (*shows.ListShowsResponse, error) {
	return nil, nil
}
func (stubShowService) GetShow(context.Context, uuid.UUID) (*shows.Show, error) { return nil, nil }
func (stubShowService) CheckAvailability(context.Context, uuid.UUID, int) (*shows.Show, error) {
	return nil, nil
}
func (stubShowService) ReserveSeats(context.Context, uuid.UUID, int) error { return nil }
func (stubShowService) ReleaseSeats(context.Context, uuid.UUID, int) error { return nil }
func (stubShowService) InvalidateListings(context.Context)                 {}

type stubProvider struct {
	metadata map[string]string
}

func (p *stubProvider) CreateIntent(context.Context, payments.IntentParams) (*payments.IntentResult, error) {
	return nil, errors.New("not implemented")
}
func (p *stubProvider) VerifyEvent([]byte, string) (*payments.PaymentEvent, error) {
	return nil, errors.New("not implemented")
}
func (p *stubProvider) GetIntentMetadata(ctx context.Context, ref string) (map[string]string, error) {
	if p.metadata == nil {
		return nil, apperrors.ErrNotFound
	}
	return p.metadata, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	calls   int
	outcome NotificationOutcome
}

func (n *recordingNotifier) SendConfirmation(ctx context.Context, booking *Booking) NotificationOutcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.outcome
}

type recordingRetryPublisher struct {
	mu        sync.Mutex
	published []ConfirmationRetryCall
}

type ConfirmationRetryCall struct {
	BookingID uuid.UUID
	Email     bool
	SMS       bool
}

func (p *recordingRetryPublisher) PublishConfirmationRetry(ctx context.Context, bookingID uuid.UUID, email, sms bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, ConfirmationRetryCall{BookingID: bookingID, Email: email, SMS: sms})
	return nil
}

func succeededEvent(paymentRef string, showID uuid.UUID, ticketCount int) *payments.PaymentEvent {
	return &payments.PaymentEvent{
		Kind:       payments.EventPaymentSucceeded,
		PaymentRef: paymentRef,
		Metadata: map[string]string{
			"show_id":            showID.String(),
			"experience_slug":    "secret-ballads",
			"customer_name":      "Dana Whitfield",
			"customer_email":     "dana@example.com",
			"contact_preference": "both",
			"ticket_count":       strconv.Itoa(ticketCount),
			"total_cents":        strconv.Itoa(ticketCount * 7500),
		},
	}
}

func newTestService(repo Repository) Service {
	return NewService(repo, stubShowService{}, &stubProvider{}, logger.GetDefault())
}

func TestHandlePaymentSucceededCreatesBooking(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(10)

	svc := newTestService(repo)
	notifier := &recordingNotifier{outcome: NotificationOutcome{Email: true, SMS: true}}
	svc.SetNotifier(notifier)

	err := svc.HandlePaymentSucceeded(context.Background(), succeededEvent("pi_1", showID, 2))
	if err != nil {
		t.Fatalf("HandlePaymentSucceeded: %v", err)
	}

	booking, err := repo.GetByPaymentRef(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("booking not created: %v", err)
	}
	if booking.PaymentStatus != PaymentStatusSucceeded {
		t.Errorf("PaymentStatus = %s, want succeeded", booking.PaymentStatus)
	}
	if len(booking.TicketCode) != 8 {
		t.Errorf("ticket code %q, want 8 characters", booking.TicketCode)
	}
	if repo.seatsLeft(showID) != 8 {
		t.Errorf("seats left = %d, want 8", repo.seatsLeft(showID))
	}
	if notifier.calls != 1 {
		t.Errorf("notifier calls = %d, want 1", notifier.calls)
	}
	if !repo.sentIDs[booking.ID] {
		t.Error("confirmation_sent not recorded after full delivery")
	}
}

func TestDuplicateSucceededEventIsNoOp(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(10)
	svc := newTestService(repo)

	event := succeededEvent("pi_dup", showID, 2)
	if err := svc.HandlePaymentSucceeded(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandlePaymentSucceeded(context.Background(), event); err != nil {
		t.Fatalf("replayed delivery should ack cleanly: %v", err)
	}

	if got := repo.bookingCount(); got != 1 {
		t.Errorf("booking count = %d, want 1", got)
	}
	if repo.seatsLeft(showID) != 8 {
		t.Errorf("seats left = %d, want 8 (decremented once)", repo.seatsLeft(showID))
	}
}

func TestConcurrentDuplicateDeliveries(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(10)
	svc := newTestService(repo)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.HandlePaymentSucceeded(context.Background(), succeededEvent("pi_race", showID, 1))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("delivery returned error: %v", err)
		}
	}
	if got := repo.bookingCount(); got != 1 {
		t.Errorf("booking count = %d, want exactly 1", got)
	}
	if repo.seatsLeft(showID) != 9 {
		t.Errorf("seats left = %d, want 9", repo.seatsLeft(showID))
	}
}

func TestInsufficientSeatsAfterPayment(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(1)
	svc := newTestService(repo)
	notifier := &recordingNotifier{outcome: NotificationOutcome{Email: true, SMS: true}}
	svc.SetNotifier(notifier)

	// Payment captured for two seats but only one remains. The event is
	// acked, nothing is booked, and an operator alert is logged.
	err := svc.HandlePaymentSucceeded(context.Background(), succeededEvent("pi_conflict", showID, 2))
	if err != nil {
		t.Fatalf("conflict must be acked, got %v", err)
	}
	if repo.bookingCount() != 0 {
		t.Error("no booking should exist after a seat conflict")
	}
	if repo.seatsLeft(showID) != 1 {
		t.Errorf("seats left = %d, want 1 (untouched)", repo.seatsLeft(showID))
	}
	if notifier.calls != 0 {
		t.Error("notifier must not fire for an unbooked payment")
	}
}

func TestMalformedMetadataRejected(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	event := &payments.PaymentEvent{
		Kind:       payments.EventPaymentSucceeded,
		PaymentRef: "pi_bad",
		Metadata:   map[string]string{"customer_name": "Dana"},
	}
	if err := svc.HandlePaymentSucceeded(context.Background(), event); !errors.Is(err, apperrors.ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}
}

func TestRefundRestoresSeatsIdempotently(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(10)
	svc := newTestService(repo)

	if err := svc.HandlePaymentSucceeded(context.Background(), succeededEvent("pi_refund", showID, 3)); err != nil {
		t.Fatalf("setup booking: %v", err)
	}
	if repo.seatsLeft(showID) != 7 {
		t.Fatalf("seats left = %d, want 7", repo.seatsLeft(showID))
	}

	refund := &payments.PaymentEvent{Kind: payments.EventPaymentRefunded, PaymentRef: "pi_refund"}
	if err := svc.HandlePaymentRefunded(context.Background(), refund); err != nil {
		t.Fatalf("HandlePaymentRefunded: %v", err)
	}

	booking, _ := repo.GetByPaymentRef(context.Background(), "pi_refund")
	if booking.PaymentStatus != PaymentStatusRefunded {
		t.Errorf("PaymentStatus = %s, want refunded", booking.PaymentStatus)
	}
	if repo.seatsLeft(showID) != 10 {
		t.Errorf("seats left = %d, want 10 after release", repo.seatsLeft(showID))
	}

	// Replay makes no further changes
	if err := svc.HandlePaymentRefunded(context.Background(), refund); err != nil {
		t.Fatalf("replayed refund should ack cleanly: %v", err)
	}
	if repo.seatsLeft(showID) != 10 {
		t.Errorf("seats left = %d after replay, want 10", repo.seatsLeft(showID))
	}
}

func TestRefundForUnknownPaymentIsNoOp(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)

	event := &payments.PaymentEvent{Kind: payments.EventPaymentRefunded, PaymentRef: "pi_never_seen"}
	if err := svc.HandlePaymentRefunded(context.Background(), event); err != nil {
		t.Fatalf("refund for unknown payment must be acked, got %v", err)
	}
}

func TestPartialNotificationQueuesRetry(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(10)
	svc := newTestService(repo)

	notifier := &recordingNotifier{outcome: NotificationOutcome{Email: false, SMS: true}}
	retries := &recordingRetryPublisher{}
	svc.SetNotifier(notifier)
	svc.SetRetryPublisher(retries)

	if err := svc.HandlePaymentSucceeded(context.Background(), succeededEvent("pi_partial", showID, 1)); err != nil {
		t.Fatalf("HandlePaymentSucceeded: %v", err)
	}

	booking, _ := repo.GetByPaymentRef(context.Background(), "pi_partial")
	if repo.sentIDs[booking.ID] {
		t.Error("confirmation_sent must stay false after a failed channel")
	}
	if len(retries.published) != 1 {
		t.Fatalf("retries published = %d, want 1", len(retries.published))
	}
	call := retries.published[0]
	if !call.Email || call.SMS {
		t.Errorf("retry channels = email:%v sms:%v, want email only", call.Email, call.SMS)
	}
}

func TestConfirmLookupPendingFallsBackToProvider(t *testing.T) {
	repo := newFakeRepository()
	showID := repo.addShow(10)

	provider := &stubProvider{metadata: map[string]string{
		"show_id":       showID.String(),
		"customer_name": "Dana Whitfield",
		"ticket_count":  "2",
		"total_cents":   "15000",
	}}
	svc := NewService(repo, stubShowService{}, provider, logger.GetDefault())

	result, err := svc.ConfirmLookup(context.Background(), "pi_in_flight")
	if err != nil {
		t.Fatalf("ConfirmLookup: %v", err)
	}
	if result.Status != "pending" {
		t.Errorf("Status = %q, want pending", result.Status)
	}
	if result.TicketCode != "" {
		t.Errorf("pending lookup must not expose a ticket code, got %q", result.TicketCode)
	}
	if result.TicketCount != 2 || result.TotalCents != 15000 {
		t.Errorf("metadata echo wrong: %+v", result)
	}
}
