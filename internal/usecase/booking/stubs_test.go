package booking

import (
	"context"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
	"github.com/BruksfildServices01/mediplus/internal/models"
	"github.com/BruksfildServices01/mediplus/internal/notify"
)

// ------------------------------------------------------
// Repository stub
// ------------------------------------------------------

type repoStub struct {
	mu       sync.Mutex
	nextID   uint
	bookings map[uint]*models.Booking
	users    map[uint]*models.User
	doctors  map[uint]*models.Doctor

	createErr error

	// afterCount runs once the status counts are read, outside the lock.
	afterCount func()
}

func newRepoStub() *repoStub {
	return &repoStub{
		bookings: map[uint]*models.Booking{},
		users:    map[uint]*models.User{},
		doctors:  map[uint]*models.Doctor{},
	}
}

func (r *repoStub) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	b.ID = r.nextID
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *repoStub) UpdateBooking(_ context.Context, id uint, p domain.Patch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return 0, nil
	}
	if p.Status != nil {
		b.Status = string(*p.Status)
	}
	if p.Link != nil {
		link := *p.Link
		b.Link = &link
	}
	if p.ClearsLink() {
		b.Link = nil
	}
	if p.Receipt != nil {
		b.Receipt = p.Receipt
	}
	if p.Fees != nil {
		b.Fees = *p.Fees
	}
	if p.Prescriptions != nil {
		b.Prescriptions = append([]string{}, (*p.Prescriptions)...)
	}
	if p.UserDocs != nil {
		b.UserDocs = append([]string{}, (*p.UserDocs)...)
	}
	return 1, nil
}

func (r *repoStub) DeleteBooking(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return 0, nil
	}
	delete(r.bookings, id)
	return 1, nil
}

func (r *repoStub) SetPrescriptions(_ context.Context, id uint, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return 0, nil
	}
	b.Prescriptions = append([]string{}, ids...)
	return 1, nil
}

func (r *repoStub) SetUserDocuments(_ context.Context, id uint, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return 0, nil
	}
	b.UserDocs = append([]string{}, ids...)
	return 1, nil
}

func (r *repoStub) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *repoStub) list(keep func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *repoStub) ListBookingsByUser(_ context.Context, userID uint) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (r *repoStub) ListBookings(context.Context) ([]models.Booking, error) {
	return r.list(func(*models.Booking) bool { return true }), nil
}

func (r *repoStub) CountBookings(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *repoStub) CountBookingsByStatus(context.Context) (map[domain.Status]int64, error) {
	r.mu.Lock()
	out := map[domain.Status]int64{}
	for _, b := range r.bookings {
		out[domain.Status(b.Status)]++
	}
	hook := r.afterCount
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *repoStub) GetUser(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *repoStub) GetDoctor(_ context.Context, id uint) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	return d, nil
}

func (r *repoStub) FindDoctorByIdentity(_ context.Context, first, last, specialty string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if d.Firstname == first && d.Lastname == last && d.Specialty == specialty {
			return d, nil
		}
	}
	return nil, domain.ErrDoctorNotFound
}

var _ domain.Repository = (*repoStub)(nil)

// ------------------------------------------------------
// Notifier stub
// ------------------------------------------------------

type notifierStub struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *notifierStub) Dispatch(msg notify.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return true
}

func (n *notifierStub) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message{}, n.sent...)
}

func (n *notifierStub) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

// ------------------------------------------------------
// Cache / URL stubs
// ------------------------------------------------------

// cacheStub keeps one generation, like the redis cache: Invalidate bumps
// it and writes for an older generation are discarded.
type cacheStub struct {
	mu          sync.Mutex
	gen         int64
	counts      map[domain.Status]int64
	countsGen   int64
	hits        int
	invalidated int
}

func (c *cacheStub) GetStatusCounts(context.Context) (map[domain.Status]int64, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil || c.countsGen != c.gen {
		return nil, c.gen, false
	}
	c.hits++
	return c.counts, c.gen, true
}

func (c *cacheStub) SetStatusCounts(_ context.Context, gen int64, counts map[domain.Status]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.counts = counts
	c.countsGen = gen
}

func (c *cacheStub) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
}

type urlStub struct{}

func (urlStub) URL(id string) string { return "http://files.test/" + id }

// ------------------------------------------------------
// Harness
// ------------------------------------------------------

const adminEmail = "admin@mediplus.test"

type harness struct {
	repo     *repoStub
	notifier *notifierStub
	cache    *cacheStub

	create       *CreateBooking
	update       *UpdateBooking
	del          *DeleteBooking
	prescription *AddPrescription
	documents    *AddUserDocuments
	list         *ListBookings
	stats        *BookingStats
}

func newHarness() *harness {
	repo := newRepoStub()
	repo.users[7] = &models.User{ID: 7, Username: "pat", Email: "pat@example.com", Phone: "555-0100", Name: "Pat"}
	repo.doctors[1] = &models.Doctor{
		ID:        1,
		Firstname: "Alice",
		Lastname:  "Smith",
		Specialty: "Cardiologist",
		Email:     "alice@example.com",
		Fees:      2000,
	}

	notifier := &notifierStub{}
	cache := &cacheStub{}
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	notes := NewNotifications(notifier, repo, urlStub{}, adminEmail, zap.NewNop())

	return &harness{
		repo:         repo,
		notifier:     notifier,
		cache:        cache,
		create:       NewCreateBooking(repo, notes, cache, m),
		update:       NewUpdateBooking(repo, notes, cache, m),
		del:          NewDeleteBooking(repo, cache),
		prescription: NewAddPrescription(repo, notes, m),
		documents:    NewAddUserDocuments(repo),
		list:         NewListBookings(repo),
		stats:        NewBookingStats(repo, cache),
	}
}

func ptr[T any](v T) *T { return &v }

func aliceBooking() CreateBookingInput {
	return CreateBookingInput{
		UserID:          7,
		DoctorFirstname: "Alice",
		DoctorLastname:  "Smith",
		DoctorSpecialty: "Cardiologist",
		Date:            "2024-03-01",
		Time:            "09:00",
		Fees:            ptr(2000.0),
	}
}

func templates(msgs []notify.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Template)
	}
	return out
}
