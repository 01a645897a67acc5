package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
	"github.com/BruksfildServices01/mediplus/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Doctor{}, &models.Booking{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB) (*models.User, *models.Doctor) {
	t.Helper()

	u := &models.User{Username: "pat", Email: "pat@example.com", PasswordHash: "x", Role: models.RolePatient}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	d := &models.Doctor{
		Username:     "alice",
		PasswordHash: "x",
		Firstname:    "Alice",
		Lastname:     "Smith",
		Specialty:    "GP",
		Email:        "alice@example.com",
		Fees:         1500,
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return u, d
}

func newBooking(userID uint, status domain.Status) *models.Booking {
	return &models.Booking{
		UserID:          userID,
		UserEmail:       "pat@example.com",
		DoctorFirstname: "Alice",
		DoctorLastname:  "Smith",
		DoctorSpecialty: "GP",
		Date:            "2024-03-01",
		Time:            "09:00",
		Fees:            2000,
		Status:          string(status),
	}
}

func TestBookingRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	u, _ := seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	b := newBooking(u.ID, domain.StatusPending)
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	got, err := repo.GetBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if got.Status != "Pending" || got.Fees != 2000 || got.Link != nil {
		t.Fatalf("unexpected booking %+v", got)
	}
	if got.Prescriptions == nil || len(got.Prescriptions) != 0 {
		t.Fatalf("expected empty prescription list, got %#v", got.Prescriptions)
	}

	if _, err := repo.GetBooking(ctx, 999); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingRepository_UpdateAppliesPatch(t *testing.T) {
	db := newTestDB(t)
	u, _ := seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	b := newBooking(u.ID, domain.StatusPending)
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	link := domain.StatusLink
	url := "https://meet/xyz"
	patch, err := domain.Patch{Status: &link, Link: &url}.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	n, err := repo.UpdateBooking(ctx, b.ID, patch)
	if err != nil || n != 1 {
		t.Fatalf("UpdateBooking: n=%d err=%v", n, err)
	}

	got, _ := repo.GetBooking(ctx, b.ID)
	if got.Status != "Link" || got.Link == nil || *got.Link != url {
		t.Fatalf("patch not applied: %+v", got)
	}

	confirmed := domain.StatusConfirmed
	patch, _ = domain.Patch{Status: &confirmed}.Normalize()
	if _, err := repo.UpdateBooking(ctx, b.ID, patch); err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	got, _ = repo.GetBooking(ctx, b.ID)
	if got.Link != nil {
		t.Fatalf("expected link cleared, got %q", *got.Link)
	}

	n, err = repo.UpdateBooking(ctx, 999, patch)
	if err != nil || n != 0 {
		t.Fatalf("missing booking: n=%d err=%v", n, err)
	}
}

func TestBookingRepository_SetPrescriptionsReplaces(t *testing.T) {
	db := newTestDB(t)
	u, _ := seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	b := newBooking(u.ID, domain.StatusConfirmed)
	b.Prescriptions = []string{"a"}
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if n, err := repo.SetPrescriptions(ctx, b.ID, []string{"b", "c"}); err != nil || n != 1 {
		t.Fatalf("SetPrescriptions: n=%d err=%v", n, err)
	}
	if n, err := repo.SetUserDocuments(ctx, b.ID, []string{"scan.png"}); err != nil || n != 1 {
		t.Fatalf("SetUserDocuments: n=%d err=%v", n, err)
	}

	got, _ := repo.GetBooking(ctx, b.ID)
	if !reflect.DeepEqual([]string(got.Prescriptions), []string{"b", "c"}) {
		t.Fatalf("expected [b c], got %v", got.Prescriptions)
	}
	if !reflect.DeepEqual([]string(got.UserDocs), []string{"scan.png"}) {
		t.Fatalf("expected [scan.png], got %v", got.UserDocs)
	}

	if n, _ := repo.SetPrescriptions(ctx, 999, []string{"x"}); n != 0 {
		t.Fatalf("expected 0 rows for missing booking, got %d", n)
	}
}

func TestBookingRepository_DeleteTwice(t *testing.T) {
	db := newTestDB(t)
	u, _ := seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	b := newBooking(u.ID, domain.StatusPending)
	if err := repo.CreateBooking(ctx, b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	if n, err := repo.DeleteBooking(ctx, b.ID); err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	if n, err := repo.DeleteBooking(ctx, b.ID); err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}
}

func TestBookingRepository_ListAndCount(t *testing.T) {
	db := newTestDB(t)
	u, _ := seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	other := &models.User{Username: "sam", Email: "sam@example.com", PasswordHash: "x"}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, s := range []domain.Status{domain.StatusPending, domain.StatusLink, domain.StatusPending} {
		if err := repo.CreateBooking(ctx, newBooking(u.ID, s)); err != nil {
			t.Fatalf("CreateBooking: %v", err)
		}
	}
	if err := repo.CreateBooking(ctx, newBooking(other.ID, domain.StatusConfirmed)); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	mine, err := repo.ListBookingsByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListBookingsByUser: %v", err)
	}
	if len(mine) != 3 || mine[0].ID < mine[1].ID || mine[1].ID < mine[2].ID {
		t.Fatalf("expected 3 bookings newest first, got %+v", mine)
	}

	all, _ := repo.ListBookings(ctx)
	if len(all) != 4 || all[0].UserID != other.ID {
		t.Fatalf("expected newest booking first, got %+v", all)
	}

	total, _ := repo.CountBookings(ctx)
	if total != 4 {
		t.Fatalf("expected 4, got %d", total)
	}

	byStatus, err := repo.CountBookingsByStatus(ctx)
	if err != nil {
		t.Fatalf("CountBookingsByStatus: %v", err)
	}
	want := map[domain.Status]int64{
		domain.StatusPending:   2,
		domain.StatusLink:      1,
		domain.StatusConfirmed: 1,
	}
	if !reflect.DeepEqual(byStatus, want) {
		t.Fatalf("got %v, want %v", byStatus, want)
	}
}

func TestBookingRepository_DoctorLookups(t *testing.T) {
	db := newTestDB(t)
	u, d := seed(t, db)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	got, err := repo.FindDoctorByIdentity(ctx, "Alice", "Smith", "GP")
	if err != nil || got.ID != d.ID {
		t.Fatalf("FindDoctorByIdentity: %v %+v", err, got)
	}
	if _, err := repo.FindDoctorByIdentity(ctx, "Alice", "Smith", "Urologist"); !errors.Is(err, domain.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
	if _, err := repo.GetDoctor(ctx, 404); !errors.Is(err, domain.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
	if _, err := repo.GetUser(ctx, u.ID); err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if _, err := repo.GetUser(ctx, 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
