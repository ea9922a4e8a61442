package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tutorlane/backend/internal/model"
	"go.uber.org/zap"
)

func newAvailabilityService(av *fakeAvailabilityRepo, bk *fakeBookingRepo, bl *fakeBlockRepo, now time.Time) *AvailabilityService {
	s := NewAvailabilityService(av, bk, bl, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestAvailableSlots_EndToEnd(t *testing.T) {
	// Wednesday 2026-09-02; window 09:00-11:00 in 30 minute slots, one
	// confirmed booking and one block should each remove a slot.
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	av := &fakeAvailabilityRepo{}
	if err := av.Create(context.Background(), &model.AvailabilityWindow{
		TeacherID: 7, Weekday: 3, StartTime: "09:00:00", EndTime: "11:00:00",
		SlotMinutes: 30, IsActive: true,
	}); err != nil {
		t.Fatal(err)
	}

	bk := &fakeBookingRepo{bookings: []model.Booking{
		{ID: 1, TeacherID: 7, StartAt: date.Add(9 * time.Hour), EndAt: date.Add(9*time.Hour + 30*time.Minute), Status: model.BookingStatusConfirmed},
		{ID: 2, TeacherID: 7, StartAt: date.Add(10 * time.Hour), EndAt: date.Add(10*time.Hour + 30*time.Minute), Status: model.BookingStatusCanceled},
	}}
	bl := &fakeBlockRepo{blocks: []model.UnavailabilityBlock{
		{ID: 1, TeacherID: 7, StartAt: date.Add(10*time.Hour + 30*time.Minute), EndAt: date.Add(11 * time.Hour)},
	}}

	svc := newAvailabilityService(av, bk, bl, now)

	slots, err := svc.AvailableSlots(context.Background(), 7, date, 0)
	if err != nil {
		t.Fatal(err)
	}

	// 09:00 booked, 10:30 blocked, 10:00 free (its booking is canceled).
	want := []time.Time{
		date.Add(9*time.Hour + 30*time.Minute),
		date.Add(10 * time.Hour),
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if !slots[i].Start.Equal(want[i]) {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], slots[i].Start)
		}
	}
}

func TestAvailableSlots_PastSuppressionAcrossLocations(t *testing.T) {
	// The dashboard queries in UTC while the process clock may run in any
	// zone. 20:00 at UTC-10 *is* 06:00 UTC on the query date, so the
	// 05:00 and 05:30 slots have already started and must be suppressed.
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC) // Wednesday
	serverZone := time.FixedZone("UTC-10", -10*60*60)
	now := time.Date(2026, 9, 1, 20, 0, 0, 0, serverZone)

	av := &fakeAvailabilityRepo{}
	if err := av.Create(context.Background(), &model.AvailabilityWindow{
		TeacherID: 7, Weekday: 3, StartTime: "05:00:00", EndTime: "07:00:00",
		SlotMinutes: 30, IsActive: true,
	}); err != nil {
		t.Fatal(err)
	}

	svc := newAvailabilityService(av, &fakeBookingRepo{}, &fakeBlockRepo{}, now)

	slots, err := svc.AvailableSlots(context.Background(), 7, date, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := []time.Time{
		date.Add(6 * time.Hour),
		date.Add(6*time.Hour + 30*time.Minute),
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if !slots[i].Start.Equal(want[i]) {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], slots[i].Start)
		}
	}
}

func TestAvailableSlots_NoWindowsIsEmptyNotError(t *testing.T) {
	svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, &fakeBlockRepo{}, time.Now())

	slots, err := svc.AvailableSlots(context.Background(), 7, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected empty result, got %d slots", len(slots))
	}
}

func TestAvailableSlots_NegativeDurationRejected(t *testing.T) {
	svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, &fakeBlockRepo{}, time.Now())

	_, err := svc.AvailableSlots(context.Background(), 7, time.Now(), -30)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateWindow_Validation(t *testing.T) {
	svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, &fakeBlockRepo{}, time.Now())

	cases := []struct {
		name   string
		window model.AvailabilityWindow
	}{
		{"inverted", model.AvailabilityWindow{Weekday: 1, StartTime: "10:00:00", EndTime: "09:00:00", SlotMinutes: 30}},
		{"equal bounds", model.AvailabilityWindow{Weekday: 1, StartTime: "09:00:00", EndTime: "09:00:00", SlotMinutes: 30}},
		{"bad weekday", model.AvailabilityWindow{Weekday: 7, StartTime: "09:00:00", EndTime: "10:00:00", SlotMinutes: 30}},
		{"bad clock string", model.AvailabilityWindow{Weekday: 1, StartTime: "morning", EndTime: "10:00:00", SlotMinutes: 30}},
		{"zero slot minutes", model.AvailabilityWindow{Weekday: 1, StartTime: "09:00:00", EndTime: "10:00:00", SlotMinutes: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := tc.window
			err := svc.CreateWindow(context.Background(), 7, &w)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUpdateWindow_Ownership(t *testing.T) {
	av := &fakeAvailabilityRepo{}
	svc := newAvailabilityService(av, &fakeBookingRepo{}, &fakeBlockRepo{}, time.Now())

	w := &model.AvailabilityWindow{Weekday: 1, StartTime: "09:00:00", EndTime: "10:00:00", SlotMinutes: 30, IsActive: true}
	if err := svc.CreateWindow(context.Background(), 7, w); err != nil {
		t.Fatal(err)
	}

	update := *w
	update.EndTime = "11:00:00"
	if err := svc.UpdateWindow(context.Background(), 99, &update); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign teacher, got %v", err)
	}

	if err := svc.UpdateWindow(context.Background(), 7, &update); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}

	missing := update
	missing.ID = 12345
	if err := svc.UpdateWindow(context.Background(), 7, &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBlocks_CreateValidatesAndDeleteChecksOwner(t *testing.T) {
	bl := &fakeBlockRepo{}
	svc := newAvailabilityService(&fakeAvailabilityRepo{}, &fakeBookingRepo{}, bl, time.Now())

	start := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)
	bad := &model.UnavailabilityBlock{StartAt: start, EndAt: start}
	if err := svc.CreateBlock(context.Background(), 7, bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty interval, got %v", err)
	}

	block := &model.UnavailabilityBlock{StartAt: start, EndAt: start.Add(time.Hour), Reason: "dentist"}
	if err := svc.CreateBlock(context.Background(), 7, block); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteBlock(context.Background(), 99, block.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteBlock(context.Background(), 7, block.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteBlock(context.Background(), 7, block.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
