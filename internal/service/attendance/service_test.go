package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiofit/attendance-backend-go/internal/domain/attendance"
	"github.com/studiofit/attendance-backend-go/internal/domain/organization"
	"github.com/studiofit/attendance-backend-go/internal/pkg/clock"
)

var jakarta = mustLoadLocation("Asia/Jakarta")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// localTime builds a UTC instant from a Jakarta wall-clock time on Monday
// 2026-03-02.
func localTime(hour, min, sec int) time.Time {
	return time.Date(2026, 3, 2, hour, min, sec, 0, jakarta).UTC()
}

func authedContext(t *testing.T, employeeID, organizationID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	tok, _, err := ja.Encode(map[string]interface{}{
		"employee_id":     employeeID,
		"organization_id": organizationID,
		"role":            "employee",
		"type":            "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	records map[string]*attendance.Record
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Record)}
}

func (r *fakeAttendanceRepo) key(employeeID, date string) string {
	return employeeID + "|" + date
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	k := r.key(record.EmployeeID, record.Date.Format("2006-01-02"))
	if _, exists := r.records[k]; exists {
		return attendance.Record{}, attendance.ErrAlreadyActive
	}
	r.nextID++
	record.ID = fmt.Sprintf("rec-%d", r.nextID)
	stored := record
	r.records[k] = &stored
	return record, nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string, organizationID string) (*attendance.Record, error) {
	rec, ok := r.records[r.key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.Sessions = append([]attendance.Session(nil), rec.Sessions...)
	return &cp, nil
}

func (r *fakeAttendanceRepo) GetForUpdate(ctx context.Context, employeeID string, date string, organizationID string) (*attendance.Record, error) {
	return r.GetByEmployeeAndDate(ctx, employeeID, date, organizationID)
}

func (r *fakeAttendanceRepo) UpdateSessions(ctx context.Context, record attendance.Record) error {
	k := r.key(record.EmployeeID, record.Date.Format("2006-01-02"))
	if _, ok := r.records[k]; !ok {
		return attendance.ErrRecordNotFound
	}
	stored := record
	r.records[k] = &stored
	return nil
}

func (r *fakeAttendanceRepo) ListOpenForDate(ctx context.Context, date string, organizationID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.Date.Format("2006-01-02") == date && rec.HasOpenSession() {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) ListEmployeeIDsWithRecord(ctx context.Context, date string, organizationID string) ([]string, error) {
	var out []string
	for _, rec := range r.records {
		if rec.Date.Format("2006-01-02") == date {
			out = append(out, rec.EmployeeID)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) BulkCreateAbsent(ctx context.Context, records []attendance.Record) (int, error) {
	created := 0
	for _, rec := range records {
		if _, err := r.Create(ctx, rec); err == nil {
			created++
		}
	}
	return created, nil
}

func (r *fakeAttendanceRepo) seed(rec attendance.Record) {
	stored := rec
	r.records[r.key(rec.EmployeeID, rec.Date.Format("2006-01-02"))] = &stored
}

type fakeOrgRepo struct {
	org organization.Organization
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	return r.org, nil
}

func (r *fakeOrgRepo) List(ctx context.Context) ([]organization.Organization, error) {
	return []organization.Organization{r.org}, nil
}

type fakeChallengeStore struct {
	tokens map[string]string
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{tokens: make(map[string]string)}
}

func (s *fakeChallengeStore) Issue(ctx context.Context, employeeID string) (string, error) {
	token := "challenge-" + employeeID
	s.tokens[employeeID] = token
	return token, nil
}

func (s *fakeChallengeStore) Verify(ctx context.Context, employeeID string, token string) (bool, error) {
	stored, ok := s.tokens[employeeID]
	if !ok || token == "" || stored != token {
		return false, nil
	}
	delete(s.tokens, employeeID)
	return true, nil
}

type fakeSweeper struct {
	triggers int
}

func (s *fakeSweeper) TriggerSweep() { s.triggers++ }

type fixture struct {
	svc        attendance.Service
	repo       *fakeAttendanceRepo
	challenges *fakeChallengeStore
	sweeper    *fakeSweeper
	ctx        context.Context
}

func newFixture(t *testing.T, now time.Time, geofence organization.Geofence) fixture {
	t.Helper()
	repo := newFakeAttendanceRepo()
	challenges := newFakeChallengeStore()
	sweeper := &fakeSweeper{}
	orgRepo := &fakeOrgRepo{org: organization.Organization{
		ID:       "org-1",
		Name:     "Studio One",
		Timezone: "Asia/Jakarta",
		Geofence: geofence,
	}}

	svc := NewAttendanceService(
		fakeTxManager{},
		repo,
		orgRepo,
		challenges,
		clock.Fixed(now, jakarta),
		sweeper,
		2*time.Minute,
	)
	return fixture{
		svc:        svc,
		repo:       repo,
		challenges: challenges,
		sweeper:    sweeper,
		ctx:        authedContext(t, "emp-1", "org-1"),
	}
}

func TestCheckInWebOnTime(t *testing.T) {
	f := newFixture(t, localTime(8, 30, 0), organization.Geofence{})

	resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "2026-03-02 08:30:00", resp.Sessions[0].CheckIn)
	assert.Nil(t, resp.Sessions[0].CheckOut)
}

func TestCheckInLateClassification(t *testing.T) {
	t.Run("exactly nine is on time", func(t *testing.T) {
		f := newFixture(t, localTime(9, 0, 0), organization.Geofence{})
		resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusPresent, resp.Status)
	})

	t.Run("one second past nine is late", func(t *testing.T) {
		f := newFixture(t, localTime(9, 0, 1), organization.Geofence{})
		resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusLate, resp.Status)
	})
}

func TestCheckInOutsideHours(t *testing.T) {
	for _, tc := range []struct {
		name      string
		hour, min int
		wantErr   bool
	}{
		{"before open", 6, 59, true},
		{"at open", 7, 0, false},
		{"at cutoff", 17, 0, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, localTime(tc.hour, tc.min, 0), organization.Geofence{})
			_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
			if tc.wantErr {
				assert.ErrorIs(t, err, attendance.ErrOutsideHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInWhileSessionOpen(t *testing.T) {
	f := newFixture(t, localTime(10, 0, 0), organization.Geofence{})

	_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
	assert.ErrorIs(t, err, attendance.ErrAlreadyActive)
}

func TestCheckInReentryKeepsArrivalStatus(t *testing.T) {
	f := newFixture(t, localTime(13, 0, 0), organization.Geofence{})

	// Seed a late arrival that already checked out
	rec := attendance.Record{
		ID:             "rec-seed",
		EmployeeID:     "emp-1",
		OrganizationID: "org-1",
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:         attendance.StatusLate,
	}
	rec.AppendSession(localTime(9, 30, 0))
	rec.CloseOpenSession(localTime(12, 0, 0))
	f.repo.seed(rec)

	resp, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceWeb})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.Len(t, resp.Sessions, 2)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "2026-03-02 09:30:00", *resp.CheckInTime)
}

func TestCheckInMobileBiometricGate(t *testing.T) {
	f := newFixture(t, localTime(8, 0, 0), organization.Geofence{})

	t.Run("missing token is rejected", func(t *testing.T) {
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{Source: attendance.SourceMobile})
		assert.ErrorIs(t, err, attendance.ErrBiometricRequired)
	})

	t.Run("issued token is consumed once", func(t *testing.T) {
		ch, err := f.svc.IssueChallenge(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 120, ch.ExpiresIn)

		_, err = f.svc.CheckIn(f.ctx, attendance.CheckInRequest{
			Source:         attendance.SourceMobile,
			BiometricToken: ch.Token,
		})
		require.NoError(t, err)

		// The same token cannot gate a second submission
		_, err = f.svc.CheckOut(f.ctx, attendance.CheckOutRequest{
			Source:         attendance.SourceMobile,
			BiometricToken: ch.Token,
		})
		assert.ErrorIs(t, err, attendance.ErrBiometricRequired)
	})
}

func TestCheckInMobileGeofence(t *testing.T) {
	fence := organization.Geofence{
		CenterLat:    -6.2,
		CenterLng:    106.8,
		RadiusMeters: 100,
		Enabled:      true,
	}

	issue := func(t *testing.T, f fixture) string {
		ch, err := f.svc.IssueChallenge(f.ctx)
		require.NoError(t, err)
		return ch.Token
	}

	t.Run("missing location is rejected", func(t *testing.T) {
		f := newFixture(t, localTime(8, 0, 0), fence)
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{
			Source:         attendance.SourceMobile,
			BiometricToken: issue(t, f),
		})
		assert.ErrorIs(t, err, attendance.ErrLocationRequired)
	})

	t.Run("inside the fence is accepted", func(t *testing.T) {
		f := newFixture(t, localTime(8, 0, 0), fence)
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{
			Source:         attendance.SourceMobile,
			BiometricToken: issue(t, f),
			Location:       &attendance.LocationPayload{Latitude: -6.2, Longitude: 106.8},
		})
		assert.NoError(t, err)
	})

	t.Run("outside the fence reports the distance", func(t *testing.T) {
		f := newFixture(t, localTime(8, 0, 0), fence)
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{
			Source:         attendance.SourceMobile,
			BiometricToken: issue(t, f),
			Location:       &attendance.LocationPayload{Latitude: -6.21, Longitude: 106.8},
		})
		var geofenceErr *attendance.OutsideGeofenceError
		require.True(t, errors.As(err, &geofenceErr))
		assert.Greater(t, geofenceErr.DistanceMeters, 100.0)
	})

	t.Run("disabled fence skips the location check", func(t *testing.T) {
		f := newFixture(t, localTime(8, 0, 0), organization.Geofence{Enabled: false})
		_, err := f.svc.CheckIn(f.ctx, attendance.CheckInRequest{
			Source:         attendance.SourceMobile,
			BiometricToken: issue(t, f),
		})
		assert.NoError(t, err)
	})
}

func TestCheckOut(t *testing.T) {
	t.Run("closes the open session", func(t *testing.T) {
		f := newFixture(t, localTime(16, 0, 0), organization.Geofence{})
		rec := attendance.Record{
			ID:             "rec-seed",
			EmployeeID:     "emp-1",
			OrganizationID: "org-1",
			Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Status:         attendance.StatusPresent,
		}
		rec.AppendSession(localTime(8, 0, 0))
		f.repo.seed(rec)

		resp, err := f.svc.CheckOut(f.ctx, attendance.CheckOutRequest{Source: attendance.SourceWeb})
		require.NoError(t, err)
		require.NotNil(t, resp.CheckOutTime)
		assert.Equal(t, "2026-03-02 16:00:00", *resp.CheckOutTime)
	})

	t.Run("without a record", func(t *testing.T) {
		f := newFixture(t, localTime(16, 0, 0), organization.Geofence{})
		_, err := f.svc.CheckOut(f.ctx, attendance.CheckOutRequest{Source: attendance.SourceWeb})
		assert.ErrorIs(t, err, attendance.ErrNoRecord)
	})

	t.Run("without an open session", func(t *testing.T) {
		f := newFixture(t, localTime(16, 0, 0), organization.Geofence{})
		rec := attendance.Record{
			ID:             "rec-seed",
			EmployeeID:     "emp-1",
			OrganizationID: "org-1",
			Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Status:         attendance.StatusPresent,
		}
		rec.AppendSession(localTime(8, 0, 0))
		rec.CloseOpenSession(localTime(12, 0, 0))
		f.repo.seed(rec)

		_, err := f.svc.CheckOut(f.ctx, attendance.CheckOutRequest{Source: attendance.SourceWeb})
		assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
	})

	t.Run("past the cutoff", func(t *testing.T) {
		f := newFixture(t, localTime(17, 30, 0), organization.Geofence{})
		_, err := f.svc.CheckOut(f.ctx, attendance.CheckOutRequest{Source: attendance.SourceWeb})
		assert.ErrorIs(t, err, attendance.ErrOutsideHours)
	})
}

func TestStatus(t *testing.T) {
	t.Run("no record yet", func(t *testing.T) {
		f := newFixture(t, localTime(10, 0, 0), organization.Geofence{})
		resp, err := f.svc.Status(f.ctx, attendance.StatusRequest{})
		require.NoError(t, err)
		assert.False(t, resp.IsCheckedIn)
		assert.Empty(t, resp.Sessions)
		assert.Zero(t, resp.TodayHours)
	})

	t.Run("today's read triggers the sweep", func(t *testing.T) {
		f := newFixture(t, localTime(10, 0, 0), organization.Geofence{})
		_, err := f.svc.Status(f.ctx, attendance.StatusRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, f.sweeper.triggers)
	})

	t.Run("past date read does not trigger the sweep", func(t *testing.T) {
		f := newFixture(t, localTime(10, 0, 0), organization.Geofence{})
		date := "2026-02-27"
		_, err := f.svc.Status(f.ctx, attendance.StatusRequest{Date: &date})
		require.NoError(t, err)
		assert.Zero(t, f.sweeper.triggers)
	})

	t.Run("open session mid-day", func(t *testing.T) {
		f := newFixture(t, localTime(12, 0, 0), organization.Geofence{})
		rec := attendance.Record{
			EmployeeID:     "emp-1",
			OrganizationID: "org-1",
			Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Status:         attendance.StatusPresent,
		}
		rec.AppendSession(localTime(8, 0, 0))
		f.repo.seed(rec)

		resp, err := f.svc.Status(f.ctx, attendance.StatusRequest{})
		require.NoError(t, err)
		assert.True(t, resp.IsCheckedIn)
		assert.InDelta(t, 4.0, resp.TodayHours, 0.001)
	})

	t.Run("structurally open session past the cutoff reads closed", func(t *testing.T) {
		f := newFixture(t, localTime(19, 0, 0), organization.Geofence{})
		rec := attendance.Record{
			EmployeeID:     "emp-1",
			OrganizationID: "org-1",
			Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Status:         attendance.StatusPresent,
		}
		rec.AppendSession(localTime(8, 0, 0))
		f.repo.seed(rec)

		resp, err := f.svc.Status(f.ctx, attendance.StatusRequest{})
		require.NoError(t, err)
		assert.False(t, resp.IsCheckedIn)
		// Hours stop accruing at 17:00 even though the row is still open
		assert.InDelta(t, 9.0, resp.TodayHours, 0.001)
	})
}
