package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"blood-bank-dashboard/internal/dashboard"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// asUser stands in for the auth middleware
func asUser(id, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Session{UserID: id, Role: role}
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
		c.Set("userID", id)
		c.Set("role", role)
		c.Next()
	}
}

type stubAuth struct {
	loggedOut *session.Session
	resetErr  error
}

func (s *stubAuth) Login(_ context.Context, form validation.LoginForm) (*service.LoginResponse, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}
	if form.Password != "secret1" {
		return nil, service.ErrInvalidCredentials
	}
	return &service.LoginResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         service.UserResponse{ID: "u-1", Email: form.Email, Role: models.RoleDonor},
	}, nil
}

func (s *stubAuth) Register(context.Context, validation.RegisterForm) (*service.LoginResponse, error) {
	return nil, service.ErrEmailTaken
}

func (s *stubAuth) RefreshAccessToken(_ context.Context, token string) (string, error) {
	if token != "refresh" {
		return "", service.ErrInvalidRefreshToken
	}
	return "access-2", nil
}

func (s *stubAuth) Logout(_ context.Context, _ string, current *session.Session) error {
	s.loggedOut = current
	return nil
}

func (s *stubAuth) GetCurrentUser(_ context.Context, userID string) (*service.UserResponse, error) {
	return &service.UserResponse{ID: userID}, nil
}

func (s *stubAuth) ResetPassword(context.Context, validation.ResetForm) error { return s.resetErr }

func (s *stubAuth) UpdatePassword(context.Context, string, validation.UpdatePasswordForm) error {
	return nil
}

func (s *stubAuth) ConfirmReset(context.Context, validation.ConfirmResetForm) error {
	return session.ErrResetTokenInvalid
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, false, zap.NewNop())
	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := do(r, http.MethodPost, "/auth/login", gin.H{"email": "not-an-email", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Invalid email address", env.Fields["email"])
	assert.Equal(t, "Password must be at least 6 characters", env.Fields["password"])

	w = do(r, http.MethodPost, "/auth/login", gin.H{"email": "a@example.com", "password": "wrong12"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", gin.H{"email": "a@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "refresh_token=refresh")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")
	assert.Contains(t, string(decode(t, w).Data), `"access_token":"access"`)
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	auth := &stubAuth{}
	h := NewAuthHandler(auth, false, zap.NewNop())
	r := gin.New()
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", asUser("u-1", models.RoleStaff), h.Logout)

	w := do(r, http.MethodPost, "/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access-2")

	w = do(r, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, auth.loggedOut)
	assert.Equal(t, "u-1", auth.loggedOut.UserID)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAuthHandler_ResetAndConfirm(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, false, zap.NewNop())
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/reset-password", h.ResetPassword)
	r.POST("/auth/confirm-reset", h.ConfirmReset)

	w := do(r, http.MethodPost, "/auth/reset-password", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/auth/confirm-reset", gin.H{"token": "t", "password": "secret1", "confirm_password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/auth/register", gin.H{"name": "Ann"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/auth/register", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{validation.FieldErrors{"email": "Invalid email address"}, http.StatusBadRequest},
		{fmt.Errorf("failed to get donor: %w", repository.ErrNotFound), http.StatusNotFound},
		{service.ErrAccessDenied, http.StatusForbidden},
		{service.ErrRefreshTokenExpired, http.StatusUnauthorized},
		{dashboard.ErrUnknownPanel, http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, zap.NewNop(), tc.err, "Failed")
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
	}
}

// stubData backs every dashboard service with in-memory rows
type stubData struct {
	mu       sync.Mutex
	reads    int
	requests []models.BloodRequest
	notes    []models.Notification
	donation []models.Donation
	appts    []models.Appointment
}

func (s *stubData) GetInventory(context.Context) ([]models.BloodInventory, error) {
	return []models.BloodInventory{{ID: "i-1", BloodType: "O-", Units: 4, Capacity: 40, Status: models.InventoryLow}}, nil
}

func (s *stubData) UpdateInventory(_ context.Context, id string, patch models.InventoryPatch, _ string) (*models.BloodInventory, error) {
	return &models.BloodInventory{ID: id, Units: *patch.Units, Capacity: 40, Status: models.InventoryNormal}, nil
}

func (s *stubData) GetRequests(context.Context) ([]models.BloodRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.requests, nil
}

func (s *stubData) GetRequestsByStatus(_ context.Context, status models.RequestStatus) ([]models.BloodRequest, error) {
	var out []models.BloodRequest
	for _, r := range s.requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubData) CreateRequest(_ context.Context, requesterID string, form validation.RequestForm) (*models.BloodRequest, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}
	return &models.BloodRequest{ID: "r-new", RequesterID: requesterID, Status: models.RequestPending}, nil
}

func (s *stubData) UpdateRequest(_ context.Context, id string, _ models.RequestPatch, _ string) (*models.BloodRequest, error) {
	return s.decide(id, models.RequestPending)
}

func (s *stubData) ApproveRequest(_ context.Context, id, approverID string, _ *string) (*models.BloodRequest, error) {
	return s.decide(id, models.RequestApproved)
}

func (s *stubData) RejectRequest(_ context.Context, id, _ string, _ *string) (*models.BloodRequest, error) {
	return s.decide(id, models.RequestRejected)
}

func (s *stubData) MarkRequestUrgent(_ context.Context, id, _ string) (*models.BloodRequest, error) {
	return s.decide(id, models.RequestUrgent)
}

func (s *stubData) decide(id string, status models.RequestStatus) (*models.BloodRequest, error) {
	for _, r := range s.requests {
		if r.ID == id {
			r.Status = status
			return &r, nil
		}
	}
	return nil, fmt.Errorf("failed to update request: %w", repository.ErrNotFound)
}

func (s *stubData) GetNotifications(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubData) GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	all, _ := s.GetNotifications(ctx, userID)
	var out []models.Notification
	for _, n := range all {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

// owned mirrors the store's id and user_id scoping
func (s *stubData) owned(userID, id string, apply func(i int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID == id && n.UserID == userID {
			apply(i)
			return nil
		}
	}
	return fmt.Errorf("failed to update notification: %w", repository.ErrNotFound)
}

func (s *stubData) MarkAsRead(_ context.Context, userID, id string) error {
	return s.owned(userID, id, func(i int) { s.notes[i].Read = true })
}

func (s *stubData) MarkAllAsRead(context.Context, string) error { return nil }

func (s *stubData) DeleteNotification(_ context.Context, userID, id string) error {
	return s.owned(userID, id, func(i int) { s.notes = append(s.notes[:i], s.notes[i+1:]...) })
}

func (s *stubData) ClearAllNotifications(context.Context, string) error { return nil }

func (s *stubData) GetDonorProfile(_ context.Context, donorID string) (*models.Donor, error) {
	if donorID == "missing" {
		return nil, repository.ErrNotFound
	}
	return &models.Donor{ID: donorID, EligibilityStatus: models.EligibilityPending}, nil
}

func (s *stubData) UpdateDonorProfile(_ context.Context, donorID string, _ models.DonorPatch) (*models.Donor, error) {
	return &models.Donor{ID: donorID}, nil
}

func (s *stubData) GetMedicalInfo(context.Context, string) (*models.MedicalInfo, error) {
	return nil, nil
}

func (s *stubData) UpdateMedicalInfo(_ context.Context, donorID string, patch models.MedicalInfoPatch) (*models.MedicalInfo, error) {
	return patch.Apply(donorID), nil
}

func (s *stubData) GetDonationHistory(context.Context, string) ([]models.Donation, error) {
	return s.donation, nil
}

func (s *stubData) GetAppointments(context.Context, string) ([]models.Appointment, error) {
	return s.appts, nil
}

func (s *stubData) ScheduleAppointment(_ context.Context, donorID string, form validation.AppointmentForm) (*models.Appointment, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}
	return &models.Appointment{ID: "a-new", DonorID: donorID, Date: form.Date, Status: models.AppointmentScheduled}, nil
}

func (s *stubData) UpdateAppointment(_ context.Context, id string, _ models.AppointmentPatch) (*models.Appointment, error) {
	return &models.Appointment{ID: id}, nil
}

func (s *stubData) CancelAppointment(_ context.Context, id string) (*models.Appointment, error) {
	return &models.Appointment{ID: id, Status: models.AppointmentCancelled}, nil
}

func (s *stubData) GetInventoryTrends(context.Context, service.TimeRange) ([]models.InventoryTrend, error) {
	return nil, nil
}

func (s *stubData) GetDonationTrends(_ context.Context, _ service.TimeRange, donationType string) ([]models.DonationTrend, error) {
	return []models.DonationTrend{{Count: 1, DonationType: &donationType}}, nil
}

func (s *stubData) GetRequestTrends(context.Context, service.TimeRange, string) ([]models.RequestTrend, error) {
	return nil, nil
}

func (s *stubData) GetBloodTypeDistribution(context.Context) ([]models.BloodTypeCount, error) {
	return nil, nil
}

func (s *stubData) GetHospitalRequestDistribution(context.Context) ([]models.HospitalCount, error) {
	return nil, nil
}

func newRegistry(data *stubData) *dashboard.Registry {
	return dashboard.NewRegistry(dashboard.Services{
		Inventory:     data,
		Requests:      data,
		Notifications: data,
		Donors:        data,
		Analytics:     data,
	}, dashboard.Deps{}, time.Hour, zap.NewNop())
}

func TestRequestHandler_ApproveMergesIntoList(t *testing.T) {
	data := &stubData{requests: []models.BloodRequest{{ID: "r-1", Status: models.RequestPending}}}
	h := NewRequestHandler(newRegistry(data), nil, zap.NewNop())

	r := gin.New()
	r.Use(asUser("s-1", models.RoleStaff))
	r.GET("/requests", h.List)
	r.POST("/requests", h.Create)
	r.POST("/requests/:id/approve", h.Approve)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/requests", nil).Code)

	w := do(r, http.MethodPost, "/requests/r-1/approve", gin.H{"notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"status":"approved"`)

	w = do(r, http.MethodGet, "/requests", nil)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
	assert.Equal(t, 1, data.reads)

	w = do(r, http.MethodPost, "/requests/missing/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/requests", gin.H{"hospital": "General", "blood_type": "Q+", "quantity": 0, "priority": "low"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid blood type", decode(t, w).Fields["blood_type"])

	w = do(r, http.MethodGet, "/requests?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonorHandler_DonationsFilterAndExport(t *testing.T) {
	data := &stubData{donation: []models.Donation{
		{ID: "don-1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Location: "City Center", DonationType: models.DonationPlasma, Status: models.DonationCompleted, Volume: 600},
		{ID: "don-2", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Location: "Mobile Unit", DonationType: models.DonationWholeBlood, Status: models.DonationCompleted, Volume: 450},
	}}
	h := NewDonorHandler(newRegistry(data), zap.NewNop())

	r := gin.New()
	r.Use(asUser("d-1", models.RoleDonor))
	r.GET("/donors/:id/donations", h.Donations)
	r.GET("/donors/:id/donations/export", h.ExportDonations)

	w := do(r, http.MethodGet, "/donors/d-1/donations?type=plasma&status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap dashboard.DonationHistorySnapshot
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &snap))
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "don-1", snap.Items[0].ID)
	assert.Equal(t, 1050, snap.Stats.TotalVolume)

	w = do(r, http.MethodGet, "/donors/d-1/donations/export?search=mobile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "donations-d-1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Donations")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mobile Unit", rows[1][1])
}

func TestDonorHandler_ProfileAndAppointments(t *testing.T) {
	data := &stubData{}
	h := NewDonorHandler(newRegistry(data), zap.NewNop())

	r := gin.New()
	r.Use(asUser("s-1", models.RoleStaff))
	r.GET("/donors/:id", h.GetDonor)
	r.GET("/donors/:id/medical", h.GetMedicalInfo)
	r.POST("/donors/:id/appointments", h.ScheduleAppointment)
	r.POST("/appointments/:id/cancel", func(c *gin.Context) { c.Set("donorID", "d-1") }, h.CancelAppointment)

	w := do(r, http.MethodGet, "/donors/d-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Eligible"`)
	assert.Contains(t, w.Body.String(), `"label":"Pending"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/donors/missing", nil).Code)

	w = do(r, http.MethodGet, "/donors/d-1/medical", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"medical_info":null`)

	past := time.Now().AddDate(0, 0, -2)
	w = do(r, http.MethodPost, "/donors/d-1/appointments", gin.H{"date": past, "time": "10:00", "location": "Main", "type": "donation"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Date must be today or later", decode(t, w).Fields["date"])

	future := time.Now().AddDate(0, 0, 3)
	w = do(r, http.MethodPost, "/donors/d-1/appointments", gin.H{"date": future, "time": "10:00", "location": "Main", "type": "donation"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/appointments/a-new/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	data := &stubData{notes: []models.Notification{{ID: "n-1", UserID: "u-1"}, {ID: "n-2", UserID: "u-1"}}}
	h := NewNotificationHandler(newRegistry(data), data, zap.NewNop())

	r := gin.New()
	r.Use(asUser("u-1", models.RoleDonor))
	r.GET("/notifications", h.List)
	r.POST("/notifications/:id/read", h.MarkAsRead)
	r.POST("/notifications/read-all", h.MarkAllAsRead)
	r.DELETE("/notifications", h.ClearAll)

	w := do(r, http.MethodPost, "/notifications/n-1/read", nil)
	assert.JSONEq(t, `{"unread_count":1}`, string(decode(t, w).Data))

	w = do(r, http.MethodGet, "/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"n-2"`)
	assert.NotContains(t, w.Body.String(), `"id":"n-1"`)

	w = do(r, http.MethodPost, "/notifications/read-all", nil)
	assert.JSONEq(t, `{"unread_count":0}`, string(decode(t, w).Data))

	w = do(r, http.MethodPost, "/notifications/n-1/read", nil)
	assert.JSONEq(t, `{"unread_count":0}`, string(decode(t, w).Data))

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/notifications", nil).Code)
	w = do(r, http.MethodGet, "/notifications", nil)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestNotificationHandler_ForeignNotification(t *testing.T) {
	data := &stubData{notes: []models.Notification{{ID: "n-1", UserID: "u-1"}}}
	h := NewNotificationHandler(newRegistry(data), data, zap.NewNop())

	r := gin.New()
	r.Use(asUser("u-2", models.RoleDonor))
	r.POST("/notifications/:id/read", h.MarkAsRead)
	r.DELETE("/notifications/:id", h.Delete)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/notifications/n-1/read", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/notifications/n-1", nil).Code)

	require.Len(t, data.notes, 1)
	assert.False(t, data.notes[0].Read)
}

func TestDashboardAndAnalyticsHandlers(t *testing.T) {
	data := &stubData{requests: []models.BloodRequest{{ID: "r-1", Status: models.RequestUrgent}}}
	reg := newRegistry(data)
	dh := NewDashboardHandler(reg, zap.NewNop())
	ah := NewAnalyticsHandler(reg, data, zap.NewNop())
	ih := NewInventoryHandler(reg, nil, zap.NewNop())

	r := gin.New()
	r.Use(asUser("s-1", models.RoleStaff))
	r.GET("/dashboard", dh.Home)
	r.POST("/dashboard/refresh/:panel", dh.Refresh)
	r.GET("/analytics", ah.Get)
	r.GET("/analytics/donations", ah.DonationTrends)
	r.PATCH("/inventory/:id", ih.Update)

	w := do(r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var home dashboard.HomeSnapshot
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &home))
	assert.Equal(t, 1, home.Inventory.LowCount)
	assert.Equal(t, 1, home.Requests.UrgentCount)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/dashboard/refresh/requests", nil).Code)
	assert.Equal(t, 2, data.reads)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/dashboard/refresh/weather", nil).Code)

	w = do(r, http.MethodGet, "/analytics?range=quarter", nil)
	assert.Contains(t, w.Body.String(), `"range":"quarter"`)

	w = do(r, http.MethodGet, "/analytics/donations?type=all", nil)
	assert.Contains(t, w.Body.String(), `"range":"month"`)
	assert.Contains(t, w.Body.String(), `"donation_type":""`)

	w = do(r, http.MethodPatch, "/inventory/i-1", gin.H{"units": 30})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, "/dashboard", nil)
	assert.True(t, strings.Contains(w.Body.String(), `"units":30`))
}

type stubSessions struct {
	loading bool
}

func (s stubSessions) Loading() bool { return s.loading }

func (s stubSessions) Tracked() int { return 3 }

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health("blood-bank-api", stubSessions{}))
	w := do(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"blood-bank-api","active_sessions":3}`, string(decode(t, w).Data))

	r = gin.New()
	r.GET("/health", Health("blood-bank-api", stubSessions{loading: true}))
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/health", nil).Code)
}
