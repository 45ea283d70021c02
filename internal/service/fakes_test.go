package service

import (
	"context"
	"sync"
	"time"

	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/internal/session"
)

type auditEntry struct {
	userID  string
	action  string
	details string
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAuditor) CreateAuditLog(ctx context.Context, userID *string, action string, details string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := ""
	if userID != nil {
		id = *userID
	}
	a.entries = append(a.entries, auditEntry{userID: id, action: action, details: details})
	return nil
}

type fakeInventoryStore struct {
	items   map[string]models.BloodInventory
	updates []map[string]interface{}
	history []models.InventoryHistory
	since   time.Time
	err     error
}

func newFakeInventoryStore(items ...models.BloodInventory) *fakeInventoryStore {
	s := &fakeInventoryStore{items: map[string]models.BloodInventory{}}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *fakeInventoryStore) GetInventory(ctx context.Context) ([]models.BloodInventory, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []models.BloodInventory{}
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, nil
}

func (s *fakeInventoryStore) GetInventoryByType(ctx context.Context, bloodType string) ([]models.BloodInventory, error) {
	out := []models.BloodInventory{}
	for _, item := range s.items {
		if item.BloodType == bloodType {
			out = append(out, item)
		}
	}
	return out, s.err
}

func (s *fakeInventoryStore) GetInventoryByLocation(ctx context.Context, location string) ([]models.BloodInventory, error) {
	out := []models.BloodInventory{}
	for _, item := range s.items {
		if item.Location == location {
			out = append(out, item)
		}
	}
	return out, s.err
}

func (s *fakeInventoryStore) GetInventoryByID(ctx context.Context, id string) (*models.BloodInventory, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (s *fakeInventoryStore) UpdateInventory(ctx context.Context, id string, cols map[string]interface{}) (*models.BloodInventory, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.updates = append(s.updates, cols)
	if v, ok := cols["units"].(int); ok {
		item.Units = v
	}
	if v, ok := cols["capacity"].(int); ok {
		item.Capacity = v
	}
	if v, ok := cols["status"].(string); ok {
		item.Status = models.InventoryStatus(v)
	}
	if v, ok := cols["location"].(string); ok {
		item.Location = v
	}
	if v, ok := cols["last_updated"].(time.Time); ok {
		item.LastUpdated = v
	}
	s.items[id] = item
	return &item, nil
}

func (s *fakeInventoryStore) CreateHistory(ctx context.Context, points []models.InventoryHistory) error {
	s.history = append(s.history, points...)
	return nil
}

func (s *fakeInventoryStore) GetHistorySince(ctx context.Context, start time.Time, bloodType string) ([]models.InventoryHistory, error) {
	s.since = start
	return s.history, s.err
}

type fakeDonorStore struct {
	donors       map[string]models.Donor
	medical      map[string]models.MedicalInfo
	donations    []models.Donation
	appointments map[string]models.Appointment
	err          error
}

func newFakeDonorStore() *fakeDonorStore {
	return &fakeDonorStore{
		donors:       map[string]models.Donor{},
		medical:      map[string]models.MedicalInfo{},
		appointments: map[string]models.Appointment{},
	}
}

func (s *fakeDonorStore) GetDonorByID(ctx context.Context, id string) (*models.Donor, error) {
	d, ok := s.donors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (s *fakeDonorStore) UpdateDonor(ctx context.Context, id string, cols map[string]interface{}) (*models.Donor, error) {
	d, ok := s.donors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := cols["name"].(string); ok {
		d.Name = v
	}
	s.donors[id] = d
	return &d, nil
}

func (s *fakeDonorStore) GetMedicalInfo(ctx context.Context, donorID string) (*models.MedicalInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	info, ok := s.medical[donorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &info, nil
}

func (s *fakeDonorStore) MedicalInfoExists(ctx context.Context, donorID string) (bool, error) {
	_, ok := s.medical[donorID]
	return ok, nil
}

func (s *fakeDonorStore) UpdateMedicalInfo(ctx context.Context, donorID string, cols map[string]interface{}) (*models.MedicalInfo, error) {
	info := s.medical[donorID]
	if v, ok := cols["weight"].(float64); ok {
		info.Weight = &v
	}
	s.medical[donorID] = info
	return &info, nil
}

func (s *fakeDonorStore) CreateMedicalInfo(ctx context.Context, info *models.MedicalInfo) error {
	s.medical[info.DonorID] = *info
	return nil
}

func (s *fakeDonorStore) GetDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	return s.donations, s.err
}

func (s *fakeDonorStore) GetAppointmentsByDonor(ctx context.Context, donorID string) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, a := range s.appointments {
		if a.DonorID == donorID {
			out = append(out, a)
		}
	}
	return out, s.err
}

func (s *fakeDonorStore) GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (s *fakeDonorStore) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = "appt-new"
	}
	s.appointments[appointment.ID] = *appointment
	return nil
}

func (s *fakeDonorStore) UpdateAppointment(ctx context.Context, id string, cols map[string]interface{}) (*models.Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := cols["status"].(string); ok {
		a.Status = models.AppointmentStatus(v)
	}
	if v, ok := cols["location"].(string); ok {
		a.Location = v
	}
	s.appointments[id] = a
	return &a, nil
}

type fakeRequestStore struct {
	requests map[string]models.BloodRequest
	created  []models.BloodRequest
}

func newFakeRequestStore(requests ...models.BloodRequest) *fakeRequestStore {
	s := &fakeRequestStore{requests: map[string]models.BloodRequest{}}
	for _, r := range requests {
		s.requests[r.ID] = r
	}
	return s
}

func (s *fakeRequestStore) GetRequests(ctx context.Context) ([]models.BloodRequest, error) {
	out := []models.BloodRequest{}
	for _, r := range s.requests {
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeRequestStore) GetRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.BloodRequest, error) {
	out := []models.BloodRequest{}
	for _, r := range s.requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) GetRequestsByHospital(ctx context.Context, hospital string) ([]models.BloodRequest, error) {
	out := []models.BloodRequest{}
	for _, r := range s.requests {
		if r.Hospital == hospital {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) GetRequestByID(ctx context.Context, id string) (*models.BloodRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *fakeRequestStore) CreateRequest(ctx context.Context, request *models.BloodRequest) error {
	if request.ID == "" {
		request.ID = "req-new"
	}
	s.requests[request.ID] = *request
	s.created = append(s.created, *request)
	return nil
}

func (s *fakeRequestStore) UpdateRequest(ctx context.Context, id string, cols map[string]interface{}) (*models.BloodRequest, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := cols["status"].(string); ok {
		r.Status = models.RequestStatus(v)
	}
	if v, ok := cols["approver_id"].(string); ok {
		r.ApproverID = &v
	}
	if v, ok := cols["notes"].(string); ok {
		r.Notes = &v
	}
	s.requests[id] = r
	return &r, nil
}

type fakeNotificationStore struct {
	created []models.Notification
}

func (s *fakeNotificationStore) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.created, nil
}

func (s *fakeNotificationStore) GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return nil, nil
}

func (s *fakeNotificationStore) MarkAsRead(ctx context.Context, userID, id string) error { return nil }

func (s *fakeNotificationStore) MarkAllAsRead(ctx context.Context, userID string) error { return nil }

func (s *fakeNotificationStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.created = append(s.created, *n)
	return nil
}

func (s *fakeNotificationStore) DeleteNotification(ctx context.Context, userID, id string) error { return nil }

func (s *fakeNotificationStore) DeleteAllNotifications(ctx context.Context, userID string) error {
	return nil
}

type fakeUserStore struct {
	users         map[string]models.User
	refreshTokens map[string]models.RefreshToken
	revokedAll    []string
	donors        []models.Donor
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]models.User{}, refreshTokens: map[string]models.RefreshToken{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindUsersByRole(ctx context.Context, roles ...string) ([]models.User, error) {
	out := []models.User{}
	for _, u := range s.users {
		for _, role := range roles {
			if u.Role == role {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (s *fakeUserStore) CreateUserWithDonor(ctx context.Context, user *models.User, donor *models.Donor) error {
	if user.ID == "" {
		user.ID = "user-new"
	}
	donor.ID = user.ID
	s.users[user.ID] = *user
	s.donors = append(s.donors, *donor)
	return nil
}

func (s *fakeUserStore) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	token.User = s.users[token.UserID]
	s.refreshTokens[token.TokenHash] = *token
	return nil
}

func (s *fakeUserStore) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	t, ok := s.refreshTokens[hash]
	if !ok || t.Revoked {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *fakeUserStore) RevokeRefreshTokenByHash(ctx context.Context, hash string) error {
	if t, ok := s.refreshTokens[hash]; ok {
		t.Revoked = true
		s.refreshTokens[hash] = t
	}
	return nil
}

func (s *fakeUserStore) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	s.revokedAll = append(s.revokedAll, userID)
	return nil
}

type fakeTokenStore struct {
	blacklisted map[string]time.Duration
	resets      map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{blacklisted: map[string]time.Duration{}, resets: map[string]string{}}
}

func (s *fakeTokenStore) Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.blacklisted[tokenID] = ttl
	return nil
}

func (s *fakeTokenStore) SaveResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	s.resets[tokenHash] = userID
	return nil
}

func (s *fakeTokenStore) ConsumeResetToken(ctx context.Context, tokenHash string) (string, error) {
	userID, ok := s.resets[tokenHash]
	if !ok {
		return "", session.ErrResetTokenInvalid
	}
	delete(s.resets, tokenHash)
	return userID, nil
}

type sentMail struct {
	to    string
	token string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	m.sent = append(m.sent, sentMail{to: to, token: token})
	return nil
}

type fakeSessionPublisher struct {
	events []session.Event
}

func (p *fakeSessionPublisher) Publish(ctx context.Context, evt session.Event) error {
	p.events = append(p.events, evt)
	return nil
}

func (p *fakeSessionPublisher) types() []session.EventType {
	out := []session.EventType{}
	for _, evt := range p.events {
		out = append(out, evt.Type)
	}
	return out
}

type fakeGauge struct {
	value int
}

func (g *fakeGauge) SetCriticalStock(n int) { g.value = n }
