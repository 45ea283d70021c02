package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/service"
	"blood-bank-dashboard/internal/session"
)

var ErrUnknownPanel = errors.New("unknown dashboard panel")

// Panel names accepted by Refresh
const (
	PanelInventory     = "inventory"
	PanelRequests      = "requests"
	PanelNotifications = "notifications"
	PanelDonor         = "donor"
	PanelDonations     = "donations"
	PanelAppointments  = "appointments"
	PanelAnalytics     = "analytics"
)

type Services struct {
	Inventory     InventoryService
	Requests      RequestService
	Notifications NotificationService
	Donors        DonorService
	Analytics     AnalyticsService
}

type loader interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	LoadedAt() time.Time
}

type userViews struct {
	mu            sync.Mutex
	lastSeen      time.Time
	inventory     *InventoryView
	requests      *RequestsView
	notifications *NotificationsView
	donor         *DonorView
	donations     *DonationHistoryView
	appointments  *AppointmentsView
	analytics     *AnalyticsView
}

// Registry owns the views of every signed-in user. Views are built on first
// access, rebuilt when their key changes, reloaded once older than maxAge
// and dropped when the user signs out or goes idle.
type Registry struct {
	svc    Services
	deps   Deps
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	users map[string]*userViews
}

func NewRegistry(svc Services, deps Deps, maxAge time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		svc:    svc,
		deps:   deps,
		maxAge: maxAge,
		logger: logger,
		now:    time.Now,
		users:  make(map[string]*userViews),
	}
}

func (r *Registry) user(userID string) *userViews {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		u = &userViews{}
		r.users[userID] = u
	}
	u.lastSeen = r.now()
	return u
}

// obtain returns the view in slot, building a new one when keep rejects the
// current value, and loads it when new or stale.
func obtain[V loader](ctx context.Context, r *Registry, u *userViews, slot *V, keep func(V) bool, build func() V) V {
	u.mu.Lock()
	created := !keep(*slot)
	if created {
		*slot = build()
	}
	v := *slot
	u.mu.Unlock()

	if created || time.Since(v.LoadedAt()) >= r.maxAge {
		if err := v.Load(ctx); err != nil {
			r.logger.Warn("Dashboard view load failed", zap.Error(err))
		}
	}
	return v
}

func (r *Registry) Inventory(ctx context.Context, userID string) *InventoryView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.inventory,
		func(v *InventoryView) bool { return v != nil },
		func() *InventoryView { return NewInventoryView(r.svc.Inventory, r.deps) },
	)
}

func (r *Registry) Requests(ctx context.Context, userID string, status models.RequestStatus) *RequestsView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.requests,
		func(v *RequestsView) bool { return v != nil && v.Status() == status },
		func() *RequestsView { return NewRequestsView(r.svc.Requests, status, r.deps) },
	)
}

// OpenRequests returns the requests view the user already has, whatever its
// status, or the unfiltered one
func (r *Registry) OpenRequests(ctx context.Context, userID string) *RequestsView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.requests,
		func(v *RequestsView) bool { return v != nil },
		func() *RequestsView { return NewRequestsView(r.svc.Requests, "", r.deps) },
	)
}

func (r *Registry) Notifications(ctx context.Context, userID string) *NotificationsView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.notifications,
		func(v *NotificationsView) bool { return v != nil },
		func() *NotificationsView { return NewNotificationsView(r.svc.Notifications, userID, r.deps) },
	)
}

func (r *Registry) Donor(ctx context.Context, userID, donorID string) *DonorView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.donor,
		func(v *DonorView) bool { return v != nil && v.DonorID() == donorID },
		func() *DonorView { return NewDonorView(r.svc.Donors, donorID, r.deps, r.logger) },
	)
}

func (r *Registry) Donations(ctx context.Context, userID, donorID string) *DonationHistoryView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.donations,
		func(v *DonationHistoryView) bool { return v != nil && v.DonorID() == donorID },
		func() *DonationHistoryView { return NewDonationHistoryView(r.svc.Donors, donorID, r.deps) },
	)
}

func (r *Registry) Appointments(ctx context.Context, userID, donorID string) *AppointmentsView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.appointments,
		func(v *AppointmentsView) bool { return v != nil && v.DonorID() == donorID },
		func() *AppointmentsView { return NewAppointmentsView(r.svc.Donors, donorID, r.deps) },
	)
}

func (r *Registry) Analytics(ctx context.Context, userID string, tr service.TimeRange) *AnalyticsView {
	u := r.user(userID)
	return obtain(ctx, r, u, &u.analytics,
		func(v *AnalyticsView) bool { return v != nil && v.Range() == tr },
		func() *AnalyticsView { return NewAnalyticsView(r.svc.Analytics, tr, r.deps) },
	)
}

type HomeSnapshot struct {
	Inventory     InventorySnapshot     `json:"inventory"`
	Requests      RequestsSnapshot      `json:"requests"`
	Notifications NotificationsSnapshot `json:"notifications"`
}

// Home loads the panels of the landing page in parallel. Panel errors are
// reported inside each panel.
func (r *Registry) Home(ctx context.Context, userID string) HomeSnapshot {
	var home HomeSnapshot
	var b datasync.Batch
	b.Go(func(ctx context.Context) error {
		home.Inventory = r.Inventory(ctx, userID).Snapshot()
		return nil
	})
	b.Go(func(ctx context.Context) error {
		home.Requests = r.Requests(ctx, userID, "").Snapshot()
		return nil
	})
	b.Go(func(ctx context.Context) error {
		home.Notifications = r.Notifications(ctx, userID).Snapshot()
		return nil
	})
	_ = b.Run(ctx)
	return home
}

// Refresh reloads one panel of userID. Keyed panels that were never opened
// have nothing to reload.
func (r *Registry) Refresh(ctx context.Context, userID, panel string) error {
	u := r.user(userID)
	u.mu.Lock()
	var v loader
	switch panel {
	case PanelInventory:
		if u.inventory == nil {
			u.inventory = NewInventoryView(r.svc.Inventory, r.deps)
		}
		v = u.inventory
	case PanelNotifications:
		if u.notifications == nil {
			u.notifications = NewNotificationsView(r.svc.Notifications, userID, r.deps)
		}
		v = u.notifications
	case PanelRequests:
		if u.requests == nil {
			u.requests = NewRequestsView(r.svc.Requests, "", r.deps)
		}
		v = u.requests
	case PanelDonor:
		if u.donor != nil {
			v = u.donor
		}
	case PanelDonations:
		if u.donations != nil {
			v = u.donations
		}
	case PanelAppointments:
		if u.appointments != nil {
			v = u.appointments
		}
	case PanelAnalytics:
		if u.analytics != nil {
			v = u.analytics
		}
	default:
		u.mu.Unlock()
		return ErrUnknownPanel
	}
	u.mu.Unlock()

	if v == nil {
		return nil
	}
	return v.Refresh(ctx)
}

// Drop forgets every view of userID
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
}

// Users returns how many users currently hold views
func (r *Registry) Users() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// EvictIdle drops the views of users not seen for idle and returns how many
// users were dropped
func (r *Registry) EvictIdle(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, u := range r.users {
		if u.lastSeen.Before(cutoff) {
			delete(r.users, id)
			n++
		}
	}
	return n
}

// Sweep evicts idle users every interval until ctx is cancelled
func (r *Registry) Sweep(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(idle); n > 0 {
				r.logger.Debug("Evicted idle dashboard views", zap.Int("users", n))
			}
		}
	}
}

// OnSessionEvent drops the views of users who sign out
func (r *Registry) OnSessionEvent(_ context.Context, evt session.Event) {
	switch evt.Type {
	case session.EventSignedOut:
		r.Drop(evt.UserID)
		r.logger.Debug("Dropped dashboard views", zap.String("user_id", evt.UserID))
	case session.EventUserUpdated:
		r.Drop(evt.UserID)
	}
}
