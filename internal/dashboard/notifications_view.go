package dashboard

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/models"
)

type NotificationsSnapshot struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
	Loading     bool                  `json:"loading"`
	Error       string                `json:"error,omitempty"`
}

// NotificationsView is the notification list of one user. The unread count
// is always derived from the local list.
type NotificationsView struct {
	svc    NotificationService
	userID string
	list   *datasync.Collection[models.Notification]
}

func NewNotificationsView(svc NotificationService, userID string, deps Deps) *NotificationsView {
	fetch := func(ctx context.Context) ([]models.Notification, error) {
		return svc.GetNotifications(ctx, userID)
	}
	return &NotificationsView{
		svc:    svc,
		userID: userID,
		list:   datasync.NewCollection(fetch, deps.options("notifications", datasync.Key("notifications", userID))...),
	}
}

func (v *NotificationsView) Load(ctx context.Context) error { return v.list.Load(ctx) }

func (v *NotificationsView) Refresh(ctx context.Context) error { return v.list.Refresh(ctx) }

func (v *NotificationsView) LoadedAt() time.Time { return v.list.LoadedAt() }

func (v *NotificationsView) MarkAsRead(ctx context.Context, id string) error {
	if err := v.svc.MarkAsRead(ctx, v.userID, id); err != nil {
		return err
	}
	v.list.UpdateWhere(
		func(n models.Notification) bool { return n.ID == id },
		markRead,
	)
	return nil
}

func (v *NotificationsView) MarkAllAsRead(ctx context.Context) error {
	if err := v.svc.MarkAllAsRead(ctx, v.userID); err != nil {
		return err
	}
	v.list.UpdateWhere(func(models.Notification) bool { return true }, markRead)
	return nil
}

func (v *NotificationsView) Delete(ctx context.Context, id string) error {
	if err := v.svc.DeleteNotification(ctx, v.userID, id); err != nil {
		return err
	}
	v.list.Remove(id)
	return nil
}

func (v *NotificationsView) ClearAll(ctx context.Context) error {
	if err := v.svc.ClearAllNotifications(ctx, v.userID); err != nil {
		return err
	}
	v.list.Clear()
	return nil
}

func (v *NotificationsView) UnreadCount() int {
	n := 0
	for _, item := range v.list.Data() {
		if !item.Read {
			n++
		}
	}
	return n
}

func (v *NotificationsView) Snapshot() NotificationsSnapshot {
	state := v.list.Snapshot()
	snap := NotificationsSnapshot{
		Items:   state.Data,
		Loading: state.Loading,
		Error:   errString(state.Err),
	}
	if snap.Items == nil {
		snap.Items = []models.Notification{}
	}
	for _, item := range state.Data {
		if !item.Read {
			snap.UnreadCount++
		}
	}
	return snap
}

func markRead(n models.Notification) models.Notification {
	n.Read = true
	return n
}
