package dashboard

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/validation"
)

type RequestsSnapshot struct {
	Status       string                `json:"status,omitempty"`
	Items        []models.BloodRequest `json:"items"`
	PendingCount int                   `json:"pending_count"`
	UrgentCount  int                   `json:"urgent_count"`
	Loading      bool                  `json:"loading"`
	Error        string                `json:"error,omitempty"`
}

// RequestsView lists blood requests, optionally narrowed to one status
type RequestsView struct {
	svc    RequestService
	status models.RequestStatus
	list   *datasync.Collection[models.BloodRequest]
}

func NewRequestsView(svc RequestService, status models.RequestStatus, deps Deps) *RequestsView {
	v := &RequestsView{svc: svc, status: status}
	fetch := svc.GetRequests
	key := "all"
	if status != "" {
		key = string(status)
		fetch = func(ctx context.Context) ([]models.BloodRequest, error) {
			return svc.GetRequestsByStatus(ctx, status)
		}
	}
	v.list = datasync.NewCollection(fetch, deps.options("requests", datasync.Key("requests", key))...)
	return v
}

func (v *RequestsView) Status() models.RequestStatus { return v.status }

func (v *RequestsView) Load(ctx context.Context) error { return v.list.Load(ctx) }

func (v *RequestsView) Refresh(ctx context.Context) error { return v.list.Refresh(ctx) }

func (v *RequestsView) LoadedAt() time.Time { return v.list.LoadedAt() }

func (v *RequestsView) Create(ctx context.Context, requesterID string, form validation.RequestForm) (*models.BloodRequest, error) {
	req, err := v.svc.CreateRequest(ctx, requesterID, form)
	if err != nil {
		return nil, err
	}
	if v.status == "" || v.status == req.Status {
		v.list.Prepend(*req)
	}
	return req, nil
}

func (v *RequestsView) Update(ctx context.Context, id string, patch models.RequestPatch, actorID string) (*models.BloodRequest, error) {
	return v.merge(v.svc.UpdateRequest(ctx, id, patch, actorID))
}

func (v *RequestsView) Approve(ctx context.Context, id, approverID string, notes *string) (*models.BloodRequest, error) {
	return v.merge(v.svc.ApproveRequest(ctx, id, approverID, notes))
}

func (v *RequestsView) Reject(ctx context.Context, id, approverID string, notes *string) (*models.BloodRequest, error) {
	return v.merge(v.svc.RejectRequest(ctx, id, approverID, notes))
}

func (v *RequestsView) MarkUrgent(ctx context.Context, id, actorID string) (*models.BloodRequest, error) {
	return v.merge(v.svc.MarkRequestUrgent(ctx, id, actorID))
}

func (v *RequestsView) merge(req *models.BloodRequest, err error) (*models.BloodRequest, error) {
	if err != nil {
		return nil, err
	}
	v.list.Merge(*req)
	return req, nil
}

func (v *RequestsView) Snapshot() RequestsSnapshot {
	state := v.list.Snapshot()
	snap := RequestsSnapshot{
		Status:  string(v.status),
		Items:   state.Data,
		Loading: state.Loading,
		Error:   errString(state.Err),
	}
	if snap.Items == nil {
		snap.Items = []models.BloodRequest{}
	}
	for _, r := range state.Data {
		switch r.Status {
		case models.RequestPending:
			snap.PendingCount++
		case models.RequestUrgent:
			snap.UrgentCount++
		}
	}
	return snap
}
