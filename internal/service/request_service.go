package service

import (
	"context"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/events"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/validation"

	"go.uber.org/zap"
)

type RequestStore interface {
	GetRequests(ctx context.Context) ([]models.BloodRequest, error)
	GetRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.BloodRequest, error)
	GetRequestsByHospital(ctx context.Context, hospital string) ([]models.BloodRequest, error)
	GetRequestByID(ctx context.Context, id string) (*models.BloodRequest, error)
	CreateRequest(ctx context.Context, request *models.BloodRequest) error
	UpdateRequest(ctx context.Context, id string, cols map[string]interface{}) (*models.BloodRequest, error)
}

// DecisionObserver counts request status decisions
type DecisionObserver interface {
	ObserveDecision(status string)
}

type RequestService struct {
	store     RequestStore
	audit     Auditor
	publisher events.Publisher
	decisions DecisionObserver
	logger    *zap.Logger
}

func NewRequestService(
	store RequestStore,
	audit Auditor,
	publisher events.Publisher,
	decisions DecisionObserver,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		store:     store,
		audit:     audit,
		publisher: publisher,
		decisions: decisions,
		logger:    logger,
	}
}

func (s *RequestService) GetRequests(ctx context.Context) ([]models.BloodRequest, error) {
	requests, err := s.store.GetRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}
	return requests, nil
}

func (s *RequestService) GetRequestsByStatus(ctx context.Context, status models.RequestStatus) ([]models.BloodRequest, error) {
	requests, err := s.store.GetRequestsByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s requests: %w", status, err)
	}
	return requests, nil
}

func (s *RequestService) GetRequestsByHospital(ctx context.Context, hospital string) ([]models.BloodRequest, error) {
	requests, err := s.store.GetRequestsByHospital(ctx, hospital)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests for %s: %w", hospital, err)
	}
	return requests, nil
}

// CreateRequest files a new pending request on behalf of requesterID
func (s *RequestService) CreateRequest(ctx context.Context, requesterID string, form validation.RequestForm) (*models.BloodRequest, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}
	request := &models.BloodRequest{
		RequestDate: time.Now().UTC(),
		Hospital:    form.Hospital,
		HospitalID:  form.HospitalID,
		BloodType:   form.BloodType,
		Quantity:    form.Quantity,
		Status:      models.RequestPending,
		Priority:    models.RequestPriority(form.Priority),
		RequesterID: requesterID,
		Notes:       form.Notes,
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.publish(ctx, events.RequestCreated, request, requesterID)
	return request, nil
}

// UpdateRequest applies patch and returns the stored row
func (s *RequestService) UpdateRequest(ctx context.Context, id string, patch models.RequestPatch, actorID string) (*models.BloodRequest, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		request, err := s.store.GetRequestByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get request: %w", err)
		}
		return request, nil
	}
	request, err := s.store.UpdateRequest(ctx, id, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	s.publish(ctx, events.RequestUpdated, request, actorID)
	return request, nil
}

func (s *RequestService) ApproveRequest(ctx context.Context, id, approverID string, notes *string) (*models.BloodRequest, error) {
	return s.decide(ctx, id, approverID, notes, models.RequestApproved, events.RequestApproved)
}

func (s *RequestService) RejectRequest(ctx context.Context, id, approverID string, notes *string) (*models.BloodRequest, error) {
	return s.decide(ctx, id, approverID, notes, models.RequestRejected, events.RequestRejected)
}

// MarkRequestUrgent flags a request as urgent
func (s *RequestService) MarkRequestUrgent(ctx context.Context, id, actorID string) (*models.BloodRequest, error) {
	request, err := s.store.UpdateRequest(ctx, id, map[string]interface{}{"status": string(models.RequestUrgent)})
	if err != nil {
		return nil, fmt.Errorf("failed to mark request urgent: %w", err)
	}
	s.record(ctx, actorID, "request_urgent", request)
	s.publish(ctx, events.RequestUrgent, request, actorID)
	return request, nil
}

func (s *RequestService) decide(
	ctx context.Context,
	id, approverID string,
	notes *string,
	status models.RequestStatus,
	eventType events.RequestEventType,
) (*models.BloodRequest, error) {
	cols := map[string]interface{}{
		"status":      string(status),
		"approver_id": approverID,
	}
	if notes != nil {
		cols["notes"] = *notes
	}

	request, err := s.store.UpdateRequest(ctx, id, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to set request %s: %w", status, err)
	}

	s.record(ctx, approverID, "request_"+string(status), request)
	s.publish(ctx, eventType, request, approverID)
	return request, nil
}

func (s *RequestService) record(ctx context.Context, actorID, action string, request *models.BloodRequest) {
	if s.decisions != nil {
		s.decisions.ObserveDecision(string(request.Status))
	}
	details := fmt.Sprintf("Request %s from %s for %d units of %s is now %s",
		request.ID, request.Hospital, request.Quantity, request.BloodType, request.Status)
	if err := s.audit.CreateAuditLog(ctx, &actorID, action, details); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err), zap.String("request_id", request.ID))
	}
}

// publish is best effort: the decision is already stored
func (s *RequestService) publish(ctx context.Context, t events.RequestEventType, request *models.BloodRequest, actorID string) {
	if err := s.publisher.PublishRequestEvent(ctx, events.NewRequestEvent(t, request, actorID)); err != nil {
		s.logger.Warn("failed to publish request event",
			zap.Error(err),
			zap.String("type", string(t)),
			zap.String("request_id", request.ID),
		)
	}
}
