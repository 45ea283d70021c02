package dashboard

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/validation"
)

type AppointmentsSnapshot struct {
	DonorID  string               `json:"donor_id"`
	Items    []models.Appointment `json:"items"`
	Upcoming *models.Appointment  `json:"upcoming,omitempty"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
}

type AppointmentsView struct {
	svc     DonorService
	donorID string
	list    *datasync.Collection[models.Appointment]
	now     func() time.Time
}

func NewAppointmentsView(svc DonorService, donorID string, deps Deps) *AppointmentsView {
	fetch := func(ctx context.Context) ([]models.Appointment, error) {
		return svc.GetAppointments(ctx, donorID)
	}
	return &AppointmentsView{
		svc:     svc,
		donorID: donorID,
		list:    datasync.NewCollection(fetch, deps.options("appointments", datasync.Key("appointments", donorID))...),
		now:     time.Now,
	}
}

func (v *AppointmentsView) DonorID() string { return v.donorID }

func (v *AppointmentsView) Load(ctx context.Context) error { return v.list.Load(ctx) }

func (v *AppointmentsView) Refresh(ctx context.Context) error { return v.list.Refresh(ctx) }

func (v *AppointmentsView) LoadedAt() time.Time { return v.list.LoadedAt() }

func (v *AppointmentsView) Schedule(ctx context.Context, form validation.AppointmentForm) (*models.Appointment, error) {
	appt, err := v.svc.ScheduleAppointment(ctx, v.donorID, form)
	if err != nil {
		return nil, err
	}
	v.list.Append(*appt)
	return appt, nil
}

func (v *AppointmentsView) Update(ctx context.Context, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	return v.merge(v.svc.UpdateAppointment(ctx, id, patch))
}

func (v *AppointmentsView) Cancel(ctx context.Context, id string) (*models.Appointment, error) {
	return v.merge(v.svc.CancelAppointment(ctx, id))
}

func (v *AppointmentsView) merge(appt *models.Appointment, err error) (*models.Appointment, error) {
	if err != nil {
		return nil, err
	}
	v.list.Merge(*appt)
	return appt, nil
}

// Upcoming returns the earliest scheduled appointment dated today or later
func (v *AppointmentsView) Upcoming() *models.Appointment {
	return upcoming(v.list.Data(), v.now())
}

func (v *AppointmentsView) Snapshot() AppointmentsSnapshot {
	state := v.list.Snapshot()
	snap := AppointmentsSnapshot{
		DonorID:  v.donorID,
		Items:    state.Data,
		Upcoming: upcoming(state.Data, v.now()),
		Loading:  state.Loading,
		Error:    errString(state.Err),
	}
	if snap.Items == nil {
		snap.Items = []models.Appointment{}
	}
	return snap
}

func upcoming(appts []models.Appointment, now time.Time) *models.Appointment {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	var next *models.Appointment
	for i := range appts {
		a := appts[i]
		if a.Status != models.AppointmentScheduled || a.Date.Before(today) {
			continue
		}
		if next == nil || a.Date.Before(next.Date) {
			next = &a
		}
	}
	return next
}
