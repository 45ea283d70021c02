package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"blood-bank-dashboard/internal/datasync"
	"blood-bank-dashboard/internal/display"
	"blood-bank-dashboard/internal/models"
)

type DonorData struct {
	Profile     *models.Donor       `json:"profile"`
	MedicalInfo *models.MedicalInfo `json:"medical_info"`
}

type DonorSnapshot struct {
	DonorID     string               `json:"donor_id"`
	Profile     *models.Donor        `json:"profile"`
	MedicalInfo *models.MedicalInfo  `json:"medical_info"`
	Eligibility *display.Eligibility `json:"eligibility,omitempty"`
	Badge       *display.Badge       `json:"badge,omitempty"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
}

// DonorView is the profile card of one donor. Medical info is optional: a
// failure to read it leaves the card with no medical section.
type DonorView struct {
	svc     DonorService
	donorID string
	res     *datasync.Resource[DonorData]
	now     func() time.Time
}

func NewDonorView(svc DonorService, donorID string, deps Deps, logger *zap.Logger) *DonorView {
	fetch := func(ctx context.Context) (DonorData, error) {
		var data DonorData
		var b datasync.Batch
		b.Go(datasync.Into(&data.Profile, func(ctx context.Context) (*models.Donor, error) {
			return svc.GetDonorProfile(ctx, donorID)
		}))
		b.Go(func(ctx context.Context) error {
			info, err := svc.GetMedicalInfo(ctx, donorID)
			if err != nil {
				logger.Warn("Medical info unavailable", zap.String("donor_id", donorID), zap.Error(err))
				return nil
			}
			data.MedicalInfo = info
			return nil
		})
		if err := b.Run(ctx); err != nil {
			return DonorData{}, err
		}
		return data, nil
	}
	return &DonorView{
		svc:     svc,
		donorID: donorID,
		res:     datasync.NewResource(fetch, deps.options("donor", datasync.Key("donor", donorID))...),
		now:     time.Now,
	}
}

func (v *DonorView) DonorID() string { return v.donorID }

func (v *DonorView) Load(ctx context.Context) error { return v.res.Load(ctx) }

func (v *DonorView) Refresh(ctx context.Context) error { return v.res.Refresh(ctx) }

func (v *DonorView) LoadedAt() time.Time { return v.res.LoadedAt() }

func (v *DonorView) UpdateProfile(ctx context.Context, patch models.DonorPatch) (*models.Donor, error) {
	donor, err := v.svc.UpdateDonorProfile(ctx, v.donorID, patch)
	if err != nil {
		return nil, err
	}
	v.res.Update(func(d DonorData) DonorData {
		d.Profile = donor
		return d
	})
	return donor, nil
}

func (v *DonorView) UpdateMedicalInfo(ctx context.Context, patch models.MedicalInfoPatch) (*models.MedicalInfo, error) {
	info, err := v.svc.UpdateMedicalInfo(ctx, v.donorID, patch)
	if err != nil {
		return nil, err
	}
	v.res.Update(func(d DonorData) DonorData {
		d.MedicalInfo = info
		return d
	})
	return info, nil
}

func (v *DonorView) Snapshot() DonorSnapshot {
	state := v.res.Snapshot()
	snap := DonorSnapshot{
		DonorID:     v.donorID,
		Profile:     state.Data.Profile,
		MedicalInfo: state.Data.MedicalInfo,
		Loading:     state.Loading,
		Error:       errString(state.Err),
	}
	if p := state.Data.Profile; p != nil {
		eligibility := display.EligibilityAt(p.NextEligibleDate, v.now())
		badge := display.EligibilityBadge(p.EligibilityStatus)
		snap.Eligibility = &eligibility
		snap.Badge = &badge
	}
	return snap
}
