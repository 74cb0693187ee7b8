package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dnanexus"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dxerr"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/metrics"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

type InviteRequest struct {
	// Org and Invitee may be given with or without their org- / user- prefix.
	Org     string
	Invitee string
	// CreatedAfter is passed through to the project listing unchanged.
	CreatedAfter string
	Level        dnanexus.AccessLevel
	SendEmail    bool
}

// InviteUserToOrgProjects invites req.Invitee at req.Level to every project of
// req.Org created after req.CreatedAfter whose current level is not exactly
// req.Level. A project held at a higher level is re-invited at the lower one.
//
// The returned map goes from project name to project ID and holds every project
// invited so far, also when an error aborts the sweep. A name that repeats is
// stored as "name (project-id)".
func (s *Service) InviteUserToOrgProjects(ctx context.Context, req InviteRequest) (map[string]string, error) {
	if s.Projects == nil {
		return nil, errors.New("admin: project api is not configured")
	}
	org := normalize.OrgID(req.Org)
	invitee := normalize.UserID(req.Invitee)
	logger := s.logger().With("org", org, "invitee", invitee, "level", string(req.Level))

	started := time.Now()
	invited := make(map[string]string)
	err := s.sweep(ctx, logger, org, invitee, req, invited)

	status := "success"
	if err != nil {
		status = "error"
		logger.Error("invitation sweep aborted", "invited", len(invited), "err", err)
	} else {
		metrics.SweepLastSuccessTimestamp.SetToCurrentTime()
		logger.Debug("invitation sweep complete", "invited", len(invited))
	}
	metrics.SweepDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	return invited, err
}

func (s *Service) sweep(ctx context.Context, logger *slog.Logger, org, invitee string, req InviteRequest, invited map[string]string) error {
	level := string(req.Level)

	projects := s.Projects.FindOrgProjects(ctx, org, dnanexus.FindProjectsOptions{
		CreatedAfter: req.CreatedAfter,
		Describe:     true,
	})
	for rec, err := range projects {
		if err != nil {
			return dxerr.Remote("findProjects", org, err)
		}
		if rec.Level == req.Level {
			metrics.SweepProjectsTotal.WithLabelValues(level, metrics.OutcomeSkipped).Inc()
			logger.Debug("project already at level", "project_id", rec.ID)
			continue
		}

		if _, err := s.Projects.Invite(ctx, rec.ID, dnanexus.InviteInput{
			Invitee:   invitee,
			Level:     req.Level,
			SendEmail: req.SendEmail,
		}); err != nil {
			metrics.SweepProjectsTotal.WithLabelValues(level, metrics.OutcomeFailed).Inc()
			return dxerr.Remote("invite", rec.ID, err)
		}
		metrics.SweepProjectsTotal.WithLabelValues(level, metrics.OutcomeInvited).Inc()

		name := rec.Name
		if name == "" {
			desc, err := s.Projects.DescribeProject(ctx, rec.ID, "name")
			if err != nil {
				// The invite went through; keep it visible under its ID.
				invited[rec.ID] = rec.ID
				return dxerr.Remote("describe", rec.ID, err)
			}
			name = desc.Name
		}
		if name == "" {
			name = rec.ID
		} else if _, taken := invited[name]; taken {
			name = name + " (" + rec.ID + ")"
		}
		invited[name] = rec.ID
		logger.Debug("invited to project", "project_id", rec.ID, "project", name, "previous_level", string(rec.Level))
	}
	return nil
}
