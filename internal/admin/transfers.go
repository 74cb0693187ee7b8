package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dnanexus"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dxerr"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/metrics"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

// QueueProperty is the project property matched against TransferRequest.Queue.
const QueueProperty = "queue"

type TransferRequest struct {
	User string
	// BillTo must be a user- or org- ID.
	BillTo string
	// Queue, when set, restricts acceptance to projects whose queue property
	// matches it.
	Queue string
}

// AcceptPendingTransfers accepts the user's pending project transfers, billing
// each to req.BillTo. It returns the accepted project IDs, including those
// accepted before an error aborted the run.
func (s *Service) AcceptPendingTransfers(ctx context.Context, req TransferRequest) ([]string, error) {
	if s.Transfers == nil {
		return nil, errors.New("admin: transfer api is not configured")
	}
	billTo := strings.TrimSpace(req.BillTo)
	if !normalize.IsBillingAccount(billTo) {
		return nil, dxerr.New(dxerr.KindInvalidBillingPrefix, billTo, "")
	}
	user := normalize.UserID(req.User)
	queue := strings.TrimSpace(req.Queue)
	logger := s.logger().With("user", user, "bill_to", billTo)

	desc, err := s.Transfers.DescribeUser(ctx, user, dnanexus.UserDescribeOptions{PendingTransfers: true})
	if err != nil {
		return nil, dxerr.Remote("describe", user, err)
	}
	logger.Debug("pending transfers", "count", len(desc.PendingTransfers))

	var accepted []string
	for _, projectID := range desc.PendingTransfers {
		if queue != "" {
			project, err := s.Transfers.DescribeProject(ctx, projectID, "name", "properties")
			if err != nil {
				return accepted, dxerr.Remote("describe", projectID, err)
			}
			if got := project.Properties[QueueProperty]; got != queue {
				metrics.TransfersTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
				logger.Info("skipping transfer from another queue", "project_id", projectID, "project", project.Name, "queue", got)
				continue
			}
		}

		if err := s.Transfers.AcceptTransfer(ctx, projectID, billTo); err != nil {
			metrics.TransfersTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			return accepted, dxerr.Remote("acceptTransfer", projectID, err)
		}
		metrics.TransfersTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
		accepted = append(accepted, projectID)
	}
	return accepted, nil
}
