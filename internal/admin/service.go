// Package admin implements the account-administration operations on top of the
// DNAnexus API client.
package admin

import (
	"context"
	"iter"
	"log/slog"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dnanexus"
)

// ProjectAPI is the part of the DNAnexus API the invitation sweep and the
// newest-project selector use.
type ProjectAPI interface {
	FindOrgProjects(ctx context.Context, org string, opts dnanexus.FindProjectsOptions) iter.Seq2[dnanexus.ProjectRecord, error]
	DescribeProject(ctx context.Context, projectID string, fields ...string) (dnanexus.ProjectDescription, error)
	Invite(ctx context.Context, projectID string, in dnanexus.InviteInput) (dnanexus.InviteResult, error)
}

// TransferAPI is the part of the DNAnexus API pending-transfer acceptance uses.
type TransferAPI interface {
	DescribeUser(ctx context.Context, userID string, opts dnanexus.UserDescribeOptions) (dnanexus.UserDescription, error)
	DescribeProject(ctx context.Context, projectID string, fields ...string) (dnanexus.ProjectDescription, error)
	AcceptTransfer(ctx context.Context, projectID, billTo string) error
}

var (
	_ ProjectAPI  = (*dnanexus.Client)(nil)
	_ TransferAPI = (*dnanexus.Client)(nil)
)

type Service struct {
	Projects  ProjectAPI
	Transfers TransferAPI
	Logger    *slog.Logger
}

// NewService wires both APIs to the same client.
func NewService(client *dnanexus.Client, logger *slog.Logger) *Service {
	return &Service{Projects: client, Transfers: client, Logger: logger}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
