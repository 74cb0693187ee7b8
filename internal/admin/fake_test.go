package admin

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dnanexus"
)

type inviteCall struct {
	ProjectID string
	Input     dnanexus.InviteInput
}

// fakeAPI serves a fixed project listing and records mutating calls.
type fakeAPI struct {
	records      []dnanexus.ProjectRecord
	listErrAfter int // yield listErr after this many records when listErr is set
	listErr      error
	descriptions map[string]dnanexus.ProjectDescription
	describeErr  map[string]error
	inviteErr    map[string]error

	user      dnanexus.UserDescription
	userErr   error
	acceptErr map[string]error

	listCalls     int
	yielded       int
	lastListOrg   string
	lastListOpts  dnanexus.FindProjectsOptions
	invites       []inviteCall
	describes     []string
	accepted      []string
	acceptedBills []string
}

func (f *fakeAPI) FindOrgProjects(_ context.Context, org string, opts dnanexus.FindProjectsOptions) iter.Seq2[dnanexus.ProjectRecord, error] {
	f.listCalls++
	f.lastListOrg = org
	f.lastListOpts = opts
	return func(yield func(dnanexus.ProjectRecord, error) bool) {
		for i, rec := range f.records {
			if f.listErr != nil && i == f.listErrAfter {
				yield(dnanexus.ProjectRecord{}, f.listErr)
				return
			}
			f.yielded++
			if !yield(rec, nil) {
				return
			}
		}
		if f.listErr != nil && f.listErrAfter >= len(f.records) {
			yield(dnanexus.ProjectRecord{}, f.listErr)
		}
	}
}

func (f *fakeAPI) DescribeProject(_ context.Context, projectID string, _ ...string) (dnanexus.ProjectDescription, error) {
	f.describes = append(f.describes, projectID)
	if err := f.describeErr[projectID]; err != nil {
		return dnanexus.ProjectDescription{}, err
	}
	desc, ok := f.descriptions[projectID]
	if !ok {
		return dnanexus.ProjectDescription{}, errors.New("ResourceNotFound")
	}
	return desc, nil
}

func (f *fakeAPI) Invite(_ context.Context, projectID string, in dnanexus.InviteInput) (dnanexus.InviteResult, error) {
	if err := f.inviteErr[projectID]; err != nil {
		return dnanexus.InviteResult{}, err
	}
	f.invites = append(f.invites, inviteCall{ProjectID: projectID, Input: in})
	return dnanexus.InviteResult{ID: projectID, State: "ACCEPTED"}, nil
}

func (f *fakeAPI) DescribeUser(_ context.Context, userID string, _ dnanexus.UserDescribeOptions) (dnanexus.UserDescription, error) {
	if f.userErr != nil {
		return dnanexus.UserDescription{}, f.userErr
	}
	out := f.user
	out.ID = userID
	return out, nil
}

func (f *fakeAPI) AcceptTransfer(_ context.Context, projectID, billTo string) error {
	if err := f.acceptErr[projectID]; err != nil {
		return err
	}
	f.accepted = append(f.accepted, projectID)
	f.acceptedBills = append(f.acceptedBills, billTo)
	return nil
}

func newTestService(api *fakeAPI) *Service {
	return &Service{
		Projects:  api,
		Transfers: api,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
