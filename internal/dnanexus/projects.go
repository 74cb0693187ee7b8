package dnanexus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"iter"
	"strings"
)

const findProjectsPageSize = 1000

type findProjectsResult struct {
	ID       string      `json:"id"`
	Level    AccessLevel `json:"level"`
	Public   bool        `json:"public"`
	Describe *struct {
		Name string `json:"name"`
	} `json:"describe"`
}

type findProjectsResponse struct {
	Results []findProjectsResult `json:"results"`
	Next    json.RawMessage      `json:"next"`
}

// FindOrgProjects lists the projects billed to org. The sequence is lazy: each
// page is requested only when the previous one has been consumed, and it ends
// after the first error it yields. It cannot be restarted without calling
// FindOrgProjects again.
func (c *Client) FindOrgProjects(ctx context.Context, org string, opts FindProjectsOptions) iter.Seq2[ProjectRecord, error] {
	return func(yield func(ProjectRecord, error) bool) {
		org = strings.TrimSpace(org)
		if org == "" {
			yield(ProjectRecord{}, errors.New("dnanexus org id is required"))
			return
		}

		input := map[string]any{"limit": findProjectsPageSize}
		if expr := strings.TrimSpace(opts.CreatedAfter); expr != "" {
			after, err := ParseTime(expr, c.now())
			if err != nil {
				yield(ProjectRecord{}, err)
				return
			}
			input["created"] = map[string]any{"after": after}
		}
		if opts.Describe {
			input["describe"] = map[string]any{"fields": map[string]bool{"name": true}}
		}

		for {
			var page findProjectsResponse
			if err := c.call(ctx, org, "findProjects", input, &page); err != nil {
				yield(ProjectRecord{}, err)
				return
			}
			for _, r := range page.Results {
				record := ProjectRecord{ID: r.ID, Level: r.Level, Public: r.Public}
				if record.Level == "" {
					record.Level = LevelNone
				}
				if r.Describe != nil {
					record.Name = r.Describe.Name
				}
				if !yield(record, nil) {
					return
				}
			}
			if isNullCursor(page.Next) {
				return
			}
			input["starting"] = page.Next
		}
	}
}

func isNullCursor(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// DescribeProject returns the requested fields of a project. With no fields the
// server's default set is returned.
func (c *Client) DescribeProject(ctx context.Context, projectID string, fields ...string) (ProjectDescription, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return ProjectDescription{}, errors.New("dnanexus project id is required")
	}
	input := map[string]any{}
	if len(fields) > 0 {
		selected := make(map[string]bool, len(fields))
		for _, f := range fields {
			selected[f] = true
		}
		input["fields"] = selected
	}

	var out ProjectDescription
	if err := c.call(ctx, projectID, "describe", input, &out); err != nil {
		return ProjectDescription{}, err
	}
	return out, nil
}

// Invite grants in.Invitee in.Level on the project. The API treats repeated
// invites at the same level as no-ops.
func (c *Client) Invite(ctx context.Context, projectID string, in InviteInput) (InviteResult, error) {
	input := map[string]any{
		"invitee":                   in.Invitee,
		"level":                     in.Level,
		"suppressEmailNotification": !in.SendEmail,
	}
	var out InviteResult
	if err := c.call(ctx, projectID, "invite", input, &out); err != nil {
		return InviteResult{}, err
	}
	return out, nil
}

// AcceptTransfer accepts a pending transfer of the project, billing it to billTo.
func (c *Client) AcceptTransfer(ctx context.Context, projectID, billTo string) error {
	return c.call(ctx, projectID, "acceptTransfer", map[string]any{"billTo": billTo}, nil)
}
