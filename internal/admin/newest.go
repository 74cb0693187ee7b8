package admin

import (
	"context"
	"errors"
	"sort"

	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dxerr"
)

// SelectNewest returns the most recently created project in ids. A single ID is
// returned without contacting the API. Among equal creation times the one
// listed last wins.
func (s *Service) SelectNewest(ctx context.Context, ids []string) (string, error) {
	switch len(ids) {
	case 0:
		return "", errors.New("at least one project id is required")
	case 1:
		return ids[0], nil
	}
	if s.Projects == nil {
		return "", errors.New("admin: project api is not configured")
	}

	type created struct {
		id string
		at int64
	}
	items := make([]created, 0, len(ids))
	for _, id := range ids {
		desc, err := s.Projects.DescribeProject(ctx, id, "created")
		if err != nil {
			return "", dxerr.Remote("describe", id, err)
		}
		items = append(items, created{id: id, at: desc.Created})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].at < items[j].at })
	return items[len(items)-1].id, nil
}
