package dnanexus

import (
	"context"
	"encoding/json"
	"fmt"
)

type userDescribeResponse struct {
	ID               string            `json:"id"`
	Handle           string            `json:"handle"`
	First            string            `json:"first"`
	Last             string            `json:"last"`
	PendingTransfers []json.RawMessage `json:"pendingTransfers"`
}

func (c *Client) DescribeUser(ctx context.Context, userID string, opts UserDescribeOptions) (UserDescription, error) {
	input := map[string]any{}
	if opts.PendingTransfers {
		input["pendingTransfers"] = true
	}
	var resp userDescribeResponse
	if err := c.call(ctx, userID, "describe", input, &resp); err != nil {
		return UserDescription{}, err
	}

	out := UserDescription{ID: resp.ID, Handle: resp.Handle, First: resp.First, Last: resp.Last}
	for _, raw := range resp.PendingTransfers {
		id, err := pendingTransferID(raw)
		if err != nil {
			return UserDescription{}, err
		}
		if id != "" {
			out.PendingTransfers = append(out.PendingTransfers, id)
		}
	}
	return out, nil
}

// pendingTransferID accepts both a bare project ID and an object with an id field.
func pendingTransferID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("unexpected pending transfer entry %s: %w", raw, err)
	}
	return obj.ID, nil
}
