package backend

import (
	"context"
	"errors"
)

// GetPurposes fetches the occasion list used to populate the purpose field.
func (c *Client) GetPurposes(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "/api/v1/lookups/purposes")
}

// GetResidenceTypes fetches the residence-type list for the receiver form.
func (c *Client) GetResidenceTypes(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "/api/v1/lookups/residence-types")
}

func (c *Client) stringList(ctx context.Context, path string) ([]string, error) {
	envelope, err := c.get(ctx, path, "")
	if err != nil {
		return nil, err
	}
	if envelope.Error {
		return nil, errors.New(envelope.Message)
	}

	var values []string
	if err = decodeData(envelope, &values); err != nil {
		return nil, err
	}
	return values, nil
}
