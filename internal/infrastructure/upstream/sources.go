package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/meridiancs/engage/internal/domain/compliance"
	"github.com/meridiancs/engage/pkg/errors"
)

// EngagementObligations fetches the source-A obligations for an engagement.
// companyID scopes the query when the engagement spans multiple companies; it
// may be empty.
func (c *Client) EngagementObligations(ctx context.Context, engagementID, companyID string) ([]compliance.RawEngagementObligation, error) {
	if engagementID == "" {
		return nil, errors.New(errors.ErrCodeEngagementMissing, "engagement ID must not be empty")
	}

	path := fmt.Sprintf("/api/v1/engagements/%s/compliance-obligations", url.PathEscape(engagementID))
	if companyID != "" {
		path += "?companyId=" + url.QueryEscape(companyID)
	}

	var resp apiResponse[[]compliance.RawEngagementObligation]
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CalendarEntries fetches the source-B compliance calendar for a company.
func (c *Client) CalendarEntries(ctx context.Context, companyID string) ([]compliance.RawCalendarEntry, error) {
	if companyID == "" {
		return nil, errors.InvalidParam("company ID must not be empty")
	}

	path := fmt.Sprintf("/api/v1/companies/%s/compliance-calendar", url.PathEscape(companyID))

	var resp apiResponse[[]compliance.RawCalendarEntry]
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// updateStatusRequest is the body of the obligation status-update call.
type updateStatusRequest struct {
	Status compliance.UpstreamStatus `json:"status"`
}

// UpdateObligationStatus asks the system of record to move an obligation to
// the given workflow status.  A 409 from upstream means the transition was
// rejected (for example a concurrent update already progressed the record);
// it is surfaced as ErrCodeTransitionRejected so callers can treat it as an
// item-local failure.
func (c *Client) UpdateObligationStatus(ctx context.Context, engagementID, obligationID string, status compliance.UpstreamStatus) error {
	if engagementID == "" {
		return errors.New(errors.ErrCodeEngagementMissing, "engagement ID must not be empty")
	}
	if obligationID == "" {
		return errors.InvalidParam("obligation ID must not be empty")
	}

	path := fmt.Sprintf("/api/v1/engagements/%s/compliance-obligations/%s",
		url.PathEscape(engagementID), url.PathEscape(obligationID))

	err := c.patch(ctx, path, updateStatusRequest{Status: status}, nil)
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		switch {
		case apiErr.IsNotFound():
			return errors.NotFound("obligation not found upstream").WithCause(apiErr)
		case apiErr.IsConflict():
			return errors.New(errors.ErrCodeTransitionRejected, "upstream rejected the status transition").WithCause(apiErr)
		}
	}
	return err
}
