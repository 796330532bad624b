package http

import (
	"github.com/gin-gonic/gin"

	app "github.com/meridiancs/engage/internal/application/compliance"
	domain "github.com/meridiancs/engage/internal/domain/compliance"
)

// ComplianceHandler serves the compliance calendar endpoints.
type ComplianceHandler struct {
	manager *app.Manager
}

// NewComplianceHandler builds the handler around the tracker pool.
func NewComplianceHandler(manager *app.Manager) *ComplianceHandler {
	return &ComplianceHandler{manager: manager}
}

// viewParams extracts the view identity shared by both endpoints.
func viewParams(c *gin.Context) app.ViewParams {
	return app.ViewParams{
		EngagementID: c.Param("engagementId"),
		CompanyID:    c.Query("companyId"),
		ServiceName:  c.Query("service"),
	}
}

// GetCompliance handles GET /api/v1/engagements/:engagementId/compliance.
//
// Every call triggers a fresh dual-source fetch; a fetch that fails does not
// produce an HTTP error but an empty item set with error_message populated,
// mirroring exactly what the dashboard should render.  The optional status
// query parameter narrows the item list without changing the counts.
func (h *ComplianceHandler) GetCompliance(c *gin.Context) {
	params := viewParams(c)
	if params.EngagementID == "" {
		respondBadRequest(c, "engagement ID must not be empty")
		return
	}
	filter, ok := domain.ParseStatusFilter(c.Query("status"))
	if !ok {
		respondBadRequest(c, "status must be one of all, overdue, due_today, upcoming, filed")
		return
	}

	tracker := h.manager.Tracker(params)
	_ = tracker.Refresh(c.Request.Context())

	c.JSON(200, tracker.Snapshot(filter))
}

// actionRequest is the optional body of the mark-as-done call; the view
// scoping can come from the body or from query parameters.
type actionRequest struct {
	CompanyID string `json:"companyId"`
	Service   string `json:"service"`
}

// MarkActioned handles
// POST /api/v1/engagements/:engagementId/obligations/:obligationId/action.
//
// Precondition misses (unknown ID, non-actionable item, transition already
// in flight) are deliberate no-ops and return the current snapshot with 200.
// An upstream rejection surfaces as an error payload; the collection is left
// as it was.
func (h *ComplianceHandler) MarkActioned(c *gin.Context) {
	params := viewParams(c)
	if params.EngagementID == "" {
		respondBadRequest(c, "engagement ID must not be empty")
		return
	}
	obligationID := c.Param("obligationId")
	if obligationID == "" {
		respondBadRequest(c, "obligation ID must not be empty")
		return
	}

	var body actionRequest
	if err := c.ShouldBindJSON(&body); err == nil {
		if body.CompanyID != "" {
			params.CompanyID = body.CompanyID
		}
		if body.Service != "" {
			params.ServiceName = body.Service
		}
	}

	tracker := h.manager.Tracker(params)
	if err := tracker.MarkActioned(c.Request.Context(), obligationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, tracker.Snapshot(domain.FilterAll))
}
