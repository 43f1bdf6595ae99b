package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/service"
	"civicpulse/portal/internal/session"
)

type reportRequest struct {
	Title       string `form:"title" json:"title"`
	Category    string `form:"category" json:"category"`
	Severity    string `form:"severity" json:"severity"`
	Description string `form:"description" json:"description"`
}

type triageRequest struct {
	IncidentID incidentRef `form:"incident_id" json:"incident_id"`
}

// incidentRef takes an incident id from a form value or from a JSON string or
// number, so ids read off the dashboard can be posted back unchanged.
type incidentRef string

func (r *incidentRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = incidentRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("incident_id: %w", err)
	}
	*r = incidentRef(n.String())
	return nil
}

type incidentResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	District    string    `json:"district"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

type viewerResponse struct {
	UserID   int64  `json:"userId"`
	Role     string `json:"role"`
	District string `json:"district"`
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	sess, ok := h.authorize(c)
	if !ok {
		return
	}

	incidents, err := h.incidentService.ListVisible(c.Request.Context(), sess)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]incidentResponse, 0, len(incidents))
	for _, i := range incidents {
		items = append(items, incidentResponse{
			ID:          i.ID,
			UserID:      i.UserID,
			Title:       i.Title,
			Category:    i.Category,
			District:    i.District,
			Severity:    i.Severity,
			Description: i.Description,
			Status:      string(i.Status),
			Timestamp:   i.Timestamp,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"viewer":    viewerResponse{UserID: sess.UserID, Role: string(sess.Role), District: sess.District},
		"incidents": items,
	})
}

func (h HandlerSet) ReportForm(c *gin.Context) {
	sess, ok := h.authorize(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form":     "report",
		"fields":   []string{"title", "category", "severity", "description"},
		"district": sess.District,
	})
}

func (h HandlerSet) SubmitReport(c *gin.Context) {
	sess, ok := h.authorize(c)
	if !ok {
		return
	}

	var req reportRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	_, err := h.incidentService.Submit(c.Request.Context(), sess, service.SubmitInput{
		Title:       req.Title,
		Category:    req.Category,
		Severity:    req.Severity,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h HandlerSet) Resolve(c *gin.Context) {
	h.triage(c, h.incidentService.Resolve)
}

func (h HandlerSet) Reopen(c *gin.Context) {
	h.triage(c, h.incidentService.Reopen)
}

func (h HandlerSet) Delete(c *gin.Context) {
	h.triage(c, h.incidentService.Delete)
}

type triageFunc func(ctx context.Context, sess *session.Session, incidentID string) error

// triage runs an official-only mutation. A missing or unparseable
// incident_id changes nothing and still redirects to the dashboard.
func (h HandlerSet) triage(c *gin.Context, apply triageFunc) {
	sess, ok := h.authorize(c, models.UserRoleOfficial)
	if !ok {
		return
	}

	var req triageRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := apply(c.Request.Context(), sess, string(req.IncidentID)); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}
