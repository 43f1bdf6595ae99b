package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"civicpulse/portal/internal/access"
	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/session"
)

type IncidentStore interface {
	Create(ctx context.Context, incident models.Incident) (models.Incident, error)
	ListByOwner(ctx context.Context, userID int64) ([]models.Incident, error)
	ListByOwnerDistrict(ctx context.Context, district string) ([]models.Incident, error)
	UpdateStatus(ctx context.Context, id int64, status models.IncidentStatus) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type IncidentService struct {
	incidents IncidentStore
	log       zerolog.Logger
}

func NewIncidentService(incidents IncidentStore, log zerolog.Logger) *IncidentService {
	return &IncidentService{
		incidents: incidents,
		log:       log,
	}
}

// ListVisible returns the feed for sess, newest first. Officials see every
// incident reported by a user of their district; anyone else sees only their own
// reports.
func (s *IncidentService) ListVisible(ctx context.Context, sess *session.Session) ([]models.Incident, error) {
	if err := access.Check(sess).Err(); err != nil {
		return nil, err
	}

	if sess.IsOfficial() {
		return s.incidents.ListByOwnerDistrict(ctx, sess.District)
	}
	return s.incidents.ListByOwner(ctx, sess.UserID)
}

type SubmitInput struct {
	Title       string
	Category    string
	Severity    string
	Description string
}

func (s *IncidentService) Submit(ctx context.Context, sess *session.Session, input SubmitInput) (models.Incident, error) {
	if err := access.Check(sess).Err(); err != nil {
		return models.Incident{}, err
	}

	title := strings.TrimSpace(input.Title)
	category := strings.TrimSpace(input.Category)
	severity := strings.TrimSpace(input.Severity)

	verr := &ValidationError{}
	if title == "" {
		verr.add("title", ErrInvalidInput, "must provide title")
	}
	if category == "" {
		verr.add("category", ErrInvalidInput, "must select a category")
	}
	if severity == "" {
		verr.add("severity", ErrInvalidInput, "must select a severity")
	}
	if !verr.empty() {
		return models.Incident{}, verr
	}

	incident, err := s.incidents.Create(ctx, models.Incident{
		UserID:      sess.UserID,
		Title:       title,
		Category:    category,
		District:    sess.District,
		Severity:    severity,
		Description: strings.TrimSpace(input.Description),
		Status:      models.IncidentStatusPending,
	})
	if err != nil {
		return models.Incident{}, fmt.Errorf("create incident: %w", err)
	}

	s.log.Info().
		Int64("incident_id", incident.ID).
		Int64("user_id", incident.UserID).
		Str("district", incident.District).
		Str("severity", incident.Severity).
		Msg("incident reported")

	return incident, nil
}

func (s *IncidentService) Resolve(ctx context.Context, sess *session.Session, incidentID string) error {
	return s.transition(ctx, sess, incidentID, "resolve", func(id int64) (bool, error) {
		return s.incidents.UpdateStatus(ctx, id, models.IncidentStatusResolved)
	})
}

func (s *IncidentService) Reopen(ctx context.Context, sess *session.Session, incidentID string) error {
	return s.transition(ctx, sess, incidentID, "reopen", func(id int64) (bool, error) {
		return s.incidents.UpdateStatus(ctx, id, models.IncidentStatusOpen)
	})
}

func (s *IncidentService) Delete(ctx context.Context, sess *session.Session, incidentID string) error {
	return s.transition(ctx, sess, incidentID, "delete", func(id int64) (bool, error) {
		return s.incidents.Delete(ctx, id)
	})
}

// transition gates an official-only mutation. The role is checked before the id;
// an absent or unusable id is silently ignored. Incidents outside the official's
// district are not excluded.
func (s *IncidentService) transition(
	ctx context.Context,
	sess *session.Session,
	rawID string,
	action string,
	apply func(id int64) (bool, error),
) error {
	if err := access.Check(sess, models.UserRoleOfficial).Err(); err != nil {
		return err
	}

	id, ok := ParseIncidentID(rawID)
	if !ok {
		return nil
	}

	changed, err := apply(id)
	if err != nil {
		return fmt.Errorf("%s incident %d: %w", action, id, err)
	}

	s.log.Info().
		Str("action", action).
		Int64("incident_id", id).
		Int64("official_id", sess.UserID).
		Bool("changed", changed).
		Msg("incident triaged")
	return nil
}

// ParseIncidentID accepts a positive decimal id; anything else is treated as absent.
func ParseIncidentID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
