package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civicpulse/portal/internal/models"
)

const incidentColumns = `i.id, i.user_id, i.title, i.category, i.district, i.severity, i.description, i.status, i."timestamp"`

type IncidentRepository struct {
	pool *pgxpool.Pool
}

func NewIncidentRepository(pool *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{pool: pool}
}

func (r *IncidentRepository) Create(ctx context.Context, incident models.Incident) (models.Incident, error) {
	const query = `
		INSERT INTO incidents (user_id, title, category, district, severity, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, "timestamp"
	`

	err := r.pool.QueryRow(ctx, query,
		incident.UserID,
		incident.Title,
		incident.Category,
		incident.District,
		incident.Severity,
		incident.Description,
		incident.Status,
	).Scan(&incident.ID, &incident.Timestamp)
	if err != nil {
		return models.Incident{}, err
	}
	return incident, nil
}

// ListByOwner returns the incidents reported by userID, newest first.
func (r *IncidentRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Incident, error) {
	const query = `
		SELECT ` + incidentColumns + `
		FROM incidents i
		WHERE i.user_id = $1
		ORDER BY i."timestamp" DESC, i.id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanIncidents(rows)
}

// ListByOwnerDistrict returns every incident whose reporter currently belongs to
// district, newest first. The filter goes through users, not incidents.district.
func (r *IncidentRepository) ListByOwnerDistrict(ctx context.Context, district string) ([]models.Incident, error) {
	const query = `
		SELECT ` + incidentColumns + `
		FROM incidents i
		JOIN users u ON u.id = i.user_id
		WHERE u.district = $1
		ORDER BY i."timestamp" DESC, i.id DESC
	`

	rows, err := r.pool.Query(ctx, query, district)
	if err != nil {
		return nil, err
	}
	return scanIncidents(rows)
}

// UpdateStatus reports whether a row was changed; an unknown id is not an error.
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id int64, status models.IncidentStatus) (bool, error) {
	const query = `UPDATE incidents SET status = $2 WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *IncidentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM incidents WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// CountOutstandingByDistrict counts incidents not yet resolved, grouped by the
// reporter's current district.
func (r *IncidentRepository) CountOutstandingByDistrict(ctx context.Context) (map[string]int, error) {
	const query = `
		SELECT u.district, COUNT(*)
		FROM incidents i
		JOIN users u ON u.id = i.user_id
		WHERE i.status <> $1
		GROUP BY u.district
	`

	rows, err := r.pool.Query(ctx, query, models.IncidentStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			district string
			n        int
		)
		if err := rows.Scan(&district, &n); err != nil {
			return nil, err
		}
		counts[district] = n
	}
	return counts, rows.Err()
}

func scanIncidents(rows pgx.Rows) ([]models.Incident, error) {
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		var incident models.Incident
		if err := rows.Scan(
			&incident.ID,
			&incident.UserID,
			&incident.Title,
			&incident.Category,
			&incident.District,
			&incident.Severity,
			&incident.Description,
			&incident.Status,
			&incident.Timestamp,
		); err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}
	return incidents, rows.Err()
}
