// Package testutil provides in-memory stand-ins for the Postgres repositories.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/repository"
)

// Users mirrors repository.UserRepository, including the unique username rule.
type Users struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.User
}

func NewUsers() *Users {
	return &Users{}
}

func (u *Users) Create(_ context.Context, user models.User) (models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, existing := range u.rows {
		if existing.Username == user.Username {
			return models.User{}, repository.ErrUsernameTaken
		}
	}
	u.nextID++
	user.ID = u.nextID
	u.rows = append(u.rows, user)
	return user, nil
}

func (u *Users) FindByUsername(_ context.Context, username string) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var out []models.User
	for _, existing := range u.rows {
		if existing.Username == username {
			out = append(out, existing)
		}
	}
	return out, nil
}

func (u *Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	users, err := u.FindByUsername(ctx, username)
	return len(users) > 0, err
}

func (u *Users) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rows)
}

// Insert appends a row as-is, bypassing the uniqueness rule. It stands in for
// rows written directly to the store.
func (u *Users) Insert(user models.User) models.User {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.nextID++
	user.ID = u.nextID
	u.rows = append(u.rows, user)
	return user
}

func (u *Users) district(id int64) (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, existing := range u.rows {
		if existing.ID == id {
			return existing.District, true
		}
	}
	return "", false
}

// Incidents mirrors repository.IncidentRepository. Timestamps advance by one
// second per insert so ordering is deterministic.
type Incidents struct {
	mu     sync.Mutex
	users  *Users
	nextID int64
	clock  time.Time
	rows   map[int64]models.Incident
}

func NewIncidents(users *Users) *Incidents {
	return &Incidents{
		users: users,
		clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		rows:  make(map[int64]models.Incident),
	}
}

func (s *Incidents) Create(_ context.Context, incident models.Incident) (models.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.clock = s.clock.Add(time.Second)
	incident.ID = s.nextID
	incident.Timestamp = s.clock
	s.rows[incident.ID] = incident
	return incident, nil
}

func (s *Incidents) ListByOwner(_ context.Context, userID int64) ([]models.Incident, error) {
	return s.filter(func(i models.Incident) bool { return i.UserID == userID }), nil
}

func (s *Incidents) ListByOwnerDistrict(_ context.Context, district string) ([]models.Incident, error) {
	return s.filter(func(i models.Incident) bool {
		d, ok := s.users.district(i.UserID)
		return ok && d == district
	}), nil
}

func (s *Incidents) UpdateStatus(_ context.Context, id int64, status models.IncidentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, ok := s.rows[id]
	if !ok {
		return false, nil
	}
	incident.Status = status
	s.rows[id] = incident
	return true, nil
}

func (s *Incidents) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *Incidents) CountOutstandingByDistrict(context.Context) (map[string]int, error) {
	outstanding := s.filter(func(i models.Incident) bool { return i.Status != models.IncidentStatusResolved })
	counts := make(map[string]int)
	for _, incident := range outstanding {
		if d, ok := s.users.district(incident.UserID); ok {
			counts[d]++
		}
	}
	return counts, nil
}

func (s *Incidents) Get(id int64) (models.Incident, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	incident, ok := s.rows[id]
	return incident, ok
}

func (s *Incidents) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Incidents) filter(keep func(models.Incident) bool) []models.Incident {
	s.mu.Lock()
	rows := make([]models.Incident, 0, len(s.rows))
	for _, incident := range s.rows {
		rows = append(rows, incident)
	}
	s.mu.Unlock()

	out := make([]models.Incident, 0)
	for _, incident := range rows {
		if keep(incident) {
			out = append(out, incident)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
