package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicpulse/portal/internal/models"
)

func TestIncidentRepository_Visibility(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	incidents := NewIncidentRepository(pool)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "Colombo", models.UserRoleCitizen)
	carl := createUser(t, users, "carl", "Colombo", models.UserRoleCitizen)
	dina := createUser(t, users, "dina", "Galle", models.UserRoleCitizen)

	a1 := createIncident(t, incidents, alice, "Colombo", "Pothole")
	c1 := createIncident(t, incidents, carl, "Colombo", "Streetlight")
	d1 := createIncident(t, incidents, dina, "Galle", "Flooding")
	// Filed under a stale district; the owner's current district decides visibility.
	a2 := createIncident(t, incidents, alice, "Kandy", "Garbage")

	assert.Equal(t, models.IncidentStatusPending, a1.Status)
	assert.False(t, a1.Timestamp.IsZero())

	own, err := incidents.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a2.ID, a1.ID}, incidentIDs(own), "own incidents, newest first")

	colombo, err := incidents.ListByOwnerDistrict(ctx, "Colombo")
	require.NoError(t, err)
	assert.Equal(t, []int64{a2.ID, c1.ID, a1.ID}, incidentIDs(colombo))

	kandy, err := incidents.ListByOwnerDistrict(ctx, "Kandy")
	require.NoError(t, err)
	assert.Empty(t, kandy, "incidents.district is not the filter")

	galle, err := incidents.ListByOwnerDistrict(ctx, "Galle")
	require.NoError(t, err)
	assert.Equal(t, []int64{d1.ID}, incidentIDs(galle))
}

func TestIncidentRepository_UpdateAndDelete(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	incidents := NewIncidentRepository(pool)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "Colombo", models.UserRoleCitizen)
	incident := createIncident(t, incidents, alice, "Colombo", "Pothole")

	changed, err := incidents.UpdateStatus(ctx, incident.ID, models.IncidentStatusResolved)
	require.NoError(t, err)
	assert.True(t, changed)

	own, err := incidents.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, models.IncidentStatusResolved, own[0].Status)

	changed, err = incidents.UpdateStatus(ctx, incident.ID+1000, models.IncidentStatusOpen)
	require.NoError(t, err)
	assert.False(t, changed, "unknown id is a no-op")

	deleted, err := incidents.Delete(ctx, incident.ID+1000)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = incidents.Delete(ctx, incident.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	own, err = incidents.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestIncidentRepository_CountOutstandingByDistrict(t *testing.T) {
	pool := newTestPool(t)
	users := NewUserRepository(pool)
	incidents := NewIncidentRepository(pool)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "Colombo", models.UserRoleCitizen)
	dina := createUser(t, users, "dina", "Galle", models.UserRoleCitizen)

	createIncident(t, incidents, alice, "Colombo", "Pothole")
	reopened := createIncident(t, incidents, alice, "Colombo", "Streetlight")
	createIncident(t, incidents, dina, "Galle", "Flooding")
	resolved := createIncident(t, incidents, dina, "Galle", "Fallen tree")

	_, err := incidents.UpdateStatus(ctx, reopened.ID, models.IncidentStatusOpen)
	require.NoError(t, err)
	_, err = incidents.UpdateStatus(ctx, resolved.ID, models.IncidentStatusResolved)
	require.NoError(t, err)

	counts, err := incidents.CountOutstandingByDistrict(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Colombo": 2, "Galle": 1}, counts)
}
