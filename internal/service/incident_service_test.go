package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicpulse/portal/internal/access"
	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/session"
	"civicpulse/portal/internal/testutil"
)

type incidentFixture struct {
	svc       *IncidentService
	users     *testutil.Users
	incidents *testutil.Incidents
}

func newIncidentFixture() incidentFixture {
	users := testutil.NewUsers()
	incidents := testutil.NewIncidents(users)
	return incidentFixture{
		svc:       NewIncidentService(incidents, zerolog.Nop()),
		users:     users,
		incidents: incidents,
	}
}

func (f incidentFixture) user(username, district string, role models.UserRole) *session.Session {
	u := f.users.Insert(models.User{Username: username, District: district, Role: role})
	return &session.Session{ID: "sess-" + username, UserID: u.ID, Role: u.Role, District: u.District}
}

func (f incidentFixture) report(t *testing.T, sess *session.Session, title string) models.Incident {
	t.Helper()
	incident, err := f.svc.Submit(context.Background(), sess, SubmitInput{Title: title, Category: "Roads", Severity: "High"})
	require.NoError(t, err)
	return incident
}

func incidentIDs(incidents []models.Incident) []int64 {
	out := make([]int64, 0, len(incidents))
	for _, i := range incidents {
		out = append(out, i.ID)
	}
	return out
}

func TestSubmit_CreatesPendingIncidentInSessionDistrict(t *testing.T) {
	f := newIncidentFixture()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)

	incident, err := f.svc.Submit(context.Background(), alice, SubmitInput{
		Title:    "Pothole",
		Category: "Roads",
		Severity: "High",
	})
	require.NoError(t, err)

	assert.Equal(t, models.IncidentStatusPending, incident.Status)
	assert.Equal(t, "Colombo", incident.District)
	assert.Equal(t, alice.UserID, incident.UserID)
	assert.Equal(t, "", incident.Description)
	assert.NotZero(t, incident.ID)
}

func TestSubmit_CollectsAllErrors(t *testing.T) {
	f := newIncidentFixture()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)

	_, err := f.svc.Submit(context.Background(), alice, SubmitInput{Title: "  ", Description: "details"})

	assert.Equal(t, map[string]string{
		"title":    "invalid_input",
		"category": "invalid_input",
		"severity": "invalid_input",
	}, fieldCodes(t, err))
	assert.Zero(t, f.incidents.Len())
}

func TestSubmit_RequiresSession(t *testing.T) {
	f := newIncidentFixture()

	_, err := f.svc.Submit(context.Background(), nil, SubmitInput{Title: "x", Category: "y", Severity: "z"})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestListVisible_CitizenSeesOnlyOwnAcrossDistricts(t *testing.T) {
	f := newIncidentFixture()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)
	carl := f.user("carl", "Colombo", models.UserRoleCitizen)
	dina := f.user("dina", "Galle", models.UserRoleCitizen)

	a1 := f.report(t, alice, "Pothole")
	f.report(t, carl, "Streetlight")
	f.report(t, dina, "Flooding")
	a2 := f.report(t, alice, "Garbage")

	got, err := f.svc.ListVisible(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, []int64{a2.ID, a1.ID}, incidentIDs(got), "own incidents only, newest first")
}

func TestListVisible_OfficialSeesWholeDistrict(t *testing.T) {
	f := newIncidentFixture()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)
	carl := f.user("carl", "Colombo", models.UserRoleCitizen)
	dina := f.user("dina", "Galle", models.UserRoleCitizen)
	bob := f.user("bob", "Colombo", models.UserRoleOfficial)

	a1 := f.report(t, alice, "Pothole")
	c1 := f.report(t, carl, "Streetlight")
	f.report(t, dina, "Flooding")

	got, err := f.svc.ListVisible(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{c1.ID, a1.ID}, incidentIDs(got))
}

func TestListVisible_OfficialFilterUsesOwnerDistrict(t *testing.T) {
	f := newIncidentFixture()
	bob := f.user("bob", "Colombo", models.UserRoleOfficial)
	owner := f.users.Insert(models.User{Username: "eve", District: "Colombo", Role: models.UserRoleCitizen})

	// Filed under a stale session district; still the owner's current district decides.
	stale := &session.Session{ID: "stale", UserID: owner.ID, Role: models.UserRoleCitizen, District: "Kandy"}
	incident := f.report(t, stale, "Broken bench")
	assert.Equal(t, "Kandy", incident.District)

	got, err := f.svc.ListVisible(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, []int64{incident.ID}, incidentIDs(got))
}

func TestListVisible_RequiresSession(t *testing.T) {
	f := newIncidentFixture()

	_, err := f.svc.ListVisible(context.Background(), nil)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestTransitions_Official(t *testing.T) {
	f := newIncidentFixture()
	ctx := context.Background()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)
	bob := f.user("bob", "Galle", models.UserRoleOfficial)
	incident := f.report(t, alice, "Pothole")
	id := itoa(incident.ID)

	require.NoError(t, f.svc.Resolve(ctx, bob, id))
	got, _ := f.incidents.Get(incident.ID)
	assert.Equal(t, models.IncidentStatusResolved, got.Status, "officials act outside their district too")

	require.NoError(t, f.svc.Reopen(ctx, bob, id))
	got, _ = f.incidents.Get(incident.ID)
	assert.Equal(t, models.IncidentStatusOpen, got.Status)

	require.NoError(t, f.svc.Delete(ctx, bob, id))
	_, ok := f.incidents.Get(incident.ID)
	assert.False(t, ok)
}

func TestTransitions_CitizenForbiddenWithoutChange(t *testing.T) {
	f := newIncidentFixture()
	ctx := context.Background()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)
	incident := f.report(t, alice, "Pothole")
	id := itoa(incident.ID)

	assert.ErrorIs(t, f.svc.Resolve(ctx, alice, id), access.ErrForbidden)
	assert.ErrorIs(t, f.svc.Reopen(ctx, alice, id), access.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, alice, id), access.ErrForbidden)
	assert.ErrorIs(t, f.svc.Resolve(ctx, alice, ""), access.ErrForbidden, "role is checked before the id")

	got, ok := f.incidents.Get(incident.ID)
	require.True(t, ok)
	assert.Equal(t, models.IncidentStatusPending, got.Status)
}

func TestTransitions_UnauthenticatedRejected(t *testing.T) {
	f := newIncidentFixture()

	assert.ErrorIs(t, f.svc.Resolve(context.Background(), nil, "1"), access.ErrUnauthenticated)
}

func TestTransitions_MissingOrUnknownIDIsNoop(t *testing.T) {
	f := newIncidentFixture()
	ctx := context.Background()
	alice := f.user("alice", "Colombo", models.UserRoleCitizen)
	bob := f.user("bob", "Colombo", models.UserRoleOfficial)
	incident := f.report(t, alice, "Pothole")

	for _, raw := range []string{"", "   ", "abc", "-4", "0", "999"} {
		assert.NoError(t, f.svc.Resolve(ctx, bob, raw), "id %q", raw)
		assert.NoError(t, f.svc.Delete(ctx, bob, raw), "id %q", raw)
	}

	got, ok := f.incidents.Get(incident.ID)
	require.True(t, ok)
	assert.Equal(t, models.IncidentStatusPending, got.Status)
}

func TestParseIncidentID(t *testing.T) {
	id, ok := ParseIncidentID(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "x", "0", "-1", "1.5", "99999999999999999999"} {
		_, ok := ParseIncidentID(raw)
		assert.False(t, ok, raw)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
