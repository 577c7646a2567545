package rounds

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rounds       map[uuid.UUID]*models.Round
	participants map[uuid.UUID][]ParticipantEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rounds:       make(map[uuid.UUID]*models.Round),
		participants: make(map[uuid.UUID][]ParticipantEntry),
	}
}

func (f *fakeRepo) CreateRound(ctx context.Context, startTime, endTime time.Time) (*models.Round, error) {
	round := &models.Round{
		ID:        uuid.New(),
		StartTime: startTime,
		EndTime:   endTime,
		CreatedAt: time.Now().UTC(),
	}
	f.rounds[round.ID] = round
	return round, nil
}

func (f *fakeRepo) GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	round, ok := f.rounds[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return round, nil
}

func (f *fakeRepo) ListRounds(ctx context.Context) ([]models.Round, error) {
	var list []models.Round
	for _, round := range f.rounds {
		list = append(list, *round)
	}
	return list, nil
}

func (f *fakeRepo) ListParticipants(ctx context.Context, roundID uuid.UUID) ([]ParticipantEntry, error) {
	return f.participants[roundID], nil
}

func (f *fakeRepo) TopParticipant(ctx context.Context, roundID uuid.UUID) (*ParticipantEntry, error) {
	entries := f.participants[roundID]
	if len(entries) == 0 {
		return nil, nil
	}
	// Entries are stored pre-sorted, like the SQL ordering delivers them
	return &entries[0], nil
}

type fakeOutbox struct {
	inserted []uuid.UUID
}

func (f *fakeOutbox) InsertRoundCreatedEvent(ctx context.Context, roundID uuid.UUID, payload []byte) error {
	f.inserted = append(f.inserted, roundID)
	return nil
}

func admin() *models.User {
	return &models.User{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}
}

func TestCreateRoundFixesTimingAtCreation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	app := NewApp(repo, outbox, clock)

	round, err := app.CreateRound(context.Background(), admin(), CreateRoundRequest{
		CooldownSeconds: 30,
		DurationSeconds: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, now.Add(30*time.Second), round.StartTime)
	assert.Equal(t, now.Add(90*time.Second), round.EndTime)
	assert.Equal(t, []uuid.UUID{round.ID}, outbox.inserted)
}

func TestCreateRoundRequiresAdmin(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := NewApp(newFakeRepo(), &fakeOutbox{}, clock)

	player := &models.User{ID: uuid.New(), Username: "player", Role: models.RolePlayer}
	_, err := app.CreateRound(context.Background(), player, CreateRoundRequest{
		CooldownSeconds: 30,
		DurationSeconds: 60,
	})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	observer := &models.User{ID: uuid.New(), Username: "watcher", Role: models.RoleObserver}
	_, err = app.CreateRound(context.Background(), observer, CreateRoundRequest{
		CooldownSeconds: 30,
		DurationSeconds: 60,
	})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestCreateRoundRejectsInvalidTiming(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := NewApp(newFakeRepo(), &fakeOutbox{}, clock)

	_, err := app.CreateRound(context.Background(), admin(), CreateRoundRequest{
		CooldownSeconds: -1,
		DurationSeconds: 60,
	})
	assert.Error(t, err)

	_, err = app.CreateRound(context.Background(), admin(), CreateRoundRequest{
		CooldownSeconds: 30,
		DurationSeconds: 0,
	})
	assert.Error(t, err)
}

func TestGetWinnerOnlyAfterFinish(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo := newFakeRepo()
	app := NewApp(repo, &fakeOutbox{}, clock)

	round := &models.Round{
		ID:        uuid.New(),
		StartTime: now.Add(-30 * time.Second),
		EndTime:   now.Add(30 * time.Second),
	}
	repo.rounds[round.ID] = round
	repo.participants[round.ID] = []ParticipantEntry{
		{ID: uuid.New(), UserID: uuid.New(), Username: "lead", Score: 42, TapsCount: 40},
		{ID: uuid.New(), UserID: uuid.New(), Username: "chaser", Score: 10, TapsCount: 10},
	}

	// Still active: winner resolution is refused with the computed status.
	_, err := app.GetWinner(context.Background(), round.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// Move past the end and the same call resolves.
	clock.Advance(31 * time.Second)
	winner, err := app.GetWinner(context.Background(), round.ID)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "lead", winner.Username)
}

func TestGetWinnerEmptyFinishedRound(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo := newFakeRepo()
	app := NewApp(repo, &fakeOutbox{}, clock)

	round := &models.Round{
		ID:        uuid.New(),
		StartTime: now.Add(-2 * time.Minute),
		EndTime:   now.Add(-time.Minute),
	}
	repo.rounds[round.ID] = round

	winner, err := app.GetWinner(context.Background(), round.ID)
	require.NoError(t, err)
	assert.Nil(t, winner, "a finished round nobody tapped in has no winner")
}

func TestGetRoundDetails(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)
	repo := newFakeRepo()
	app := NewApp(repo, &fakeOutbox{}, clock)

	me := uuid.New()
	round := &models.Round{
		ID:        uuid.New(),
		StartTime: now.Add(-10 * time.Second),
		EndTime:   now.Add(50 * time.Second),
	}
	repo.rounds[round.ID] = round
	repo.participants[round.ID] = []ParticipantEntry{
		{ID: uuid.New(), UserID: uuid.New(), Username: "lead", Score: 30, TapsCount: 28},
		{ID: uuid.New(), UserID: me, Username: "me", Score: 7, TapsCount: 7},
	}

	details, err := app.GetRoundDetails(context.Background(), round.ID, me)
	require.NoError(t, err)

	assert.Equal(t, models.RoundStatusActive, details.Status)
	assert.Len(t, details.Participants, 2)
	require.NotNil(t, details.MyParticipation)
	assert.Equal(t, "me", details.MyParticipation.Username)
	assert.Nil(t, details.Winner, "no winner while the round is active")

	clock.Advance(time.Minute)
	details, err = app.GetRoundDetails(context.Background(), round.ID, me)
	require.NoError(t, err)
	assert.Equal(t, models.RoundStatusFinished, details.Status)
	require.NotNil(t, details.Winner)
	assert.Equal(t, "lead", details.Winner.Username)
}

func TestGetRoundDetailsUnknownRound(t *testing.T) {
	app := NewApp(newFakeRepo(), &fakeOutbox{}, clockwork.NewFakeClock())

	_, err := app.GetRoundDetails(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
