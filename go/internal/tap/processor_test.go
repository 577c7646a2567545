package tap

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/goosetap/goosetap/go/internal/apperr"
	"github.com/goosetap/goosetap/go/internal/models"
	"github.com/goosetap/goosetap/go/internal/participants"
	"github.com/goosetap/goosetap/go/internal/scoring"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	user *models.User
}

func (f *fakeUsers) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, apperr.ErrNotFound
	}
	return f.user, nil
}

type fakeRounds struct {
	round *models.Round
}

func (f *fakeRounds) GetRound(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	if f.round == nil || f.round.ID != id {
		return nil, apperr.ErrNotFound
	}
	return f.round, nil
}

// fakeStore emulates the participant ledger with injectable contention.
type fakeStore struct {
	mu          sync.Mutex
	participant *models.RoundParticipant
	roundTotal  int64

	failLockTimes    int // ErrLockNotAvailable for the next n lock attempts
	failVersionTimes int // ErrVersionMismatch for the next n saves
	failCreateTimes  int // ErrDuplicateLedger for the next n creates
	txCount          int

	// Row committed by the simulated concurrent first tap. It survives the
	// losing attempt's rollback, as it would in Postgres.
	concurrentRow *models.RoundParticipant
}

func (f *fakeStore) RunTapTransaction(ctx context.Context, fn func(tx participants.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCount++

	// Snapshot for rollback on error
	var snapshot *models.RoundParticipant
	if f.participant != nil {
		cp := *f.participant
		snapshot = &cp
	}
	total := f.roundTotal

	if err := fn(&fakeTx{store: f}); err != nil {
		f.participant = snapshot
		f.roundTotal = total
		if f.concurrentRow != nil {
			f.participant = f.concurrentRow
			f.concurrentRow = nil
		}
		return err
	}
	return nil
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) ParticipantForUpdateNoWait(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error) {
	if t.store.failLockTimes > 0 {
		t.store.failLockTimes--
		return nil, participants.ErrLockNotAvailable
	}
	if t.store.participant == nil {
		return nil, participants.ErrLedgerNotFound
	}
	cp := *t.store.participant
	return &cp, nil
}

func (t *fakeTx) CreateParticipant(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error) {
	if t.store.failCreateTimes > 0 {
		t.store.failCreateTimes--
		// The concurrent winner's row becomes visible to the retry
		t.store.concurrentRow = &models.RoundParticipant{
			ID:        uuid.New(),
			UserID:    userID,
			RoundID:   roundID,
			Score:     1,
			TapsCount: 1,
			Version:   2,
		}
		return nil, participants.ErrDuplicateLedger
	}
	t.store.participant = &models.RoundParticipant{
		ID:      uuid.New(),
		UserID:  userID,
		RoundID: roundID,
		Version: 1,
	}
	cp := *t.store.participant
	return &cp, nil
}

func (t *fakeTx) SaveParticipantScore(ctx context.Context, id uuid.UUID, score, tapsCount, expectedVersion int64) (int64, error) {
	if t.store.failVersionTimes > 0 {
		t.store.failVersionTimes--
		return 0, participants.ErrVersionMismatch
	}
	if t.store.participant == nil || t.store.participant.ID != id || t.store.participant.Version != expectedVersion {
		return 0, participants.ErrVersionMismatch
	}
	t.store.participant.Score = score
	t.store.participant.TapsCount = tapsCount
	t.store.participant.Version++
	return t.store.participant.Version, nil
}

func (t *fakeTx) AddToRoundTotal(ctx context.Context, roundID uuid.UUID, delta int64) error {
	t.store.roundTotal += delta
	return nil
}

// activeFixture anchors the round window around the present so the tests
// that need a real clock (retry timing) stay inside it.
func activeFixture(role models.UserRole) (*fakeUsers, *fakeRounds, *fakeStore, clockwork.Clock) {
	now := time.Now().UTC()
	clock := clockwork.NewFakeClockAt(now)

	user := &models.User{ID: uuid.New(), Username: "goose", Role: role}
	round := &models.Round{
		ID:        uuid.New(),
		StartTime: now.Add(-10 * time.Second),
		EndTime:   now.Add(50 * time.Second),
	}

	return &fakeUsers{user: user}, &fakeRounds{round: round}, &fakeStore{}, clock
}

func TestExecuteTapFirstTapCreatesLedger(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RolePlayer)
	p := NewProcessor(users, rounds, store, nil, clock)

	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.MyScore)
	assert.Equal(t, int64(1), result.TapsCount)
	assert.Equal(t, int64(1), result.ScoreEarned)
	assert.False(t, result.BonusEarned)

	require.NotNil(t, store.participant)
	assert.Equal(t, int64(1), store.participant.Score)
	assert.Equal(t, int64(1), store.roundTotal)
}

func TestExecuteTapEleventhTapEarnsBonus(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RolePlayer)
	store.participant = &models.RoundParticipant{
		ID:        uuid.New(),
		UserID:    users.user.ID,
		RoundID:   rounds.round.ID,
		Score:     10,
		TapsCount: 10,
		Version:   11,
	}
	p := NewProcessor(users, rounds, store, nil, clock)

	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	assert.True(t, result.BonusEarned)
	assert.Equal(t, int64(10), result.ScoreEarned)
	assert.Equal(t, int64(20), result.MyScore)
	assert.Equal(t, int64(11), result.TapsCount)
	assert.Equal(t, int64(10), store.roundTotal)
}

func TestExecuteTapExemptObserverLeavesNoTrace(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RoleObserver)
	p := NewProcessor(users, rounds, store, nil, clock)

	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	assert.Equal(t, &Result{}, result)
	assert.Nil(t, store.participant, "no ledger row may be created for an observer")
	assert.Zero(t, store.roundTotal)
}

func TestExecuteTapAdminScoresLikeAnyPlayer(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RoleAdmin)
	store.participant = &models.RoundParticipant{
		ID:        uuid.New(),
		UserID:    users.user.ID,
		RoundID:   rounds.round.ID,
		Score:     5,
		TapsCount: 5,
		Version:   6,
	}
	p := NewProcessor(users, rounds, store, nil, clock)

	// Only observers are exempt; the admin role grants round creation, not
	// a pass on scoring.
	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(6), result.MyScore)
	assert.Equal(t, int64(6), result.TapsCount)
	assert.Equal(t, int64(6), store.participant.Score)
	assert.Equal(t, int64(7), store.participant.Version)
	assert.Equal(t, int64(1), store.roundTotal)
}

func TestExecuteTapRejectsInactiveRound(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RolePlayer)
	rounds.round.StartTime = clock.Now().Add(10 * time.Second)
	p := NewProcessor(users, rounds, store, nil, clock)

	_, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	var notActive *apperr.RoundNotActiveError
	require.ErrorAs(t, err, &notActive)
	assert.Equal(t, models.RoundStatusCooldown, notActive.Status)
	assert.Zero(t, store.txCount, "no transaction may start for an inactive round")
}

func TestExecuteTapRejectsUnknownUser(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RolePlayer)
	p := NewProcessor(users, rounds, store, nil, clock)

	_, err := p.ExecuteTap(context.Background(), uuid.New(), rounds.round.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, store.txCount)
}

func TestExecuteTapRetriesHeldLock(t *testing.T) {
	users, rounds, store, _ := activeFixture(models.RolePlayer)
	store.failLockTimes = 2
	p := NewProcessor(users, rounds, store, nil, clockwork.NewRealClock())

	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.TapsCount)
	assert.Equal(t, 3, store.txCount, "two failed attempts plus the success")
}

func TestExecuteTapExhaustsRetryBudget(t *testing.T) {
	users, rounds, store, _ := activeFixture(models.RolePlayer)
	store.failLockTimes = 3
	p := NewProcessor(users, rounds, store, nil, clockwork.NewRealClock())

	_, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 3, store.txCount, "exactly three attempts, never more")
	assert.Zero(t, store.roundTotal, "a failed tap contributes nothing")
}

func TestExecuteTapRetriesVersionMismatch(t *testing.T) {
	users, rounds, store, _ := activeFixture(models.RolePlayer)
	store.participant = &models.RoundParticipant{
		ID:        uuid.New(),
		UserID:    users.user.ID,
		RoundID:   rounds.round.ID,
		Score:     3,
		TapsCount: 3,
		Version:   4,
	}
	store.failVersionTimes = 1
	p := NewProcessor(users, rounds, store, nil, clockwork.NewRealClock())

	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.TapsCount)
	assert.Equal(t, int64(4), result.MyScore)
	assert.Equal(t, int64(1), store.roundTotal, "round total gains one increment despite the retry")
}

func TestExecuteTapRecoversFromLostInsertRace(t *testing.T) {
	users, rounds, store, _ := activeFixture(models.RolePlayer)
	store.failCreateTimes = 1
	p := NewProcessor(users, rounds, store, nil, clockwork.NewRealClock())

	result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
	require.NoError(t, err)

	// The concurrent first tap reached count 1; ours lands on top of it.
	assert.Equal(t, int64(2), result.TapsCount)
	assert.Equal(t, int64(2), result.MyScore)
}

func TestExecuteTapResumedLedgerCrossesBonus(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RolePlayer)
	store.participant = &models.RoundParticipant{
		ID:        uuid.New(),
		UserID:    users.user.ID,
		RoundID:   rounds.round.ID,
		Score:     5,
		TapsCount: 5,
		Version:   6,
	}
	p := NewProcessor(users, rounds, store, nil, clock)

	var last *Result
	for i := 0; i < 6; i++ {
		result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
		require.NoError(t, err)
		last = result
	}

	// Five ordinary taps then the 11th lands the bonus.
	assert.Equal(t, int64(20), last.MyScore)
	assert.Equal(t, int64(11), last.TapsCount)
	assert.True(t, last.BonusEarned)
	assert.Equal(t, int64(15), store.roundTotal, "only this session's increments hit the total")
}

func TestExecuteTapBurstMatchesClosedForm(t *testing.T) {
	users, rounds, store, clock := activeFixture(models.RolePlayer)
	p := NewProcessor(users, rounds, store, nil, clock)

	const taps = 25
	var lastResult *Result
	for i := 0; i < taps; i++ {
		result, err := p.ExecuteTap(context.Background(), users.user.ID, rounds.round.ID)
		require.NoError(t, err)
		lastResult = result
	}

	want := scoring.TotalForTaps(taps)
	assert.Equal(t, want, lastResult.MyScore)
	assert.Equal(t, int64(taps), lastResult.TapsCount)
	assert.Equal(t, want, store.roundTotal, "round total equals the sum of per-tap increments")
}

type fakeUserDir struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserDir) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

// multiStore keeps one ledger row per user so independent tappers can run
// against it from separate goroutines. Each transaction is atomic under the
// store mutex, like a committed Postgres transaction.
type multiStore struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*models.RoundParticipant
	roundTotal int64
}

func (s *multiStore) RunTapTransaction(ctx context.Context, fn func(tx participants.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&multiTx{store: s})
}

type multiTx struct {
	store *multiStore
}

func (t *multiTx) ParticipantForUpdateNoWait(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error) {
	row, ok := t.store.rows[userID]
	if !ok {
		return nil, participants.ErrLedgerNotFound
	}
	cp := *row
	return &cp, nil
}

func (t *multiTx) CreateParticipant(ctx context.Context, userID, roundID uuid.UUID) (*models.RoundParticipant, error) {
	row := &models.RoundParticipant{
		ID:      uuid.New(),
		UserID:  userID,
		RoundID: roundID,
		Version: 1,
	}
	t.store.rows[userID] = row
	cp := *row
	return &cp, nil
}

func (t *multiTx) SaveParticipantScore(ctx context.Context, id uuid.UUID, score, tapsCount, expectedVersion int64) (int64, error) {
	for _, row := range t.store.rows {
		if row.ID != id {
			continue
		}
		if row.Version != expectedVersion {
			return 0, participants.ErrVersionMismatch
		}
		row.Score = score
		row.TapsCount = tapsCount
		row.Version++
		return row.Version, nil
	}
	return 0, participants.ErrVersionMismatch
}

func (t *multiTx) AddToRoundTotal(ctx context.Context, roundID uuid.UUID, delta int64) error {
	t.store.roundTotal += delta
	return nil
}

func TestExecuteTapConcurrentUsersTotalMatchesLedgerSum(t *testing.T) {
	now := time.Now().UTC()
	round := &models.Round{
		ID:        uuid.New(),
		StartTime: now.Add(-10 * time.Second),
		EndTime:   now.Add(50 * time.Second),
	}

	const tappers = 8
	const tapsEach = 23

	dir := &fakeUserDir{users: make(map[uuid.UUID]*models.User)}
	ids := make([]uuid.UUID, 0, tappers)
	for i := 0; i < tappers; i++ {
		user := &models.User{ID: uuid.New(), Username: fmt.Sprintf("goose-%d", i), Role: models.RolePlayer}
		dir.users[user.ID] = user
		ids = append(ids, user.ID)
	}

	store := &multiStore{rows: make(map[uuid.UUID]*models.RoundParticipant)}
	p := NewProcessor(dir, &fakeRounds{round: round}, store, nil, clockwork.NewRealClock())

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			for i := 0; i < tapsEach; i++ {
				_, err := p.ExecuteTap(context.Background(), userID, round.ID)
				assert.NoError(t, err)
			}
		}(id)
	}
	wg.Wait()

	require.Len(t, store.rows, tappers)
	var ledgerSum int64
	for _, row := range store.rows {
		assert.Equal(t, scoring.TotalForTaps(tapsEach), row.Score)
		assert.Equal(t, int64(tapsEach), row.TapsCount)
		ledgerSum += row.Score
	}
	assert.Equal(t, ledgerSum, store.roundTotal, "round total equals the sum of every ledger")
}
