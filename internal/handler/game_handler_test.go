package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finalexam/internal/auth"
	"finalexam/internal/cache"
	"finalexam/internal/handler"
	"finalexam/internal/model"
	"finalexam/internal/ratelimit"
	"finalexam/internal/repository"
	"finalexam/internal/router"
	"finalexam/internal/service"
)

// testEnv hosts the dispatcher over in-memory stores, wired the same way the
// real router wires it.
type testEnv struct {
	e      *echo.Echo
	users  *fakeUsers
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T, loginPolicy, registerPolicy handler.RateLimitPolicy) *testEnv {
	t.Helper()

	users := newFakeUsers()
	challenges := newFakeChallenges()
	sessions := newFakeSessions(users)
	teams := newFakeTeams()

	tokens := auth.NewTokenService("handler-test-secret")
	authSvc := service.NewAuthService(users, tokens)
	gameSvc := service.NewGameService(users, sessions, &fakePrizes{}, &fakePractice{}, cache.New(nil))
	challengeSvc := service.NewChallengeService(challenges, users)
	teamSvc := service.NewTeamService(teams)

	h := handler.NewGameHandler(authSvc, gameSvc, challengeSvc, teamSvc,
		ratelimit.NewMemoryLimiter(), loginPolicy, registerPolicy)

	e := echo.New()
	e.Validator = router.NewValidator()
	e.POST("/api/game", h.Dispatch, echojwt.WithConfig(echojwt.Config{
		TokenLookup:            "header:X-App-Token,header:Authorization:Bearer ",
		ContinueOnIgnoredError: true,
		ErrorHandler:           handler.StoreAuthError,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return tokens.Verify(tokenString)
		},
	}))
	return &testEnv{e: e, users: users, tokens: tokens}
}

func defaultTestEnv(t *testing.T) *testEnv {
	return newTestEnv(t,
		handler.RateLimitPolicy{MaxAttempts: 10, Window: 15 * time.Minute},
		handler.RateLimitPolicy{MaxAttempts: 20, Window: time.Hour},
	)
}

func (env *testEnv) post(t *testing.T, token, action string, data interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload := map[string]interface{}{"action": action}
	if data != nil {
		payload["data"] = data
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/game", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("X-App-Token", token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (env *testEnv) registerUser(t *testing.T, email, username string) string {
	t.Helper()
	rec := env.post(t, "", "register", map[string]interface{}{
		"email":    email,
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestDispatchRequiresAction(t *testing.T) {
	env := defaultTestEnv(t)

	rec := env.post(t, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeBody(t, rec)["code"])
}

func TestDispatchUnknownAction(t *testing.T) {
	env := defaultTestEnv(t)
	token := env.registerUser(t, "alice@example.com", "alice")

	rec := env.post(t, token, "teleport", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unknown action")
}

func TestDispatchAuthGuard(t *testing.T) {
	env := defaultTestEnv(t)

	t.Run("missing token", func(t *testing.T) {
		rec := env.post(t, "", "getChallenges", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "AUTH_REQUIRED", decodeBody(t, rec)["code"])
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := env.post(t, "not-a-jwt", "getChallenges", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeBody(t, rec)["code"])
	})

	t.Run("bearer header also accepted", func(t *testing.T) {
		token := env.registerUser(t, "bearer@example.com", "bearer")
		body, err := json.Marshal(map[string]interface{}{"action": "getChallenges"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/game", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("leaderboard is public", func(t *testing.T) {
		rec := env.post(t, "", "getLeaderboard", nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestDispatchLoginRateLimit(t *testing.T) {
	env := newTestEnv(t,
		handler.RateLimitPolicy{MaxAttempts: 3, Window: 15 * time.Minute},
		handler.RateLimitPolicy{MaxAttempts: 20, Window: time.Hour},
	)

	creds := map[string]interface{}{"email": "ghost@example.com", "password": "wrong-password"}
	for i := 0; i < 3; i++ {
		rec := env.post(t, "", "login", creds)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := env.post(t, "", "login", creds)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeBody(t, rec)["code"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestDispatchRegisterValidation(t *testing.T) {
	env := defaultTestEnv(t)

	t.Run("bad email", func(t *testing.T) {
		rec := env.post(t, "", "register", map[string]interface{}{
			"email":    "not-an-email",
			"username": "alice",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := env.post(t, "", "register", map[string]interface{}{
			"email":    "alice@example.com",
			"username": "alice",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env.registerUser(t, "alice@example.com", "alice")
		rec := env.post(t, "", "register", map[string]interface{}{
			"email":    "alice@example.com",
			"username": "alice2",
			"password": "password123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "USER_ALREADY_EXISTS", decodeBody(t, rec)["code"])
	})
}

// TestChallengeFlow drives a whole asynchronous match through the endpoint:
// two players register, the first opens a challenge, the second joins by code
// and both submit their scores.
func TestChallengeFlow(t *testing.T) {
	env := defaultTestEnv(t)

	aliceToken := env.registerUser(t, "alice@example.com", "alice")
	bobToken := env.registerUser(t, "bob@example.com", "bob")

	rec := env.post(t, aliceToken, "createChallenge", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)["challenge"].(map[string]interface{})
	code := created["challenge_code"].(string)
	challengeID := created["id"].(string)
	assert.Len(t, code, 6)
	assert.Equal(t, model.ChallengeStatusPending, created["status"])

	t.Run("challenger cannot join own challenge", func(t *testing.T) {
		rec := env.post(t, aliceToken, "joinChallenge", map[string]interface{}{"challengeCode": code})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "SELF_CHALLENGE", decodeBody(t, rec)["code"])
	})

	// Codes are shared verbally, so lowercase input must work.
	rec = env.post(t, bobToken, "joinChallenge", map[string]interface{}{
		"challengeCode": strings.ToLower(code),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	joined := decodeBody(t, rec)["challenge"].(map[string]interface{})
	assert.Equal(t, model.ChallengeStatusPending, joined["status"])
	assert.Equal(t, "bob", joined["opponent_username"])

	t.Run("opponent cannot submit on challenger path", func(t *testing.T) {
		rec := env.post(t, bobToken, "submitChallengerScore", map[string]interface{}{
			"challengeId": challengeID,
			"score":       100,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	rec = env.post(t, aliceToken, "submitChallengerScore", map[string]interface{}{
		"challengeId": challengeID,
		"score":       1500,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	afterChallenger := decodeBody(t, rec)["challenge"].(map[string]interface{})
	assert.Equal(t, model.ChallengeStatusActive, afterChallenger["status"])
	assert.Equal(t, float64(1500), afterChallenger["challenger_score"])

	rec = env.post(t, bobToken, "submitOpponentScore", map[string]interface{}{
		"challengeId": challengeID,
		"score":       1700,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	completed := decodeBody(t, rec)["challenge"].(map[string]interface{})
	assert.Equal(t, model.ChallengeStatusCompleted, completed["status"])
	assert.Equal(t, float64(1500), completed["challenger_score"])
	assert.Equal(t, float64(1700), completed["opponent_score"])

	rec = env.post(t, bobToken, "getChallenges", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["challenges"].([]interface{})
	assert.Len(t, list, 1)
}

func TestSaveSessionAndLeaderboard(t *testing.T) {
	env := defaultTestEnv(t)
	aliceToken := env.registerUser(t, "alice@example.com", "alice")
	bobToken := env.registerUser(t, "bob@example.com", "bob")

	rec := env.post(t, aliceToken, "saveGameSession", map[string]interface{}{
		"gameMode":   "classic",
		"totalScore": 800,
		"isWinner":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(800), body["pointsEarned"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, float64(800), user["points"])
	assert.Equal(t, float64(1), user["gamesPlayed"])
	assert.Equal(t, float64(1), user["wins"])

	rec = env.post(t, bobToken, "saveGameSession", map[string]interface{}{
		"gameMode":   "classic",
		"totalScore": 950,
		"isWinner":   false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Leaderboard is public and ranked by score.
	rec = env.post(t, "", "getLeaderboard", map[string]interface{}{"limit": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody(t, rec)["leaderboard"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, float64(950), first["score"])
	assert.Equal(t, "bob", first["user"].(map[string]interface{})["username"])
}

func TestUpdateProfile(t *testing.T) {
	env := defaultTestEnv(t)
	token := env.registerUser(t, "alice@example.com", "alice")

	rec := env.post(t, token, "updateProfile", map[string]interface{}{
		"avatar": "https://cdn.example.com/a.png",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/a.png", user["avatar"])

	// An omitted avatar must leave the stored one untouched.
	rec = env.post(t, token, "updateProfile", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user = decodeBody(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/a.png", user["avatar"])
}

func TestTeamActions(t *testing.T) {
	env := defaultTestEnv(t)
	token := env.registerUser(t, "alice@example.com", "alice")

	rec := env.post(t, token, "saveTeam", map[string]interface{}{
		"teamName": "Quiz Wizards",
		"members": []map[string]string{
			{"id": "m1", "name": "Ana"},
			{"id": "m2", "name": "Ben"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	team := decodeBody(t, rec)["team"].(map[string]interface{})
	teamID := team["id"].(string)
	require.NotEmpty(t, teamID)

	rec = env.post(t, token, "updateTeam", map[string]interface{}{
		"teamId":   teamID,
		"teamName": "Quiz Legends",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)["team"].(map[string]interface{})
	assert.Equal(t, "Quiz Legends", updated["team_name"])
	assert.Len(t, updated["members"].([]interface{}), 2)

	// Another user must not see or touch the team.
	otherToken := env.registerUser(t, "mallory@example.com", "mallory")
	rec = env.post(t, otherToken, "deleteTeam", map[string]interface{}{"teamId": teamID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.post(t, token, "deleteTeam", map[string]interface{}{"teamId": teamID})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.post(t, token, "getTeams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["teams"])
}

// In-memory stores standing in for the GORM repositories. They reproduce the
// predicate behavior the services rely on, in particular owner scoping and
// RowsAffected-style not-found errors.

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]*model.User
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[string]*model.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	cp := *user
	f.rows[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []string) (map[string]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.User, len(ids))
	for _, id := range ids {
		if u, ok := f.rows[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (f *fakeUsers) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, id, avatar string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[id]; ok {
		u.Avatar = avatar
	}
	return nil
}

func (f *fakeUsers) RecordGameResult(_ context.Context, id string, points int, won bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TotalPoints += points
	u.GamesPlayed++
	if won {
		u.GamesWon++
	}
	return nil
}

func (f *fakeUsers) SpendPoints(_ context.Context, id string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok || u.TotalPoints < cost {
		return gorm.ErrRecordNotFound
	}
	u.TotalPoints -= cost
	return nil
}

type fakeChallenges struct {
	mu   sync.Mutex
	rows map[string]*model.Challenge
}

var _ repository.ChallengeRepository = (*fakeChallenges)(nil)

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{rows: make(map[string]*model.Challenge)}
}

func (f *fakeChallenges) Create(_ context.Context, challenge *model.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.ChallengeCode == challenge.ChallengeCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if challenge.ID == "" {
		challenge.ID = uuid.NewString()
	}
	challenge.CreatedAt = time.Now()
	if challenge.ExpiresAt.IsZero() {
		challenge.ExpiresAt = challenge.CreatedAt.Add(model.ChallengeExpiry)
	}
	cp := *challenge
	f.rows[challenge.ID] = &cp
	return nil
}

func (f *fakeChallenges) FindByID(_ context.Context, id string) (*model.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChallenges) FindByCode(_ context.Context, code string) (*model.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.ChallengeCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChallenges) ListForUser(_ context.Context, userID string) ([]model.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Challenge
	for _, c := range f.rows {
		if c.ChallengerID == userID || (c.OpponentID != nil && *c.OpponentID == userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeChallenges) SetOpponent(_ context.Context, id, opponentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || (c.OpponentID != nil && *c.OpponentID != opponentID) {
		return gorm.ErrRecordNotFound
	}
	c.OpponentID = &opponentID
	return nil
}

func (f *fakeChallenges) RecordChallengerResult(_ context.Context, id, challengerID string, score int, results model.RoundResults, members model.TeamMembers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.ChallengerID != challengerID {
		return gorm.ErrRecordNotFound
	}
	c.ChallengerScore = &score
	c.ChallengerRoundResults = results
	c.ChallengerTeamMembers = members
	c.Status = model.ChallengeStatusActive
	return nil
}

func (f *fakeChallenges) RecordOpponentResult(_ context.Context, id, opponentID string, score int, results model.RoundResults, members model.TeamMembers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.OpponentID == nil || *c.OpponentID != opponentID {
		return gorm.ErrRecordNotFound
	}
	c.OpponentScore = &score
	c.OpponentRoundResults = results
	c.OpponentTeamMembers = members
	c.Status = model.ChallengeStatusCompleted
	return nil
}

type fakeSessions struct {
	mu      sync.Mutex
	users   *fakeUsers
	rows    []model.GameSession
	entries []model.LeaderboardEntry
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func newFakeSessions(users *fakeUsers) *fakeSessions {
	return &fakeSessions{users: users}
}

func (f *fakeSessions) Create(_ context.Context, session *model.GameSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = time.Now()
	f.rows = append(f.rows, *session)
	return nil
}

func (f *fakeSessions) ListByUser(_ context.Context, userID string, limit, offset int) ([]model.GameSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.GameSession
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) CreateLeaderboardEntry(_ context.Context, entry *model.LeaderboardEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = uint(len(f.entries) + 1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeSessions) TopEntries(_ context.Context, since *time.Time, limit int) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.LeaderboardEntry
	for _, e := range f.entries {
		if since != nil && e.CreatedAt.Before(*since) {
			continue
		}
		if u, ok := f.users.rows[e.UserID]; ok {
			e.User = *u
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTeams struct {
	mu   sync.Mutex
	rows map[string]*model.Team
}

var _ repository.TeamRepository = (*fakeTeams)(nil)

func newFakeTeams() *fakeTeams {
	return &fakeTeams{rows: make(map[string]*model.Team)}
}

func (f *fakeTeams) Create(_ context.Context, team *model.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	cp := *team
	f.rows[team.ID] = &cp
	return nil
}

func (f *fakeTeams) ListByOwner(_ context.Context, ownerID string) ([]model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Team
	for _, t := range f.rows {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTeams) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.rows {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTeams) FindByIDAndOwner(_ context.Context, id, ownerID string) (*model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeams) Update(_ context.Context, id, ownerID string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["team_name"].(string); ok {
		t.TeamName = name
	}
	if members, ok := updates["members"].(model.TeamMembers); ok {
		t.Members = members
	}
	if at, ok := updates["updated_at"].(time.Time); ok {
		t.UpdatedAt = at
	}
	return nil
}

func (f *fakeTeams) Delete(_ context.Context, id, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok || t.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakePrizes struct {
	mu   sync.Mutex
	rows []model.PrizeRedemption
}

var _ repository.PrizeRepository = (*fakePrizes)(nil)

func (f *fakePrizes) Create(_ context.Context, redemption *model.PrizeRedemption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	redemption.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *redemption)
	return nil
}

type fakePractice struct {
	mu   sync.Mutex
	rows []model.PracticeProgress
}

var _ repository.PracticeRepository = (*fakePractice)(nil)

func (f *fakePractice) Create(_ context.Context, progress *model.PracticeProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	progress.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *progress)
	return nil
}

func (f *fakePractice) ListByUser(_ context.Context, userID string) ([]model.PracticeProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PracticeProgress
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
