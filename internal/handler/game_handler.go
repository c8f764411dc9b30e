package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"finalexam/internal/auth"
	apperrors "finalexam/internal/errors"
	"finalexam/internal/model"
	"finalexam/internal/ratelimit"
	"finalexam/internal/service"
)

// authErrorKey carries the token middleware's failure into the dispatcher so
// public actions can proceed without a token.
const authErrorKey = "auth_error"

// publicActions need no session token.
var publicActions = map[string]bool{
	"login":          true,
	"register":       true,
	"getLeaderboard": true,
}

// RateLimitPolicy bounds attempts for one action per client IP.
type RateLimitPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// GameHandler dispatches named actions from the single JSON endpoint.
type GameHandler struct {
	auth       service.AuthService
	games      service.GameService
	challenges service.ChallengeService
	teams      service.TeamService
	limiter    ratelimit.Limiter

	loginPolicy    RateLimitPolicy
	registerPolicy RateLimitPolicy
}

// NewGameHandler creates the action dispatcher.
func NewGameHandler(
	authService service.AuthService,
	gameService service.GameService,
	challengeService service.ChallengeService,
	teamService service.TeamService,
	limiter ratelimit.Limiter,
	loginPolicy, registerPolicy RateLimitPolicy,
) *GameHandler {
	return &GameHandler{
		auth:           authService,
		games:          gameService,
		challenges:     challengeService,
		teams:          teamService,
		limiter:        limiter,
		loginPolicy:    loginPolicy,
		registerPolicy: registerPolicy,
	}
}

// StoreAuthError is the echo-jwt error handler: it records the failure and
// lets the request continue so the dispatcher can decide per action.
func StoreAuthError(c echo.Context, err error) error {
	c.Set(authErrorKey, err)
	return nil
}

// Dispatch godoc
// @Summary Execute a named game action
// @Description Single JSON dispatcher. Protected actions require a session token in X-App-Token or Authorization.
// @Tags game
// @Accept json
// @Produce json
// @Param request body object true "{action, data}"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /game [post]
func (h *GameHandler) Dispatch(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return h.writeError(c, apperrors.NewValidation("invalid request body"))
	}
	if req.Action == "" {
		return h.writeError(c, apperrors.NewValidation("action is required"))
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage("{}")
	}

	// Auth guard: the token's userId is the only trusted actor identity.
	// Client-supplied ids in the payload are never used for authorization.
	userID := ""
	if !publicActions[req.Action] {
		claims, ok := c.Get("user").(*auth.Claims)
		if !ok || claims == nil {
			if tokenPresent(c.Request()) {
				return h.writeError(c, apperrors.ErrInvalidToken)
			}
			return h.writeError(c, apperrors.ErrAuthRequired)
		}
		userID = claims.UserID
	}

	// Rate limiting for credential actions, keyed by client IP.
	switch req.Action {
	case "login":
		if err := h.checkRateLimit(c, "login", h.loginPolicy,
			"too many login attempts, please try again later"); err != nil {
			return h.writeError(c, err)
		}
	case "register":
		if err := h.checkRateLimit(c, "register", h.registerPolicy,
			"too many registration attempts, please try again later"); err != nil {
			return h.writeError(c, err)
		}
	}

	ctx := c.Request().Context()

	switch req.Action {
	case "register":
		var payload registerRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		user, token, err := h.auth.Register(ctx, payload.Email, payload.Username, payload.Password, payload.Avatar)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"user": user.Public(), "token": token})

	case "login":
		var payload loginRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		user, token, err := h.auth.Login(ctx, payload.Email, payload.Password)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"user": user.Public(), "token": token})

	case "getLeaderboard":
		var payload leaderboardRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		rows, err := h.games.Leaderboard(ctx, payload.Period, payload.Limit)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"leaderboard": rows})

	case "saveGameSession":
		var payload saveGameSessionRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		points, user, err := h.games.SaveSession(ctx, userID, service.SaveSessionInput{
			GameMode:     payload.GameMode,
			TotalScore:   payload.TotalScore,
			RoundResults: payload.RoundResults,
			IsWinner:     payload.IsWinner,
			TeamMembers:  payload.TeamMembers,
		})
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"session":      echo.Map{"totalScore": payload.TotalScore},
			"pointsEarned": points,
			"user":         user.Public(),
		})

	case "getUserStats":
		stats, err := h.games.Stats(ctx, userID)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, stats)

	case "getGameHistory":
		var payload historyRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		sessions, err := h.games.History(ctx, userID, payload.Limit, payload.Offset)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})

	case "updateProfile":
		var payload updateProfileRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		user, err := h.games.UpdateAvatar(ctx, userID, payload.Avatar)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"user": user.Public()})

	case "redeemPrize":
		var payload redeemPrizeRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		user, err := h.games.RedeemPrize(ctx, userID, payload.PrizeID, payload.PrizeName, payload.PointsCost)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"user": user.Public()})

	case "savePracticeProgress":
		var payload practiceProgressRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		err := h.games.SavePracticeProgress(ctx, userID, &model.PracticeProgress{
			Subject:           payload.Subject,
			QuestionsAnswered: payload.QuestionsAnswered,
			CorrectAnswers:    payload.CorrectAnswers,
			TimeSpent:         payload.TimeSpent,
		})
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true})

	case "getPracticeStats":
		stats, err := h.games.PracticeStats(ctx, userID)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, stats)

	case "createChallenge":
		challenge, err := h.challenges.Create(ctx, userID)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"challenge": challenge})

	case "joinChallenge":
		var payload joinChallengeRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		challenge, err := h.challenges.Join(ctx, payload.ChallengeCode, userID)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"challenge": challenge})

	case "submitChallengerScore":
		var payload submitScoreRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		challenge, err := h.challenges.SubmitChallengerScore(ctx, payload.ChallengeID, userID,
			payload.Score, payload.RoundResults, payload.TeamMembers)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"challenge": challenge})

	case "submitOpponentScore":
		var payload submitScoreRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		challenge, err := h.challenges.SubmitOpponentScore(ctx, payload.ChallengeID, userID,
			payload.Score, payload.RoundResults, payload.TeamMembers)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"challenge": challenge})

	case "getChallenges":
		challenges, err := h.challenges.List(ctx, userID)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"challenges": challenges})

	case "getChallenge":
		var payload getChallengeRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		challenge, err := h.challenges.Get(ctx, payload.ChallengeID, payload.ChallengeCode)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"challenge": challenge})

	case "saveTeam":
		var payload saveTeamRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		team, err := h.teams.Save(ctx, userID, payload.TeamName, payload.Members)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"team": team})

	case "getTeams":
		teams, err := h.teams.List(ctx, userID)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"teams": teams})

	case "updateTeam":
		var payload updateTeamRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		var members []model.TeamMember
		if payload.Members != nil {
			members = *payload.Members
			if members == nil {
				members = []model.TeamMember{}
			}
		}
		team, err := h.teams.Update(ctx, userID, payload.TeamID, payload.TeamName, members)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"team": team})

	case "deleteTeam":
		var payload deleteTeamRequest
		if err := h.decode(c, req.Data, &payload); err != nil {
			return h.writeError(c, err)
		}
		if err := h.teams.Delete(ctx, userID, payload.TeamID); err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true})

	default:
		return h.writeError(c, apperrors.NewValidation("unknown action: %s", req.Action))
	}
}

// decode unmarshals the action payload and runs struct validation. Type
// mismatches and rule violations both surface as 400s.
func (h *GameHandler) decode(c echo.Context, data json.RawMessage, payload interface{}) error {
	if err := json.Unmarshal(data, payload); err != nil {
		return apperrors.NewValidation("invalid payload: %v", err)
	}
	if err := c.Validate(payload); err != nil {
		return apperrors.NewValidation("%v", err)
	}
	return nil
}

func (h *GameHandler) checkRateLimit(c echo.Context, action string, policy RateLimitPolicy, message string) error {
	key := action + ":" + c.RealIP()
	result := h.limiter.Check(c.Request().Context(), key, policy.MaxAttempts, policy.Window)
	if !result.Allowed {
		return &apperrors.RateLimitError{Message: message, RetryAfter: result.RetryAfter}
	}
	return nil
}

func (h *GameHandler) writeError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.RetryAfter > 0 {
		c.Response().Header().Set("Retry-After", strconv.Itoa(httpErr.RetryAfter))
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func tokenPresent(r *http.Request) bool {
	return r.Header.Get("X-App-Token") != "" || r.Header.Get(echo.HeaderAuthorization) != ""
}
