// Package validate holds the input rules shared by request payloads for
// every mutating action. Bounds exist to cap storage, not as exhaustive
// security controls.
package validate

import (
	"regexp"
	"strings"

	apperrors "finalexam/internal/errors"
	"finalexam/internal/model"
)

// ChallengeCodeAlphabet excludes easily-confused characters (I, L, O, 0, 1).
const ChallengeCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Field limits.
const (
	MaxEmailLength    = 255
	MaxUsernameLength = 50
	MaxPasswordLength = 128
	MinPasswordLength = 8
	MaxAvatarLength   = 500
	MaxTeamNameLength = 100
	MaxMemberField    = 100
	MaxDetailsLength  = 500
	MaxListEntries    = 10
	ChallengeCodeLen  = 6
)

var (
	emailPattern         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	challengeCodePattern = regexp.MustCompile(`^[` + ChallengeCodeAlphabet + `]{6}$`)
)

// String trims val and requires it to be non-empty and at most maxLen bytes.
func String(val, name string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return "", apperrors.NewValidation("%s is required", name)
	}
	if len(trimmed) > maxLen {
		return "", apperrors.NewValidation("%s exceeds max length of %d", name, maxLen)
	}
	return trimmed, nil
}

// Email applies the generic string check, then a simple local@domain.tld
// shape test.
func Email(val string) (string, error) {
	email, err := String(val, "email", MaxEmailLength)
	if err != nil {
		return "", err
	}
	if !emailPattern.MatchString(email) {
		return "", apperrors.NewValidation("invalid email format")
	}
	return email, nil
}

// IsEmail reports whether val already passes the email shape test.
func IsEmail(val string) bool {
	return emailPattern.MatchString(val)
}

// Password applies the generic string check plus the minimum length for
// registration.
func Password(val string) (string, error) {
	password, err := String(val, "password", MaxPasswordLength)
	if err != nil {
		return "", err
	}
	if len(password) < MinPasswordLength {
		return "", apperrors.NewValidation("password must be at least %d characters", MinPasswordLength)
	}
	return password, nil
}

// ChallengeCode validates a 6-character code from the unambiguous alphabet.
// Input is case-insensitive; the returned code is uppercase.
func ChallengeCode(val string) (string, error) {
	code, err := String(val, "challengeCode", ChallengeCodeLen)
	if err != nil {
		return "", err
	}
	code = strings.ToUpper(code)
	if !challengeCodePattern.MatchString(code) {
		return "", apperrors.NewValidation("invalid challenge code format")
	}
	return code, nil
}

// IsChallengeCode reports whether val is a valid code, ignoring case.
func IsChallengeCode(val string) bool {
	return challengeCodePattern.MatchString(strings.ToUpper(val))
}

// TeamMembers bounds the member list and defensively truncates each field
// instead of rejecting oversized values.
func TeamMembers(members []model.TeamMember) (model.TeamMembers, error) {
	if len(members) > MaxListEntries {
		return nil, apperrors.NewValidation("maximum %d members allowed", MaxListEntries)
	}
	out := make(model.TeamMembers, 0, len(members))
	for i, m := range members {
		if m.ID == "" || m.Name == "" {
			return nil, apperrors.NewValidation("invalid member at index %d", i)
		}
		out = append(out, model.TeamMember{
			ID:     Truncate(m.ID, MaxMemberField),
			Name:   Truncate(m.Name, MaxMemberField),
			Avatar: Truncate(m.Avatar, MaxAvatarLength),
		})
	}
	return out, nil
}

// RoundResults bounds the result list and truncates details.
func RoundResults(results []model.RoundResult) (model.RoundResults, error) {
	if len(results) > MaxListEntries {
		return nil, apperrors.NewValidation("maximum %d round results allowed", MaxListEntries)
	}
	out := make(model.RoundResults, 0, len(results))
	for _, r := range results {
		out = append(out, model.RoundResult{
			Round:   r.Round,
			Score:   r.Score,
			Details: Truncate(r.Details, MaxDetailsLength),
		})
	}
	return out, nil
}

// Truncate cuts s to at most max bytes.
func Truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
