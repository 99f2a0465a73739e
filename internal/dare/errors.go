package dare

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	CodeRoomNotFound        Code = "ROOM_NOT_FOUND"
	CodeInvalidState        Code = "INVALID_STATE"
	CodeInsufficientPlayers Code = "INSUFFICIENT_PLAYERS"
	CodeRoundNotActive      Code = "ROUND_NOT_ACTIVE"
	CodePlayerNotFound      Code = "PLAYER_NOT_FOUND"
	CodeInvalidVote         Code = "INVALID_VOTE"
)

// Error is a lifecycle error. Operations that return one have not mutated state.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same code, so wrapped errors still classify.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewError creates an error with the given code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrRoomNotFound        = NewError(CodeRoomNotFound, "game not found")
	ErrInvalidState        = NewError(CodeInvalidState, "invalid game state")
	ErrInsufficientPlayers = NewError(CodeInsufficientPlayers, "not enough players")
	ErrRoundNotActive      = NewError(CodeRoundNotActive, "round not active")
	ErrPlayerNotFound      = NewError(CodePlayerNotFound, "player not found")
	ErrInvalidVote         = NewError(CodeInvalidVote, "vote must be YES or NO")
)

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
