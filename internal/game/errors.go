package game

import "errors"

// Rejections returned by Round.Act and Game.Act. A rejected action leaves the
// game untouched.
var (
	ErrPlayingNonExtantCard      = errors.New("hand index out of range")
	ErrPassingWrongNumberOfCards = errors.New("a pass must name exactly 4 distinct cards")
	ErrIncorrectAction           = errors.New("action does not match the current phase")
	ErrNotTheCurrentPlayer       = errors.New("not this seat's turn")
	ErrCardIsNotLegalToPlay      = errors.New("card is not legal to play")
)

var errorKinds = map[error]string{
	ErrPlayingNonExtantCard:      "PlayingNonExtantCard",
	ErrPassingWrongNumberOfCards: "PassingWrongNumberOfCards",
	ErrIncorrectAction:           "IncorrectAction",
	ErrNotTheCurrentPlayer:       "NotTheCurrentPlayer",
	ErrCardIsNotLegalToPlay:      "CardIsNotLegalToPlay",
}

// ErrorKind returns the wire name of a rejection, or "" when err is not one.
func ErrorKind(err error) string {
	for sentinel, kind := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}

// IsRejection reports whether err is an action rejection rather than an
// internal failure.
func IsRejection(err error) bool {
	return ErrorKind(err) != ""
}
