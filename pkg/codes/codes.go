package codes

import (
	"fmt"

	"github.com/yola1107/kratos/v2/errors"
)

// 业务错误闭集. Reason 与客户端约定, 不可随意改名.
const (
	ReasonNotYourTurn           = "NOT_YOUR_TURN"
	ReasonAlreadyDrawn          = "ALREADY_DRAWN"
	ReasonMustDiscardToFinish   = "MUST_DISCARD_TO_FINISH"
	ReasonPendingDiscardAction  = "PENDING_DISCARD_ACTION"
	ReasonDeckEmpty             = "DECK_EMPTY"
	ReasonInvalidCardAction     = "INVALID_CARD_ACTION"
	ReasonGameRuleViolation     = "GAME_RULE_VIOLATION"
	ReasonInvalidMeld           = "INVALID_MELD"
	ReasonEmptyDiscard          = "EMPTY_DISCARD"
	ReasonLobbyFull             = "LOBBY_FULL"
	ReasonPlayerBanned          = "PLAYER_BANNED"
	ReasonNotLobbyHost          = "NOT_LOBBY_HOST"
	ReasonNotKickYourSelf       = "NOT_KICK_YOUR_SELF"
	ReasonRoomNotFound          = "ROOM_NOT_FOUND"
	ReasonLobbyNotFound         = "LOBBY_NOT_FOUND"
	ReasonNotEnoughPlayers      = "NOT_ENOUGH_PLAYERS"
	ReasonUserOffline           = "USER_OFFLINE"
	ReasonUserInGame            = "USER_IN_GAME"
	ReasonUserInLobby           = "USER_IN_LOBBY"
	ReasonGuestInviteUsed       = "GUEST_INVITE_USED"
	ReasonRegisteredUserAsGuest = "REGISTERED_USER_AS_GUEST"
	ReasonValidationFailed      = "VALIDATION_FAILED"
	ReasonOperationFailed       = "OPERATION_FAILED"
	ReasonNotFound              = "NOT_FOUND"
)

func newError(code int, reason, format string, args ...interface{}) *errors.Error {
	return errors.New(code, reason, fmt.Sprintf(format, args...))
}

func is(err error, code int32, reason string) bool {
	if err == nil {
		return false
	}
	e := errors.FromError(err)
	return e.Reason == reason && e.Code == code
}

/*
	游戏规则类 400
*/

func ErrorNotYourTurn(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonNotYourTurn, format, args...)
}
func IsNotYourTurn(err error) bool { return is(err, 400, ReasonNotYourTurn) }

func ErrorAlreadyDrawn(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonAlreadyDrawn, format, args...)
}
func IsAlreadyDrawn(err error) bool { return is(err, 400, ReasonAlreadyDrawn) }

func ErrorMustDiscardToFinish(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonMustDiscardToFinish, format, args...)
}
func IsMustDiscardToFinish(err error) bool { return is(err, 400, ReasonMustDiscardToFinish) }

func ErrorPendingDiscardAction(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonPendingDiscardAction, format, args...)
}
func IsPendingDiscardAction(err error) bool { return is(err, 400, ReasonPendingDiscardAction) }

func ErrorDeckEmpty(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonDeckEmpty, format, args...)
}
func IsDeckEmpty(err error) bool { return is(err, 400, ReasonDeckEmpty) }

func ErrorInvalidCardAction(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonInvalidCardAction, format, args...)
}
func IsInvalidCardAction(err error) bool { return is(err, 400, ReasonInvalidCardAction) }

func ErrorGameRuleViolation(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonGameRuleViolation, format, args...)
}
func IsGameRuleViolation(err error) bool { return is(err, 400, ReasonGameRuleViolation) }

func ErrorInvalidMeld(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonInvalidMeld, format, args...)
}
func IsInvalidMeld(err error) bool { return is(err, 400, ReasonInvalidMeld) }

func ErrorEmptyDiscard(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonEmptyDiscard, format, args...)
}
func IsEmptyDiscard(err error) bool { return is(err, 400, ReasonEmptyDiscard) }

/*
	大厅/房间类
*/

func ErrorLobbyFull(format string, args ...interface{}) *errors.Error {
	return newError(409, ReasonLobbyFull, format, args...)
}
func IsLobbyFull(err error) bool { return is(err, 409, ReasonLobbyFull) }

func ErrorPlayerBanned(format string, args ...interface{}) *errors.Error {
	return newError(403, ReasonPlayerBanned, format, args...)
}
func IsPlayerBanned(err error) bool { return is(err, 403, ReasonPlayerBanned) }

func ErrorNotLobbyHost(format string, args ...interface{}) *errors.Error {
	return newError(403, ReasonNotLobbyHost, format, args...)
}
func IsNotLobbyHost(err error) bool { return is(err, 403, ReasonNotLobbyHost) }

func ErrorNotKickYourSelf(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonNotKickYourSelf, format, args...)
}
func IsNotKickYourSelf(err error) bool { return is(err, 400, ReasonNotKickYourSelf) }

func ErrorRoomNotFound(format string, args ...interface{}) *errors.Error {
	return newError(404, ReasonRoomNotFound, format, args...)
}
func IsRoomNotFound(err error) bool { return is(err, 404, ReasonRoomNotFound) }

func ErrorLobbyNotFound(format string, args ...interface{}) *errors.Error {
	return newError(404, ReasonLobbyNotFound, format, args...)
}
func IsLobbyNotFound(err error) bool { return is(err, 404, ReasonLobbyNotFound) }

func ErrorNotEnoughPlayers(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonNotEnoughPlayers, format, args...)
}
func IsNotEnoughPlayers(err error) bool { return is(err, 400, ReasonNotEnoughPlayers) }

/*
	状态/邀请类
*/

func ErrorUserOffline(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonUserOffline, format, args...)
}
func IsUserOffline(err error) bool { return is(err, 400, ReasonUserOffline) }

func ErrorUserInGame(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonUserInGame, format, args...)
}
func IsUserInGame(err error) bool { return is(err, 400, ReasonUserInGame) }

func ErrorUserInLobby(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonUserInLobby, format, args...)
}
func IsUserInLobby(err error) bool { return is(err, 400, ReasonUserInLobby) }

func ErrorGuestInviteUsed(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonGuestInviteUsed, format, args...)
}
func IsGuestInviteUsed(err error) bool { return is(err, 400, ReasonGuestInviteUsed) }

func ErrorRegisteredUserAsGuest(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonRegisteredUserAsGuest, format, args...)
}
func IsRegisteredUserAsGuest(err error) bool { return is(err, 400, ReasonRegisteredUserAsGuest) }

func ErrorValidationFailed(format string, args ...interface{}) *errors.Error {
	return newError(400, ReasonValidationFailed, format, args...)
}
func IsValidationFailed(err error) bool { return is(err, 400, ReasonValidationFailed) }

func ErrorOperationFailed(format string, args ...interface{}) *errors.Error {
	return newError(500, ReasonOperationFailed, format, args...)
}
func IsOperationFailed(err error) bool { return is(err, 500, ReasonOperationFailed) }

func ErrorNotFound(format string, args ...interface{}) *errors.Error {
	return newError(404, ReasonNotFound, format, args...)
}
func IsNotFound(err error) bool { return is(err, 404, ReasonNotFound) }
