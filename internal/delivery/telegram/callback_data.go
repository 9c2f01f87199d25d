package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
	"github.com/aliskhannn/stepwise-bot/internal/service"
)

// maxCallbackDataLen is the Telegram limit for inline button payloads.
const maxCallbackDataLen = 64

// Callback action constants.
const (
	actionHome     = "home"
	actionOpen     = "open"
	actionSession  = "s"
	actionProgress = "progress"
	actionSettings = "settings"
	actionReset    = "reset"
)

// Session sub-actions.
const (
	sessionSelect       = "q"
	sessionNextQuestion = "nq"
	sessionGoTo         = "g"
	sessionAdvance      = "a"
	sessionPlayAudio    = "p"
	sessionSpeed        = "sp"
	sessionReveal       = "r"
	sessionNextSentence = "ns"
	sessionExit         = "x"
)

// Settings sub-actions.
const (
	settingsMenu        = "menu"
	settingsMode        = "mode"
	settingsSpeed       = "speed"
	settingsAutoAdvance = "auto"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// sessionTagLen is how many characters of the session ID go into callbacks.
const sessionTagLen = 8

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// sessionTag identifies a session in callback data so that buttons of an
// older session are recognised as stale.
func sessionTag(s *service.Session) string {
	return s.State().ID.String()[:sessionTagLen]
}

func buildHomeCallback() string {
	return actionHome
}

// buildOpenCallback opens the section at index in the flattened section list.
func buildOpenCallback(index int) string {
	return callbackData{
		Action: actionOpen,
		Params: []string{strconv.Itoa(index)},
	}.encode()
}

func buildSessionCallback(tag, subAction string, value ...string) string {
	params := []string{tag, subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionSession,
		Params: params,
	}.encode()
}

func buildSelectOptionCallback(tag string, optionIndex int) string {
	return buildSessionCallback(tag, sessionSelect, strconv.Itoa(optionIndex))
}

func buildGoToCallback(tag string, step entities.Step) string {
	return buildSessionCallback(tag, sessionGoTo, strconv.Itoa(int(step)))
}

func buildProgressCallback() string {
	return actionProgress
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string) string {
	return callbackData{
		Action: actionSettings,
		Params: []string{subAction},
	}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
