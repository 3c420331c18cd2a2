package engine

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the engine.
var (
	// ErrNoHeader means decode could not find a usable header row. The
	// load attempt is abandoned and prior session state is left untouched.
	ErrNoHeader = errors.New("no usable header row found")

	// ErrIndexOutOfRange means an edit or query addressed a record index
	// beyond the current collection. This signals a programming error in
	// the calling collaborator, not a user condition.
	ErrIndexOutOfRange = errors.New("record index out of range")

	// ErrUnknownColumn means an operation named a column outside the
	// fixed column set.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrPageSizeNotAllowed means a page size outside the configured set
	// was requested.
	ErrPageSizeNotAllowed = errors.New("page size not allowed")

	// ErrCountOutOfRange means a generate request exceeded the configured
	// maximum record count.
	ErrCountOutOfRange = errors.New("generate count out of range")
)

// UserMessage is a user-friendly error with a support code.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// errorMapping pairs an error predicate with its user message.
type errorMapping struct {
	match func(error) bool
	msg   UserMessage
}

func matchErr(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func matchSubstring(s string) func(error) bool {
	return func(err error) bool { return strings.Contains(strings.ToLower(err.Error()), s) }
}

var errorMappings = []errorMapping{
	{matchErr(ErrNoHeader), UserMessage{
		Code:    "LOAD001",
		Message: "The file has no recognizable header row",
		Action:  "Ensure the first row names the columns (Title, Author, Genre, PublishedYear, ISBN)",
	}},
	{matchErr(ErrIndexOutOfRange), UserMessage{
		Code:    "EDIT001",
		Message: "The record no longer exists",
		Action:  "Reload the current page and try again",
	}},
	{matchErr(ErrUnknownColumn), UserMessage{
		Code:    "EDIT002",
		Message: "Unknown column",
		Action:  "Edit one of the defined columns",
	}},
	{matchErr(ErrPageSizeNotAllowed), UserMessage{
		Code:    "VIEW001",
		Message: "That page size is not available",
		Action:  "Pick one of the offered page sizes",
	}},
	{matchErr(ErrCountOutOfRange), UserMessage{
		Code:    "GEN001",
		Message: "Too many records requested",
		Action:  "Request a smaller sample size",
	}},
	{matchSubstring("file too large"), UserMessage{
		Code:    "LOAD002",
		Message: "The file exceeds the maximum upload size",
		Action:  "Split the file into smaller chunks",
	}},
}

// MapError translates an engine error into a user-friendly message with a
// support code. Unrecognized errors map to a generic message so internal
// details never leak to the client.
func MapError(err error) UserMessage {
	for _, m := range errorMappings {
		if m.match(err) {
			return m.msg
		}
	}
	return UserMessage{
		Code:    "SYS001",
		Message: "Something went wrong",
		Action:  "Please try again",
	}
}
