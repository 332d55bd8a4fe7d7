package cmd

import (
	"errors"

	"github.com/marcus/hours/internal/output"
	"github.com/marcus/hours/internal/scheduleclient"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
)

var (
	errScheduleNotFound = errors.New("schedule not found")
	errProtected        = errors.New("built-in schedule")
)

// errorCode classifies err for JSON output.
func errorCode(err error) string {
	switch {
	case errors.Is(err, errScheduleNotFound), errors.Is(err, scheduleclient.ErrNotFound):
		return output.ErrCodeNotFound
	case errors.Is(err, errProtected):
		return output.ErrCodeProtected
	case errors.Is(err, scheduleclient.ErrTransport):
		return output.ErrCodeTransport
	case errors.Is(err, timeofday.ErrFormat),
		errors.Is(err, validate.ErrOrder),
		errors.Is(err, validate.ErrAdjacency),
		errors.Is(err, validate.ErrNameRequired):
		return output.ErrCodeInvalidInput
	}
	return "error"
}

// reportError prints err in the requested format and returns it so RunE can
// pass it on.
func reportError(jsonOut bool, err error) error {
	if jsonOut {
		output.JSONError(errorCode(err), err.Error())
		return err
	}
	output.Error("%v", err)
	if errors.Is(err, scheduleclient.ErrTransport) && !errors.Is(err, scheduleclient.ErrNotFound) {
		output.Info("Check the server URL with: hours config get server.url")
	}
	return err
}
