package arduino

import (
	"errors"
	"fmt"
)

// Sentinel errors for the documented tool exit codes.
var (
	// arduino-builder exit codes 1-4.
	ErrBuildFailed       = errors.New("build failed")
	ErrSketchNotFound    = errors.New("sketch not found")
	ErrInvalidArguments  = errors.New("invalid build arguments")
	ErrUnknownPreference = errors.New("unknown build preference")

	// avrdude exit code 1.
	ErrFlashFailed = errors.New("flash failed")
)

// DeviceNotFoundError indicates that rediscovery after a touch reset could
// not locate the expected board among the visible peripherals.
type DeviceNotFoundError struct {
	Device string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found: expected %s to reappear after reset", e.Device)
}

// ExitCodeError indicates a tool exited with a code outside its documented
// range. It is surfaced rather than swallowed so an undocumented code never
// reads as success.
type ExitCodeError struct {
	Tool string
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("%s exited with unrecognized code %d", e.Tool, e.Code)
}

// SpawnError indicates a tool binary could not be started at all (missing
// executable, permission problem).
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// buildOutcome maps an arduino-builder exit code to an outcome.
func buildOutcome(code int) error {
	switch code {
	case 0:
		return nil
	case 1:
		return ErrBuildFailed
	case 2:
		return ErrSketchNotFound
	case 3:
		return ErrInvalidArguments
	case 4:
		return ErrUnknownPreference
	}
	return &ExitCodeError{Tool: "arduino-builder", Code: code}
}

// flashOutcome maps an avrdude exit code to an outcome.
func flashOutcome(code int) error {
	switch code {
	case 0:
		return nil
	case 1:
		return ErrFlashFailed
	}
	return &ExitCodeError{Tool: "avrdude", Code: code}
}
