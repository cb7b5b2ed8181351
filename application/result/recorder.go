package result

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"ecommerce_automation/domain/entities"
	"ecommerce_automation/infrastructure/logging"
	"ecommerce_automation/infrastructure/security"
)

// Recorder runs checks, logs their outcome and remembers the status of the last one.
// Checks never return an error for a failed expectation, callers read StepStatus instead.
type Recorder struct {
	mu     sync.Mutex
	logger logrus.FieldLogger
	status bool
}

// NewRecorder - creates a recorder logging through logger
func NewRecorder(logger logrus.FieldLogger) *Recorder {
	return &Recorder{logger: logging.Component(logger, "result")}
}

// StepStatus - reports whether the most recent check passed
func (r *Recorder) StepStatus() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Recorder) record(passed bool, msg, details string) entities.StepResult {
	step := entities.StepResult{
		Passed:  passed,
		Message: security.MaskSecrets(msg),
		Details: security.MaskSecrets(details),
	}

	r.mu.Lock()
	r.status = passed
	r.mu.Unlock()

	if passed {
		r.logger.Infof("PASSED - %s", step.Message)
	} else {
		r.logger.Errorf("FAILED - %s", step.Message)
		if step.Details != "" {
			r.logger.Error(step.Details)
		}
	}
	return step
}

// Pass - records a step that succeeded without a comparison
func (r *Recorder) Pass(msg string) entities.StepResult {
	return r.record(true, msg, "")
}

// Fail - records a step that failed without a comparison
func (r *Recorder) Fail(msg, details string) entities.StepResult {
	return r.record(false, msg, details)
}

// CheckEqual - passes when actual deeply equals expected
func (r *Recorder) CheckEqual(actual, expected any, msg string) entities.StepResult {
	if reflect.DeepEqual(actual, expected) {
		return r.record(true, msg, "")
	}

	details := fmt.Sprintf("Expected: '%v', but got: '%v'.", expected, actual)
	if at, et := reflect.TypeOf(actual), reflect.TypeOf(expected); at != et {
		details += fmt.Sprintf(" Different types variables, actual_value type %v != expected_value %v", at, et)
	}
	return r.record(false, msg, details)
}

// CheckNotEqual - passes when actual differs from expected
func (r *Recorder) CheckNotEqual(actual, expected any, msg string) entities.StepResult {
	if !reflect.DeepEqual(actual, expected) {
		return r.record(true, msg, "")
	}
	return r.record(false, msg, fmt.Sprintf("Expected NOT to be: '%v', but got: '%v'.", expected, actual))
}

// CheckLessEqual - passes when actual does not exceed limit
func CheckLessEqual[T cmp.Ordered](r *Recorder, actual, limit T, msg string) entities.StepResult {
	if cmp.Compare(actual, limit) <= 0 {
		return r.record(true, msg, "")
	}
	return r.record(false, msg, fmt.Sprintf("Expected at most: '%v', but got: '%v'.", limit, actual))
}

// CheckNoError - passes when fn returns normally
func (r *Recorder) CheckNoError(msg string, fn func() error) entities.StepResult {
	_, step := CheckNoException(r, msg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return step
}

// CheckNoException - runs fn and passes when it neither fails nor panics.
// A failed step hands back the zero value of T, never a partial result.
func CheckNoException[T any](r *Recorder, msg string, fn func() (T, error)) (T, entities.StepResult) {
	value, err := call(fn)
	if err != nil {
		var zero T
		return zero, r.record(false, msg, fmt.Sprintf("The call raised an exception: %v.", err))
	}
	return value, r.record(true, msg, "")
}

// CheckNoGivenException - runs fn and fails the step when it fails with one of allowed.
// Any other failure is recorded too and returned to the caller. Failures hand back the zero value.
func CheckNoGivenException[T any](r *Recorder, msg string, allowed []error, fn func() (T, error)) (T, entities.StepResult, error) {
	value, err := call(fn)
	if err == nil {
		return value, r.record(true, msg, ""), nil
	}

	var zero T
	for _, target := range allowed {
		if errors.Is(err, target) {
			return zero, r.record(false, msg, fmt.Sprintf("The call raised a given exception: %v.", err)), nil
		}
	}
	return zero, r.record(false, msg, fmt.Sprintf("The call raised an unexpected exception: %v.", err)), err
}

// PanicError carries a value recovered from a panicking check
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func call[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	return fn()
}
