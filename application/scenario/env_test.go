package scenario

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_automation/application/result"
)

func TestEnvKeepsOnlyItsOwnSteps(t *testing.T) {
	logger, _ := test.NewNullLogger()
	recorder := result.NewRecorder(logger)
	first := &Env{Recorder: recorder, Logger: logger, Settings: DefaultSettings()}
	second := &Env{Recorder: recorder, Logger: logger, Settings: DefaultSettings()}

	require.NoError(t, first.do("Open login page", func() error { return nil }))
	assert.ErrorIs(t, second.equal(1, 2, "Cart count"), ErrStepFailed)

	steps := first.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "Open login page", steps[0].Message)
	assert.True(t, steps[0].Passed)

	steps = second.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, "Cart count", steps[0].Message)
	assert.False(t, steps[0].Passed)

	// the shared recorder only tracks the latest outcome
	assert.False(t, recorder.StepStatus())

	steps[0].Message = "changed"
	assert.Equal(t, "Cart count", second.Steps()[0].Message)
}

func TestReadReturnsZeroOnFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	env := &Env{Recorder: result.NewRecorder(logger), Logger: logger, Settings: DefaultSettings()}

	names, err := read(env, "Read cart items", func() ([]string, error) {
		return []string{"partial"}, assert.AnError
	})
	assert.ErrorIs(t, err, ErrStepFailed)
	assert.Nil(t, names)
	require.Len(t, env.Steps(), 1)
	assert.Contains(t, env.Steps()[0].Details, assert.AnError.Error())
}
