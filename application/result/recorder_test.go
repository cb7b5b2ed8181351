package result

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_automation/domain/errs"
)

func newRecorder() (*Recorder, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewRecorder(logger), hook
}

func TestCheckEqual(t *testing.T) {
	r, hook := newRecorder()

	step := r.CheckEqual("https://www.saucedemo.com/inventory.html", "https://www.saucedemo.com/inventory.html", "Login redirects to inventory")
	assert.True(t, step.Passed)
	assert.True(t, r.StepStatus())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "PASSED - Login redirects to inventory", hook.LastEntry().Message)
	assert.Equal(t, "result", hook.LastEntry().Data["component"])

	step = r.CheckEqual(2, 3, "Cart count")
	assert.False(t, step.Passed)
	assert.False(t, r.StepStatus())
	assert.Equal(t, "Expected: '3', but got: '2'.", step.Details)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "FAILED - Cart count", entries[1].Message)
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
	assert.Equal(t, step.Details, entries[2].Message)
}

func TestCheckEqualTypeMismatch(t *testing.T) {
	r, _ := newRecorder()

	step := r.CheckEqual(int64(1), 1, "Counts match")
	assert.False(t, step.Passed)
	assert.Contains(t, step.Details, "Expected: '1', but got: '1'.")
	assert.Contains(t, step.Details, "Different types variables, actual_value type int64 != expected_value int")
}

func TestCheckEqualDeep(t *testing.T) {
	r, _ := newRecorder()

	assert.True(t, r.CheckEqual([]string{"a", "b"}, []string{"a", "b"}, "same slices").Passed)
	assert.False(t, r.CheckEqual([]string{"a", "b"}, []string{"b", "a"}, "different order").Passed)
}

func TestCheckNotEqual(t *testing.T) {
	r, _ := newRecorder()

	assert.True(t, r.CheckNotEqual(1, 2, "differs").Passed)
	assert.True(t, r.StepStatus())

	step := r.CheckNotEqual("x", "x", "same")
	assert.False(t, step.Passed)
	assert.Equal(t, "Expected NOT to be: 'x', but got: 'x'.", step.Details)
	assert.False(t, r.StepStatus())
}

func TestCheckLessEqual(t *testing.T) {
	r, _ := newRecorder()

	assert.True(t, CheckLessEqual(r, 2*time.Second, 10*time.Second, "login is fast").Passed)
	assert.True(t, CheckLessEqual(r, 10*time.Second, 10*time.Second, "login at the limit").Passed)

	step := CheckLessEqual(r, 3.5, 1.0, "too slow")
	assert.False(t, step.Passed)
	assert.Equal(t, "Expected at most: '1', but got: '3.5'.", step.Details)
}

func TestCheckNoException(t *testing.T) {
	r, _ := newRecorder()

	value, step := CheckNoException(r, "read count", func() (int, error) { return 3, nil })
	assert.Equal(t, 3, value)
	assert.True(t, step.Passed)
	assert.True(t, r.StepStatus())

	value, step = CheckNoException(r, "read count", func() (int, error) {
		return 7, errs.New(errs.ErrNotFound, "find", "class=shopping_cart_badge", errs.ErrNoSuchElement)
	})
	assert.Zero(t, value, "a failed read does not leak a partial result")
	assert.False(t, step.Passed)
	assert.False(t, r.StepStatus())
	assert.Contains(t, step.Details, "element not found")
}

func TestCheckNoExceptionRecoversPanics(t *testing.T) {
	r, _ := newRecorder()

	step := r.CheckNoError("explodes", func() error {
		panic("boom")
	})
	assert.False(t, step.Passed)
	assert.Contains(t, step.Details, "panic: boom")
	assert.False(t, r.StepStatus())

	assert.True(t, r.CheckNoError("fine", func() error { return nil }).Passed)
	assert.True(t, r.StepStatus())
}

func TestCheckNoGivenException(t *testing.T) {
	r, _ := newRecorder()
	allowed := []error{errs.ErrNotClickable, errs.ErrNotFound}

	value, step, err := CheckNoGivenException(r, "logout", allowed, func() (bool, error) {
		return true, errs.New(errs.ErrNotClickable, "click", "id=logout_sidebar_link", errs.ErrClickIntercepted)
	})
	assert.NoError(t, err)
	assert.False(t, value)
	assert.False(t, step.Passed)
	assert.False(t, r.StepStatus())

	unexpected := errors.New("driver crashed")
	_, step, err = CheckNoGivenException(r, "logout", allowed, func() (bool, error) {
		return false, unexpected
	})
	assert.ErrorIs(t, err, unexpected)
	assert.False(t, step.Passed)

	ok, step, err := CheckNoGivenException(r, "logout", allowed, func() (bool, error) { return true, nil })
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, step.Passed)
	assert.True(t, r.StepStatus())
}

func TestStepStatusIsLastCheckOnly(t *testing.T) {
	r, _ := newRecorder()
	assert.False(t, r.StepStatus(), "a fresh recorder has no passing step")

	r.CheckEqual(1, 2, "fails")
	r.CheckEqual(1, 1, "passes")
	assert.True(t, r.StepStatus())

	r.Fail("explicit failure", "")
	assert.False(t, r.StepStatus())
}

func TestMessagesAreRedacted(t *testing.T) {
	r, hook := newRecorder()

	step := r.CheckEqual("a", "b", "login with password: secret_sauce")
	assert.NotContains(t, step.Message, "secret_sauce")
	for _, e := range hook.AllEntries() {
		assert.NotContains(t, e.Message, "secret_sauce")
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	r, _ := newRecorder()

	var (
		wg     sync.WaitGroup
		passed sync.Map
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			step := r.CheckEqual(i%2, 0, "parity")
			passed.Store(i, step.Passed)
			_ = r.StepStatus()
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		got, ok := passed.Load(i)
		require.True(t, ok)
		assert.Equal(t, i%2 == 0, got)
	}
}
