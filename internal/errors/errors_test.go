package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcepack/sourcepack/internal/errors"
)

func TestNewReusesExistingStackTrace(t *testing.T) {
	t.Parallel()

	original := errors.New("boom")
	rewrapped := errors.New(original)

	assert.Same(t, original, rewrapped)
}

func TestErrorfCarriesStackTrace(t *testing.T) {
	t.Parallel()

	err := errors.Errorf("failed after %d attempts", 3)

	assert.EqualError(t, err, "failed after 3 attempts")
	assert.True(t, errors.ContainsStackTrace(err))
	assert.NotEmpty(t, errors.ErrorStack(err))
}

func TestWithStackTrace(t *testing.T) {
	t.Parallel()

	assert.NoError(t, errors.WithStackTrace(nil))

	base := fmt.Errorf("base failure")
	wrapped := errors.WithStackTrace(base)

	require.Error(t, wrapped)
	assert.True(t, errors.IsError(wrapped, base))
}

func TestWithStackTraceAndPrefix(t *testing.T) {
	t.Parallel()

	assert.NoError(t, errors.WithStackTraceAndPrefix(nil, "ignored"))

	base := fmt.Errorf("base failure")
	wrapped := errors.WithStackTraceAndPrefix(base, "while doing %s", "work")

	require.Error(t, wrapped)
	assert.EqualError(t, wrapped, "while doing work: base failure")
	assert.True(t, errors.IsError(wrapped, base))
}

func TestErrorWithExitCode(t *testing.T) {
	t.Parallel()

	err := errors.ErrorWithExitCode{Err: fmt.Errorf("fatal"), ExitCode: 3}

	assert.EqualError(t, err, "fatal")

	var target errors.ErrorWithExitCode
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, 3, target.ExitCode)
}

func TestRecover(t *testing.T) {
	t.Parallel()

	var recovered error

	func() {
		defer errors.Recover(func(cause error) {
			recovered = cause
		})

		panic("something broke")
	}()

	require.Error(t, recovered)
	assert.Contains(t, recovered.Error(), "something broke")
	assert.True(t, errors.ContainsStackTrace(recovered))
}

func TestMultiError(t *testing.T) {
	t.Parallel()

	var errs *errors.MultiError

	assert.NoError(t, errs.ErrorOrNil())

	errs = errs.Append(fmt.Errorf("first"))
	errs = errs.Append(fmt.Errorf("second"))

	err := errs.ErrorOrNil()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "* first")
	assert.Contains(t, err.Error(), "* second")
	assert.Len(t, errs.WrappedErrors(), 2)
}

func TestUnwrapMultiErrors(t *testing.T) {
	t.Parallel()

	first := fmt.Errorf("first")
	second := fmt.Errorf("second")

	errs := errors.UnwrapMultiErrors(errors.Join(first, second))

	require.Len(t, errs, 2)
	assert.Equal(t, first, errs[0])
	assert.Equal(t, second, errs[1])
}
