package multierr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go.senan.xyz/musicarchive/multierr"
)

func TestErr(t *testing.T) {
	t.Parallel()

	var errs multierr.Err
	require.NoError(t, errs.Or())

	errA := errors.New("a")
	errs.Add(errA)
	errs.Add(nil)
	errs.Add(errors.New("b"))
	require.Equal(t, 2, errs.Len())

	err := errs.Or()
	require.Error(t, err)
	require.ErrorIs(t, err, errA)
	require.Equal(t, "a\nb", err.Error())
}
