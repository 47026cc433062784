package util_test

import (
	"testing"

	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/sector-penalty/actors/util"
)

func TestRecoverAbort(t *testing.T) {
	run := func(f func()) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = util.RecoverAbort(r)
			}
		}()
		f()
		return nil
	}

	t.Run("holding assertion", func(t *testing.T) {
		assert.NoError(t, run(func() { util.AssertMsg(true, "never") }))
		assert.NoError(t, util.RecoverAbort(nil))
	})

	t.Run("failed assertion becomes an error", func(t *testing.T) {
		err := run(func() { util.AssertMsg(false, "bad value %d", 7) })
		require.Error(t, err)
		assert.Equal(t, exitcode.ErrIllegalArgument, exitcode.Unwrap(err, exitcode.Ok))
		assert.Contains(t, err.Error(), "bad value 7")
	})

	t.Run("other panics propagate", func(t *testing.T) {
		assert.PanicsWithValue(t, "boom", func() {
			_ = run(func() { panic("boom") })
		})
	})
}
