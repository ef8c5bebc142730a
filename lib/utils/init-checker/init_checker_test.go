package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Name() string
}

type impl struct{}

func (*impl) Name() string { return "impl" }

func TestCheck(t *testing.T) {
	t.Run(`all initialized check`, func(t *testing.T) {
		var p provider = &impl{}
		require.NoError(t, Check("provider", p, "count", 0))
	})

	t.Run(`nil and typed nil check`, func(t *testing.T) {
		var p provider
		require.EqualError(t, Check("provider", p), "зависимость provider не инициализирована")

		var typed *impl
		p = typed
		require.Error(t, Check("ok", 1, "typed", p))
	})

	t.Run(`bad arguments check`, func(t *testing.T) {
		require.Error(t, Check("odd"))
		require.Error(t, Check(1, 2))
		require.Panics(t, func() { MustCheck("x", nil) })
	})
}
