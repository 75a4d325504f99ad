package context

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIkeSaRegistersLocalSPI(t *testing.T) {
	ikeCtx := IkeSelf()

	ikeSa, err := ikeCtx.NewIkeSa(true)
	require.NoError(t, err)
	defer ikeCtx.DeleteIkeSa(ikeSa.LocalSPI)

	require.NotZero(t, ikeSa.LocalSPI)
	require.Equal(t, ikeSa.LocalSPI, ikeSa.SaId.InitiatorSPI)
	require.Zero(t, ikeSa.SaId.ResponderSPI)
	require.True(t, ikeSa.SaId.Initiator)

	loaded, ok := ikeCtx.IkeSaLoad(ikeSa.LocalSPI)
	require.True(t, ok)
	require.Same(t, ikeSa, loaded)
}

func TestNewIkeSaResponderRole(t *testing.T) {
	ikeCtx := IkeSelf()

	ikeSa, err := ikeCtx.NewIkeSa(false)
	require.NoError(t, err)
	defer ikeCtx.DeleteIkeSa(ikeSa.LocalSPI)

	require.Equal(t, ikeSa.LocalSPI, ikeSa.SaId.ResponderSPI)
	require.Zero(t, ikeSa.SaId.InitiatorSPI)
	require.False(t, ikeSa.SaId.Initiator)
}

func TestNewIkeSaUniqueSPIs(t *testing.T) {
	ikeCtx := IkeSelf()
	seen := make(map[uint64]bool)

	for i := 0; i < 64; i++ {
		ikeSa, err := ikeCtx.NewIkeSa(true)
		require.NoError(t, err)
		require.False(t, seen[ikeSa.LocalSPI])
		seen[ikeSa.LocalSPI] = true
	}

	for spi := range seen {
		ikeCtx.DeleteIkeSa(spi)
	}
}

func TestNextMessageIDSequence(t *testing.T) {
	ikeCtx := IkeSelf()

	ikeSa, err := ikeCtx.NewIkeSa(true)
	require.NoError(t, err)
	defer ikeCtx.DeleteIkeSa(ikeSa.LocalSPI)

	for want := uint32(0); want < 3; want++ {
		got, err := ikeSa.NextMessageID()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDeleteIkeSa(t *testing.T) {
	ikeCtx := IkeSelf()

	ikeSa, err := ikeCtx.NewIkeSa(true)
	require.NoError(t, err)

	ikeCtx.DeleteIkeSa(ikeSa.LocalSPI)

	_, ok := ikeCtx.IkeSaLoad(ikeSa.LocalSPI)
	require.False(t, ok)
}
