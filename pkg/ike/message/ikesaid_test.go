package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIkeSaIdClone(t *testing.T) {
	saId := NewIkeSaId(0x0102030405060708, 0x1112131415161718, true)

	clone := saId.Clone()
	require.True(t, saId.Equal(clone))

	clone.ResponderSPI = 0
	require.Equal(t, uint64(0x1112131415161718), saId.ResponderSPI)
	require.False(t, saId.Equal(clone))
}

func TestIkeSaIdEqual(t *testing.T) {
	saId := NewIkeSaId(1, 2, true)

	require.True(t, saId.Equal(NewIkeSaId(1, 2, true)))
	require.False(t, saId.Equal(NewIkeSaId(1, 2, false)))
	require.False(t, saId.Equal(NewIkeSaId(2, 2, true)))
	require.False(t, saId.Equal(nil))
}

func TestIkeSaIdString(t *testing.T) {
	saId := NewIkeSaId(0x0102030405060708, 0x1112131415161718, false)
	require.Equal(t, "0102030405060708_i 1112131415161718_r", saId.String())
}
