package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGooglifyResultSuccess(t *testing.T) {
	require.False(t, (&GooglifyResult{State: StateDecodeFailed}).Success())
	require.True(t, (&GooglifyResult{State: StateNoFacesFound}).Success())
	require.True(t, (&GooglifyResult{State: StateNoEyesFound}).Success())
	require.True(t, (&GooglifyResult{State: StateEncodedResult}).Success())
}

func TestGooglifyResultModified(t *testing.T) {
	require.True(t, (&GooglifyResult{State: StateEncodedResult}).Modified())
	require.False(t, (&GooglifyResult{State: StateNoEyesFound}).Modified())
}
