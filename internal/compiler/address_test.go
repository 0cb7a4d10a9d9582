package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, err)
	require.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", addr.String())

	// prefix is optional
	same, err := ParseAddress("5FbDB2315678afecb367f032d93F642f64180aa3")
	require.NoError(t, err)
	require.Equal(t, addr, same)
}

func TestParseAddressErrors(t *testing.T) {
	_, err := ParseAddress("0x1234")
	require.Error(t, err)

	_, err = ParseAddress("0x" + "zz" + "5FbDB2315678afecb367f032d93F642f64180a")
	require.Error(t, err)

	_, err = ParseAddress("")
	require.Error(t, err)
}
