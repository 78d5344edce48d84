package link

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesBridge(t *testing.T) {
	assert.True(t, MatchesBridge("HC-05 Serial Bridge"))
	assert.True(t, MatchesBridge("HC-06"))
	assert.True(t, MatchesBridge("Generic Bluetooth Adapter"))
	assert.False(t, MatchesBridge("FTDI USB UART"))
	assert.False(t, MatchesBridge(""))
}

func TestSelectPortPrefersLastBridge(t *testing.T) {
	candidates := []Candidate{
		{Name: "/dev/ttyUSB0", Description: "FTDI USB UART"},
		{Name: "/dev/rfcomm0", Description: "HC-05 Serial Bridge", Bridge: true},
		{Name: "/dev/rfcomm1", Description: "HC-06", Bridge: true},
	}

	var out strings.Builder
	name, err := SelectPort(candidates, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "/dev/rfcomm1", name)
	assert.Empty(t, out.String(), "bridge selection should not prompt")
}

func TestSelectPortPromptsWithoutBridge(t *testing.T) {
	candidates := []Candidate{
		{Name: "/dev/ttyUSB0", Description: "FTDI USB UART"},
		{Name: "/dev/ttyUSB1", Description: "CP2102 USB UART"},
	}

	var out strings.Builder
	name, err := SelectPort(candidates, strings.NewReader("1\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", name)
	assert.Contains(t, out.String(), "/dev/ttyUSB0")
	assert.Contains(t, out.String(), "/dev/ttyUSB1")
}

func TestSelectPortSkip(t *testing.T) {
	candidates := []Candidate{
		{Name: "/dev/ttyUSB0", Description: "FTDI USB UART"},
	}

	var out strings.Builder
	_, err := SelectPort(candidates, strings.NewReader("q\n"), &out)
	assert.ErrorIs(t, err, ErrNoPortSelected)
}

func TestSelectPortInvalidChoice(t *testing.T) {
	candidates := []Candidate{
		{Name: "/dev/ttyUSB0", Description: "FTDI USB UART"},
	}

	for _, choice := range []string{"5\n", "-1\n", "abc\n"} {
		var out strings.Builder
		_, err := SelectPort(candidates, strings.NewReader(choice), &out)
		assert.Error(t, err, "choice %q", choice)
	}
}

func TestSelectPortEmptyList(t *testing.T) {
	var out strings.Builder
	_, err := SelectPort(nil, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, ErrNoPortSelected)
}
