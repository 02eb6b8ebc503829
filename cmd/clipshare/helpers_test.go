package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeer(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"host and port", "10.0.0.2:9000", "10.0.0.2:9000", false},
		{"hostname", "desk.local:9000", "desk.local:9000", false},
		{"ipv6", "[::1]:9000", "[::1]:9000", false},
		{"missing port", "10.0.0.2", "", true},
		{"missing host", ":9000", "", true},
		{"bad port", "10.0.0.2:nope", "", true},
		{"port out of range", "10.0.0.2:70000", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePeer(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListenPort(t *testing.T) {
	assert.NoError(t, parseListenPort(9000))
	assert.NoError(t, parseListenPort(1))
	assert.NoError(t, parseListenPort(65535))
	assert.Error(t, parseListenPort(0))
	assert.Error(t, parseListenPort(-1))
	assert.Error(t, parseListenPort(65536))
}

func TestIntervalDuration(t *testing.T) {
	d, err := intervalDuration(1.0)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	d, err = intervalDuration(0.25)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	_, err = intervalDuration(0)
	assert.Error(t, err)
	_, err = intervalDuration(-1)
	assert.Error(t, err)
}
