package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"weather-udp/config"
)

func TestSentryZone(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"production", "prod"},
		{"development", "dev"},
		{"staging", "staging"},
	}

	for _, tt := range tests {
		cnf := config.Defaults()
		cnf.App.Env = tt.env
		assert.Equal(t, tt.want, sentryZone(cnf), tt.env)
	}
}
