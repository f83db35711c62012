package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CI_TEST_STRING", "value")
	t.Setenv("CI_TEST_BLANK", "")
	t.Setenv("CI_TEST_INT", "-12")
	t.Setenv("CI_TEST_FLOAT", "1.5")
	t.Setenv("CI_TEST_DURATION", "1h30m")
	t.Setenv("CI_TEST_BOOL", "1")
	t.Setenv("CI_TEST_GARBAGE", "not-a-value")

	assert.Equal(t, "value", GetEnv("CI_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CI_TEST_BLANK", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CI_TEST_UNSET", "fallback"))

	assert.Equal(t, -12, GetEnvInt("CI_TEST_INT", 0))
	assert.Equal(t, 7, GetEnvInt("CI_TEST_GARBAGE", 7))

	assert.InDelta(t, 1.5, GetEnvFloat("CI_TEST_FLOAT", 0), 1e-9)
	assert.InDelta(t, 2.0, GetEnvFloat("CI_TEST_GARBAGE", 2.0), 1e-9)

	assert.Equal(t, 90*time.Minute, GetEnvDuration("CI_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("CI_TEST_GARBAGE", time.Second))
	assert.Equal(t, time.Minute, GetEnvDuration("CI_TEST_UNSET", time.Minute))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"true", false, true},
		{"FALSE", true, false},
		{"1", false, true},
		{"0", true, false},
		{"yes", true, true},
		{"yes", false, false},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CI_TEST_BOOL_FLAG", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("CI_TEST_BOOL_FLAG", tt.fallback))
		})
	}
}
