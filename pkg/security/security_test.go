package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"type":"user.created"}`)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	header := SignPayload(secret, now, payload)

	tests := []struct {
		name    string
		header  string
		payload []byte
		now     time.Time
		wantErr error
	}{
		{"valid", header, payload, now, nil},
		{"valid within tolerance", header, payload, now.Add(4 * time.Minute), nil},
		{"missing", "", payload, now, ErrMissingSignature},
		{"malformed", "garbage", payload, now, ErrMalformedSig},
		{"no v1", "t=123", payload, now, ErrMalformedSig},
		{"tampered payload", header, []byte(`{"type":"user.deleted"}`), now, ErrSignatureMismatch},
		{"wrong secret", SignPayload("other", now, payload), payload, now, ErrSignatureMismatch},
		{"stale", header, payload, now.Add(10 * time.Minute), ErrSignatureExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(secret, tt.header, tt.payload, tt.now, 5*time.Minute)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifySignature_AcceptsAnyOfSeveralV1(t *testing.T) {
	now := time.Unix(1700000000, 0)
	payload := []byte("x")
	good := SignPayload("s", now, payload)
	header := "t=1700000000,v1=deadbeef," + good[len("t=1700000000,"):]

	require.NoError(t, VerifySignature("s", header, payload, now, time.Minute))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Len(t, HashValue("user-1"), 16)
}

func TestSecurityLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLoggerWith(zap.New(core), "interview-api", "test")

	sl.LogRateLimitTriggered(context.Background(), "10.0.0.1", "curl", "req-1", "/v1/interviews")
	sl.LogInvalidWebhookSignature(context.Background(), "10.0.0.2", "req-2", "mismatch")
	sl.LogRoleChanged(context.Background(), "admin-1", "user-2", "recruiter")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, string(EventRateLimitTriggered), entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
	assert.Equal(t, "interview-api", entries[2].ContextMap()["service"])
}
