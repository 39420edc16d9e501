package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered     EventType = "rate_limit_triggered"
	EventUnauthorizedAccess     EventType = "unauthorized_access"
	EventForbiddenAccess        EventType = "forbidden_access"
	EventInvalidWebhookSig      EventType = "invalid_webhook_signature"
	EventRoleChanged            EventType = "role_changed"
	EventAnalysisRegenerated    EventType = "analysis_regenerated"
	EventPrivilegeEscalationTry EventType = "privilege_escalation_attempt"
)

// SecurityEvent is one audit record.
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // masked or hashed
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger writes audit events through zap, separate from the
// application's slog output.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewSecurityLogger builds a production zap logger writing JSON to stdout.
func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewSecurityLoggerWith(logger, serviceName, environment)
}

// NewSecurityLoggerWith wraps an existing zap logger.
func NewSecurityLoggerWith(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// Nop discards everything.
func Nop() *SecurityLogger {
	return NewSecurityLoggerWith(zap.NewNop(), "", "")
}

// Log is a no-op on a nil logger.
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	level := zapcore.WarnLevel
	switch event.Event {
	case EventRoleChanged, EventAnalysisRegenerated:
		level = zapcore.InfoLevel
	case EventPrivilegeEscalationTry, EventInvalidWebhookSig:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventUnauthorizedAccess,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogForbidden(ctx context.Context, userID, ip, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventForbiddenAccess,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogInvalidWebhookSignature(ctx context.Context, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventInvalidWebhookSig,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogRoleChanged(ctx context.Context, actorID, targetID, role string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRoleChanged,
		SubjectType:  "user_id",
		SubjectValue: HashValue(targetID),
		Details:      map[string]interface{}{"actor": HashValue(actorID), "role": role},
	})
}

func (sl *SecurityLogger) LogPrivilegeEscalation(ctx context.Context, email, requestedRole string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventPrivilegeEscalationTry,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		Details:      map[string]interface{}{"requested_role": requestedRole},
	})
}

func (sl *SecurityLogger) LogAnalysisRegenerated(ctx context.Context, actorID string, interviewID int64) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventAnalysisRegenerated,
		SubjectType:  "user_id",
		SubjectValue: HashValue(actorID),
		Details:      map[string]interface{}{"interview_id": interviewID},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	if sl == nil {
		return nil
	}
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[at:]
}

// HashValue returns a short SHA256 prefix so identifiers stay correlatable without being logged.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
