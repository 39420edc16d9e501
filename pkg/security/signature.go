package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingSignature  = errors.New("missing webhook signature")
	ErrMalformedSig      = errors.New("malformed webhook signature")
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
	ErrSignatureExpired  = errors.New("webhook signature timestamp outside tolerance")
)

// SignatureHeader carries "t=<unix>,v1=<hex hmac>".
const SignatureHeader = "X-Webhook-Signature"

// SignPayload returns the header value for payload signed at ts.
func SignPayload(secret string, ts time.Time, payload []byte) string {
	unix := strconv.FormatInt(ts.Unix(), 10)
	return fmt.Sprintf("t=%s,v1=%s", unix, computeMAC(secret, unix, payload))
}

// VerifySignature checks header against payload. The MAC covers "<t>.<payload>".
func VerifySignature(secret, header string, payload []byte, now time.Time, tolerance time.Duration) error {
	if header == "" {
		return ErrMissingSignature
	}

	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedSig
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return ErrMalformedSig
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMalformedSig
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(unix, 0))
		if age < 0 {
			age = -age
		}
		if age > tolerance {
			return ErrSignatureExpired
		}
	}

	expected, _ := hex.DecodeString(computeMAC(secret, ts, payload))
	for _, s := range sigs {
		got, err := hex.DecodeString(s)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

func computeMAC(secret, ts string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
