package processorapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader carries the webhook signature: "t=<unix>,v1=<hex hmac>"
// where the HMAC-SHA256 is computed over "<unix>.<payload>" with the shared
// webhook secret.
const SignatureHeader = "Processor-Signature"

// DefaultTolerance bounds how stale a signed timestamp may be.
const DefaultTolerance = 5 * time.Minute

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrSignatureExpired = errors.New("webhook signature timestamp outside tolerance")
	ErrMalformedHeader  = errors.New("malformed webhook signature header")
)

// Event is a processor webhook notification.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Event types this service reacts to.
const (
	EventIntentSucceeded    = "payment_intent.succeeded"
	EventIntentFailed       = "payment_intent.payment_failed"
	EventIntentCanceled     = "payment_intent.canceled"
	EventIntentActionNeeded = "payment_intent.requires_action"
)

// ConstructEvent verifies the signature header against the payload and
// secret, then parses the event. Any failure means the delivery must be
// rejected with a 400.
func ConstructEvent(payload []byte, header, secret string) (*Event, error) {
	if err := verifySignature(payload, header, secret, DefaultTolerance, time.Now()); err != nil {
		return nil, err
	}
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("error parsing webhook payload: %v", err)
	}
	return &event, nil
}

// ComputeSignature builds a valid signature header for a payload. Exported
// for use by tests and outbound simulators.
func ComputeSignature(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func verifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var ts int64
	var sigs [][]byte

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return ErrMalformedHeader
		}
		switch kv[0] {
		case "t":
			parsed, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return ErrMalformedHeader
			}
			ts = parsed
		case "v1":
			sig, err := hex.DecodeString(kv[1])
			if err != nil {
				return ErrMalformedHeader
			}
			sigs = append(sigs, sig)
		}
	}

	if ts == 0 || len(sigs) == 0 {
		return ErrMalformedHeader
	}

	signedAt := time.Unix(ts, 0)
	if signedAt.Before(now.Add(-tolerance)) || signedAt.After(now.Add(tolerance)) {
		return ErrSignatureExpired
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range sigs {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}
