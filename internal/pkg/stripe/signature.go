package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is how far a webhook timestamp may drift before the
// signature is rejected
const DefaultTolerance = 5 * time.Minute

// signedHeader is a parsed Stripe-Signature header
type signedHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

// parseSignatureHeader parses "t=<unix>,v1=<hex>[,v1=<hex>...]"
func parseSignatureHeader(header string) (*signedHeader, error) {
	if header == "" {
		return nil, fmt.Errorf("signature header is empty")
	}

	sh := &signedHeader{}
	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed signature header")
		}
		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid signature timestamp: %w", err)
			}
			sh.timestamp = time.Unix(ts, 0)
		case "v1":
			sig, err := hex.DecodeString(parts[1])
			if err != nil {
				continue // ignore undecodable signatures, same as stripe-go
			}
			sh.signatures = append(sh.signatures, sig)
		}
	}

	if sh.timestamp.IsZero() {
		return nil, fmt.Errorf("signature header missing timestamp")
	}
	if len(sh.signatures) == 0 {
		return nil, fmt.Errorf("signature header missing v1 signature")
	}

	return sh, nil
}

// computeSignature computes HMAC-SHA256 over "<unix timestamp>.<payload>"
func computeSignature(t time.Time, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", t.Unix(), payload)
	return mac.Sum(nil)
}

// VerifySignature validates a webhook payload against its Stripe-Signature
// header. Returns false when the secret is unconfigured, the header is
// malformed, the timestamp is outside tolerance, or no signature matches.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration) bool {
	if secret == "" {
		return false
	}

	sh, err := parseSignatureHeader(header)
	if err != nil {
		return false
	}

	if tolerance > 0 {
		drift := time.Since(sh.timestamp)
		if drift < 0 {
			drift = -drift
		}
		if drift > tolerance {
			return false
		}
	}

	expected := computeSignature(sh.timestamp, payload, secret)
	for _, sig := range sh.signatures {
		if hmac.Equal(expected, sig) {
			return true
		}
	}
	return false
}

// SignPayload produces a Stripe-Signature header value for a payload.
// Used by tests and local tooling.
func SignPayload(payload []byte, secret string, t time.Time) string {
	sig := computeSignature(t, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(sig))
}
