package internaldefs

import (
	goBroker "github.com/halworth/goBroker"
)

// CounterDef maps one counter to its stable exposition name.
type CounterDef struct {
	ID   goBroker.MetricID
	Name string
	Help string
}

// HistogramDef maps one histogram to its stable exposition name.
type HistogramDef struct {
	ID   goBroker.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: goBroker.MetricLoginSuccess, Name: "gobroker_login_success_total", Help: "Logins that completed with a full session."},
	{ID: goBroker.MetricLoginFailure, Name: "gobroker_login_failure_total", Help: "Failed login attempts."},
	{ID: goBroker.MetricChallengeIssued, Name: "gobroker_challenge_issued_total", Help: "Device challenges received during login."},
	{ID: goBroker.MetricChallengeResolved, Name: "gobroker_challenge_resolved_total", Help: "Device challenges passed."},
	{ID: goBroker.MetricChallengeFailed, Name: "gobroker_challenge_failed_total", Help: "Device challenges that exhausted their attempt budget."},
	{ID: goBroker.MetricMFARequired, Name: "gobroker_mfa_required_total", Help: "Logins that demanded an MFA code."},
	{ID: goBroker.MetricMFASuccess, Name: "gobroker_mfa_success_total", Help: "MFA resubmissions that yielded tokens."},
	{ID: goBroker.MetricMFAFailure, Name: "gobroker_mfa_failure_total", Help: "MFA resubmissions rejected by the server."},
	{ID: goBroker.MetricRefreshSuccess, Name: "gobroker_refresh_success_total", Help: "Token refreshes that rotated the pair."},
	{ID: goBroker.MetricRefreshFailure, Name: "gobroker_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: goBroker.MetricLogout, Name: "gobroker_logout_total", Help: "Logouts that cleared the session."},
	{ID: goBroker.MetricSessionDumped, Name: "gobroker_session_dumped_total", Help: "Session blobs written to the durable store."},
	{ID: goBroker.MetricSessionLoaded, Name: "gobroker_session_loaded_total", Help: "Sessions restored and validated live."},
	{ID: goBroker.MetricAPIError, Name: "gobroker_api_error_total", Help: "Non-2xx server responses across operations."},
	{ID: goBroker.MetricRequestError, Name: "gobroker_request_error_total", Help: "Transport-level failures across operations."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goBroker.MetricLoginLatency, Name: "gobroker_login_latency_seconds", Help: "End-to-end login latency histogram, operator input included."},
}

// HistogramBounds are the upper bucket bounds in seconds.
var HistogramBounds = []string{
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"1",
	"2.5",
	"10",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds as instrument-name-safe
// suffixes.
var HistogramBoundSuffix = []string{
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"2_5",
	"10",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into a cumulative series.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
