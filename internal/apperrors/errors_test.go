package apperrors

import "testing"

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want bool
	}{
		{"network", NewNetwork("waxpeer", NetTimeout, "timed out", nil), true},
		{"rate_limited", New(KindRateLimited, "waxpeer", "too many requests", nil), true},
		{"http_429", NewHTTP("waxpeer", 429, "too many requests", nil), true},
		{"http_500", NewHTTP("waxpeer", 503, "unavailable", nil), true},
		{"http_404", NewHTTP("waxpeer", 404, "not found", nil), false},
		{"config", New(KindConfig, "", "bad config", nil), false},
		{"missing_key", MissingAPIKey("bitskins"), false},
		{"validation", New(KindValidation, "waxpeer", "bad item", nil), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Retryable(); got != tc.want {
				t.Errorf("Retryable() = %v, want %v", got, tc.want)
			}
			if got := Retryable(tc.err); got != tc.want {
				t.Errorf("package Retryable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestErrorIsKindMatch(t *testing.T) {
	a := New(KindParse, "empire", "bad json", nil)
	b := New(KindParse, "cstrade", "bad json too", nil)
	if !a.Is(b) {
		t.Error("expected errors with the same Kind to match via Is")
	}

	c := New(KindValidation, "empire", "dropped item", nil)
	if a.Is(c) {
		t.Error("expected errors with different Kind to not match via Is")
	}
}
