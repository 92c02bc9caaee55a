package booth

import (
	"testing"
	"time"
)

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{in: "", want: FailAbort},
		{in: "abort", want: FailAbort},
		{in: "skip", want: FailSkip},
		{in: "retry", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFailurePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFailurePolicy() error = %v", err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFailurePolicy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShortCode(t *testing.T) {
	code := ShortCode("bk-formal-", time.Date(2024, 6, 1, 9, 5, 7, 0, time.UTC))
	if code != "bk-formal-090507" {
		t.Errorf("ShortCode() = %q", code)
	}
}
