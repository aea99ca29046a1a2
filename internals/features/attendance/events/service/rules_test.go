package service

import (
	"testing"
	"time"
)

func TestWithinDedupWindowRule(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		other time.Time
		want  bool
	}{
		{"timestamp sama", base, true},
		{"59 detik setelah", base.Add(59 * time.Second), true},
		{"tepat 60 detik", base.Add(60 * time.Second), true},
		{"61 detik setelah", base.Add(61 * time.Second), false},
		{"59 detik sebelum", base.Add(-59 * time.Second), true},
		{"61 detik sebelum", base.Add(-61 * time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinDedupWindow(base, tt.other); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchAllowedIP(t *testing.T) {
	tests := []struct {
		name      string
		callerIP  string
		allowlist []string
		want      bool
	}{
		{"list kosong: semua boleh", "10.0.0.1", nil, true},
		{"match persis", "10.0.0.1", []string{"10.0.0.1"}, true},
		{"tidak ada yang cocok", "10.0.0.2", []string{"192.168.1.1"}, false},
		{"entry prefix cocok substring", "10.0.0.1", []string{"10.0.0."}, true},
		// perilaku longgar historis yang sengaja dipertahankan:
		// "0.0.0." adalah substring dari "10.0.0.1"
		{"entry longgar 0.0.0.", "10.0.0.1", []string{"0.0.0."}, true},
		// arah sebaliknya juga cocok: caller substring dari entry
		{"caller substring dari entry", "10.0.0.1", []string{"110.0.0.12"}, true},
		{"entry kosong dilewati", "10.0.0.1", []string{"", "10.0.0.1"}, true},
		{"hanya entry kosong: tidak cocok", "10.0.0.1", []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchAllowedIP(tt.callerIP, tt.allowlist); got != tt.want {
				t.Errorf("MatchAllowedIP(%q, %v) = %v, want %v", tt.callerIP, tt.allowlist, got, tt.want)
			}
		})
	}
}
