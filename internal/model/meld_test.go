package model

import "testing"

func TestIsValidMeld(t *testing.T) {
	tests := []struct {
		name  string
		cards []int32
		want  bool
	}{
		// Tercia
		{"tercia of three", []int32{107, 207, 307}, true},
		{"tercia of four", []int32{101, 201, 301, 401}, true},
		{"tercia unordered", []int32{412, 112, 212}, true},
		{"tercia duplicate suit", []int32{107, 107, 207}, false},
		{"tercia mixed ranks", []int32{107, 207, 306}, false},

		// Corrida
		{"corrida low", []int32{101, 102, 103}, true},
		{"corrida unordered", []int32{305, 303, 304}, true},
		{"corrida over the gap", []int32{106, 107, 110}, true},
		{"corrida gap to face", []int32{107, 110, 111, 112}, true},
		{"corrida full suit", []int32{201, 202, 203, 204, 205, 206, 207, 210, 211, 212}, true},
		{"corrida mixed suits", []int32{101, 202, 303}, false},
		{"corrida with hole", []int32{101, 102, 104}, false},
		{"corrida duplicate", []int32{101, 101, 102}, false},

		// 通用
		{"too short", []int32{107, 207}, false},
		{"empty", nil, false},
		{"invalid card", []int32{101, 102, 108}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMeld(tt.cards); got != tt.want {
				t.Errorf("IsValidMeld(%v) = %v, want %v", tt.cards, got, tt.want)
			}
		})
	}
}
