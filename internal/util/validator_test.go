package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"valid small", "1", false},
		{"valid typical", "12000", false},
		{"valid fractional", "99.50", false},
		{"valid near cap", "9999999.99", false},
		{"zero", "0", true},
		{"negative", "-100", true},
		{"at cap", "10000000", true},
		{"above cap", "10000001", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%s) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"empty defaults to today", "", false},
		{"valid", "2024-01-31", false},
		{"valid leap day", "2024-02-29", false},
		{"wrong order", "31-01-2024", true},
		{"slashes", "2024/01/31", true},
		{"month out of range", "2024-13-01", true},
		{"not a date", "yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	long := make([]byte, 33)
	for i := range long {
		long[i] = 'a'
	}
	tests := []struct {
		name    string
		label   string
		wantErr bool
	}{
		{"valid", "Monday", false},
		{"max length", string(long[:32]), false},
		{"empty", "", true},
		{"too long", string(long), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.label)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			}
		})
	}
}
