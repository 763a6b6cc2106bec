package domain

import (
	"testing"
	"time"
)

func TestComputeNet(t *testing.T) {
	r := PayrollRecord{BasePay: 500000, Allowances: 25000, Deductions: 60000}
	r.ComputeNet()
	if r.NetPay != 465000 {
		t.Errorf("Expected net 465000, got %d", r.NetPay)
	}

	// Deductions can exceed income; the net goes negative rather than clamping.
	r = PayrollRecord{BasePay: 100, Deductions: 150}
	r.ComputeNet()
	if r.NetPay != -50 {
		t.Errorf("Expected net -50, got %d", r.NetPay)
	}
}

func TestPeriodValid(t *testing.T) {
	tests := []struct {
		period Period
		want   bool
	}{
		{Period{2026, time.August}, true},
		{Period{2000, time.January}, true},
		{Period{2200, time.December}, true},
		{Period{1999, time.June}, false},
		{Period{2201, time.June}, false},
		{Period{2026, 0}, false},
		{Period{2026, 13}, false},
	}
	for _, tt := range tests {
		if got := tt.period.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestPeriodString(t *testing.T) {
	p := Period{Year: 2026, Month: time.March}
	if got := p.String(); got != "2026-03" {
		t.Errorf("Expected 2026-03, got %s", got)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleEmployee.Valid() {
		t.Error("Known roles should be valid")
	}
	if Role("intern").Valid() || Role("").Valid() {
		t.Error("Unknown roles should be invalid")
	}
}
