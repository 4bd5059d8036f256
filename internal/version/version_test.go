package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "dev", BuildTime: "unknown"}, "finplan dev"},
		{"go only", Info{Version: "1.2.0", BuildTime: "unknown", GoVersion: "go1.24.0"}, "finplan 1.2.0 (go1.24.0)"},
		{
			"full",
			Info{Version: "1.2.0", BuildTime: "2025-01-01", GoVersion: "go1.24.0", Revision: "0123456789abcdef", Modified: true},
			"finplan 1.2.0 (go1.24.0, 01234567+dirty, built 2025-01-01)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
}
