package camera

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dotted port",
			input:    "10.214.110.18.8080",
			expected: "http://10.214.110.18:8080",
		},
		{
			name:     "dotted port with path",
			input:    "192.168.0.5.81/shot.jpg",
			expected: "http://192.168.0.5:81/shot.jpg",
		},
		{
			name:     "scheme already present",
			input:    "http://cam.local/shot.jpg",
			expected: "http://cam.local/shot.jpg",
		},
		{
			name:     "https untouched",
			input:    "https://10.0.0.9:8443/video",
			expected: "https://10.0.0.9:8443/video",
		},
		{
			name:     "rtsp untouched",
			input:    "rtsp://10.0.0.9:554/stream",
			expected: "rtsp://10.0.0.9:554/stream",
		},
		{
			name:     "protocol-relative",
			input:    "//cam.local/shot.jpg",
			expected: "http://cam.local/shot.jpg",
		},
		{
			name:     "bare hostname",
			input:    "cam.local/shot.jpg",
			expected: "http://cam.local/shot.jpg",
		},
		{
			name:     "bare ip with colon port",
			input:    "10.0.0.5:8080",
			expected: "http://10.0.0.5:8080",
		},
		{
			name:     "surrounding whitespace",
			input:    "  10.0.0.5.8080  ",
			expected: "http://10.0.0.5:8080",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "   ",
		},
		{
			name:     "five groups is not a dotted port",
			input:    "10.1.2.3.4.8080",
			expected: "http://10.1.2.3.4.8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAddress(tt.input); got != tt.expected {
				t.Errorf("NormalizeAddress(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
