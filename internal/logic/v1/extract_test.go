package v1

import (
	"net/http"
	"testing"
)

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "bearer token",
			headers: map[string]string{"Authorization": "Bearer abc123"},
			want:    "abc123",
		},
		{
			name:    "session cookie",
			headers: map[string]string{"Cookie": "sid=xyz789"},
			want:    "xyz789",
		},
		{
			name: "bearer takes precedence over cookie",
			headers: map[string]string{
				"Authorization": "Bearer from-header",
				"Cookie":        "sid=from-cookie",
			},
			want: "from-header",
		},
		{
			name:    "named cookie among others",
			headers: map[string]string{"Cookie": "theme=dark; sid=xyz789; lang=en"},
			want:    "xyz789",
		},
		{
			name:    "wrong cookie name",
			headers: map[string]string{"Cookie": "session=xyz789"},
			want:    "",
		},
		{
			name:    "non-bearer authorization falls through to cookie",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz", "Cookie": "sid=xyz789"},
			want:    "xyz789",
		},
		{
			name:    "empty bearer falls through to cookie",
			headers: map[string]string{"Authorization": "Bearer ", "Cookie": "sid=xyz789"},
			want:    "xyz789",
		},
		{
			name:    "no credential",
			headers: map[string]string{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			if got := ExtractSessionID(h, "sid"); got != tt.want {
				t.Errorf("ExtractSessionID = %q, want %q", got, tt.want)
			}
		})
	}
}
