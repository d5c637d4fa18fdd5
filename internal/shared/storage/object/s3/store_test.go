package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "acct/photo.png", want: "acct/photo.png"},
		{name: "simple prefix", prefix: "photos", key: "acct/photo.png", want: "photos/acct/photo.png"},
		{name: "prefix trailing slash", prefix: "photos/", key: "acct/photo.png", want: "photos/acct/photo.png"},
		{name: "prefix and key slashes", prefix: "/photos/", key: "/acct/photo.png", want: "photos/acct/photo.png"},
		{name: "nested prefix", prefix: "photos/prod", key: "acct/photo.png", want: "photos/prod/acct/photo.png"},
		{name: "empty key", prefix: "photos", key: "", want: "photos"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  ", want: ""},
		{in: "photos", want: "photos"},
		{in: " /photos/ ", want: "photos"},
		{in: "photos/prod/", want: "photos/prod"},
	}

	for _, tt := range tests {
		if got := normalizePrefix(tt.in); got != tt.want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
