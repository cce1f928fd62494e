package validation

import (
	"net/url"
	"strings"
	"testing"
)

func FuzzValidateURL(f *testing.F) {
	f.Add("http://localhost:8080")
	f.Add("https://example.com")
	f.Add("javascript:alert('xss')")
	f.Add("http://localhost:8080; rm -rf /")
	f.Add("http://localhost:8080\r\nHost: malicious.com")
	f.Add("http://")
	f.Add("")

	f.Fuzz(func(t *testing.T, testURL string) {
		if err := ValidateURL(testURL); err != nil {
			return
		}

		parsed, err := url.Parse(testURL)
		if err != nil {
			t.Fatalf("accepted unparsable URL %q", testURL)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			t.Fatalf("accepted scheme %q", parsed.Scheme)
		}
		if strings.ContainsAny(testURL, ";&|`$ \n\r") {
			t.Fatalf("accepted dangerous URL %q", testURL)
		}
	})
}
