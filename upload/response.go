package upload

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/valyala/fastjson"
)

// locationKeys are probed in order on a JSON response body.
var locationKeys = []string{"url", "link", "fileUrl"}

// parseLocation extracts the uploaded archive's location from the
// server response: JSON url/link/fileUrl first, then a plain-text URL
// body, then the configured endpoint as a last resort. A body that
// claims to be JSON but does not parse is an invalid response.
func parseLocation(body []byte, fallback string) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback, nil
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		v, err := fastjson.ParseBytes(trimmed)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidServerResponse, err)
		}
		for _, key := range locationKeys {
			if s := v.GetStringBytes(key); len(s) > 0 {
				return string(s), nil
			}
		}
		return fallback, nil
	}

	if u, err := url.ParseRequestURI(string(trimmed)); err == nil &&
		(u.Scheme == "http" || u.Scheme == "https") {
		return u.String(), nil
	}
	return fallback, nil
}
