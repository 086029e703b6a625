// Package urlparams extracts one query parameter value per distinct endpoint
// from a list of URLs.
package urlparams

import (
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultParam is the parameter extracted when none is configured
const DefaultParam = "sku"

var splitPattern = regexp.MustCompile(`[,\n]`)

var (
	errNotAbsolute = errors.New("not an absolute URL")
	errBadEscape   = errors.New("malformed percent escape")
	errBadUTF8     = errors.New("value is not valid UTF-8")
)

// defaultPorts are dropped from the endpoint key, as a URL origin does
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// SplitInput turns pasted text into a list of URL candidates. A bracketed
// JSON array of strings is used as-is; anything else is split on commas and
// newlines with empty pieces dropped. Only blank input yields nil.
func SplitInput(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var urls []string
		if err := json.Unmarshal([]byte(trimmed), &urls); err == nil {
			return urls
		}
	}

	urls := []string{}
	for _, piece := range splitPattern.Split(trimmed, -1) {
		if piece != "" {
			urls = append(urls, piece)
		}
	}
	return urls
}

// Extractor pulls parameter values out of URLs
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor. A nil logger disables logging.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the value of param for every distinct origin+path. The
// endpoint key is claimed by the first URL that reaches it, whether or not
// that URL carries the parameter, so later URLs for the same endpoint are
// ignored even when their values differ. Unparsable URLs are skipped, and so
// are values that do not percent-decode to valid UTF-8.
func (e *Extractor) Extract(urls []string, param string) []string {
	valuePattern := regexp.MustCompile(`[?&]` + regexp.QuoteMeta(param) + `=([^&]*)`)
	seen := make(map[string]struct{})
	values := []string{}

	for _, raw := range urls {
		u, err := parseAbsolute(raw)
		if err != nil {
			e.logger.Warn("skipping unparsable URL", zap.String("url", raw), zap.Error(err))
			continue
		}

		key := endpointKey(u, param)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if u.RawQuery == "" {
			continue
		}
		match := valuePattern.FindStringSubmatch("?" + u.RawQuery)
		if match == nil {
			continue
		}
		value, err := decodeComponent(match[1])
		if err != nil {
			e.logger.Warn("skipping undecodable value", zap.String("url", raw), zap.Error(err))
			continue
		}
		values = append(values, strings.TrimSpace(value))
	}

	return values
}

// Extract is a convenience wrapper around an Extractor without logging
func Extract(urls []string, param string) []string {
	return NewExtractor(nil).Extract(urls, param)
}

func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errNotAbsolute
	}
	return u, nil
}

// endpointKey is origin + path + "?param=" for the URL. The origin is
// lowercased and omits the scheme's default port.
func endpointKey(u *url.URL, param string) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		host += ":" + port
	}
	return scheme + "://" + host + path + "?" + param + "="
}

// decodeComponent percent-decodes a query value without turning '+' into a
// space. Malformed escapes and invalid UTF-8 are errors.
func decodeComponent(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", errBadEscape
	}
	if !utf8.ValidString(decoded) {
		return "", errBadUTF8
	}
	return decoded, nil
}
