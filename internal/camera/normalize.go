package camera

import (
	"regexp"
	"strings"
)

// Pattern of an IPv4 address with the port glued on by a dot instead of a
// colon, e.g. "10.214.110.18.8080" or "192.168.0.5.81/shot.jpg".
var dottedPortRe = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+)\.(\d+)(/.*)?$`)

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeAddress repairs common mistakes in user-entered camera addresses
// and returns a fetchable absolute URL. It is a pure string transform and
// performs no network I/O. Empty or whitespace-only input passes through
// unchanged; callers treat that as invalid.
func NormalizeAddress(addr string) string {
	if strings.TrimSpace(addr) == "" {
		return addr
	}
	addr = strings.TrimSpace(addr)

	if m := dottedPortRe.FindStringSubmatch(addr); m != nil {
		addr = m[1] + ":" + m[2] + m[3]
	}

	if !schemeRe.MatchString(addr) {
		if strings.HasPrefix(addr, "//") {
			addr = "http:" + addr
		} else {
			addr = "http://" + addr
		}
	}
	return addr
}
