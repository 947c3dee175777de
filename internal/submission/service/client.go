package service

import (
	"strings"

	"github.com/mssola/useragent"
)

// clientLabel renders a User-Agent string as "Browser on OS"
// (e.g. "Chrome on macOS", "Safari on iOS") for the owner dashboard.
func clientLabel(userAgentString string) string {
	if userAgentString == "" {
		return ""
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
