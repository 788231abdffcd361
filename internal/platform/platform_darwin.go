//go:build darwin

package platform

import "strings"

const platformName = NameMacOS

const openCommand = "open '$url'"

var browserCandidates = map[string][]string{
	BrowserChrome: {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	},
	BrowserFirefox: {
		"/Applications/Firefox.app/Contents/MacOS/firefox",
	},
}

func escapeProgram(path string) string {
	return strings.ReplaceAll(path, " ", `\ `)
}
