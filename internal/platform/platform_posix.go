//go:build !darwin && !windows

package platform

const platformName = NamePosix

const openCommand = "xdg-open '$url' &"

var browserCandidates = map[string][]string{
	BrowserChrome: {
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/chrome-browser",
		"/usr/bin/google-chrome",
	},
	BrowserFirefox: {
		"/usr/bin/firefox",
	},
}

func escapeProgram(path string) string {
	return path
}
