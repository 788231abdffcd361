// Package webwin shows web windows in a browser, a headless browser or an
// in-process engine, all served by one embedded HTTP/WebSocket server.
//
// # Manager
//
// A Manager owns the server and the windows. The server is created on
// first use and binds a network port only when a URL must be reachable
// from another process:
//
//	m := webwin.New(webwin.Options{Config: cfg})
//	win := m.CreateWindow(false)
//	win.SetGeometry(1024, 768)
//	err := win.Show(ctx, "chrome")
//
// # Launch Modes
//
// Show accepts "native" (or ""), an engine name, "chrome", "chromium",
// "firefox", "browser", a program name, or a command template:
//
//	win.Show(ctx, "firefox")
//	win.Show(ctx, "epiphany --new-window $url")
//
// Templates starting with "fork:" spawn the program directly and record
// its pid; Halt("pid:<n>") kills it later. Other templates run through the
// system shell.
//
// # Session Keys
//
// Every Show issues a numeric key appended to the window URL. The window
// accepts one WebSocket connection per key; when that connection closes
// the key is released and the client that held it is halted.
//
// # Waiting
//
// WaitFor blocks the calling goroutine until a predicate reports success:
//
//	ok := m.WaitFor(func(time.Duration) int { return win.NumConnections() }, 10*time.Second)
package webwin
