// Package errors provides coded, actionable errors for webdisplay.
//
// Every failure the window manager can report carries a stable code that maps
// to a short message, a longer explanation, and a category:
//   - config: bad port range, negative fixed port, unreadable config file
//   - server: no port could be bound
//   - usage: calls made in the wrong order (server missing, window destroyed)
//   - runtime: session key exhaustion
//   - environment: launch mode cannot run headless, display variable missing
//   - process: external display client or embedded engine could not start
//
// # Usage
//
//	err := errors.New("W001").
//	    WithDetail("HttpPortMax (8800) must be greater than HttpPortMin (9800)").
//	    WithSuggestion("Fix WebGui.HttpPortMin/HttpPortMax in webdisplay.json")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR W001: Invalid server configuration
//	//
//	//   HttpPortMax (8800) must be greater than HttpPortMin (9800)
//	//
//	//   Hint: Fix WebGui.HttpPortMin/HttpPortMax in webdisplay.json
//
// Callers test for a specific failure with HasCode, which walks the wrap chain.
package errors
