// Package config provides the key/value settings consumed by the window manager.
//
// Settings are looked up by key through the Lookup interface, so the manager
// does not care where values come from. Three sources are provided:
//
//   - Values: an in-memory map, handy for tests and embedding hosts
//   - File: a flat JSON object loaded from webdisplay.json
//   - Env: process environment, WEBGUI_<KEY> (for example WEBGUI_HTTPPORT)
//
// Chain combines sources; the first source that has a key wins.
//
// # Configuration File Structure
//
//	{
//	  "HttpPortMin": 8800,
//	  "HttpPortMax": 9800,
//	  "HttpLoopback": "yes",
//	  "UseHttps": "no",
//	  "ChromeBatch": "fork:--headless --disable-gpu $url",
//	  "Display": "chrome"
//	}
//
// # Usage
//
//	file, err := config.LoadFile("webdisplay.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.Chain(config.Env(config.EnvPrefix), file)
//	port := config.Int(cfg, config.KeyHttpPort, 0)
package config
