package webwin

import (
	"time"

	"github.com/vango-dev/webdisplay/internal/config"
)

// waitQuantum is the sleep between two predicate evaluations.
const waitQuantum = 10 * time.Millisecond

// WaitFor calls check until it returns non-zero, pumping the host event
// queue and sleeping a short quantum between calls. check receives the
// time elapsed since the loop started.
//
// A negative timeout selects the WaitForTmout config value; zero waits
// forever. On timeout WaitFor returns 0, which callers cannot tell apart
// from check returning 0: treat 0 as "not ready".
//
// The loop runs entirely on the caller's goroutine.
func (m *Manager) WaitFor(check func(elapsed time.Duration) int, timeout time.Duration) int {
	if timeout < 0 {
		seconds := config.Float(m.config, config.KeyWaitTimeout, config.DefaultWaitTimeout)
		timeout = time.Duration(seconds * float64(time.Second))
	}

	start := time.Now()
	elapsed := time.Duration(0)
	for {
		if res := check(elapsed); res != 0 {
			m.metrics.waitObserved("ready", time.Since(start))
			return res
		}

		if m.pump != nil {
			m.pump()
		}
		time.Sleep(waitQuantum)

		elapsed = time.Since(start)
		if timeout > 0 && elapsed > timeout {
			m.metrics.waitObserved("timeout", elapsed)
			m.logger.Debug("wait timed out", "timeout", timeout)
			return 0
		}
	}
}
