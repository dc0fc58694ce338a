package httpd

import (
	"time"

	"github.com/machbase/neo-calc/mods/logging"
)

type Option func(s *httpd)

// ListenAddresses
func OptionListenAddress(addrs ...string) Option {
	return func(s *httpd) {
		s.listenAddresses = append(s.listenAddresses, addrs...)
	}
}

func OptionDebugMode(isDebug bool) Option {
	return func(s *httpd) {
		s.debugMode = isDebug
	}
}

func OptionShutdownTimeout(timeout time.Duration) Option {
	return func(s *httpd) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

func OptionLog(log logging.Log) Option {
	return func(s *httpd) {
		s.log = log
	}
}
