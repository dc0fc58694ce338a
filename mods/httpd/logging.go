package httpd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/machbase/neo-calc/mods/logging"
)

func RecoveryWithLogging(log logging.Log, recovery ...gin.RecoveryFunc) gin.HandlerFunc {
	if len(recovery) > 0 {
		return gin.CustomRecoveryWithWriter(log, recovery[0])
	}
	return gin.CustomRecoveryWithWriter(log, func(c *gin.Context, err any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "reason": fmt.Sprintf("%v", err)})
	})
}

type HttpLoggerFilter func(req *http.Request, statusCode int, latency time.Duration) bool

func HttpLogger(loggingName string) gin.HandlerFunc {
	return HttpLoggerWithFilter(loggingName, nil)
}

func HttpLoggerWithFilter(loggingName string, filter HttpLoggerFilter) gin.HandlerFunc {
	return accessLogger(logging.GetLog(loggingName), filter)
}

func accessLogger(log logging.Log, filter HttpLoggerFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// ignore health checker
		if strings.HasSuffix(c.Request.URL.Path, "/healthz") && c.Request.Method == http.MethodGet {
			return
		}

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		// filter returns false not to leave log
		if filter != nil && !filter(c.Request, statusCode, latency) {
			return
		}

		url := c.Request.Host + c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; len(raw) > 0 {
			url = url + "?" + raw
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()
		if len(errorMessage) > 0 {
			errorMessage = "\n" + errorMessage
		}
		wsize := c.Writer.Size()
		if wsize == -1 {
			wsize = 0
		}

		color := ""
		reset := "\033[0m"
		level := logging.LevelDebug

		switch {
		case statusCode >= http.StatusContinue && statusCode < http.StatusOK:
			color, reset = "", "" // 1xx
		case statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices:
			color = "\033[97;42m" // 2xx green
		case statusCode >= http.StatusMultipleChoices && statusCode < http.StatusBadRequest:
			color = "\033[90;47m" // 3xx white
		case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
			color = "\033[90;43m" // 4xx yellow
			level = logging.LevelWarn
		default:
			color = "\033[97;41m" // 5xx red
			level = logging.LevelError
		}

		log.Logf(level, "%s %3d %s| %13v | %15s | %8s | %8s | %s %-7s %s%s",
			color, statusCode, reset,
			latency,
			c.ClientIP(),
			humanizeByteCount(c.Request.ContentLength),
			humanizeByteCount(int64(wsize)),
			c.Request.Proto,
			c.Request.Method,
			url,
			errorMessage,
		)
	}
}

func humanizeByteCount(b int64) string {
	if b < 0 {
		b = 0
	}
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "kMGTPE"[exp])
}
