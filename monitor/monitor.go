package monitor

import (
	"bufio"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"strings"

	"faculty-management-api/config"

	"github.com/gin-gonic/gin"
)

const maxTailLines = 5000

// RegisterLogsRoute serves the tail of the log file to holders of
// LOG_ACCESS_TOKEN. The route is not registered when the token is unset.
func RegisterLogsRoute(router gin.IRoutes) {
	token := os.Getenv("LOG_ACCESS_TOKEN")
	if token == "" {
		return
	}
	router.GET("/logs", func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized", "code": "UNAUTHORIZED"})
			return
		}
		lines, err := strconv.Atoi(c.DefaultQuery("lines", "500"))
		if err != nil || lines <= 0 || lines > maxTailLines {
			lines = 500
		}
		data, err := tailFile(config.LogFilePath(), lines)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Unable to read log", "code": "INTERNAL"})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(data))
	})
}

// tailFile returns the last n lines of path.
func tailFile(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(ring) == 0 {
		return "", nil
	}
	return strings.Join(ring, "\n") + "\n", nil
}
