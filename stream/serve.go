package stream

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ServeFile streams a file honoring a single byte-range request. The whole
// file is never buffered; ranged responses seek and copy exactly the
// requested span. Malformed or out-of-bounds ranges get a 416 with an empty
// body and a Content-Range hint carrying the resource size.
func ServeFile(c *gin.Context, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open media file, %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat media file, %w", err)
	}
	size := stat.Size()

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", contentType)

	rng, err := ParseRange(c.GetHeader("Range"), size)
	if err != nil {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", size))
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return nil
	}

	if rng == nil {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
		c.Status(http.StatusOK)
		_, err = io.Copy(c.Writer, file)
		return err
	}

	if _, err := file.Seek(rng.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek media file, %w", err)
	}

	c.Header("Content-Length", strconv.FormatInt(rng.ContentLength(), 10))
	c.Header("Content-Range", rng.ContentRange(size))
	c.Status(http.StatusPartialContent)

	_, err = io.CopyN(c.Writer, file, rng.ContentLength())
	return err
}
