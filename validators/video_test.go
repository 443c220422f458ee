package validators

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/spf13/viper"
)

// ftyp box with an isom brand, enough for content sniffers to call it mp4
var mp4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isommp42")

func TestAllowedContainer(t *testing.T) {
	tests := []struct {
		ext  string
		mime string
		want bool
	}{
		{".mp4", "video/mp4", true},
		{".mov", "video/quicktime", true},
		{".avi", "video/x-msvideo", true},
		{".MP4", "application/octet-stream", true},
		{".mkv", "video/mp4", true},
		{"", "video/avi", true},
		{".mkv", "video/x-matroska", false},
		{".txt", "text/plain", false},
		{"", "", false},
	}

	for _, tt := range tests {
		if got := AllowedContainer(tt.ext, tt.mime); got != tt.want {
			t.Errorf("AllowedContainer(%q, %q) = %v, want %v", tt.ext, tt.mime, got, tt.want)
		}
	}
}

// makeFileHeader builds a real multipart.FileHeader backed by the given
// bytes so the content-sniffing path gets exercised too.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write(data)
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["video"][0]
}

func TestVideoValidator(t *testing.T) {
	viper.Set("upload.max_size", int64(1<<20))
	t.Cleanup(func() { viper.Set("upload.max_size", nil) })

	t.Run("valid mp4", func(t *testing.T) {
		fh := makeFileHeader(t, "clip.mp4", "video/mp4", append(mp4Header, bytes.Repeat([]byte{0}, 64)...))

		code, f, err := VideoValidator(fh)
		if err != nil {
			t.Fatalf("VideoValidator() error: %v (code %d)", err, code)
		}
		f.Close()
	})

	t.Run("nil header", func(t *testing.T) {
		code, _, err := VideoValidator(nil)
		if err != ErrNoFile || code != http.StatusBadRequest {
			t.Errorf("got (%d, %v), want (400, ErrNoFile)", code, err)
		}
	})

	t.Run("disallowed container", func(t *testing.T) {
		fh := makeFileHeader(t, "notes.txt", "text/plain", []byte("hello"))

		code, _, err := VideoValidator(fh)
		if err != ErrFileTypeUnsupported || code != http.StatusBadRequest {
			t.Errorf("got (%d, %v), want (400, ErrFileTypeUnsupported)", code, err)
		}
	})

	t.Run("spoofed extension caught by sniffing", func(t *testing.T) {
		fh := makeFileHeader(t, "clip.mp4", "video/mp4", []byte("just some text pretending"))

		code, _, err := VideoValidator(fh)
		if err != ErrFileTypeUnsupported || code != http.StatusBadRequest {
			t.Errorf("got (%d, %v), want (400, ErrFileTypeUnsupported)", code, err)
		}
	})

	t.Run("file too large", func(t *testing.T) {
		viper.Set("upload.max_size", int64(16))
		defer viper.Set("upload.max_size", int64(1<<20))

		fh := makeFileHeader(t, "clip.mp4", "video/mp4", append(mp4Header, bytes.Repeat([]byte{0}, 64)...))

		code, _, err := VideoValidator(fh)
		if err != ErrFileTooLarge || code != http.StatusRequestEntityTooLarge {
			t.Errorf("got (%d, %v), want (413, ErrFileTooLarge)", code, err)
		}
	})
}
