package staticmap

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFetch_DecodesImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "KEY", r.URL.Query().Get("key"))
		w.Write(testPNG(t, 10, 8))
	}))
	defer srv.Close()

	c := NewClient("KEY", WithBaseURL(srv.URL))
	img, err := c.Fetch(context.Background(), Request{Size: "10x8"})

	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("KEY", WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), Request{Size: "10x8"})
	assert.Error(t, err)
}

func TestResizeLetter(t *testing.T) {
	img, _, err := image.Decode(bytes.NewReader(testPNG(t, 500, 386)))
	require.NoError(t, err)

	out := ResizeLetter(img)
	assert.Equal(t, LetterWidthPx, out.Bounds().Dx())
	assert.Equal(t, LetterHeightPx, out.Bounds().Dy())
}

func TestSavePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path := filepath.Join(t.TempDir(), "map.png")

	require.NoError(t, SavePNG(path, img))

	// Round-trips as a decodable PNG.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	loaded, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Bounds().Dx())
}
