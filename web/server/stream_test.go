package server

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialRenderSocket(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/render" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRenderSocketStreamsToCompletion(t *testing.T) {
	srv := httptest.NewServer(NewServer(0, "").Handler())
	defer srv.Close()

	conn := dialRenderSocket(t, srv, "?width=32&height=24&samples=2&depth=5&rate=120")
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var update ProgressUpdate
	sawRunning := false
	for {
		require.NoError(t, conn.ReadJSON(&update))
		assert.Equal(t, 32, update.Width)
		assert.Equal(t, 24, update.Height)

		switch update.State {
		case "running":
			sawRunning = true
		case "completed":
			// The final snapshot decodes to a full PNG frame
			raw, err := base64.StdEncoding.DecodeString(update.ImageData)
			require.NoError(t, err)
			img, err := png.Decode(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 24, img.Bounds().Dy())
			_ = sawRunning // Small frames may complete before the first tick
			return
		default:
			t.Fatalf("Unexpected job state %q", update.State)
		}
	}
}

func TestRenderSocketRejectsBadScene(t *testing.T) {
	srv := httptest.NewServer(NewServer(0, "").Handler())
	defer srv.Close()

	conn := dialRenderSocket(t, srv, "?scene=cornell-box")
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var body map[string]string
	require.NoError(t, conn.ReadJSON(&body))
	assert.Contains(t, body["error"], "unknown scene")
}

func TestRenderSocketRestartsOnSceneChange(t *testing.T) {
	scenePath := writeTestScene(t)
	srv := httptest.NewServer(NewServer(0, scenePath).Handler())
	defer srv.Close()

	conn := dialRenderSocket(t, srv, "?scene=file&width=32&height=24&samples=2&depth=5&rate=120")
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	// Let the session start streaming before touching the file
	var update ProgressUpdate
	require.NoError(t, conn.ReadJSON(&update))

	require.NoError(t, appendToFile(scenePath, "\n# touched\n"))

	// A restart notification arrives among the regular snapshots
	for i := 0; i < 200; i++ {
		require.NoError(t, conn.ReadJSON(&update))
		if update.Restarted {
			return
		}
	}
	t.Fatal("Scene file change did not restart the render")
}

func appendToFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(text)
	return err
}
