package web

import (
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"booth-go/internal/booth"
	"booth-go/internal/testutil"
)

func newTestServer(t *testing.T, opts ...testutil.BoothOption) (*httptest.Server, *testutil.Booth) {
	t.Helper()
	b := testutil.NewTestBooth(t, opts...)
	srv := httptest.NewServer(NewRouter(b.Service, b.PhotosRoot, b.Logger))
	t.Cleanup(srv.Close)
	return srv, b
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect(srv *httptest.Server) *http.Client {
	c := srv.Client()
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func startSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := noRedirect(srv).Post(srv.URL+"/start", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("POST /start status = %d, want 303", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/session/") {
		t.Fatalf("Location = %q", loc)
	}
	return strings.TrimPrefix(loc, "/session/")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || body != "OK" {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `action="/start"`) {
		t.Error("index page has no start form")
	}

	resp, err = http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want 404", resp.StatusCode)
	}
}

func TestStartAndSessionPage(t *testing.T) {
	srv, b := newTestServer(t)
	id := startSession(t, srv)

	if _, err := os.Stat(b.SessionDir(id)); err != nil {
		t.Fatalf("session directory missing: %v", err)
	}
	testutil.WriteTestJPEG(t, filepath.Join(b.SessionDir(id), "photo_1.jpg"))

	resp, err := http.Get(srv.URL + "/session/" + id)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /session status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "/thumbs/"+id+"/photo_1.jpg") {
		t.Error("session page does not list photo_1.jpg")
	}
	if !strings.Contains(body, `action="/finish/`+id+`"`) {
		t.Error("session page has no finish form")
	}
}

func TestSessionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/session/missing"},
		{method: http.MethodPost, path: "/finish/missing"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			body := readBody(t, resp)
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("status = %d, want 404", resp.StatusCode)
			}
			if !strings.Contains(body, "Session not found") {
				t.Errorf("body = %q", body)
			}
		})
	}
}

func TestFinish(t *testing.T) {
	srv, b := newTestServer(t)
	b.Camera.Files = []string{"photo_1.jpg", "photo_2.jpg"}
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/finish/"+id, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /finish status = %d: %s", resp.StatusCode, body)
	}
	qrSrc := "/photos/" + id + "/qr.png"
	if !strings.Contains(body, qrSrc) {
		t.Errorf("qr page does not reference %s", qrSrc)
	}
	if !strings.Contains(body, "2 photo(s) published") {
		t.Errorf("qr page body = %s", body)
	}

	resp, err = http.Get(srv.URL + qrSrc)
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("GET %s = %d %s", qrSrc, resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestFinish_NoPhotos(t *testing.T) {
	srv, b := newTestServer(t)
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/finish/"+id, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /finish status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "0 photo(s) published") {
		t.Errorf("qr page body = %s", body)
	}
	if _, err := os.Stat(filepath.Join(b.SessionDir(id), "qr.png")); err != nil {
		t.Errorf("qr.png missing: %v", err)
	}
}

func TestFinish_Aborted(t *testing.T) {
	srv, b := newTestServer(t)
	b.Camera.Files = []string{"photo_1.jpg"}
	b.Enhancer.FailFor["photo_1.jpg"] = true
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/finish/"+id, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestFinish_SkippedPhotoListed(t *testing.T) {
	srv, b := newTestServer(t, testutil.WithPolicy(booth.FailSkip))
	b.Camera.Files = []string{"photo_1.jpg", "photo_2.jpg"}
	b.Enhancer.FailFor["photo_1.jpg"] = true
	id := startSession(t, srv)

	resp, err := http.Post(srv.URL+"/finish/"+id, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "1 photo(s) published") || !strings.Contains(body, "enhance photo_1.jpg") {
		t.Errorf("qr page body = %s", body)
	}
}

func TestThumbnail(t *testing.T) {
	srv, b := newTestServer(t)
	id := startSession(t, srv)
	testutil.WriteTestJPEG(t, filepath.Join(b.SessionDir(id), "photo_1.jpg"))

	resp, err := http.Get(srv.URL + "/thumbs/" + id + "/photo_1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/jpeg" {
		t.Fatalf("thumbnail = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if _, err := jpeg.Decode(resp.Body); err != nil {
		t.Errorf("thumbnail does not decode: %v", err)
	}

	for _, path := range []string{
		"/thumbs/" + id + "/missing.jpg",
		"/thumbs/" + id + "/qr.png",
		"/thumbs/missing/photo_1.jpg",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestRequestLogging(t *testing.T) {
	srv, b := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if !b.Logger.Has("INFO", "request started") || !b.Logger.Has("INFO", "request completed") {
		t.Errorf("requests not logged:\n%s", b.Logger)
	}
}

func TestPhotosDirectoriesNotListed(t *testing.T) {
	srv, _ := newTestServer(t)
	id := startSession(t, srv)

	for _, path := range []string{"/photos/", "/photos/" + id + "/", "/photos/" + id} {
		resp, err := noRedirect(srv).Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
		if strings.Contains(body, id) {
			t.Errorf("GET %s body lists session %s", path, id)
		}
	}
}
