package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
)

func TestPublishEmptyBodyIsNoOp(t *testing.T) {
	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	m := NewPostModule(Config{BaseURL: ts.URL})
	m.Image().Stage(Attachment{Name: "photo.jpg"})

	updated, err := m.Publish(context.Background())
	if updated != nil || err != nil {
		t.Fatalf("expected no-op, got (%v, %v)", updated, err)
	}
	if calls.Load() != 0 {
		t.Errorf("no request expected for an empty body, got %d", calls.Load())
	}
	if _, staged := m.Image().Current(); !staged {
		t.Error("no-op must leave the draft unchanged")
	}
}

func TestPublishWithImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer t1" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request id")
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got := r.FormValue("userId"); got != "u1" {
			t.Errorf("userId = %q, want u1", got)
		}
		if got := r.FormValue("description"); got != "hello world" {
			t.Errorf("description = %q, want hello world", got)
		}
		if got := r.FormValue("picturePath"); got != "photo.jpg" {
			t.Errorf("picturePath = %q, want photo.jpg", got)
		}
		files := r.MultipartForm.File["picture"]
		if len(files) != 1 {
			t.Errorf("expected 1 binary part, got %d", len(files))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if ct := files[0].Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("binary part content type %q, want image/jpeg", ct)
		}
		f, err := files[0].Open()
		if err != nil {
			t.Errorf("open binary part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if string(data) != "jpg-bytes" {
			t.Errorf("binary part content %q, want jpg-bytes", data)
		}
		io.WriteString(w, `[{"_id":"p2","userId":"u2","description":"older"},{"_id":"p1","userId":"u1","description":"hello world","picturePath":"photo.jpg"}]`)
	}))
	defer ts.Close()

	session := NewMemorySession()
	session.SetSession(User{ID: "u1"}, "t1")
	posts := NewMemoryPosts()
	posts.ReplaceAll([]Post{{ID: "stale"}})

	m := NewPostModule(Config{BaseURL: ts.URL, Session: session, Posts: posts})
	m.ToggleImage()
	m.SetBody("hello world")
	m.Image().Stage(Attachment{Name: "photo.jpg", Data: []byte("jpg-bytes")})

	updated, err := m.Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Full-refresh consistency: the store equals exactly the response,
	// prior local state is gone.
	want := []Post{
		{ID: "p2", UserID: "u2", Description: "older"},
		{ID: "p1", UserID: "u1", Description: "hello world", PicturePath: "photo.jpg"},
	}
	if !reflect.DeepEqual(updated, want) {
		t.Errorf("unexpected response %+v", updated)
	}
	if !reflect.DeepEqual(posts.All(), want) {
		t.Errorf("store not replaced wholesale: %+v", posts.All())
	}
	if m.Body() != "" {
		t.Errorf("expected cleared body, got %q", m.Body())
	}
	if _, staged := m.Image().Current(); staged {
		t.Error("expected cleared attachment after success")
	}
	if m.Expanded() {
		t.Error("expected collapsed image affordance after success")
	}
}

func TestPublishWithoutImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := r.MultipartForm
		if len(form.Value) != 2 {
			t.Errorf("expected 2 scalar parts, got %v", form.Value)
		}
		if _, ok := form.Value["picturePath"]; ok {
			t.Error("picturePath must be absent without an attachment")
		}
		if len(form.File) != 0 {
			t.Errorf("no binary part expected, got %v", form.File)
		}
		io.WriteString(w, `[]`)
	}))
	defer ts.Close()

	session := NewMemorySession()
	session.SetSession(User{ID: "u1"}, "t1")
	m := NewPostModule(Config{BaseURL: ts.URL, Session: session})
	m.SetBody("text only")

	if _, err := m.Publish(context.Background()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if m.Body() != "" {
		t.Errorf("expected cleared body, got %q", m.Body())
	}
}

func TestPublishFailureRetainsDraft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"message":"boom"}`)
	}))
	defer ts.Close()

	session := NewMemorySession()
	session.SetSession(User{ID: "u1"}, "t1")
	posts := NewMemoryPosts()
	seeded := []Post{{ID: "p0", Description: "kept"}}
	posts.ReplaceAll(seeded)

	m := NewPostModule(Config{BaseURL: ts.URL, Session: session, Posts: posts})
	m.ToggleImage()
	m.SetBody("draft text")
	m.Image().Stage(Attachment{Name: "photo.jpg", Data: []byte("jpg-bytes")})

	_, err := m.Publish(context.Background())
	reqErr, ok := err.(*RequestError)
	if !ok {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusInternalServerError || reqErr.Message != "boom" {
		t.Errorf("unexpected rejection %+v", reqErr)
	}
	if m.Body() != "draft text" {
		t.Errorf("expected retained body, got %q", m.Body())
	}
	if got, staged := m.Image().Current(); !staged || got.Name != "photo.jpg" {
		t.Error("expected retained attachment after failure")
	}
	if !m.Expanded() {
		t.Error("failure must not collapse the image affordance")
	}
	if !reflect.DeepEqual(posts.All(), seeded) {
		t.Errorf("collection must not change on failure: %+v", posts.All())
	}
}

func TestPublishNetworkFailureRetainsDraft(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	session := NewMemorySession()
	session.SetSession(User{ID: "u1"}, "t1")
	m := NewPostModule(Config{BaseURL: url, Session: session})
	m.SetBody("draft text")
	m.Image().Stage(Attachment{Name: "photo.jpg", Data: []byte("jpg-bytes")})

	if _, err := m.Publish(context.Background()); err == nil {
		t.Fatal("expected network failure")
	}
	if m.Body() != "draft text" {
		t.Errorf("expected retained body, got %q", m.Body())
	}
	if got, staged := m.Image().Current(); !staged || got.Name != "photo.jpg" {
		t.Error("expected retained attachment after network failure")
	}
}

func TestPublishInFlightGuard(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		started <- struct{}{}
		<-release
		io.WriteString(w, `[]`)
	}))
	defer ts.Close()

	session := NewMemorySession()
	session.SetSession(User{ID: "u1"}, "t1")
	m := NewPostModule(Config{BaseURL: ts.URL, Session: session})
	m.SetBody("draft text")

	done := make(chan error, 1)
	go func() {
		_, err := m.Publish(context.Background())
		done <- err
	}()
	<-started

	if _, err := m.Publish(context.Background()); err != ErrSubmitInFlight {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("in-flight publish failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected exactly 1 request on the wire, got %d", calls.Load())
	}
}
