package assets

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavekit/wavegraph/internal/audio"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubDecoder(data []byte) (*audio.Buffer, error) {
	return &audio.Buffer{SampleRate: 44100, Data: [][]float32{{1, 2, 3}}}, nil
}

func waitDecoded(t *testing.T, c *Cache, url string) {
	t.Helper()
	done := make(chan struct{})
	c.Subscribe(url, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("asset never decoded")
	}
}

func TestResolveLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := New(testLogger(), WithDecoder(stubDecoder))

	assert.Equal(t, StateAbsent, c.State(srv.URL), "unreferenced url is absent")

	buf := c.Resolve(srv.URL)
	assert.Nil(t, buf, "first resolve returns nothing and starts the fetch")
	assert.NotEqual(t, StateAbsent, c.State(srv.URL))

	waitDecoded(t, c, srv.URL)

	assert.Equal(t, StateDecoded, c.State(srv.URL))
	buf = c.Resolve(srv.URL)
	require.NotNil(t, buf)
	assert.Equal(t, 44100, buf.SampleRate)
}

func TestResolveSingleFlight(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := New(testLogger(), WithDecoder(stubDecoder))
	for i := 0; i < 5; i++ {
		assert.Nil(t, c.Resolve(srv.URL))
	}

	waitDecoded(t, c, srv.URL)
	assert.Equal(t, int32(1), requests.Load(), "concurrent resolves must not duplicate the fetch")
}

func TestFetchFailureResetsAndRetries(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := New(testLogger(), WithDecoder(stubDecoder))
	c.Resolve(srv.URL)

	require.Eventually(t, func() bool {
		return c.State(srv.URL) == StateAbsent
	}, 2*time.Second, 5*time.Millisecond, "failed fetch rewinds to absent")

	fail.Store(false)
	assert.Nil(t, c.Resolve(srv.URL), "retry starts a fresh fetch")
	waitDecoded(t, c, srv.URL)
	assert.NotNil(t, c.Resolve(srv.URL))
}

func TestDecodeFailureResets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-audio"))
	}))
	defer srv.Close()

	c := New(testLogger(), WithDecoder(func([]byte) (*audio.Buffer, error) {
		return nil, errors.New("unrecognized audio format")
	}))
	c.Resolve(srv.URL)

	require.Eventually(t, func() bool {
		return c.State(srv.URL) == StateAbsent
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, c.Snapshot())
}

func TestSubscribeIsOneShot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := New(testLogger(), WithDecoder(stubDecoder))

	var fired atomic.Int32
	c.Resolve(srv.URL)
	c.Subscribe(srv.URL, func() { fired.Add(1) })

	waitDecoded(t, c, srv.URL)
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

	// A fresh subscription on an already decoded url still fires, once, on
	// its own goroutine.
	done := make(chan struct{})
	c.Subscribe(srv.URL, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("late subscription never fired")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "original continuation must not fire again")
}

func TestSnapshotAndProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio-bytes"))
	}))
	defer srv.Close()

	c := New(testLogger(), WithDecoder(stubDecoder))

	var mu sync.Mutex
	var last []string
	c.OnProgress(func(decoded []string) {
		mu.Lock()
		last = append([]string(nil), decoded...)
		mu.Unlock()
	})

	first := srv.URL + "/one.wav"
	second := srv.URL + "/two.wav"
	c.Preload([]string{first, second})
	waitDecoded(t, c, first)
	waitDecoded(t, c, second)

	assert.Equal(t, []string{first, second}, c.Snapshot(), "snapshot keeps first-reference order")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(last) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{first, second}, last)
	mu.Unlock()
}
