package httpclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	burrow "github.com/burrowdb/burrow-go"
)

// fakeContext is a minimal burrow.BackendContext recorder for tests that
// drive a Backend directly, bypassing the Client state machine.
type fakeContext struct {
	messages []string
	queues   []string
	accounts []string
}

func (f *fakeContext) Message(id string, body []byte, attrs burrow.Attributes) {
	f.messages = append(f.messages, id)
}
func (f *fakeContext) Queue(name string)                       { f.queues = append(f.queues, name) }
func (f *fakeContext) Account(name string)                     { f.accounts = append(f.accounts, name) }
func (f *fakeContext) Log(level burrow.Level, message string)  {}
func (f *fakeContext) WatchFD(fd int, interest burrow.IOEvents) {}

func splitHostPort(hostport string) (string, string, error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("no port in %q", hostport)
	}
	return hostport[:idx], hostport[idx+1:], nil
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...burrow.ClientOption) *burrow.Client {
	t.Helper()
	base := []burrow.ClientOption{burrow.WithOptions(burrow.OptAutoProcess)}
	c, err := burrow.NewClient("http", append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	host, portStr, err := splitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	require.NoError(t, c.SetBackendOption("server", host))
	require.NoError(t, c.SetBackendOptionInt("port", int32(port)))
	return c
}

func TestHTTPBackend_GetMessages_DecodesServerResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1.0/a/q", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"m1","body":"hello","ttl":100}]`))
	}))
	defer srv.Close()

	var got []string
	c := newTestClient(t, srv, burrow.WithMessageFunc(func(id string, body []byte, attrs burrow.Attributes) {
		got = append(got, id)
	}))

	require.NoError(t, c.GetMessages("a", "q", nil))
	assert.Equal(t, []string{"m1"}, got)
}

func TestHTTPBackend_NonSuccessStatus_IsReportedAsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	err := c.GetAccounts(nil)
	require.Error(t, err)
	var berr *burrow.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, burrow.KindServerError, berr.Kind)
}

func TestHTTPBackend_CreateMessage_SendsExpectedMethodAndPath(t *testing.T) {
	var receivedMethod, receivedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	require.NoError(t, c.CreateMessage("a", "q", "m1", []byte("hello"), nil))
	assert.Equal(t, http.MethodPut, receivedMethod)
	assert.Equal(t, "/v1.0/a/q/m1", receivedPath)
}

func TestHTTPBackend_Cancel_WhileRequestInFlight_TearsDownCleanly(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	// A no-op WithWatchFD hook keeps Process from blocking in the internal
	// poll while the handler is stuck: Process then returns ErrWouldBlock as
	// soon as the transfer registers its wakeup fd, instead of waiting on it.
	c, err := burrow.NewClient("http", burrow.WithWatchFD(func(fd int, interest burrow.IOEvents) {}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	host, portStr, err := splitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	require.NoError(t, c.SetBackendOption("server", host))
	require.NoError(t, c.SetBackendOptionInt("port", int32(port)))

	require.NoError(t, c.GetAccounts(nil))
	require.ErrorIs(t, c.Process(), burrow.ErrWouldBlock)
	require.Equal(t, burrow.StateWaiting, c.State())

	// Cancel while the goroutine is still blocked in the handler: the
	// request context is canceled, but the goroutine hasn't yet reached its
	// own signalWake/close(done). finishTransfer must wait for it rather
	// than closing the wake fd out from under it.
	require.NoError(t, c.Cancel())
	assert.Equal(t, burrow.StateIdle, c.State())
}

func TestHTTPBackend_Reissue_WhileRequestInFlight_TearsDownCleanly(t *testing.T) {
	// Drives the Backend directly, bypassing the Client's Idle gate, so a
	// second command can be issued while the first is still blocked in the
	// handler: backend.issue()'s own finishTransfer teardown must wait for
	// the first transfer's goroutine rather than race it.
	var requests sync.WaitGroup
	requests.Add(1)
	release := make(chan struct{})
	var first sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first.Do(func() {
			requests.Done()
			<-release
		})
		w.WriteHeader(http.StatusOK)
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	host, portStr, err := splitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)

	b := New()
	require.NoError(t, b.SetOption("server", host))
	require.NoError(t, b.SetOption("port", portStr))
	ctx := &fakeContext{}
	require.NoError(t, b.Init(ctx))

	require.ErrorIs(t, b.GetAccounts(&burrow.Command{Kind: burrow.CmdGetAccounts}), burrow.ErrWouldBlock)
	requests.Wait() // first request is now blocked inside the handler

	// Issuing again tears the blocked transfer's fd down via finishTransfer,
	// which must wait for its goroutine (unblocked here by ctx cancellation
	// racing the handler, not by the handler itself returning).
	require.ErrorIs(t, b.GetAccounts(&burrow.Command{Kind: burrow.CmdGetAccounts}), burrow.ErrWouldBlock)
	require.Equal(t, 1, b.Size())
}

func TestHTTPBackend_SetOption_RejectsInvalidValues(t *testing.T) {
	b := New()
	require.Error(t, b.SetOption("port", "not-a-port"))
	require.Error(t, b.SetOption("port", "0"))
	require.Error(t, b.SetOption("unknown", "x"))
	require.NoError(t, b.SetOption("scheme", "https"))
}
