package burrow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	burrow "github.com/burrowdb/burrow-go"
	_ "github.com/burrowdb/burrow-go/memory"
)

func newAutoClient(t *testing.T, opts ...burrow.ClientOption) *burrow.Client {
	t.Helper()
	base := []burrow.ClientOption{burrow.WithOptions(burrow.OptAutoProcess)}
	c, err := burrow.NewClient("memory", append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_CreateThenGetMessage_RoundTrips(t *testing.T) {
	var got []string
	var bodies [][]byte
	c := newAutoClient(t, burrow.WithMessageFunc(func(id string, body []byte, attrs burrow.Attributes) {
		got = append(got, id)
		bodies = append(bodies, body)
	}))

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("hello"), nil))
	require.NoError(t, c.GetMessage("acct", "q1", "m1", nil))

	require.Equal(t, []string{"m1"}, got)
	require.Equal(t, [][]byte{[]byte("hello")}, bodies)
}

func TestClient_DeleteMessage_ThenGetReportsNotFound(t *testing.T) {
	var messageCalls int
	c := newAutoClient(t, burrow.WithMessageFunc(func(id string, body []byte, attrs burrow.Attributes) {
		messageCalls++
	}))

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("x"), nil))
	require.NoError(t, c.DeleteMessage("acct", "q1", "m1", nil))

	err := c.GetMessage("acct", "q1", "m1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, burrow.ErrNotFound))
	assert.Equal(t, 1, messageCalls, "the delete itself should have reported the message once, the failed get should not")
}

func TestClient_IssueWhileInProgress_IsRejected(t *testing.T) {
	// Without OptAutoProcess, issuing a command leaves the client in a
	// non-Idle state until Process is called.
	c, err := burrow.NewClient("memory")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("x"), nil))
	require.Equal(t, burrow.StateStart, c.State())

	err = c.GetMessage("acct", "q1", "m1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, burrow.ErrInProgress))

	require.NoError(t, c.Process())
	require.Equal(t, burrow.StateIdle, c.State())
}

func TestClient_InvalidArgsWhileInProgress_StillReportsInProgress(t *testing.T) {
	// State is checked before argument validation: an invalid call made
	// while another command is in flight must reject with ErrInProgress,
	// not KindInvalidArgument, regardless of how badly formed its own
	// arguments are.
	c, err := burrow.NewClient("memory")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("x"), nil))
	require.Equal(t, burrow.StateStart, c.State())

	err = c.CreateMessage("", "", "", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, burrow.ErrInProgress), "state must be checked before the empty-argument validation")

	err = c.UpdateMessage("", "", "", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, burrow.ErrInProgress))

	require.NoError(t, c.Process())
	require.Equal(t, burrow.StateIdle, c.State())
}

func TestClient_Complete_FiresExactlyOnce(t *testing.T) {
	var completions int
	var lastErr error
	c := newAutoClient(t, burrow.WithCompleteFunc(func(err error) {
		completions++
		lastErr = err
	}))

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("x"), nil))
	assert.Equal(t, 1, completions)
	assert.NoError(t, lastErr)

	require.NoError(t, c.GetMessage("acct", "q1", "m1", nil))
	assert.Equal(t, 2, completions)
}

func TestClient_CompleteIssuingNextCommand_DrivesBothToFinish(t *testing.T) {
	// A Complete callback that issues another command must see that second
	// command driven to completion by the same outer Process call (the
	// re-entrancy guard must not leave it stuck in StateStart).
	var order []string
	var c *burrow.Client
	issued := false
	c = newAutoClient(t,
		burrow.WithMessageFunc(func(id string, body []byte, attrs burrow.Attributes) {
			order = append(order, "message:"+id)
		}),
		burrow.WithCompleteFunc(func(err error) {
			order = append(order, "complete")
			if !issued {
				issued = true
				// Issued from inside the outer Process call: the re-entrancy
				// guard returns ErrWouldBlock and leaves it to that call's loop.
				assert.ErrorIs(t, c.GetMessage("acct", "q1", "m1", nil), burrow.ErrWouldBlock)
			}
		}),
	)

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("x"), nil))
	assert.Equal(t, burrow.StateIdle, c.State())
	assert.Contains(t, order, "message:m1")
}

func TestClient_Cancel_SkipsComplete(t *testing.T) {
	var completions int
	c, err := burrow.NewClient("memory", burrow.WithCompleteFunc(func(err error) {
		completions++
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("x"), nil))
	require.Equal(t, burrow.StateStart, c.State())

	require.NoError(t, c.Cancel())
	assert.Equal(t, burrow.StateIdle, c.State())
	assert.Equal(t, 0, completions)

	// Cancel while already idle is a no-op, not an error.
	require.NoError(t, c.Cancel())
}

func TestClient_RequiredArgumentValidation(t *testing.T) {
	c, err := burrow.NewClient("memory")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	err = c.CreateMessage("", "q1", "m1", []byte("x"), nil)
	require.Error(t, err)
	var berr *burrow.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, burrow.KindInvalidArgument, berr.Kind)

	err = c.CreateMessage("acct", "q1", "m1", nil, nil)
	require.Error(t, err)
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, burrow.KindInvalidArgument, berr.Kind)

	err = c.UpdateMessage("acct", "q1", "m1", nil, nil)
	require.Error(t, err)
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, burrow.KindInvalidArgument, berr.Kind)
}

func TestClient_RangeGetMessages_VisitsEveryMessage(t *testing.T) {
	var ids []string
	c := newAutoClient(t, burrow.WithMessageFunc(func(id string, body []byte, attrs burrow.Attributes) {
		ids = append(ids, id)
	}))

	require.NoError(t, c.CreateMessage("acct", "q1", "m1", []byte("a"), nil))
	require.NoError(t, c.CreateMessage("acct", "q1", "m2", []byte("b"), nil))
	require.NoError(t, c.CreateMessage("acct", "q1", "m3", []byte("c"), nil))

	require.NoError(t, c.GetMessages("acct", "q1", nil))
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
}

func TestClient_GetQueuesAndGetAccounts(t *testing.T) {
	var queues, accounts []string
	c := newAutoClient(t,
		burrow.WithQueueFunc(func(name string) { queues = append(queues, name) }),
		burrow.WithAccountFunc(func(name string) { accounts = append(accounts, name) }),
	)

	require.NoError(t, c.CreateMessage("acct1", "q1", "m1", []byte("a"), nil))
	require.NoError(t, c.CreateMessage("acct1", "q2", "m2", []byte("b"), nil))
	require.NoError(t, c.CreateMessage("acct2", "q1", "m3", []byte("c"), nil))

	require.NoError(t, c.GetQueues("acct1", nil))
	assert.ElementsMatch(t, []string{"q1", "q2"}, queues)

	require.NoError(t, c.GetAccounts(nil))
	assert.ElementsMatch(t, []string{"acct1", "acct2"}, accounts)
}

func TestClient_Log_FiltersByVerbosity(t *testing.T) {
	var logs []string
	c, err := burrow.NewClient("memory",
		burrow.WithVerbosity(burrow.LevelError),
		burrow.WithLogFunc(func(level burrow.Level, msg string) {
			logs = append(logs, msg)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	c.Log(burrow.LevelDebug, "should be filtered")
	c.Log(burrow.LevelError, "should pass")

	assert.Equal(t, []string{"should pass"}, logs)
}
