package httpclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	burrow "github.com/burrowdb/burrow-go"
)

func TestBuildURL_CreateMessageWithTTL(t *testing.T) {
	attrs := burrow.NewAttributes()
	attrs.SetTTL(100 * time.Second)
	cmd := &burrow.Command{Kind: burrow.CmdCreateMessage, Account: "a", Queue: "q", MessageID: "m1", Attributes: attrs}

	got := buildURL("http", "localhost", 8080, "v1.0", cmd)
	assert.Equal(t, "http://localhost:8080/v1.0/a/q/m1?ttl=100", got)
	assert.Equal(t, "PUT", methodFor(cmd.Kind))
}

func TestBuildURL_EscapesPathSegments(t *testing.T) {
	cmd := &burrow.Command{Kind: burrow.CmdGetMessage, Account: "acct with spaces", Queue: "q/weird", MessageID: "m?1"}
	got := buildURL("http", "example.com", 80, "v1.0", cmd)
	assert.Contains(t, got, "acct%20with%20spaces")
	assert.Contains(t, got, "q%2Fweird")
	assert.Contains(t, got, "m%3F1")
}

func TestBuildURL_AccountsOnlyCommandHasNoPathSegments(t *testing.T) {
	cmd := &burrow.Command{Kind: burrow.CmdGetAccounts}
	got := buildURL("http", "localhost", 8080, "v1.0", cmd)
	assert.Equal(t, "http://localhost:8080/v1.0", got)
}

func TestMethodFor_CoversEveryCommandKind(t *testing.T) {
	cases := map[burrow.CommandKind]string{
		burrow.CmdGetAccounts:    "GET",
		burrow.CmdDeleteAccounts: "DELETE",
		burrow.CmdGetQueues:      "GET",
		burrow.CmdDeleteQueues:   "DELETE",
		burrow.CmdGetMessages:    "GET",
		burrow.CmdUpdateMessages: "POST",
		burrow.CmdDeleteMessages: "DELETE",
		burrow.CmdGetMessage:     "GET",
		burrow.CmdUpdateMessage:  "POST",
		burrow.CmdDeleteMessage:  "DELETE",
		burrow.CmdCreateMessage:  "PUT",
	}
	for kind, want := range cases {
		assert.Equal(t, want, methodFor(kind), "kind %v", kind)
	}
}

func TestBuildQuery_FiltersAndAttributes(t *testing.T) {
	filters := burrow.NewFilters()
	filters.SetMatchHidden(true)
	filters.SetLimit(10)
	filters.SetMarker("m5")
	filters.SetDetail(burrow.DetailBody)

	cmd := &burrow.Command{Kind: burrow.CmdGetMessages, Filters: filters}
	q := buildQuery(cmd)
	assert.Equal(t, "true", q.Get("match_hidden"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "m5", q.Get("marker"))
	assert.Equal(t, "body", q.Get("detail"))
}
