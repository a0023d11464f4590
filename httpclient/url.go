package httpclient

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/burrowdb/burrow-go"
)

// pathSegments returns the per-command URL path segments after the version
// segment, following the account/queue/message scoping rules: accounts-only
// commands address the base, queue commands address /<acct>, message-range
// commands address /<acct>/<q>, and singular message commands address
// /<acct>/<q>/<id>.
func pathSegments(cmd *burrow.Command) []string {
	switch cmd.Kind {
	case burrow.CmdGetAccounts, burrow.CmdDeleteAccounts:
		return nil
	case burrow.CmdGetQueues, burrow.CmdDeleteQueues:
		return []string{cmd.Account}
	case burrow.CmdGetMessages, burrow.CmdUpdateMessages, burrow.CmdDeleteMessages:
		return []string{cmd.Account, cmd.Queue}
	default:
		return []string{cmd.Account, cmd.Queue, cmd.MessageID}
	}
}

// methodFor maps a command kind to its HTTP method.
func methodFor(kind burrow.CommandKind) string {
	switch kind {
	case burrow.CmdCreateMessage:
		return http.MethodPut
	case burrow.CmdUpdateMessage, burrow.CmdUpdateMessages:
		return http.MethodPost
	case burrow.CmdGetAccounts, burrow.CmdGetQueues, burrow.CmdGetMessage, burrow.CmdGetMessages:
		return http.MethodGet
	default:
		return http.MethodDelete
	}
}

// buildQuery assembles the query string from the set-bits of a command's
// attributes and filters.
func buildQuery(cmd *burrow.Command) url.Values {
	q := url.Values{}
	if a := cmd.Attributes; a != nil {
		if a.IsSetTTL() {
			q.Set("ttl", strconv.FormatInt(int64(a.TTL()/time.Second), 10))
		}
		if a.IsSetHide() {
			q.Set("hide", strconv.FormatInt(int64(a.Hide()/time.Second), 10))
		}
	}
	if f := cmd.Filters; f != nil {
		if f.IsSetMatchHidden() {
			q.Set("match_hidden", strconv.FormatBool(f.MatchHidden()))
		}
		if f.IsSetLimit() {
			q.Set("limit", strconv.FormatUint(uint64(f.Limit()), 10))
		}
		if f.IsSetMarker() {
			q.Set("marker", f.Marker())
		}
		if f.IsSetWait() {
			q.Set("wait", strconv.FormatUint(uint64(f.Wait()), 10))
		}
		if f.IsSetDetail() {
			q.Set("detail", f.Detail().String())
		}
	}
	return q
}

// buildURL assembles the full request URL: scheme://server:port/version,
// followed by the command's path segments (each independently escaped),
// followed by the query string.
func buildURL(scheme, server string, port int, version string, cmd *burrow.Command) string {
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(server)
	b.WriteString(":")
	b.WriteString(strconv.Itoa(port))
	b.WriteString("/")
	b.WriteString(url.PathEscape(version))
	for _, seg := range pathSegments(cmd) {
		b.WriteString("/")
		b.WriteString(url.PathEscape(seg))
	}
	if enc := buildQuery(cmd).Encode(); enc != "" {
		b.WriteString("?")
		b.WriteString(enc)
	}
	return b.String()
}
