// Package httpclient is a Burrow backend that speaks Burrow's HTTP/JSON
// wire protocol to a remote server: it builds a REST request per command,
// runs it without blocking the caller's thread, and streams the JSON
// response into the same message/queue/account callback protocol the
// memory backend uses.
//
// Import it for its side effect (registering itself as "http"):
//
//	import _ "github.com/burrowdb/burrow-go/httpclient"
package httpclient
