package memory

import (
	"time"

	"github.com/burrowdb/burrow-go"
)

type storedMessage struct {
	id   string
	body []byte
	ttl  time.Time // absolute expiry
	hide time.Time // absolute hide-until; zero value means never hidden
}

type storedQueue struct {
	messages *orderedMap[*storedMessage]
}

func newStoredQueue() *storedQueue {
	return &storedQueue{messages: newOrderedMap[*storedMessage]()}
}

type storedAccount struct {
	queues *orderedMap[*storedQueue]
}

func newStoredAccount() *storedAccount {
	return &storedAccount{queues: newOrderedMap[*storedQueue]()}
}

// scanFilters is the resolved, always-valid set of range parameters a scan
// runs with: every field defaulted the way _process_filter defaulted them,
// then overridden per is-set bit.
type scanFilters struct {
	marker      string
	limit       int
	matchHidden bool
}

func resolveFilters(f *burrow.Filters) scanFilters {
	out := scanFilters{limit: -1, matchHidden: false}
	if f == nil {
		return out
	}
	if f.IsSetMarker() {
		out.marker = f.Marker()
	}
	if f.IsSetLimit() {
		out.limit = int(f.Limit())
	}
	if f.IsSetMatchHidden() {
		out.matchHidden = f.MatchHidden()
	}
	return out
}
