package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/burrowdb/burrow-go"
)

// decodeMessages streams r as either a bare object or an array of objects,
// each shaped { "id": string, "body": string, "ttl": int, "hide": int },
// emitting one Message callback per object as it closes.
func decodeMessages(ctx burrow.BackendContext, r io.Reader) error {
	dec := json.NewDecoder(r)
	first, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	delim, ok := first.(json.Delim)
	if !ok {
		return fmt.Errorf("unexpected top-level token %v", first)
	}
	switch delim {
	case '[':
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); !ok || d != '{' {
				return fmt.Errorf("expected message object, got %v", tok)
			}
			if err := decodeMessageFields(dec, ctx); err != nil {
				return err
			}
		}
		_, err := dec.Token() // consume ']'
		return err
	case '{':
		return decodeMessageFields(dec, ctx)
	default:
		return fmt.Errorf("unexpected top-level delimiter %q", delim)
	}
}

// decodeMessageFields reads key/value pairs up to (and consuming) the
// object's closing '}', assuming the opening '{' was already consumed.
func decodeMessageFields(dec *json.Decoder, ctx burrow.BackendContext) error {
	var id string
	var body []byte
	attrs := burrow.NewAttributes()

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := dec.Token()
		if err != nil {
			return err
		}
		switch key {
		case "id":
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("message field %q must be a string", key)
			}
			unescaped, err := url.QueryUnescape(s)
			if err != nil {
				return err
			}
			id = unescaped
		case "body":
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("message field %q must be a string", key)
			}
			body = []byte(s)
		case "ttl":
			n, ok := val.(float64)
			if !ok {
				return fmt.Errorf("message field %q must be a number", key)
			}
			attrs.SetTTL(time.Duration(n) * time.Second)
		case "hide":
			n, ok := val.(float64)
			if !ok {
				return fmt.Errorf("message field %q must be a number", key)
			}
			attrs.SetHide(time.Duration(n) * time.Second)
		default:
			return fmt.Errorf("unrecognized message field %q", key)
		}
	}

	ctx.Message(id, body, *attrs)
	return nil
}

// decodeStrings streams r as a top-level array of URL-escaped strings,
// calling emit with each unescaped value. Used for get_accounts/get_queues
// responses.
func decodeStrings(r io.Reader, emit func(string)) error {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("expected top-level array, got %v", tok)
	}
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		s, ok := t.(string)
		if !ok {
			return fmt.Errorf("expected string array element, got %v", t)
		}
		unescaped, err := url.QueryUnescape(s)
		if err != nil {
			return err
		}
		emit(unescaped)
	}
	_, err = dec.Token() // consume ']'
	return err
}
