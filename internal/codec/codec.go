// Package codec maps collections to and from their stored string form.
//
// The current encoding is a versioned envelope:
//
//	{"version":1,"items":[{"id":"1","name":"Denim Jacket","price":"₹1,899",...,"quantity":2}]}
//
// Decode also accepts the bare JSON array written by earlier app builds.
// Decoding never fails: invalid elements are dropped and an unusable value
// decodes to an empty collection. The Report says what was discarded.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bansalKrishna311/tryo/internal/domain"
)

// Version is the envelope version written by Encode.
const Version = 1

// Codec encodes and decodes one kind of collection.
type Codec[T domain.Item] interface {
	Encode(c domain.Collection[T]) (string, error)
	Decode(raw string) (domain.Collection[T], Report)
}

// Report describes what Decode had to discard. A zero Report means the value
// was clean.
type Report struct {
	// Reset is set when the whole value was unusable and decoded to empty.
	Reset bool
	// Legacy is set when the value used the pre-envelope bare array form.
	Legacy bool
	// Dropped counts elements discarded individually.
	Dropped int
	Reasons []string
}

// Corrupt reports whether anything was discarded.
func (r Report) Corrupt() bool {
	return r.Reset || r.Dropped > 0
}

func (r *Report) drop(i int, reason string) {
	r.Dropped++
	r.Reasons = append(r.Reasons, fmt.Sprintf("item %d: %s", i, reason))
}

func (r *Report) reset(reason string) {
	r.Reset = true
	r.Reasons = append(r.Reasons, reason)
}

type envelope struct {
	Version int               `json:"version"`
	Items   []json.RawMessage `json:"items"`
}

type encodedEnvelope[W any] struct {
	Version int `json:"version"`
	Items   []W `json:"items"`
}

// elementCodec converts single elements. decode returns a non-empty reason
// when the element must be dropped. A positive limit caps the decoded length.
type elementCodec[T domain.Item, W any] struct {
	encode func(T) W
	decode func(raw json.RawMessage, legacy bool) (T, string)
	unique bool
	limit  int
}

func (ec elementCodec[T, W]) Encode(c domain.Collection[T]) (string, error) {
	out := encodedEnvelope[W]{Version: Version, Items: make([]W, 0, c.Len())}
	for _, it := range c.Items {
		out.Items = append(out.Items, ec.encode(it))
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}
	return string(b), nil
}

func (ec elementCodec[T, W]) Decode(raw string) (domain.Collection[T], Report) {
	var rep Report
	c := domain.NewCollection[T]()

	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return c, rep
	}

	var elems []json.RawMessage
	switch trimmed[0] {
	case '[':
		rep.Legacy = true
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			rep.reset("malformed array: " + err.Error())
			return c, rep
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			rep.reset("malformed envelope: " + err.Error())
			return c, rep
		}
		if env.Version != Version {
			rep.reset(fmt.Sprintf("unsupported version %d", env.Version))
			return c, rep
		}
		elems = env.Items
	default:
		rep.reset("value is not a sequence")
		return c, rep
	}

	seen := make(map[string]struct{}, len(elems))
	for i, el := range elems {
		it, reason := ec.decode(el, rep.Legacy)
		if reason != "" {
			rep.drop(i, reason)
			continue
		}
		if ec.unique {
			if _, dup := seen[it.ProductID()]; dup {
				rep.drop(i, "duplicate id "+it.ProductID())
				continue
			}
			seen[it.ProductID()] = struct{}{}
		}
		c.Items = append(c.Items, it)
		if ec.limit > 0 && len(c.Items) == ec.limit {
			break
		}
	}
	return c, rep
}
