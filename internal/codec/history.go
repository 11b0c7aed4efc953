package codec

import (
	"encoding/json"
	"time"

	"github.com/bansalKrishna311/tryo/internal/domain"
)

type historyWire struct {
	productWire
	RecordedAt time.Time `json:"recorded_at"`
}

// History returns the codec for the try-on log. Duplicates are kept and the
// decoded log never exceeds capacity. Entries without a readable timestamp
// (every legacy entry) get the zero time.
func History(capacity int) Codec[domain.HistoryEntry] {
	return elementCodec[domain.HistoryEntry, historyWire]{
		encode: func(e domain.HistoryEntry) historyWire {
			return historyWire{productWire: toProductWire(e.Product), RecordedAt: e.RecordedAt.UTC()}
		},
		decode: decodeHistoryEntry,
		unique: false,
		limit:  capacity,
	}
}

func decodeHistoryEntry(raw json.RawMessage, _ bool) (domain.HistoryEntry, string) {
	var e domain.HistoryEntry
	f, reason := parseFields(raw)
	if reason != "" {
		return e, reason
	}
	if e.Product, reason = f.product(); reason != "" {
		return e, reason
	}
	if ts, err := time.Parse(time.RFC3339Nano, f.str("recorded_at")); err == nil {
		e.RecordedAt = ts.UTC()
	}
	return e, ""
}
