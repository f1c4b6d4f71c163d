package feed

import (
	"strings"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// decodeFeed parses a feed payload, trying the binary wire format first and
// the JSON encoding second. A payload that matches neither yields an empty
// message, equivalent to a feed with no alerts.
func decodeFeed(b []byte) *gtfsrtpb.FeedMessage {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err == nil {
		return &fm
	}
	fm.Reset()
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}
	if err := opts.Unmarshal(b, &fm); err == nil {
		return &fm
	}
	return &gtfsrtpb.FeedMessage{}
}

// headerText extracts best-effort text from a TranslatedString, preferring
// an untagged translation and falling back to the first available.
func headerText(ts *gtfsrtpb.TranslatedString) string {
	var first string
	for _, tr := range ts.GetTranslation() {
		if tr.GetLanguage() == "" {
			return tr.GetText()
		}
		if first == "" {
			first = tr.GetText()
		}
	}
	return first
}

// isDelayAlert reports whether an alert header classifies the alert as a
// delay. Upstream prefixes delay alerts with "Delays" in varying casing.
func isDelayAlert(header string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(header)), "delays")
}

// activeNow reports whether the alert's active period covers the given epoch.
// Alerts without an active period are always active.
func activeNow(a *gtfsrtpb.Alert, epoch int64) bool {
	periods := a.GetActivePeriod()
	if len(periods) == 0 {
		return true
	}
	for _, ap := range periods {
		start := int64(ap.GetStart())
		end := int64(ap.GetEnd())
		if start != 0 && epoch < start {
			continue
		}
		if end != 0 && epoch > end {
			continue
		}
		return true
	}
	return false
}
