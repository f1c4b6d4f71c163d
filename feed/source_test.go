package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/transit-tools/line-uptime/uptime"
)

func delayAlert(header string, routes ...string) *gtfsrtpb.Alert {
	a := &gtfsrtpb.Alert{
		HeaderText: &gtfsrtpb.TranslatedString{
			Translation: []*gtfsrtpb.TranslatedString_Translation{
				{Text: proto.String(header)},
			},
		},
	}
	for _, r := range routes {
		a.InformedEntity = append(a.InformedEntity, &gtfsrtpb.EntitySelector{
			RouteId: proto.String(r),
		})
	}
	return a
}

func marshalFeed(t *testing.T, alerts ...*gtfsrtpb.Alert) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
	}
	for i, a := range alerts {
		fm.Entity = append(fm.Entity, &gtfsrtpb.FeedEntity{
			Id:    proto.String(string(rune('a' + i))),
			Alert: a,
		})
	}
	b, err := proto.Marshal(fm)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return b
}

func newTestSource(ts *httptest.Server, feeds ...string) *Source {
	return &Source{
		baseURL: ts.URL,
		apiKey:  "test-key",
		feeds:   feeds,
		client:  ts.Client(),
		now:     func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestFetchSnapshot_ClassifiesDelayAlerts(t *testing.T) {
	payload := marshalFeed(t,
		delayAlert("Delays on the A line after signal problems", "A", "C"),
		delayAlert("Planned Work this weekend", "G"),
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key header: got %q", got)
		}
		_, _ = w.Write(payload)
	}))
	defer ts.Close()

	snap, err := newTestSource(ts, "subway").FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if snap.Policy != uptime.PolicyAbsenceRecovers {
		t.Errorf("Policy: got %v, want PolicyAbsenceRecovers", snap.Policy)
	}
	for _, line := range []string{"A", "C"} {
		if snap.Judgments[line] != uptime.JudgmentDelayed {
			t.Errorf("line %s: got %v, want JudgmentDelayed", line, snap.Judgments[line])
		}
	}
	// Non-delay alerts contribute nothing; absence is the recovery signal.
	if _, ok := snap.Judgments["G"]; ok {
		t.Errorf("line G: planned-work alert must not appear in judgments")
	}
}

func TestFetchSnapshot_PartialFeedFailure(t *testing.T) {
	payload := marshalFeed(t, delayAlert("Delays near Canal St", "N"))
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write(payload)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer ts.Close()

	snap, err := newTestSource(ts, "ok", "bad").FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("one healthy feed must carry the cycle, got error: %v", err)
	}
	if snap.Judgments["N"] != uptime.JudgmentDelayed {
		t.Errorf("line N: got %v, want JudgmentDelayed", snap.Judgments["N"])
	}
	if len(snap.Judgments) != 1 {
		t.Errorf("judgments: got %d entries, want 1", len(snap.Judgments))
	}
}

func TestFetchSnapshot_AllFeedsFailed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	if _, err := newTestSource(ts, "one", "two").FetchSnapshot(context.Background()); err == nil {
		t.Fatal("expected error when every feed fails")
	}
}

func TestDecodeFeed_FallbackToJSON(t *testing.T) {
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")},
		Entity: []*gtfsrtpb.FeedEntity{
			{Id: proto.String("1"), Alert: delayAlert("Delays", "Q")},
		},
	}
	jsonBytes, err := protojson.Marshal(fm)
	if err != nil {
		t.Fatalf("protojson marshal: %v", err)
	}

	decoded := decodeFeed(jsonBytes)
	if len(decoded.GetEntity()) != 1 {
		t.Fatalf("entities: got %d, want 1", len(decoded.GetEntity()))
	}
	if got := headerText(decoded.GetEntity()[0].GetAlert().GetHeaderText()); got != "Delays" {
		t.Errorf("header: got %q, want Delays", got)
	}
}

func TestDecodeFeed_GarbageYieldsEmpty(t *testing.T) {
	decoded := decodeFeed([]byte("not a feed in any known encoding"))
	if n := len(decoded.GetEntity()); n != 0 {
		t.Errorf("entities: got %d, want 0", n)
	}
}

func TestIsDelayAlert(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"Delays on the 2 and 3", true},
		{"DELAYS", true},
		{"delays after earlier incident", true},
		{"  Delays near 14 St", true},
		{"Planned Work", false},
		{"Service Change: delays possible", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isDelayAlert(tt.header); got != tt.want {
			t.Errorf("isDelayAlert(%q): got %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestActiveNow(t *testing.T) {
	now := int64(1700000000)
	tests := []struct {
		name       string
		start, end int64
		want       bool
	}{
		{"within window", now - 100, now + 100, true},
		{"before start", now + 50, now + 100, false},
		{"after end", now - 100, now - 50, false},
		{"open-ended", now - 100, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := delayAlert("Delays", "A")
			period := &gtfsrtpb.TimeRange{}
			if tt.start != 0 {
				period.Start = proto.Uint64(uint64(tt.start))
			}
			if tt.end != 0 {
				period.End = proto.Uint64(uint64(tt.end))
			}
			a.ActivePeriod = []*gtfsrtpb.TimeRange{period}
			if got := activeNow(a, now); got != tt.want {
				t.Errorf("activeNow: got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("no period", func(t *testing.T) {
		if !activeNow(delayAlert("Delays", "A"), now) {
			t.Error("alert without active period must always be active")
		}
	})
}
