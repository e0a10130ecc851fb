package statsd

import (
	"net"
	"strings"
	"testing"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "tp_ui_api"}
	tests := map[string]string{
		" location/resolve ": "tp_ui_api.location_resolve",
		"feed..fetch":        "tp_ui_api.feed.fetch",
		"multi  space":       "tp_ui_api.multi__space",
		"":                   "tp_ui_api",
	}

	for input, want := range tests {
		if got := c.metricName(input); got != want {
			t.Fatalf("metricName(%q) = %q, want %q", input, got, want)
		}
	}

	bare := &Client{}
	if got := bare.metricName("feed.fetch"); got != "feed.fetch" {
		t.Fatalf("metricName without prefix = %q", got)
	}
}

func TestEncodeTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env":       "prod",
		" service ": " gateway ",
	}
	local := map[string]string{
		"result": " success ",
		"":       "ignored",
		"env":    "stage",
	}

	got := encodeTags(global, local)
	want := "|#env:stage,result:success,service:gateway"

	if got != want {
		t.Fatalf("encodeTags mismatch\n got: %q\nwant: %q", got, want)
	}

	if got := encodeTags(nil, nil); got != "" {
		t.Fatalf("encodeTags(nil, nil) = %q, want empty string", got)
	}
}

func TestCleanTagsReturnsCopy(t *testing.T) {
	t.Parallel()

	original := map[string]string{
		"env": "prod",
		"":    "ignored",
	}

	cleaned := cleanTags(original)
	cleaned["env"] = "stage"
	if original["env"] != "prod" {
		t.Fatal("cleanTags did not copy values")
	}
	if _, ok := cleaned[""]; ok {
		t.Fatal("cleanTags kept empty key")
	}
}

func TestClientEnabledAndClose(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	client := &Client{
		enabled: true,
		conn:    clientConn,
	}

	if !client.Enabled() {
		t.Fatal("expected client.Enabled to report true with active connection")
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client.Enabled to report false after Close")
	}

	// Close is idempotent.
	if err := client.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
	nilClient.Count("noop", 1, nil) // must not panic
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{
		Enabled: true,
		Address: "   ",
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{
		Enabled: true,
		Address: "bad address",
	})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
