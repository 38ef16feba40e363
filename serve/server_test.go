package serve_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4abt"
	"github.com/dialup-inc/kinect/serve"
	"github.com/dialup-inc/kinect/stream"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, string) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	test.That(t, err, test.ShouldBeNil)

	var hello message
	test.That(t, ws.ReadJSON(&hello), test.ShouldBeNil)
	test.That(t, hello.Type, test.ShouldEqual, "hello")
	var payload map[string]string
	test.That(t, json.Unmarshal(hello.Payload, &payload), test.ShouldBeNil)
	return ws, payload["id"]
}

func waitClients(t *testing.T, s *serve.Server, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for s.Status().Clients != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, s.Status().Clients)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStatus(t *testing.T) {
	s := serve.NewServer(nil)
	s.SetSerial("000123192912")
	s.AddPump("capture", func() stream.Stats { return stream.Stats{Captures: 7, Drops: 1} })

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)

	var st serve.Status
	test.That(t, json.Unmarshal(rec.Body.Bytes(), &st), test.ShouldBeNil)
	test.That(t, st.Service, test.ShouldEqual, "k4a")
	test.That(t, st.Serial, test.ShouldEqual, "000123192912")
	test.That(t, st.Pumps["capture"], test.ShouldResemble, stream.Stats{Captures: 7, Drops: 1})

	// no registry, no metrics
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusNotFound)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := serve.NewServer(reg)
	stream.NewMetrics(reg).Captures.Add(3)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	test.That(t, rec.Code, test.ShouldEqual, http.StatusOK)
	test.That(t, rec.Body.String(), test.ShouldContainSubstring, "k4a_captures_total 3")
	test.That(t, rec.Body.String(), test.ShouldContainSubstring, "k4a_serve_clients 0")
}

func TestBroadcastBodies(t *testing.T) {
	s := serve.NewServer(prometheus.NewRegistry())
	srv := httptest.NewServer(s)
	defer srv.Close()

	a, idA := dial(t, srv)
	defer a.Close()
	b, idB := dial(t, srv)
	defer b.Close()
	test.That(t, idA, test.ShouldNotEqual, idB)
	waitClients(t, s, 2)

	frames := make(chan stream.BodyFrame, 2)
	frames <- stream.BodyFrame{Seq: 1, DeviceTimestamp: time.Second, Bodies: []k4abt.Body{{ID: 1}, {ID: 2}}}
	close(frames)
	test.That(t, s.Run(context.Background(), frames), test.ShouldBeNil)

	for _, ws := range []*websocket.Conn{a, b} {
		ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		var m message
		test.That(t, ws.ReadJSON(&m), test.ShouldBeNil)
		test.That(t, m.Type, test.ShouldEqual, "bodies")

		var f stream.BodyFrame
		test.That(t, json.Unmarshal(m.Payload, &f), test.ShouldBeNil)
		test.That(t, f.Seq, test.ShouldEqual, 1)
		test.That(t, f.DeviceTimestamp, test.ShouldEqual, time.Second)
		test.That(t, len(f.Bodies), test.ShouldEqual, 2)
		test.That(t, f.Bodies[1].ID, test.ShouldEqual, 2)
	}

	a.Close()
	waitClients(t, s, 1)

	test.That(t, s.Close(), test.ShouldBeNil)
	b.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := b.ReadMessage()
	test.That(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), test.ShouldBeTrue)
}

func TestListenAndServeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve.ListenAndServe(ctx, "127.0.0.1:0", serve.NewServer(nil)) }()

	cancel()
	select {
	case err := <-done:
		test.That(t, err, test.ShouldBeNil)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServeBadAddress(t *testing.T) {
	err := serve.ListenAndServe(context.Background(), "256.0.0.1:-1", serve.NewServer(nil))
	test.That(t, err, test.ShouldNotBeNil)
}
