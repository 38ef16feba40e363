// Package serve publishes body tracking results and device status over
// HTTP and websockets.
package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dialup-inc/kinect/stream"
)

type msgType string

const (
	msgTypeHello  msgType = "hello"
	msgTypeBodies msgType = "bodies"
)

type msg struct {
	Type    msgType     `json:"type"`
	Payload interface{} `json:"payload"`
}

// Status is the document served at "/".
type Status struct {
	Service string                  `json:"service"`
	Serial  string                  `json:"serial,omitempty"`
	Clients int                     `json:"clients"`
	Pumps   map[string]stream.Stats `json:"pumps"`
}

// clientBuffer is how many frames a slow websocket client may fall behind
// before frames are skipped for it.
const clientBuffer = 8

func NewServer(reg *prometheus.Registry) *Server {
	s := &Server{
		reg:     reg,
		clients: make(map[uuid.UUID]*client),
		pumps:   make(map[string]func() stream.Stats),
		clientsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "k4a",
			Subsystem: "serve",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "k4a",
			Subsystem: "serve",
			Name:      "skipped_frames_total",
			Help:      "Body frames not sent to a client that was behind.",
		}),
	}
	if reg != nil {
		reg.MustRegister(s.clientsGauge, s.skipped)
	}
	return s
}

// Server serves "/" (JSON status), "/ws" (body frame stream) and
// "/metrics" (prometheus, when a registry was given).
type Server struct {
	Logger zerolog.Logger

	reg      *prometheus.Registry
	upgrader websocket.Upgrader

	pumpsMu sync.Mutex
	pumps   map[string]func() stream.Stats
	serial  string

	clientsMu sync.Mutex
	clients   map[uuid.UUID]*client

	clientsGauge prometheus.Gauge
	skipped      prometheus.Counter
}

// SetSerial names the device in the status document.
func (s *Server) SetSerial(serial string) {
	s.pumpsMu.Lock()
	s.serial = serial
	s.pumpsMu.Unlock()
}

// AddPump lists a pump's counters in the status document.
func (s *Server) AddPump(name string, stats func() stream.Stats) {
	s.pumpsMu.Lock()
	s.pumps[name] = stats
	s.pumpsMu.Unlock()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		s.HandleStatus(w, r)
	case "/ws":
		s.HandleWS(w, r)
	case "/metrics":
		if s.reg == nil {
			http.NotFound(w, r)
			return
		}
		promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// Status reports the current server and pump state.
func (s *Server) Status() Status {
	st := Status{
		Service: "k4a",
		Pumps:   make(map[string]stream.Stats),
	}

	s.pumpsMu.Lock()
	st.Serial = s.serial
	for name, stats := range s.pumps {
		st.Pumps[name] = stats()
	}
	s.pumpsMu.Unlock()

	s.clientsMu.Lock()
	st.Clients = len(s.clients)
	s.clientsMu.Unlock()

	return st
}

func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Status()); err != nil {
		s.Logger.Warn().Err(err).Msg("status write failed")
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error().Err(err).Msg("websocket.Upgrader error")
		return
	}

	c := newClient(uuid.New(), ws)
	log := s.Logger.With().Str("client", c.ID.String()).Logger()

	if err := ws.WriteJSON(msg{Type: msgTypeHello, Payload: map[string]string{"id": c.ID.String()}}); err != nil {
		log.Warn().Err(err).Msg("hello write failed")
		ws.Close()
		return
	}

	s.add(c)
	defer s.remove(c.ID)

	go c.writeLoop(log)

	// Clients only listen. Reading is how a close or a dead peer shows up.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			log.Debug().Err(err).Msg("client left")
			return
		}
	}
}

func (s *Server) add(c *client) {
	s.clientsMu.Lock()
	s.clients[c.ID] = c
	n := len(s.clients)
	s.clientsMu.Unlock()

	s.clientsGauge.Set(float64(n))
	s.Logger.Info().Str("client", c.ID.String()).Int("clients", n).Msg("client joined")
}

func (s *Server) remove(id uuid.UUID) {
	s.clientsMu.Lock()
	c, ok := s.clients[id]
	delete(s.clients, id)
	n := len(s.clients)
	s.clientsMu.Unlock()

	if ok {
		c.stop()
	}
	s.clientsGauge.Set(float64(n))
}

// Broadcast queues f for every connected client. Clients that are behind
// skip it.
func (s *Server) Broadcast(f stream.BodyFrame) error {
	data, err := json.Marshal(msg{Type: msgTypeBodies, Payload: f})
	if err != nil {
		return errors.Wrap(err, "encoding body frame")
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.skipped.Inc()
		}
	}
	return nil
}

// Run broadcasts frames until the channel closes or ctx is done.
func (s *Server) Run(ctx context.Context, frames <-chan stream.BodyFrame) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if err := s.Broadcast(f); err != nil {
				return err
			}
		}
	}
}

// Close disconnects every client.
func (s *Server) Close() error {
	s.clientsMu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for id, c := range s.clients {
		clients = append(clients, c)
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()

	for _, c := range clients {
		c.stop()
	}
	s.clientsGauge.Set(0)
	return nil
}

// ListenAndServe serves s on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	return nil
}
