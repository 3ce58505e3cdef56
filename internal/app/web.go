// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/depth_computer/internal/config"
	"github.com/relabs-tech/depth_computer/internal/env"
	"github.com/relabs-tech/depth_computer/internal/sensors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local network
	},
}

const wsWriteTimeout = 2 * time.Second

// webState holds the latest sample and the websocket clients streaming it.
type webState struct {
	mu         sync.RWMutex
	lastSample env.Sample
	haveSample bool

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

func newWebState() *webState {
	return &webState{clients: make(map[*websocket.Conn]struct{})}
}

// update stores s and pushes it to every connected websocket client.
func (st *webState) update(s env.Sample) {
	st.mu.Lock()
	st.lastSample = s
	st.haveSample = true
	st.mu.Unlock()
	st.broadcast(s)
}

func (st *webState) latest() (env.Sample, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.lastSample, st.haveSample
}

func (st *webState) broadcast(s env.Sample) {
	st.clientsMu.Lock()
	defer st.clientsMu.Unlock()
	for c := range st.clients {
		c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.WriteJSON(s); err != nil {
			log.Printf("web: websocket write error, dropping client: %v", err)
			c.Close()
			delete(st.clients, c)
		}
	}
}

func (st *webState) handleEnv(w http.ResponseWriter, r *http.Request) {
	s, ok := st.latest()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// handleCommands serves the MS5803 command reference.
func handleCommands(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sensors.MS5803CommandMap()); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// handleWS upgrades the connection, sends the latest sample if any, then
// keeps the client registered until it goes away.
func (st *webState) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	st.clientsMu.Lock()
	if s, ok := st.latest(); ok {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(s); err != nil {
			st.clientsMu.Unlock()
			conn.Close()
			return
		}
	}
	st.clients[conn] = struct{}{}
	st.clientsMu.Unlock()
	log.Printf("web: websocket client connected from %s", r.RemoteAddr)

	// Reads only detect the close; clients have nothing to say.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	st.clientsMu.Lock()
	if _, ok := st.clients[conn]; ok {
		delete(st.clients, conn)
		conn.Close()
	}
	st.clientsMu.Unlock()
	log.Printf("web: websocket client %s disconnected", r.RemoteAddr)
}

// routes registers the API, the live stream and the static files under dir.
func (st *webState) routes(dir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/env", st.handleEnv)
	mux.HandleFunc("/ws", st.handleWS)
	mux.HandleFunc("/api/commands", handleCommands)
	mux.Handle("/", http.FileServer(http.Dir(dir)))
	return mux
}

// RunWeb serves the latest sample received over MQTT as JSON and as a
// websocket stream.
func RunWeb() error {
	cfg := config.Get()
	st := newWebState()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeSamples(client, cfg.TopicEnv, "web", st.update); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, st.routes("web"))
}
