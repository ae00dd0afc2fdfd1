/*
Copyright © 2013 the cemhyd authors.
This file is part of cemhyd.

cemhyd is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

cemhyd is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with cemhyd.  If not, see <http://www.gnu.org/licenses/>.
*/

package output

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// LiveServer optionally streams progress entries to connected browser
// clients over a websocket, for the live dashboard named in spec.md
// section 13 (supplemented features). It is never required for a
// headless run; the CLI only starts one when --serve is passed.
type LiveServer struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewLiveServer creates a server with an open CORS policy, appropriate
// for a localhost monitoring dashboard.
func NewLiveServer() *LiveServer {
	return &LiveServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and registers the client until it
// disconnects.
func (s *LiveServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends entry as JSON to every currently-connected client,
// dropping any connection that errors (it will be cleaned up by its own
// ServeHTTP goroutine on the next read failure).
func (s *LiveServer) Broadcast(entry ProgressEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		if err := conn.WriteJSON(entry); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
