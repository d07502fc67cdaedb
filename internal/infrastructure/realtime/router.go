package realtime

import (
	"sync"
)

// Router tracks websocket sessions for room participants and fans membership
// events out to everyone watching a room. A room is addressed by its invite
// code; one active connection is kept per participant code.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	codeSessions map[string]string                 // userCode -> sessionID
	rooms        map[string]map[string]*Connection // roomCode -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of roomCodes
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		codeSessions: make(map[string]string),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for the given participant. A previous session
// for the same code is removed and closed after the swap to enforce one active
// socket per participant.
func (r *Router) Attach(conn *Connection) {
	var previous *Connection

	r.mu.Lock()
	if existingID, ok := r.codeSessions[conn.UserCode]; ok {
		if existing := r.sessions[existingID]; existing != nil {
			previous = existing
			r.detachLocked(existingID)
		}
	}

	r.sessions[conn.ID] = conn
	r.codeSessions[conn.UserCode] = conn.ID
	r.sessionRooms[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach removes a connection if it is still tracked.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join subscribes the connection to events of the given room.
func (r *Router) Join(roomCode string, conn *Connection) {
	r.mu.Lock()
	if _, ok := r.sessions[conn.ID]; !ok {
		r.mu.Unlock()
		return
	}

	room := r.rooms[roomCode]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[roomCode] = room
	}
	room[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[roomCode] = struct{}{}
	r.mu.Unlock()
}

// Leave unsubscribes the connection from the room.
func (r *Router) Leave(roomCode string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(roomCode, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to every session watching the room.
// excludeUserCode, when non-empty, skips that participant's session.
func (r *Router) Broadcast(roomCode string, payload []byte, excludeUserCode string) int {
	r.mu.RLock()
	room := r.rooms[roomCode]
	if len(room) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range room {
		if excludeUserCode != "" && conn.UserCode == excludeUserCode {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// NotifyUser delivers payload to the current session of the given participant.
func (r *Router) NotifyUser(userCode string, payload []byte) bool {
	r.mu.RLock()
	sessionID, ok := r.codeSessions[userCode]
	if !ok {
		r.mu.RUnlock()
		return false
	}
	conn := r.sessions[sessionID]
	r.mu.RUnlock()
	if conn == nil {
		return false
	}
	return conn.Send(payload) == nil
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.codeSessions = make(map[string]string)
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if current, ok := r.codeSessions[conn.UserCode]; ok && current == sessionID {
		delete(r.codeSessions, conn.UserCode)
	}

	for roomCode := range r.sessionRooms[sessionID] {
		r.leaveLocked(roomCode, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(roomCode string, sessionID string) {
	if sessionID == "" {
		return
	}
	room := r.rooms[roomCode]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, roomCode)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, roomCode)
		if len(memberships) == 0 {
			delete(r.sessionRooms, sessionID)
		}
	}
}
