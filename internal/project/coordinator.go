package project

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Conn is the channel handle the coordinator routes outbound frames through.
// The transport owns the connection; the coordinator only references it.
type Conn interface {
	Send(data []byte) error
}

// session binds one channel to the user name it asserted on join.
type session struct {
	id       string
	userName string
	conn     Conn
}

// Coordinator is the single serialized authority for one project. It owns
// the document, the lock map, presence and the session registry; every
// operation runs under one mutex so mutations form a strict total order.
// Outbound frames go to per-session buffers, so fan-out never blocks the
// mutation path.
type Coordinator struct {
	id string

	mu       sync.Mutex
	state    State
	cursors  map[string]CursorPosition
	sessions map[string]*session
}

// NewCoordinator creates a coordinator holding the default document.
func NewCoordinator(id string) *Coordinator {
	return &Coordinator{
		id:       id,
		state:    DefaultState(),
		cursors:  map[string]CursorPosition{},
		sessions: map[string]*session{},
	}
}

// ID returns the project identifier this coordinator serves.
func (c *Coordinator) ID() string {
	return c.id
}

// Snapshot returns a copy of the current document.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SessionCount reports how many channels are currently joined.
func (c *Coordinator) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// ApplyUpdate validates and lock-checks a partial document, merges it on
// success and broadcasts the result to every session. It returns the merged
// document, or a *ValidationError / *LockDeniedError with the document
// untouched.
func (c *Coordinator) ApplyUpdate(update Update, userName string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errs := ValidateUpdate(update); len(errs) > 0 {
		return State{}, &ValidationError{Errors: errs}
	}
	if reason := c.checkLocksLocked(update, userName); reason != "" {
		return State{}, &LockDeniedError{Reason: reason}
	}

	c.state.merge(update)
	c.broadcastStateLocked()
	return c.state.clone(), nil
}

// HandleOpen sends the init frame: the full document plus current cursors.
// The channel is not a session yet; that happens on join.
func (c *Coordinator) HandleOpen(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendTo(conn, marshal(initMessage{
		Type:    MsgInit,
		State:   c.state.clone(),
		Cursors: c.cloneCursorsLocked(),
	}))
}

// HandleMessage decodes and dispatches one inbound frame. Malformed frames
// get a private error reply and leave the channel open.
func (c *Coordinator) HandleMessage(conn Conn, data []byte) {
	msg, err := DecodeInbound(data)
	if err != nil {
		log.Printf("project %s: %v", c.id, err)
		c.replyError(conn, errorMessage{
			Type:    MsgError,
			Message: "Failed to process message",
			Error:   err.Error(),
		})
		return
	}

	switch msg.Type {
	case MsgCursor:
		c.handleCursor(msg.Cursor)
	case MsgUpdate:
		c.handleUpdate(conn, msg.Update)
	case MsgJoin:
		c.handleJoin(conn, msg.Join.User)
	case MsgLeave:
		c.HandleClose(conn)
	case MsgLockSection:
		c.handleSection(conn, msg.Section, true)
	case MsgUnlockSection:
		c.handleSection(conn, msg.Section, false)
	}
}

// HandleClose tears down the channel's session: locks released, presence and
// cursor removed, session dropped. Close, error and explicit leave all land
// here.
func (c *Coordinator) HandleClose(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := c.findSessionLocked(conn)
	if sess == nil {
		return
	}
	c.removeSessionLocked(sess)
	c.broadcastUsersLocked()
	c.broadcastStateLocked()
}

func (c *Coordinator) handleCursor(msg *CursorMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Overwrite unconditionally; a cursor with no matching user just floats
	// until its owner is removed.
	c.cursors[msg.UserName] = msg.Position
	c.broadcastCursorsLocked()
}

func (c *Coordinator) handleUpdate(conn Conn, msg *UpdateMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if errs := ValidateUpdate(msg.State); len(errs) > 0 {
		c.replyError(conn, errorMessage{Type: MsgError, Errors: errs})
		return
	}
	if reason := c.checkLocksLocked(msg.State, msg.UserName); reason != "" {
		c.replyError(conn, errorMessage{Type: MsgError, Error: reason})
		return
	}

	c.state.merge(msg.State)
	c.broadcastStateLocked()
}

func (c *Coordinator) handleJoin(conn Conn, user User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A second join on an active channel replaces its session rather than
	// orphaning it.
	if old := c.findSessionLocked(conn); old != nil {
		log.Printf("project %s: channel rejoined as %s, replacing session %s", c.id, user.Name, old.id)
		c.removeSessionLocked(old)
	}

	// Presence dedupes by name: rejoining replaces the prior entry.
	c.removeUserLocked(user.Name)
	c.state.ActiveUsers = append(c.state.ActiveUsers, user)

	sess := &session{id: uuid.NewString(), userName: user.Name, conn: conn}
	c.sessions[sess.id] = sess
	log.Printf("project %s: %s joined (session %s, %d active)", c.id, user.Name, sess.id, len(c.sessions))

	// The session id goes to the joining channel only.
	c.sendTo(conn, marshal(sessionMessage{Type: MsgSession, ID: sess.id}))

	c.broadcastStateLocked()
	c.broadcastUsersLocked()
}

func (c *Coordinator) handleSection(conn Conn, msg *SectionMessage, lock bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !IsSection(msg.Section) {
		c.replyError(conn, errorMessage{Type: MsgError, Error: "Unknown section: " + msg.Section})
		return
	}

	var err error
	if lock {
		err = c.lockSectionLocked(msg.Section, msg.UserName)
	} else {
		err = c.unlockSectionLocked(msg.Section, msg.UserName)
	}
	if err != nil {
		c.replyError(conn, errorMessage{Type: MsgError, Error: err.Error()})
		return
	}
	c.broadcastStateLocked()
}

func (c *Coordinator) findSessionLocked(conn Conn) *session {
	for _, sess := range c.sessions {
		if sess.conn == conn {
			return sess
		}
	}
	return nil
}

func (c *Coordinator) removeSessionLocked(sess *session) {
	c.releaseLocksLocked(sess.userName)
	c.removeUserLocked(sess.userName)
	delete(c.sessions, sess.id)
	log.Printf("project %s: %s left (session %s, %d active)", c.id, sess.userName, sess.id, len(c.sessions))
}

func (c *Coordinator) removeUserLocked(userName string) {
	users := c.state.ActiveUsers[:0]
	for _, u := range c.state.ActiveUsers {
		if u.Name != userName {
			users = append(users, u)
		}
	}
	c.state.ActiveUsers = users
	delete(c.cursors, userName)
}

func (c *Coordinator) cloneCursorsLocked() map[string]CursorPosition {
	out := make(map[string]CursorPosition, len(c.cursors))
	for name, pos := range c.cursors {
		out[name] = pos
	}
	return out
}

// Broadcasting: each kind is serialized once and fanned out to every
// session. A failed send is logged and never aborts delivery to the rest.

func (c *Coordinator) broadcastStateLocked() {
	c.broadcastLocked(marshal(stateMessage{Type: MsgState, State: c.state.clone()}))
}

func (c *Coordinator) broadcastUsersLocked() {
	c.broadcastLocked(marshal(usersMessage{Type: MsgUsers, Users: append([]User{}, c.state.ActiveUsers...)}))
}

func (c *Coordinator) broadcastCursorsLocked() {
	c.broadcastLocked(marshal(cursorsMessage{Type: MsgCursors, Cursors: c.cloneCursorsLocked()}))
}

func (c *Coordinator) broadcastLocked(data []byte) {
	for _, sess := range c.sessions {
		if err := sess.conn.Send(data); err != nil {
			log.Printf("project %s: send to session %s failed: %v", c.id, sess.id, err)
		}
	}
}

func (c *Coordinator) replyError(conn Conn, msg errorMessage) {
	c.sendTo(conn, marshal(msg))
}

func (c *Coordinator) sendTo(conn Conn, data []byte) {
	if err := conn.Send(data); err != nil {
		log.Printf("project %s: private send failed: %v", c.id, err)
	}
}
