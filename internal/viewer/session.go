package viewer

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/storyreel/internal/presentation"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// session is the presentation.Host for one websocket connection.
type session struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu     sync.Mutex
	active string
	closed bool
}

func (s *session) ActiveElement() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *session) Focus(id string) {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	s.send(serverMessage{Type: "focus", Target: id})
}

func (s *session) Announce(text string) {
	s.send(serverMessage{Type: "announce", Text: text})
}

func (s *session) Render(f presentation.Frame) {
	s.send(serverMessage{Type: "frame", Frame: newFrameMessage(f)})
}

func (s *session) setActive(id string) {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
}

func (s *session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// send serializes writes; timer fires and input replies race otherwise.
func (s *session) send(msg serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("viewer: websocket write: %v", err)
	}
}

func (s *session) sendError(message string) {
	s.send(serverMessage{Type: "error", Content: message})
}

func (v *Viewer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	storyID := r.URL.Query().Get("story")
	st, err := v.store.GetByID(r.Context(), storyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if st == nil {
		writeError(w, http.StatusNotFound, "story not found")
		return
	}
	html, err := st.HTML()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("viewer: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	sess := &session{conn: conn, active: r.URL.Query().Get("focus")}

	// Viewing history uses its own context: the request's is cancelled
	// as soon as the client disconnects.
	ctx := context.Background()
	var viewingID string

	var p *presentation.Presentation
	onClose := func() {
		sess.markClosed()
		if viewingID != "" {
			state := p.Controller().State()
			completed := state.Count > 0 && state.Index == state.Count-1
			if err := v.store.FinishViewing(ctx, viewingID, state.Index, completed); err != nil {
				log.Printf("viewer: %v", err)
			}
		}
		sess.send(serverMessage{Type: "closed"})
	}

	opts := append([]presentation.Option{presentation.WithClock(v.Clock)}, v.opts...)
	p = presentation.Open(html, sess, onClose, opts...)
	defer p.Close()

	if viewing, err := v.store.StartViewing(ctx, st.ID, p.Controller().State().Count); err != nil {
		log.Printf("viewer: %v", err)
	} else {
		viewingID = viewing.ID
	}

	for !sess.isClosed() {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("viewer: websocket read: %v", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.sendError("invalid message format")
			continue
		}
		if msg.Type == "focus" {
			sess.setActive(msg.Target)
			continue
		}
		ev, ok := msg.event()
		if !ok {
			sess.sendError("unknown message type: " + msg.Type)
			continue
		}
		p.Dispatch(ev)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

var _ presentation.Host = (*session)(nil)
