package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"StageFM/core/input"
	"StageFM/core/playback"
	"StageFM/core/tracklist"
	"StageFM/logger"
	"StageFM/repository"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSMessage is the envelope of every message on the player socket.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// controlPayload is a backend command pushed to the client, which owns the
// actual media elements.
type controlPayload struct {
	Target string  `json:"target"` // audio | video | buffer
	Op     string  `json:"op"`
	Value  float64 `json:"value,omitempty"`
	Allow  bool    `json:"allowSeekAhead,omitempty"`
}

// commandPayload is a transport command sent by the client.
type commandPayload struct {
	Action string  `json:"action"`
	Value  float64 `json:"value,omitempty"`
	Index  int     `json:"index,omitempty"`
}

// reportPayload carries backend state observed on the client.
type reportPayload struct {
	Backend        string  `json:"backend"`
	CurrentTime    float64 `json:"currentTime"`
	Duration       float64 `json:"duration"`
	MetadataLoaded bool    `json:"metadataLoaded"`
	Decoded        bool    `json:"decoded"`
	PlayerState    int     `json:"playerState"`
}

// initQueuePayload loads a playback queue into the session.
type initQueuePayload struct {
	Items    []playback.Medium `json:"items"`
	StartIdx int               `json:"startIdx"`
}

// attachPayload selects the active backend kind.
type attachPayload struct {
	Kind string `json:"kind"`
}

// keyHandledPayload tells the client whether a key event matched any
// shortcut, so it can suppress the default browser behavior for the key.
type keyHandledPayload struct {
	Code    string `json:"code"`
	Handled bool   `json:"handled"`
}

// loadMusicalPayload builds a queue from a catalog musical, optionally
// filtered to preferred track renditions.
type loadMusicalPayload struct {
	MusicalID string   `json:"musicalId"`
	Filters   []string `json:"filters,omitempty"`
	StartIdx  int      `json:"startIdx"`
}

// playerSession is one connected player. The session hosts the playback
// store and the synchronization loop server-side; the client owns the
// media elements and mirrors them through remote backends.
type playerSession struct {
	id   string
	conn *websocket.Conn
	cfg  *sessionConfig
	repo repository.MusicalRepository

	writeMu sync.Mutex

	store    *playback.Store
	syncLoop *playback.SyncLoop
	keys     *input.Dispatcher

	audio  *remoteAudioElement
	video  *remoteVideoPlayer
	buffer *remoteBufferPlayer

	backend playback.Backend
	done    chan struct{}
}

type sessionConfig struct {
	seekStep float64
	rateStep float64
}

// WebSocketPlayerHandler upgrades the connection and runs a player session
// until the client disconnects.
func (h *APIHandler) WebSocketPlayerHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	s := &playerSession{
		id:   uuid.NewString(),
		conn: conn,
		repo: h.musicalRepo,
		cfg: &sessionConfig{
			seekStep: h.cfg.SeekStep,
			rateStep: h.cfg.RateStep,
		},
		done: make(chan struct{}),
	}
	s.audio = &remoteAudioElement{send: s.sendControl}
	s.video = &remoteVideoPlayer{send: s.sendControl, state: playback.StateUnstarted}
	s.buffer = &remoteBufferPlayer{send: s.sendControl}

	s.store = playback.NewStore(playback.Options{
		MinPlaybackRate: h.cfg.MinPlaybackRate,
		MaxPlaybackRate: h.cfg.MaxPlaybackRate,
		Notifier:        s,
	})
	s.syncLoop = playback.NewSyncLoop(s.store, h.cfg.SyncTick)
	s.keys = input.NewDispatcher()
	s.registerShortcuts()

	logger.Info("player session started", logger.String("session", s.id))
	defer logger.Info("player session ended", logger.String("session", s.id))

	go s.broadcastState()
	s.readLoop()

	close(s.done)
	s.syncLoop.Detach()
	if s.backend != nil {
		s.backend.Close()
	}
}

// registerShortcuts wires the default keyboard bindings. All bindings that
// match an incoming key event fire, in registration order.
func (s *playerSession) registerShortcuts() {
	s.keys.Add(input.KeyCombo{Code: "Space"}, s.store.TogglePlayPause)
	s.keys.Add(input.KeyCombo{Code: "ArrowLeft"}, func() { s.store.SeekBackward(s.cfg.seekStep) })
	s.keys.Add(input.KeyCombo{Code: "ArrowRight"}, func() { s.store.SeekForward(s.cfg.seekStep) })
	s.keys.Add(input.KeyCombo{Code: "ArrowLeft", Ctrl: true}, s.store.Previous)
	s.keys.Add(input.KeyCombo{Code: "ArrowRight", Ctrl: true}, s.store.Next)
	s.keys.Add(input.KeyCombo{Code: "Minus"}, func() { s.store.DecreasePlaybackRate(s.cfg.rateStep) })
	s.keys.Add(input.KeyCombo{Code: "Equal"}, func() { s.store.IncreasePlaybackRate(s.cfg.rateStep) })
	s.keys.Add(input.KeyCombo{Code: "KeyL"}, s.store.ToggleLoop)
	s.keys.Add(input.KeyCombo{Code: "Digit0"}, s.store.JumpToStart)
}

func (s *playerSession) readLoop() {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed",
					logger.String("session", s.id), logger.ErrorField(err))
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("malformed message", logger.String("session", s.id), logger.ErrorField(err))
			continue
		}
		s.handleMessage(msg)
	}
}

func (s *playerSession) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "command":
		var cmd commandPayload
		if err := json.Unmarshal(msg.Data, &cmd); err != nil {
			logger.Warn("malformed command", logger.String("session", s.id), logger.ErrorField(err))
			return
		}
		s.handleCommand(cmd)
	case "report":
		var rep reportPayload
		if err := json.Unmarshal(msg.Data, &rep); err != nil {
			logger.Warn("malformed report", logger.String("session", s.id), logger.ErrorField(err))
			return
		}
		s.handleReport(rep)
	case "init_queue":
		var init initQueuePayload
		if err := json.Unmarshal(msg.Data, &init); err != nil {
			logger.Warn("malformed queue init", logger.String("session", s.id), logger.ErrorField(err))
			return
		}
		s.store.Initialize(init.Items, init.StartIdx)
		s.attachForCurrentMedium()
	case "load_musical":
		var load loadMusicalPayload
		if err := json.Unmarshal(msg.Data, &load); err != nil {
			logger.Warn("malformed musical load", logger.String("session", s.id), logger.ErrorField(err))
			return
		}
		s.loadMusical(load)
	case "attach":
		var att attachPayload
		if err := json.Unmarshal(msg.Data, &att); err != nil {
			return
		}
		s.attachBackend(playback.BackendKind(att.Kind))
	case "key":
		var ev input.KeyEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		handled := s.keys.Dispatch(ev)
		s.sendMessage("key_handled", keyHandledPayload{Code: ev.Code, Handled: handled})
	default:
		logger.Debug("unknown message type",
			logger.String("session", s.id), logger.String("type", msg.Type))
	}
}

func (s *playerSession) handleCommand(cmd commandPayload) {
	switch cmd.Action {
	case "play":
		s.store.Play()
	case "pause":
		s.store.Pause()
	case "toggle":
		s.store.TogglePlayPause()
	case "seek":
		s.store.SeekTo(cmd.Value)
	case "seek_forward":
		s.store.SeekForward(s.cfg.seekStep)
	case "seek_backward":
		s.store.SeekBackward(s.cfg.seekStep)
	case "jump_to_start":
		s.store.JumpToStart()
	case "rate":
		s.store.ChangePlaybackRate(cmd.Value)
	case "rate_up":
		s.store.IncreasePlaybackRate(s.cfg.rateStep)
	case "rate_down":
		s.store.DecreasePlaybackRate(s.cfg.rateStep)
	case "next":
		s.store.Next()
		s.attachForCurrentMedium()
	case "previous":
		before := s.store.Generation()
		s.store.Previous()
		if s.store.Generation() != before {
			s.attachForCurrentMedium()
		}
	case "switch":
		s.store.SwitchTo(cmd.Index)
		s.attachForCurrentMedium()
	case "reset":
		s.store.Reset()
		s.syncLoop.Detach()
	case "loop_toggle":
		s.store.ToggleLoop()
	case "loop_enable":
		s.store.EnableLoop()
	case "loop_disable":
		s.store.DisableLoop()
	case "loop_reset":
		s.store.ResetLoop()
	case "loop_move_start":
		s.store.MoveLoopStart(cmd.Value)
	case "loop_move_end":
		s.store.MoveLoopEnd(cmd.Value)
	case "loop_set_start":
		s.store.SetLoopStartToCurrent()
	case "loop_set_end":
		s.store.SetLoopEndToCurrent()
	case "loop_zoom_in":
		s.store.IncreaseLoopZoom()
	case "loop_zoom_out":
		s.store.DecreaseLoopZoom()
	case "loop_zoom_reset":
		s.store.ResetLoopZoom()
	default:
		logger.Debug("unknown command",
			logger.String("session", s.id), logger.String("action", cmd.Action))
	}
}

func (s *playerSession) handleReport(rep reportPayload) {
	switch rep.Backend {
	case "audio":
		s.audio.update(rep)
	case "video":
		s.video.update(rep)
	case "buffer":
		s.buffer.update(rep)
	}
}

// loadMusical builds a queue from the catalog and starts playing it.
func (s *playerSession) loadMusical(load loadMusicalPayload) {
	musical, ok := s.repo.GetMusical(load.MusicalID)
	if !ok {
		logger.Warn("unknown musical requested",
			logger.String("session", s.id), logger.String("musicalId", load.MusicalID))
		return
	}
	queue := tracklist.BuildQueue(musical, load.Filters)
	if len(queue) == 0 {
		logger.Warn("musical has no playable tracks",
			logger.String("session", s.id), logger.String("musicalId", load.MusicalID))
		return
	}
	startIdx := load.StartIdx
	if startIdx < 0 || startIdx >= len(queue) {
		startIdx = 0
	}
	s.store.Initialize(queue, startIdx)
	s.attachForCurrentMedium()
}

// attachForCurrentMedium switches the sync loop to the backend kind of the
// active queue item.
func (s *playerSession) attachForCurrentMedium() {
	medium, ok := s.store.CurrentMedium()
	if !ok {
		return
	}
	s.attachBackend(medium.Kind)
}

func (s *playerSession) attachBackend(kind playback.BackendKind) {
	var b playback.Backend
	switch kind {
	case playback.BackendNativeAudio:
		b = playback.NewNativeAudioAdapter(s.audio)
	case playback.BackendDecodedBuffer:
		b = playback.NewDecodedBufferAdapter(s.buffer)
	case playback.BackendEmbeddedVideo:
		b = playback.NewEmbeddedVideoAdapter(s.video)
	default:
		logger.Warn("unknown backend kind",
			logger.String("session", s.id), logger.String("kind", string(kind)))
		return
	}
	old := s.backend
	s.backend = b
	s.syncLoop.Attach(b)
	if old != nil {
		old.Close()
	}
}

// broadcastState pushes a state snapshot to the client whenever the store
// changes. Signals are coalesced, the client always converges on the
// latest state.
func (s *playerSession) broadcastState() {
	changed := s.store.Subscribe()
	defer s.store.Unsubscribe(changed)

	for {
		select {
		case <-s.done:
			return
		case <-changed:
			s.sendMessage("state", s.store.Snapshot())
		}
	}
}

func (s *playerSession) sendControl(p controlPayload) {
	s.sendMessage("control", p)
}

func (s *playerSession) sendMessage(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal message",
			logger.String("session", s.id), logger.ErrorField(err))
		return
	}
	msg := WSMessage{Type: msgType, Data: data, Timestamp: time.Now().UnixMilli()}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		logger.Debug("websocket write failed",
			logger.String("session", s.id), logger.ErrorField(err))
	}
}

// PlaybackStateChanged implements playback.SessionNotifier.
func (s *playerSession) PlaybackStateChanged(playing bool) {
	s.sendMessage("media_session", map[string]interface{}{"playing": playing})
}

// SessionActivated implements playback.SessionNotifier.
func (s *playerSession) SessionActivated() {
	s.sendMessage("media_session", map[string]interface{}{"active": true})
}

// SessionDeactivated implements playback.SessionNotifier.
func (s *playerSession) SessionDeactivated() {
	s.sendMessage("media_session", map[string]interface{}{"active": false})
}
