package server

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Equinox89/1000/internal/bots"
	"github.com/Equinox89/1000/internal/engine"
	"github.com/Equinox89/1000/internal/history"
)

// humanID is the seat the connected client controls. Every other seat is a bot.
const humanID = engine.PlayerID("player1")

var errUnknownAction = errors.New("unknown action type")

type ClientMessage struct {
	Type       string     `json:"type"`
	ActionId   string     `json:"actionId,omitempty"`
	Action     *ActionDTO `json:"action,omitempty"`
	Players    int        `json:"players,omitempty"`
	PlayerName string     `json:"playerName,omitempty"`
}

type ServerMessage struct {
	Type   string     `json:"type"`
	State  *GameView  `json:"state,omitempty"`
	Events []Event    `json:"events,omitempty"`
	Error  *ErrorView `json:"error,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Session owns one game on behalf of one websocket connection. All access to
// the game goes through mu.
type Session struct {
	id     string
	logger *zap.Logger
	store  history.Store

	mu        sync.Mutex
	conn      *websocket.Conn
	game      *engine.Game
	strats    map[engine.PlayerID]bots.Strategy
	actionIds map[string]bool
	saved     bool
	seed      int64
}

func NewSession(conn *websocket.Conn, store history.Store, logger *zap.Logger) *Session {
	return &Session{
		id:        uuid.NewString(),
		logger:    logger,
		store:     store,
		conn:      conn,
		strats:    map[engine.PlayerID]bots.Strategy{},
		actionIds: map[string]bool{},
		seed:      time.Now().UnixNano(),
	}
}

// Run reads client messages until the connection drops.
func (s *Session) Run() {
	s.logger.Info("session started", zap.String("session", s.id))
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Info("session closed", zap.String("session", s.id), zap.Error(err))
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("bad_request", "invalid json")
			continue
		}
		s.handleMessage(msg)
	}
}

func (s *Session) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case "join_session", "request_state":
		s.sendState(nil)
	case "start_game":
		s.startGame(msg.Players, msg.PlayerName)
	case "player_action":
		s.applyAction(msg.ActionId, msg.Action)
	default:
		s.sendError("unknown_type", "unknown message type")
	}
}

func (s *Session) startGame(players int, playerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if players == 0 {
		players = 3
	}
	if players != 3 && players != 4 {
		s.sendError("start_failed", "players must be 3 or 4")
		return
	}
	botNames := []string{"Anna", "Boris", "Clara"}[:players-1]
	cfg := engine.Config{
		NumberOfPlayers: players,
		PlayerName:      playerName,
		BotNames:        botNames,
	}
	game, err := engine.New(cfg, rand.New(rand.NewSource(s.seed)))
	if err != nil {
		s.sendError("start_failed", err.Error())
		return
	}
	s.game = game
	s.actionIds = map[string]bool{}
	s.saved = false
	s.strats = map[engine.PlayerID]bots.Strategy{}
	for i, p := range game.State().Players {
		if p.IsBot {
			if i%2 == 0 {
				s.strats[p.ID] = bots.NewEasy(s.seed + int64(i))
			} else {
				s.strats[p.ID] = bots.NewNormal(s.seed + int64(i))
			}
		}
	}
	s.logger.Info("game started",
		zap.String("session", s.id),
		zap.Int("players", players),
	)
	s.sendStateLocked(nil)
	s.botAutoPlayLocked()
}

func (s *Session) applyAction(actionId string, dto *ActionDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		s.sendError("not_started", "game not started")
		return
	}
	if actionId == "" {
		s.sendError("missing_action_id", "actionId required")
		return
	}
	if s.actionIds[actionId] {
		s.sendStateLocked(nil)
		return
	}

	if dto == nil {
		s.sendError("bad_action", "action required")
		return
	}
	prev := s.game.State()
	if err := s.applyDTO(humanID, *dto); err != nil {
		s.sendError("apply_failed", err.Error())
		return
	}
	s.actionIds[actionId] = true
	events := diffEvents(prev, s.game.State(), humanID)
	s.finishIfOverLocked()
	s.sendStateLocked(events)
	s.botAutoPlayLocked()
}

func (s *Session) applyDTO(id engine.PlayerID, dto ActionDTO) error {
	switch dto.Type {
	case actionBid:
		return s.game.PlaceBid(id, dto.Amount)
	case actionPass:
		return s.game.PlaceBid(id, 0)
	case actionPlayCard:
		return s.game.PlayCard(id, dto.CardIndex)
	case actionDeclareMarriage:
		suit, err := parseSuit(dto.Suit)
		if err != nil {
			return err
		}
		return s.game.DeclareMarriage(id, suit)
	default:
		return errUnknownAction
	}
}

func (s *Session) botAutoPlayLocked() {
	for {
		state := s.game.State()
		if state.Phase != engine.PhaseBidding && state.Phase != engine.PhasePlaying {
			return
		}
		strat, isBot := s.strats[state.CurrentPlayer]
		if !isBot {
			return
		}
		player := state.PlayerByID(state.CurrentPlayer)
		prev := state

		var err error
		switch state.Phase {
		case engine.PhaseBidding:
			err = s.game.PlaceBid(player.ID, strat.DecideBid(state, *player))
		case engine.PhasePlaying:
			if len(state.Trick) == 0 {
				for _, suit := range []engine.Suit{engine.SuitHearts, engine.SuitDiamonds, engine.SuitClubs, engine.SuitSpades} {
					if player.HoldsMarriageIn(suit) && !player.Marriages[suit] {
						if derr := s.game.DeclareMarriage(player.ID, suit); derr == nil {
							break
						}
					}
				}
				state = s.game.State()
				player = state.PlayerByID(player.ID)
			}
			err = s.game.PlayCard(player.ID, strat.DecideCardToPlay(state, *player))
		}
		if err != nil {
			s.logger.Error("bot move rejected",
				zap.String("session", s.id),
				zap.String("player", string(player.ID)),
				zap.Error(err),
			)
			return
		}
		events := diffEvents(prev, s.game.State(), player.ID)
		s.finishIfOverLocked()
		s.sendStateLocked(events)
	}
}

// finishIfOverLocked records the finished game in the history store, once.
func (s *Session) finishIfOverLocked() {
	if s.saved || s.game == nil {
		return
	}
	result, err := s.game.Result()
	if err != nil {
		return
	}
	s.saved = true
	if s.store == nil {
		return
	}
	if err := s.store.Save(result); err != nil {
		s.logger.Error("saving game result", zap.String("session", s.id), zap.Error(err))
		return
	}
	s.logger.Info("game over",
		zap.String("session", s.id),
		zap.String("winner", result.Winner),
	)
}

func (s *Session) sendState(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendStateLocked(events)
}

func (s *Session) sendStateLocked(events []Event) {
	if s.conn == nil {
		return
	}
	msg := ServerMessage{Type: "state", Events: events}
	if s.game != nil {
		view := buildView(s.id, s.game.State(), humanID)
		msg.State = &view
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warn("write failed", zap.String("session", s.id), zap.Error(err))
	}
}

func (s *Session) sendError(code, message string) {
	if s.conn == nil {
		return
	}
	msg := ServerMessage{
		Type:  "error",
		Error: &ErrorView{Code: code, Message: message},
	}
	_ = s.conn.WriteJSON(msg)
}
