package engine

import (
	"io"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"kalah/board"
	"kalah/protocol"
)

// Agent drives one match over a referee connection. It tracks which side
// it plays, the last known board, and whether the pie rule is still live.
type Agent struct {
	conn    *protocol.Conn
	mode    Mode
	depth   int
	weights Weights

	pos       board.Position
	state     board.BoardState
	firstMove bool

	// Board expected from the referee's echo of our own move. Checked on
	// the next state change; a mismatch means the two rule engines have
	// diverged and the match result would be garbage.
	expected    board.BoardState
	hasExpected bool
}

// NewAgent returns an agent ready to run one match.
func NewAgent(conn *protocol.Conn, mode Mode, depth int, weights Weights) *Agent {
	return &Agent{
		conn:      conn,
		mode:      mode,
		depth:     depth,
		weights:   weights,
		state:     board.NewBoard(),
		firstMove: true,
	}
}

// Run plays the match to completion. It returns nil on a clean END and an
// error on any protocol violation or rules divergence.
func (a *Agent) Run() error {
	msg, err := a.conn.ReadMessage()
	if err != nil {
		return errors.Wrap(err, "waiting for START")
	}
	switch msg.Kind {
	case protocol.MsgGameOver:
		return nil
	case protocol.MsgNewMatch:
		a.pos = msg.Side
		klog.V(1).Infof("new match: playing %s, %s depth %d", a.pos, a.mode, a.depth)
		if a.pos == board.South {
			if err := a.makeMove(); err != nil {
				return err
			}
		}
	default:
		return errors.New("protocol: expected START before state changes")
	}

	for {
		msg, err := a.conn.ReadMessage()
		if err == io.EOF {
			return errors.New("protocol: stream closed before END")
		}
		if err != nil {
			return err
		}
		switch msg.Kind {
		case protocol.MsgGameOver:
			return nil
		case protocol.MsgNewMatch:
			return errors.New("protocol: unexpected START mid-match")
		case protocol.MsgStateChange:
			if done, err := a.onStateChange(msg); done || err != nil {
				return err
			}
		}
	}
}

func (a *Agent) onStateChange(msg protocol.Message) (done bool, err error) {
	if msg.Move.Swap {
		a.pos = a.pos.Opponent()
		klog.V(1).Infof("sides swapped, now playing %s", a.pos)
	}
	if a.hasExpected {
		a.hasExpected = false
		if !msg.Move.Swap && a.expected != msg.State {
			return false, errors.Errorf("rules divergence: referee reports %v, expected %v", msg.State, a.expected)
		}
	}
	a.state = msg.State

	switch msg.Turn {
	case protocol.TurnEnd:
		return true, nil
	case protocol.TurnOpponent:
		return false, nil
	}
	return false, a.makeMove()
}

// makeMove searches the current board for the agent's side and sends the
// chosen move.
func (a *Agent) makeMove() error {
	res := Search(a.state, a.pos, a.depth, a.firstMove, a.weights, a.mode)
	if !res.HasMove {
		return errors.Errorf("search found no move on a live board (%v, %s to move)", a.state, a.pos)
	}
	klog.V(1).Infof("%s plays %s (score %.3f, %d nodes, %s)",
		a.pos, res.Move, res.Score, res.Stats.Nodes, res.Elapsed)

	a.expected, _, _ = a.state.Apply(res.Move, a.pos, a.firstMove)
	a.hasExpected = true

	mover := a.pos
	if res.Move.IsSwap {
		a.pos = a.pos.Opponent()
	}
	if err := a.conn.WriteMove(res.Move, mover); err != nil {
		return err
	}
	a.firstMove = false
	return nil
}
