package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/valpere/codetran/internal/session"
)

const noticeBuffer = 16

// StateMsg tells the model to re-read the session snapshot.
type StateMsg struct{}

// NoticeMsg carries one session notice into the program.
type NoticeMsg struct {
	Notice session.Notice
}

// Bridge adapts session callbacks, which may fire on any goroutine, into
// tea messages. State changes are coalesced: the model always re-reads the
// latest snapshot, so one pending signal is enough.
type Bridge struct {
	changed chan struct{}
	notices chan session.Notice
	logger  *zap.SugaredLogger
}

func NewBridge(logger *zap.SugaredLogger) *Bridge {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Bridge{
		changed: make(chan struct{}, 1),
		notices: make(chan session.Notice, noticeBuffer),
		logger:  logger,
	}
}

func (b *Bridge) StateChanged(session.Snapshot) {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

func (b *Bridge) Notice(n session.Notice) {
	select {
	case b.notices <- n:
	default:
		b.logger.Warnw("dropping notice, ui is not keeping up", "kind", n.Kind, "message", n.Message)
	}
}

// Listen waits for the next state change or notice.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-b.notices:
			return NoticeMsg{Notice: n}
		case <-b.changed:
			return StateMsg{}
		}
	}
}
