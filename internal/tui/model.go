package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/valpere/codetran/internal/examples"
	"github.com/valpere/codetran/internal/files"
	"github.com/valpere/codetran/internal/language"
	"github.com/valpere/codetran/internal/session"
)

// Controller is the part of a session the UI drives.
type Controller interface {
	Snapshot() session.Snapshot
	SetInputLanguage(opt language.Option)
	SetOutputLanguage(opt language.Option)
	SwapLanguages()
	SetSourceCode(code string)
	SelectExample(code, languageID string)
	UploadFrom(r io.Reader) error
	Translate(ctx context.Context) error
	CopyToClipboard(ctx context.Context) error
	DownloadAsFile() (string, error)
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeInsert
	modePrompt
)

type tickMsg time.Time

type translateDoneMsg struct{ err error }

type copyDoneMsg struct{ err error }

type downloadDoneMsg struct {
	path string
	err  error
}

type uploadDoneMsg struct {
	path    string
	openErr error
	err     error
}

type Model struct {
	ctx    context.Context
	sess   Controller
	bridge *Bridge
	fs     afero.Fs

	snap      session.Snapshot
	notice    string
	noticeErr bool
	mode      inputMode
	prompt    string
	dots      int

	width  int
	height int
}

func New(ctx context.Context, sess Controller, bridge *Bridge, fs afero.Fs) *Model {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Model{
		ctx:    ctx,
		sess:   sess,
		bridge: bridge,
		fs:     fs,
		snap:   sess.Snapshot(),
		width:  100,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.bridge.Listen())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.snap = m.sess.Snapshot()
		return m, m.bridge.Listen()
	case NoticeMsg:
		m.setNotice(msg.Notice.Message, true)
		return m, m.bridge.Listen()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.snap.Status == session.StatusInFlight {
			m.dots = (m.dots + 1) % 4
		}
		return m, tickCmd()
	case translateDoneMsg, copyDoneMsg:
		// Failures already arrived as notices.
		m.snap = m.sess.Snapshot()
		return m, nil
	case downloadDoneMsg:
		if msg.err == nil {
			m.setNotice("Saved "+msg.path, false)
		}
		return m, nil
	case uploadDoneMsg:
		m.snap = m.sess.Snapshot()
		if msg.openErr != nil {
			// The session never saw this failure, so report it here.
			m.setNotice(fmt.Sprintf("Cannot open %s: %v", msg.path, msg.openErr), true)
		} else if msg.err == nil {
			m.setNotice("Loaded "+msg.path, false)
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeInsert:
			return m, m.handleInsertKey(msg)
		case modePrompt:
			return m, m.handlePromptKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeErr = isError
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return tea.Quit
	case "tab":
		m.sess.SetInputLanguage(nextLanguage(m.snap.InputLanguage))
	case "shift+tab":
		m.sess.SetOutputLanguage(nextLanguage(m.snap.OutputLanguage))
	case "s":
		m.sess.SwapLanguages()
	case "t", "enter":
		return m.translateCmd()
	case "c":
		return m.copyCmd()
	case "d":
		return m.downloadCmd()
	case "x":
		m.sess.SetSourceCode("")
	case "i":
		m.mode = modeInsert
	case ":":
		m.mode = modePrompt
		m.prompt = ""
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if p, ok := examples.Get(int(key[0] - '1')); ok {
			m.sess.SelectExample(p.Code, p.Language)
			m.setNotice("Example: "+p.Title, false)
		}
	}
	m.snap = m.sess.Snapshot()
	return nil
}

func (m *Model) handleInsertKey(msg tea.KeyMsg) tea.Cmd {
	code := m.snap.SourceCode
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		return nil
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEnter:
		code += "\n"
	case tea.KeyTab:
		code += "\t"
	case tea.KeySpace:
		code += " "
	case tea.KeyBackspace:
		code = dropLastRune(code)
	case tea.KeyRunes:
		code += string(msg.Runes)
	default:
		return nil
	}
	m.sess.SetSourceCode(code)
	m.snap = m.sess.Snapshot()
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEnter:
		m.mode = modeNormal
		return m.runPrompt(strings.TrimSpace(m.prompt))
	case tea.KeyBackspace:
		m.prompt = dropLastRune(m.prompt)
	case tea.KeySpace:
		m.prompt += " "
	case tea.KeyRunes:
		m.prompt += string(msg.Runes)
	}
	return nil
}

func (m *Model) runPrompt(line string) tea.Cmd {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "":
		return nil
	case "load":
		if arg == "" {
			m.setNotice("usage: load <path>", true)
			return nil
		}
		return m.uploadCmd(arg)
	case "from", "to":
		opt, ok := language.Lookup(arg)
		if !ok {
			m.setNotice(fmt.Sprintf("unknown language %q (supported: %s)", arg, strings.Join(language.IDs(), ", ")), true)
			return nil
		}
		if verb == "from" {
			m.sess.SetInputLanguage(opt)
		} else {
			m.sess.SetOutputLanguage(opt)
		}
		m.snap = m.sess.Snapshot()
	case "save":
		return m.downloadCmd()
	case "q", "quit":
		return tea.Quit
	default:
		m.setNotice(fmt.Sprintf("unknown command %q", verb), true)
	}
	return nil
}

func (m *Model) translateCmd() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		return translateDoneMsg{err: sess.Translate(ctx)}
	}
}

func (m *Model) copyCmd() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		return copyDoneMsg{err: sess.CopyToClipboard(ctx)}
	}
}

func (m *Model) downloadCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		path, err := sess.DownloadAsFile()
		return downloadDoneMsg{path: path, err: err}
	}
}

func (m *Model) uploadCmd(path string) tea.Cmd {
	fs, sess := m.fs, m.sess
	return func() tea.Msg {
		f, err := files.Open(fs, path)
		if err != nil {
			return uploadDoneMsg{path: path, openErr: err}
		}
		defer f.Close()
		return uploadDoneMsg{path: path, err: sess.UploadFrom(f)}
	}
}

// nextLanguage cycles through the registry; an absent option starts at the
// first entry.
func nextLanguage(cur language.Option) language.Option {
	all := language.All()
	for i, opt := range all {
		if opt.Equal(cur) {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
