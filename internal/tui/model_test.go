package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/valpere/codetran/internal/examples"
	"github.com/valpere/codetran/internal/language"
	"github.com/valpere/codetran/internal/session"
)

type fakeController struct {
	mu         sync.Mutex
	snap       session.Snapshot
	translated int
	copied     int
	downloads  int
	uploaded   []string
	uploadErr  error
}

func newFakeController() *fakeController {
	return &fakeController{snap: session.Snapshot{
		InputLanguage:  language.Java,
		OutputLanguage: language.Python,
	}}
}

func (f *fakeController) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) SetInputLanguage(opt language.Option)  { f.snap.InputLanguage = opt }
func (f *fakeController) SetOutputLanguage(opt language.Option) { f.snap.OutputLanguage = opt }
func (f *fakeController) SetSourceCode(code string)             { f.snap.SourceCode = code }

func (f *fakeController) SwapLanguages() {
	f.snap.InputLanguage, f.snap.OutputLanguage = f.snap.OutputLanguage, f.snap.InputLanguage
}

func (f *fakeController) SelectExample(code, languageID string) {
	f.snap.SourceCode = code
	if opt, ok := language.Lookup(languageID); ok {
		f.snap.InputLanguage = opt
	}
}

func (f *fakeController) UploadFrom(r io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, _ := io.ReadAll(r)
	f.uploaded = append(f.uploaded, string(data))
	f.snap.SourceCode = string(data)
	return nil
}

func (f *fakeController) Translate(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.translated++
	f.snap.Status = session.StatusSucceeded
	f.snap.TranslatedCode = "translated"
	return nil
}

func (f *fakeController) CopyToClipboard(ctx context.Context) error {
	f.copied++
	return nil
}

func (f *fakeController) DownloadAsFile() (string, error) {
	f.downloads++
	return "/tmp/translated_code.py", nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(ctrl *fakeController, fs afero.Fs) *Model {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return New(context.Background(), ctrl, NewBridge(nil), fs)
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(newFakeController(), nil)
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		cmd := press(m, key)
		if cmd == nil {
			t.Fatalf("expected quit command for %q", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg for %q", key.String())
		}
	}
}

func TestModel_LanguageCycling(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	all := language.All()
	if !ctrl.snap.InputLanguage.Equal(all[1]) {
		t.Errorf("expected input to advance to %s, got %s", all[1], ctrl.snap.InputLanguage)
	}

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if ctrl.snap.OutputLanguage.Equal(language.Python) {
		t.Error("expected output language to change")
	}
}

func TestNextLanguage(t *testing.T) {
	all := language.All()
	if got := nextLanguage(all[len(all)-1]); !got.Equal(all[0]) {
		t.Errorf("expected wrap to %s, got %s", all[0], got)
	}
	if got := nextLanguage(language.Option{}); !got.Equal(all[0]) {
		t.Errorf("expected absent option to start at %s, got %s", all[0], got)
	}
}

func TestModel_Swap(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	press(m, runes("s"))
	if !m.snap.InputLanguage.Equal(language.Python) || !m.snap.OutputLanguage.Equal(language.Java) {
		t.Errorf("expected swapped languages, got %s -> %s", m.snap.InputLanguage, m.snap.OutputLanguage)
	}
}

func TestModel_TranslateRunsAsCommand(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	for _, key := range []tea.KeyMsg{runes("t"), {Type: tea.KeyEnter}} {
		cmd := press(m, key)
		if cmd == nil {
			t.Fatalf("expected a command for %q", key.String())
		}
		press(m, cmd())
	}

	if ctrl.translated != 2 {
		t.Errorf("expected 2 translate calls, got %d", ctrl.translated)
	}
	if m.snap.TranslatedCode != "translated" {
		t.Errorf("expected snapshot refresh after translate, got %q", m.snap.TranslatedCode)
	}
}

func TestModel_CopyAndDownload(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	press(m, press(m, runes("c"))())
	press(m, press(m, runes("d"))())

	if ctrl.copied != 1 || ctrl.downloads != 1 {
		t.Errorf("expected one copy and one download, got %d and %d", ctrl.copied, ctrl.downloads)
	}
	if !strings.Contains(m.notice, "translated_code.py") || m.noticeErr {
		t.Errorf("expected saved notice, got %q", m.notice)
	}
}

func TestModel_SelectExample(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	press(m, runes("1"))
	want, _ := examples.Get(0)
	if ctrl.snap.SourceCode != want.Code {
		t.Error("expected first example loaded")
	}

	press(m, runes("9"))
	if ctrl.snap.SourceCode != want.Code {
		t.Error("out-of-range example must be ignored")
	}
}

func TestModel_InsertMode(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	press(m,
		runes("i"),
		runes("int"),
		tea.KeyMsg{Type: tea.KeySpace},
		runes("xé"),
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("q"),
		tea.KeyMsg{Type: tea.KeyEsc},
	)

	if ctrl.snap.SourceCode != "int x\nq" {
		t.Errorf("unexpected source %q", ctrl.snap.SourceCode)
	}
	if m.mode != modeNormal {
		t.Error("expected esc to leave insert mode")
	}
}

func TestModel_PromptLanguages(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	press(m, runes(":"), runes("to"), tea.KeyMsg{Type: tea.KeySpace}, runes("c#"), tea.KeyMsg{Type: tea.KeyEnter})
	if !ctrl.snap.OutputLanguage.Equal(language.CSharp) {
		t.Errorf("expected c# output, got %s", ctrl.snap.OutputLanguage)
	}

	press(m, runes(":"), runes("from rust"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.noticeErr || !strings.Contains(m.notice, "rust") {
		t.Errorf("expected unknown language notice, got %q", m.notice)
	}
	if !ctrl.snap.InputLanguage.Equal(language.Java) {
		t.Error("unknown language must not change the selection")
	}
}

func TestModel_PromptLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/src/Main.java", []byte("class Main {}"), 0o644)
	ctrl := newFakeController()
	m := newTestModel(ctrl, fs)

	cmd := press(m, runes(":"), runes("load /src/Main.java"), tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected upload command")
	}
	press(m, cmd())

	if ctrl.snap.SourceCode != "class Main {}" {
		t.Errorf("expected uploaded source, got %q", ctrl.snap.SourceCode)
	}
	if m.noticeErr {
		t.Errorf("unexpected error notice %q", m.notice)
	}
}

func TestModel_PromptLoadMissingFile(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	cmd := press(m, runes(":"), runes("load /nope.java"), tea.KeyMsg{Type: tea.KeyEnter})
	press(m, cmd())

	if !m.noticeErr || !strings.Contains(m.notice, "/nope.java") {
		t.Errorf("expected open failure notice, got %q", m.notice)
	}
	if len(ctrl.uploaded) != 0 {
		t.Error("nothing should be uploaded")
	}
}

func TestModel_PromptUnknownCommand(t *testing.T) {
	m := newTestModel(newFakeController(), nil)
	press(m, runes(":"), runes("frobnicate"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.noticeErr {
		t.Error("expected error notice for unknown command")
	}
}

func TestModel_NoticeAndStateMessages(t *testing.T) {
	ctrl := newFakeController()
	m := newTestModel(ctrl, nil)

	cmd := press(m, NoticeMsg{Notice: session.Notice{Kind: session.NoticeTransport, Message: "boom"}})
	if m.notice != "boom" || !m.noticeErr {
		t.Errorf("expected transport notice, got %q", m.notice)
	}
	if cmd == nil {
		t.Error("expected the bridge to be listened to again")
	}

	ctrl.snap.TranslatedCode = "fresh"
	press(m, StateMsg{})
	if m.snap.TranslatedCode != "fresh" {
		t.Error("expected state message to refresh the snapshot")
	}
}

func TestModel_View(t *testing.T) {
	ctrl := newFakeController()
	ctrl.snap.SourceCode = "System.out.println(1);"
	ctrl.snap.TranslatedCode = "print(1)"
	ctrl.snap.CopyAcknowledged = true
	m := newTestModel(ctrl, nil)

	for _, width := range []int{60, 140} {
		press(m, tea.WindowSizeMsg{Width: width, Height: 40})
		view := m.View()
		for _, want := range []string{"Java", "Python", "print(1)", "(copied)", "idle"} {
			if !strings.Contains(view, want) {
				t.Errorf("width %d: expected %q in view", width, want)
			}
		}
	}
}

func TestBridge(t *testing.T) {
	b := NewBridge(nil)

	b.StateChanged(session.Snapshot{})
	b.StateChanged(session.Snapshot{})
	if _, ok := b.Listen()().(StateMsg); !ok {
		t.Fatal("expected a state message")
	}
	select {
	case <-b.changed:
		t.Error("state changes should be coalesced")
	default:
	}

	for i := 0; i < noticeBuffer+5; i++ {
		b.Notice(session.Notice{Message: "n"})
	}
	if msg, ok := b.Listen()().(NoticeMsg); !ok || msg.Notice.Message != "n" {
		t.Errorf("expected a notice message, got %v", msg)
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb", 5); got != "a\nb" {
		t.Errorf("short input should be unchanged, got %q", got)
	}
	got := tail("1\n2\n3\n4", 2)
	if !strings.HasSuffix(got, "3\n4") || !strings.Contains(got, "2 lines above") {
		t.Errorf("unexpected tail %q", got)
	}
}

func TestDropLastRune(t *testing.T) {
	if got := dropLastRune("é"); got != "" {
		t.Errorf("expected multibyte rune removed whole, got %q", got)
	}
	if got := dropLastRune(""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
