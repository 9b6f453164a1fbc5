package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/model"
)

// fakeService is an in-memory Service that records every call.
type fakeService struct {
	mu      sync.Mutex
	nextID  int
	recipes []model.Recipe
	calls   []string
	fail    map[string]error
}

func newFakeService(seed ...model.Recipe) *fakeService {
	f := &fakeService{nextID: 1, fail: map[string]error{}}
	for _, r := range seed {
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
		f.recipes = append(f.recipes, r)
	}
	return f
}

var errBoom = errors.New("boom")

func (f *fakeService) failOn(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = errBoom
}

func (f *fakeService) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeService) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) List(context.Context) ([]model.Recipe, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Recipe(nil), f.recipes...), nil
}

func (f *fakeService) Get(_ context.Context, id int) (model.Recipe, error) {
	if err := f.record("get"); err != nil {
		return model.Recipe{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Recipe{}, errors.New("not found")
}

func (f *fakeService) Create(_ context.Context, in model.RecipeInput) (model.Recipe, error) {
	if err := f.record("create"); err != nil {
		return model.Recipe{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := model.Recipe{ID: f.nextID, Name: in.Name, Ingredients: in.Ingredients, Instructions: in.Instructions}
	f.nextID++
	f.recipes = append(f.recipes, r)
	return r, nil
}

func (f *fakeService) Update(_ context.Context, id int, in model.RecipeInput) error {
	if err := f.record("update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.recipes {
		if r.ID == id {
			f.recipes[i].Name, f.recipes[i].Ingredients, f.recipes[i].Instructions = in.Name, in.Ingredients, in.Instructions
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeService) Delete(_ context.Context, id int) error {
	if err := f.record("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.recipes {
		if r.ID == id {
			f.recipes = append(f.recipes[:i], f.recipes[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// drain runs cmd (expanding batches) and returns the messages produced
// within a short deadline. Slow commands such as cursor blinks are dropped.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(200 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T.
func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// feed delivers every message to v, returning the final view and the
// commands the view produced along the way.
func feed(v view, msgs ...tea.Msg) (view, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, m := range msgs {
		var cmd tea.Cmd
		v, cmd = v.Update(m)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return v, cmds
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testRequester(svc Service) requester {
	return requester{svc: svc, timeout: time.Second, mount: 1}
}
