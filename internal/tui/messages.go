package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/recipes/internal/model"
)

// Service is the subset of the API client the views use.
type Service interface {
	List(ctx context.Context) ([]model.Recipe, error)
	Get(ctx context.Context, id int) (model.Recipe, error)
	Create(ctx context.Context, in model.RecipeInput) (model.Recipe, error)
	Update(ctx context.Context, id int, in model.RecipeInput) error
	Delete(ctx context.Context, id int) error
}

// mounted is implemented by every message produced for a specific view
// instance. The router drops those addressed to a view that is gone.
type mounted interface {
	mountID() int
}

type tag struct{ mount int }

func (t tag) mountID() int { return t.mount }

type recipesLoadedMsg struct {
	tag
	recipes []model.Recipe
}

type recipeLoadedMsg struct {
	tag
	recipe model.Recipe
}

type recipeCreatedMsg struct {
	tag
	recipe model.Recipe
}

type recipeUpdatedMsg struct {
	tag
	id int
}

type recipeDeletedMsg struct {
	tag
	id int
}

type requestFailedMsg struct {
	tag
	op  string
	err error
}

// requester issues API calls as commands tagged with the view's mount id.
type requester struct {
	svc     Service
	timeout time.Duration
	mount   int
}

func (r requester) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (r requester) failed(op string, err error) tea.Msg {
	return requestFailedMsg{tag: tag{r.mount}, op: op, err: err}
}

func (r requester) list() tea.Cmd {
	return r.call(func(ctx context.Context) tea.Msg {
		recipes, err := r.svc.List(ctx)
		if err != nil {
			return r.failed("list", err)
		}
		return recipesLoadedMsg{tag: tag{r.mount}, recipes: recipes}
	})
}

func (r requester) get(id int) tea.Cmd {
	return r.call(func(ctx context.Context) tea.Msg {
		rec, err := r.svc.Get(ctx, id)
		if err != nil {
			return r.failed("get", err)
		}
		return recipeLoadedMsg{tag: tag{r.mount}, recipe: rec}
	})
}

func (r requester) create(in model.RecipeInput) tea.Cmd {
	return r.call(func(ctx context.Context) tea.Msg {
		rec, err := r.svc.Create(ctx, in)
		if err != nil {
			return r.failed("create", err)
		}
		return recipeCreatedMsg{tag: tag{r.mount}, recipe: rec}
	})
}

func (r requester) update(id int, in model.RecipeInput) tea.Cmd {
	return r.call(func(ctx context.Context) tea.Msg {
		if err := r.svc.Update(ctx, id, in); err != nil {
			return r.failed("update", err)
		}
		return recipeUpdatedMsg{tag: tag{r.mount}, id: id}
	})
}

func (r requester) remove(id int) tea.Cmd {
	return r.call(func(ctx context.Context) tea.Msg {
		if err := r.svc.Delete(ctx, id); err != nil {
			return r.failed("delete", err)
		}
		return recipeDeletedMsg{tag: tag{r.mount}, id: id}
	})
}
