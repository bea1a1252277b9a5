package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/duemate/internal/client/dashboard"
	"github.com/dmitrijs2005/duemate/internal/client/models"
)

// Refresh reloads the page currently shown.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	a.dash.Reload(ctx)
	a.render()
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	a.dash.SetSearch(ctx, strings.Join(args, " "))
	a.render()
	return nil
}

// allOrEmpty maps "all" and a missing argument to the empty filter.
func allOrEmpty(args []string) string {
	if len(args) == 0 || strings.EqualFold(args[0], "all") {
		return ""
	}
	return strings.ToLower(args[0])
}

func (a *App) FilterStatus(ctx context.Context, args []string) error {
	return a.filter(func() error {
		return a.dash.SetStatus(ctx, models.Status(allOrEmpty(args)))
	})
}

func (a *App) FilterCategory(ctx context.Context, args []string) error {
	return a.filter(func() error {
		return a.dash.SetCategory(ctx, models.Category(allOrEmpty(args)))
	})
}

func (a *App) SortBy(ctx context.Context, args []string) error {
	return a.filter(func() error {
		return a.dash.SetSortBy(ctx, allOrEmpty(args))
	})
}

func (a *App) SortOrder(ctx context.Context, args []string) error {
	return a.filter(func() error {
		return a.dash.SetSortOrder(ctx, allOrEmpty(args))
	})
}

func (a *App) filter(set func() error) error {
	if err := set(); err != nil {
		a.println(err.Error())
		return err
	}
	a.render()
	return nil
}

func (a *App) ClearFilters(ctx context.Context, _ []string) error {
	a.dash.ClearFilters(ctx)
	a.render()
	return nil
}

func (a *App) NextPage(ctx context.Context, _ []string) error {
	page, ok := a.binder.Next()
	if !ok {
		a.println("No next page.")
		return nil
	}
	return a.loadPage(ctx, page)
}

func (a *App) PrevPage(ctx context.Context, _ []string) error {
	page, ok := a.binder.Prev()
	if !ok {
		a.println("No previous page.")
		return nil
	}
	return a.loadPage(ctx, page)
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: page <n>")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		a.println("Usage: page <n>")
		return nil
	}
	page, ok := a.binder.Jump(n)
	if !ok {
		a.printf("Page %d is out of range.\n", n)
		return nil
	}
	return a.loadPage(ctx, page)
}

func (a *App) loadPage(ctx context.Context, page int) error {
	a.dash.Load(ctx, page)
	a.render()
	return nil
}

// Select sets a row's status selector without sending anything.
func (a *App) Select(_ context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: select <id> <status>")
		return nil
	}
	id := models.ID(args[0])
	if _, ok := a.binder.Row(id); !ok {
		a.printf("No payment %s on this page.\n", id)
		return nil
	}
	st, err := models.ParseStatus(args[1])
	if err != nil {
		a.println(err.Error())
		return err
	}
	if err := a.dash.Select(id, st); err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Payment %s will be set to %s.\n", id, st.Label())
	return nil
}

// Update sends the row's selected status. An optional second argument
// selects the status first.
func (a *App) Update(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		a.println("Usage: update <id> [status]")
		return nil
	}
	act, ok := a.binder.Action(models.ID(args[0]), dashboard.ActionUpdate)
	if !ok {
		a.printf("No payment %s on this page.\n", args[0])
		return nil
	}
	if len(args) == 2 {
		st, err := models.ParseStatus(args[1])
		if err != nil {
			a.println(err.Error())
			return err
		}
		if err := a.dash.Select(act.ID, st); err != nil {
			a.println(err.Error())
			return err
		}
	}

	err := a.dash.UpdateStatus(ctx, act.ID)
	a.render()
	return err
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: delete <id>")
		return nil
	}
	act, ok := a.binder.Action(models.ID(args[0]), dashboard.ActionDelete)
	if !ok {
		a.printf("No payment %s on this page.\n", args[0])
		return nil
	}

	err := a.dash.Delete(ctx, act.ID, a)
	a.render()
	return err
}
