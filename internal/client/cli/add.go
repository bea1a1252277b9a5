package cli

import (
	"context"

	"github.com/dmitrijs2005/duemate/internal/client/dashboard"
	"github.com/dmitrijs2005/duemate/internal/client/models"
)

var (
	categoryChoices = func() []string {
		out := make([]string, len(models.Categories))
		for i, c := range models.Categories {
			out[i] = string(c)
		}
		return out
	}()
	statusChoices = func() []string {
		out := make([]string, len(models.Statuses))
		for i, s := range models.Statuses {
			out[i] = string(s)
		}
		return out
	}()
)

// Add walks through the add-payment form. Every invocation starts from an
// empty form.
func (a *App) Add(ctx context.Context, _ []string) error {
	var f dashboard.Form

	steps := []struct {
		dst    *string
		prompt string
		choice []string
		def    string
	}{
		{&f.Name, "Payment name", nil, ""},
		{&f.Description, "Description (optional)", nil, ""},
		{&f.Amount, "Amount", nil, ""},
		{&f.Category, "Category", categoryChoices, string(models.CategoryOther)},
		{&f.Deadline, "Deadline (YYYY-MM-DD)", nil, ""},
		{&f.Status, "Status", statusChoices, string(models.StatusPending)},
	}

	for _, s := range steps {
		var (
			v   string
			err error
		)
		if s.choice != nil {
			v, err = GetChoice(a.reader, s.prompt, s.choice, s.def, a.out)
		} else {
			v, err = GetSimpleText(a.reader, s.prompt, a.out)
		}
		if err != nil {
			return err
		}
		*s.dst = v
	}

	err := a.dash.Create(ctx, f)
	a.render()
	return err
}
