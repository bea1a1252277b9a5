package dashboard

import (
	"strings"

	"github.com/dmitrijs2005/duemate/internal/client/models"
)

// Controls mirrors the dashboard's filter and sort inputs. Empty fields mean
// "not set" and are left out of the query.
type Controls struct {
	Search    string
	Status    models.Status
	Category  models.Category
	SortBy    string
	SortOrder string
}

// ClearedControls is what "clear filters" resets to.
func ClearedControls() Controls {
	return Controls{SortBy: models.SortByDeadline, SortOrder: models.SortAsc}
}

// Query builds the request for page from the current controls.
func (c Controls) Query(page int) models.Query {
	if page < 1 {
		page = 1
	}
	return models.Query{
		Page:      page,
		PerPage:   models.PerPage,
		Search:    strings.TrimSpace(c.Search),
		Status:    c.Status,
		Category:  c.Category,
		SortBy:    c.SortBy,
		SortOrder: c.SortOrder,
	}
}
