package feeds

import (
	"strconv"

	"faithfeed/storage/models"
)

// Page is one assembled feed page. NextCursor is null exactly when the
// page is short of the requested limit.
type Page struct {
	Items      []models.Post `json:"items"`
	NextCursor *string       `json:"nextCursor"`
}

func newPage(items []models.Post, limit int) Page {
	if items == nil {
		items = make([]models.Post, 0)
	}
	page := Page{Items: items}
	if len(items) == limit && len(items) > 0 {
		cursor := strconv.FormatInt(items[len(items)-1].ID, 10)
		page.NextCursor = &cursor
	}
	return page
}
