package web

import (
	"fmt"
	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"io"
	"net/http"
	"time"
)

// NewPenaltyFeedEndpoint serves the recent penalties of the current run as
// an RSS or Atom feed, depending on the writer passed in.
func NewPenaltyFeedEndpoint(store reportHandlerStore, contentType string, writer func(*feeds.Feed, io.Writer) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		penalties, err := store.RecentPenalties(c.Request().Context(), 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, WithCause(err))
		}

		now := time.Now()
		feedId := baseUrl(c) + "/api/penalties"
		feed := &feeds.Feed{
			Id:      feedId,
			Title:   "Rotables run penalties",
			Link:    &feeds.Link{Href: feedId},
			Created: now,
			Updated: now,
		}

		for _, p := range penalties {
			feed.Items = append(feed.Items, &feeds.Item{
				Id:          fmt.Sprintf("%s/%s/%s", feedId, p.Tick, p.Reason),
				Title:       fmt.Sprintf("Penalty at %s: %s", p.Tick, p.Reason),
				Link:        &feeds.Link{Href: feedId},
				Description: fmt.Sprintf("%s (%.2f)", p.Reason, p.Amount),
				Created:     now,
				Updated:     now,
			})
		}

		c.Response().Header().Set(echo.HeaderContentType, contentType)
		c.Response().WriteHeader(http.StatusOK)

		return writer(feed, c.Response())
	}
}

func RSSFeedWriter() func(*feeds.Feed, io.Writer) error {
	return func(f *feeds.Feed, w io.Writer) error {
		return f.WriteRss(w)
	}
}

func AtomFeedWriter() func(*feeds.Feed, io.Writer) error {
	return func(f *feeds.Feed, w io.Writer) error {
		return f.WriteAtom(w)
	}
}
