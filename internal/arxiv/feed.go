package arxiv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/paperscope/internal/paper"
)

// atomFeed mirrors the subset of the Atom response the client consumes.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// parseFeed decodes an Atom feed and maps its entries to papers. Entries
// missing an id, title, or abstract are dropped rather than surfaced.
func parseFeed(r io.Reader) ([]paper.Paper, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: parsing feed: %v", ErrInvalidResponse, err)
	}

	papers := make([]paper.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		p := paper.Paper{
			ID:       EntryID(e.ID),
			Title:    strings.TrimSpace(e.Title),
			Abstract: strings.TrimSpace(e.Summary),
		}
		if p.ID == "" || p.Title == "" || p.Abstract == "" {
			continue
		}
		papers = append(papers, p)
	}

	return papers, nil
}

// EntryID extracts the paper identifier from an Atom entry id, which arXiv
// returns as a URL such as "http://arxiv.org/abs/2301.00001v1".
func EntryID(rawID string) string {
	rawID = strings.TrimSpace(rawID)
	if i := strings.LastIndex(rawID, "/"); i >= 0 {
		rawID = rawID[i+1:]
	}
	return rawID
}
