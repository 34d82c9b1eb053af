package commons

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"
)

type entitiesQuery struct {
	Entities map[string]struct {
		// The API serialises "no statements" as [] rather than {}, so
		// this cannot decode straight into a map.
		Statements json.RawMessage `json:"statements"`
	} `json:"entities"`
}

type rawStatement struct {
	ID       string `json:"id"`
	Mainsnak struct {
		Property string `json:"property"`
	} `json:"mainsnak"`
}

// Statements fetches the structured-data statements of the file, keyed by
// property id. Files with no structured data yield an empty map.
func (c *client) Statements(ctx context.Context, title string) (map[string][]Statement, error) {
	pageID, err := c.pageID(ctx, title)
	if err != nil {
		return nil, err
	}
	mediaID := fmt.Sprintf("M%d", pageID)

	var out entitiesQuery
	err = c.get(ctx, url.Values{
		"action": {"wbgetentities"},
		"ids":    {mediaID},
	}, &out)
	if err != nil {
		return nil, err
	}

	statements := make(map[string][]Statement)
	raw := out.Entities[mediaID].Statements
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("[]")) {
		return statements, nil
	}

	var byProp map[string][]rawStatement
	if err := json.Unmarshal(raw, &byProp); err != nil {
		return nil, eris.Wrapf(err, "commons: decode statements for %s", mediaID)
	}
	for prop, list := range byProp {
		for _, s := range list {
			statements[prop] = append(statements[prop], Statement{
				ID:       s.ID,
				Property: s.Mainsnak.Property,
			})
		}
	}
	return statements, nil
}
