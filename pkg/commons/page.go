package commons

import (
	"context"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

type revisionQuery struct {
	Query struct {
		Pages []struct {
			PageID    int64 `json:"pageid"`
			Missing   bool  `json:"missing"`
			Revisions []struct {
				RevID     int64  `json:"revid"`
				Timestamp string `json:"timestamp"`
				Slots     struct {
					Main struct {
						Content string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// revisions runs a prop=revisions query with extra parameters merged in.
func (c *client) revisions(ctx context.Context, title string, extra url.Values) (*revisionQuery, error) {
	params := url.Values{
		"action":  {"query"},
		"prop":    {"revisions"},
		"titles":  {title},
		"rvlimit": {"1"},
	}
	for k, vs := range extra {
		params[k] = vs
	}

	var out revisionQuery
	if err := c.get(ctx, params, &out); err != nil {
		return nil, err
	}
	if len(out.Query.Pages) == 0 || out.Query.Pages[0].Missing {
		return nil, eris.Errorf("commons: page %q does not exist", title)
	}
	if len(out.Query.Pages[0].Revisions) == 0 {
		return nil, eris.Errorf("commons: page %q has no revisions", title)
	}
	return &out, nil
}

func (c *client) Text(ctx context.Context, title string) (string, error) {
	out, err := c.revisions(ctx, title, url.Values{
		"rvprop":  {"content"},
		"rvslots": {"main"},
	})
	if err != nil {
		return "", err
	}
	return out.Query.Pages[0].Revisions[0].Slots.Main.Content, nil
}

func (c *client) LatestRevisionID(ctx context.Context, title string) (int64, error) {
	out, err := c.revisions(ctx, title, url.Values{
		"rvprop": {"ids"},
	})
	if err != nil {
		return 0, err
	}
	return out.Query.Pages[0].Revisions[0].RevID, nil
}

func (c *client) FirstRevisionTime(ctx context.Context, title string) (time.Time, error) {
	out, err := c.revisions(ctx, title, url.Values{
		"rvprop": {"timestamp"},
		"rvdir":  {"newer"},
	})
	if err != nil {
		return time.Time{}, err
	}
	ts := out.Query.Pages[0].Revisions[0].Timestamp
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "commons: parse revision timestamp %q", ts)
	}
	return t, nil
}

// pageID resolves a title to its numeric page id.
func (c *client) pageID(ctx context.Context, title string) (int64, error) {
	out, err := c.revisions(ctx, title, url.Values{
		"rvprop": {"ids"},
	})
	if err != nil {
		return 0, err
	}
	return out.Query.Pages[0].PageID, nil
}

type editResponse struct {
	Edit struct {
		Result string `json:"result"`
	} `json:"edit"`
}

func (c *client) Save(ctx context.Context, title, text, summary string, minor bool) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	params := url.Values{
		"action":  {"edit"},
		"title":   {title},
		"text":    {text},
		"summary": {summary},
		"token":   {token},
		"bot":     {"1"},
		// Refuse edit conflicts instead of merging.
		"nocreate": {"1"},
	}
	if minor {
		params.Set("minor", "1")
	}

	var out editResponse
	if err := c.post(ctx, params, &out); err != nil {
		return err
	}
	if out.Edit.Result != "Success" {
		return eris.Errorf("commons: edit result %q", out.Edit.Result)
	}
	return nil
}

type tokenQuery struct {
	Query struct {
		Tokens struct {
			CSRFToken string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

// token returns the cached CSRF token, fetching one on first use.
func (c *client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.csrfToken
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	var out tokenQuery
	err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"csrf"},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Query.Tokens.CSRFToken == "" {
		return "", eris.New("commons: empty CSRF token")
	}

	c.mu.Lock()
	c.csrfToken = out.Query.Tokens.CSRFToken
	c.mu.Unlock()
	return out.Query.Tokens.CSRFToken, nil
}
