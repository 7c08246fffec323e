package confluence

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListAllSpaces returns every space on the instance, keyed by space key.
func (api *API) ListAllSpaces(ctx context.Context, orgName string, includePersonal bool) (map[string]Space, error) {
	spaces := map[string]Space{}

	query := SpacesQuery{
		Paging: Paging{Limit: 100},
	}

	if !includePersonal {
		// Logic here is a bit confusing.  The `type` parameter may be "global", "personal", or
		// nothing at all for both.  "global" will return spaces like DRE, CORE, etc., while
		// "personal" returns each user's space.  Leaving it empty gives us everything, so we only
		// set this if we _do not_ intend to include personal spaces in our query.
		query.Type = "global"
	}

	for {
		allspaces, err := api.getSpaces(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range allspaces.Results {
			space.Org = orgName
			spaces[space.Key] = space
		}

		if allspaces.Links.Next == "" {
			break
		}

		query.Paging, err = nextPaging(allspaces.Links.Next, query.Paging)
		if err != nil {
			return nil, err
		}
	}

	return spaces, nil
}

// ListAllPagesInSpace returns every current page in a space, with storage-format body and ancestor
// chain expanded, in the order Confluence lists them.  pageSize is the per-request limit.
func (api *API) ListAllPagesInSpace(ctx context.Context, spaceKey string, pageSize int) ([]Content, error) {
	if spaceKey == "" {
		return nil, fmt.Errorf("confluence: please provide space key to list pages")
	}

	query := GetContentQuery{
		SpaceKey: spaceKey,
		Type:     "page",
		Expand:   []string{"body.storage", "ancestors"},
		Paging:   Paging{Limit: pageSize},
	}

	pages := []Content{}
	for {
		result, err := api.getContent(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list pages in %s: %w", spaceKey, err)
		}

		pages = append(pages, result.Results...)

		if result.Links.Next == "" {
			break
		}

		query.Paging, err = nextPaging(result.Links.Next, query.Paging)
		if err != nil {
			return nil, err
		}
	}

	return pages, nil
}

// GetLabels returns all label names on a page.
func (api *API) GetLabels(ctx context.Context, pageID string) ([]string, error) {
	query := ChildContentQuery{
		ID:     pageID,
		Paging: Paging{Limit: 200},
	}

	names := []string{}
	for {
		labels, err := api.getLabels(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list labels of %s: %w", pageID, err)
		}

		for _, l := range labels.Results {
			names = append(names, l.Name)
		}

		if labels.Links.Next == "" {
			break
		}

		query.Paging, err = nextPaging(labels.Links.Next, query.Paging)
		if err != nil {
			return nil, err
		}
	}

	return names, nil
}

// GetAttachments lists the attachments of a page.  The bytes are fetched separately, see
// DownloadAttachment.
func (api *API) GetAttachments(ctx context.Context, pageID string) ([]Content, error) {
	return api.listChildren(ctx, "attachments", ChildContentQuery{
		ID:     pageID,
		Paging: Paging{Limit: 100},
	}, api.attachmentsEndpoint)
}

// GetComments lists the comments of a page, with their storage-format bodies.
func (api *API) GetComments(ctx context.Context, pageID string) ([]Content, error) {
	return api.listChildren(ctx, "comments", ChildContentQuery{
		ID:     pageID,
		Expand: []string{"body.storage"},
		Paging: Paging{Limit: 100},
	}, api.commentsEndpoint)
}

func (api *API) listChildren(ctx context.Context, what string, query ChildContentQuery, endpoint func(ChildContentQuery) (*url.URL, error)) ([]Content, error) {
	children := []Content{}
	for {
		ep, err := endpoint(query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't get %s endpoint: %w", what, err)
		}

		result, err := api.getChildContent(ctx, ep)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list %s of %s: %w", what, query.ID, err)
		}

		children = append(children, result.Results...)

		if result.Links.Next == "" {
			break
		}

		query.Paging, err = nextPaging(result.Links.Next, query.Paging)
		if err != nil {
			return nil, err
		}
	}

	return children, nil
}

// nextPaging works out the follow-up query from a '_links.next' URL.
func nextPaging(next string, current Paging) (Paging, error) {
	q, err := url.Parse(next)
	if err != nil {
		return Paging{}, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
	}

	params := q.Query()
	paging := Paging{
		Limit:  current.Limit,
		Cursor: params.Get("cursor"),
	}

	if start := params.Get("start"); start != "" {
		paging.Start, err = strconv.Atoi(start)
		if err != nil {
			return Paging{}, fmt.Errorf("confluence: parameter 'start' was not an int: %w", err)
		}
	}

	if paging.Cursor == "" && paging.Start == 0 {
		return Paging{}, fmt.Errorf("confluence: expected parameter 'cursor' or 'start' was empty")
	}

	if paging.Cursor == current.Cursor && paging.Start == current.Start {
		// Following this link would hand us the very same page again, forever.
		return Paging{}, fmt.Errorf("confluence: _links.next doesn't advance: %s", next)
	}

	return paging, nil
}
