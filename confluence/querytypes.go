package confluence

// SpacesQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
type SpacesQuery struct {
	// Filter the results to spaces based on...
	Keys   []string `url:"spaceKey,omitempty"` // their keys.
	Type   string   `url:"type,omitempty"`     // their types. Valid values: "global" or "personal"
	Status string   `url:"status,omitempty"`   // their status: current, archived.
	Label  []string `url:"label,omitempty"`    // their labels.
	Expand []string `url:"expand,omitempty,comma"`

	Paging
}

// GetSpaceQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-spacekey-get
type GetSpaceQuery struct {
	Key    string   `url:"-"` // key of the space; required
	Expand []string `url:"expand,omitempty,comma"`
}

// GetContentQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
type GetContentQuery struct {
	SpaceKey string   `url:"spaceKey,omitempty"`
	Type     string   `url:"type,omitempty"`   // page, blogpost
	Status   []string `url:"status,omitempty"` // current, trashed, draft, archived
	Title    string   `url:"title,omitempty"`
	OrderBy  string   `url:"orderby,omitempty"`
	Expand   []string `url:"expand,omitempty,comma"` // e.g. body.storage,ancestors

	Paging
}

// GetContentByIDQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
type GetContentByIDQuery struct {
	ID     string   `url:"-"` // ID of the content; required
	Expand []string `url:"expand,omitempty,comma"`
}

// ChildContentQuery covers the per-page listings (attachments, comments, labels), e.g.:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/#api-wiki-rest-api-content-id-child-attachment-get
type ChildContentQuery struct {
	ID     string   `url:"-"` // ID of the parent page; required
	Expand []string `url:"expand,omitempty,comma"`

	Paging
}

// Paging is shared by all v1 listing endpoints.  Depending on the endpoint, Confluence hands out
// either a 'start' offset or an opaque 'cursor' in the '_links.next' URL of each result page; we
// copy whichever one it gave us into the follow-up query.
type Paging struct {
	Start  int    `url:"start,omitempty"`
	Cursor string `url:"cursor,omitempty"`
	Limit  int    `url:"limit,omitempty"` // page limit; default 25
}
