package confluence

// Links is the '_links' block of every v1 listing response.
type Links struct {
	// Contains the relative URL for the next set of results, using a start offset or a cursor
	// query parameter. This property will not be present if there is no additional data available.
	Next string `json:"next"`
	Base string `json:"base"`
}

// AllSpaces response type
type AllSpaces struct {
	Results []Space `json:"results"`
	Links   Links   `json:"_links"`
}

// ContentList is returned by content listings: pages in a space, attachments and comments of a page.
type ContentList struct {
	Results []Content `json:"results"`
	Size    int       `json:"size"`
	Links   Links     `json:"_links"`
}

type LabelList struct {
	Results []Label `json:"results"`
	Size    int     `json:"size"`
	Links   Links   `json:"_links"`
}
