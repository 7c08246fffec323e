package confluence

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
type User struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	UserKey     string `json:"userKey"`
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get. I'm
// embellishing that with the Org/"Confluence instance name" field for convenience.
type Space struct {
	ID          int64             `json:"id,omitempty"`
	Key         string            `json:"key,omitempty"`
	Name        string            `json:"name,omitempty"`
	Type        string            `json:"type,omitempty"`
	Status      string            `json:"status,omitempty"`
	Description *SpaceDescription `json:"description,omitempty"`
	Org         string            `json:"-"`
}

// PlainDescription returns the plain-text space description, or "" when it wasn't expanded.
func (s Space) PlainDescription() string {
	if s.Description == nil || s.Description.Plain == nil {
		return ""
	}
	return s.Description.Plain.Value
}

type SpaceDescription struct {
	Plain *Storage `json:"plain,omitempty"`
}

// Content is the v1 representation of pages, comments and attachments alike.  Which fields are
// filled in depends on the 'expand' parameter of the request.
type Content struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type,omitempty"` // page, blogpost, comment, attachment
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`

	Body      Body       `json:"body"`
	Ancestors []Ancestor `json:"ancestors,omitempty"` // oldest first; the last one is the parent
	Version   *Version   `json:"version,omitempty"`

	// only for attachments
	Extensions *AttachmentExtensions `json:"extensions,omitempty"`

	Links struct {
		WebUI    string `json:"webui"`
		TinyUI   string `json:"tinyui"`
		Download string `json:"download"`
	} `json:"_links"`
}

// ParentID is the ID of the direct parent, or "" for a page at the root of its space.
func (c Content) ParentID() string {
	if len(c.Ancestors) == 0 {
		return ""
	}
	return c.Ancestors[len(c.Ancestors)-1].ID
}

// Ancestor is one entry in a page's ancestor chain.
type Ancestor struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

type AttachmentExtensions struct {
	MediaType string `json:"mediaType,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Label, see https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-labels/
type Label struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
	ID     string `json:"id,omitempty"`
}

// Version defines the content version number
type Version struct {
	When      string `json:"when,omitempty"`
	Message   string `json:"message,omitempty"`
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit"`
}

// Body holds the storage information
type Body struct {
	Storage Storage  `json:"storage"`
	View    *Storage `json:"view,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// CreateSpaceRequest is the payload for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-post
type CreateSpaceRequest struct {
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Alias       string           `json:"alias,omitempty"`
	Description SpaceDescription `json:"description"`
}

// CreateContentRequest is the payload for pages and comments:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-post
type CreateContentRequest struct {
	Type      string     `json:"type"`
	Title     string     `json:"title,omitempty"`
	Space     *SpaceRef  `json:"space,omitempty"`
	Ancestors []Ancestor `json:"ancestors,omitempty"`
	Container *Container `json:"container,omitempty"`
	Body      Body       `json:"body"`
}

type SpaceRef struct {
	Key string `json:"key"`
}

type Container struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// CreatePageRequest is what callers fill in; it turns into a CreateContentRequest.
type CreatePageRequest struct {
	SpaceKey string
	Title    string
	Body     string // storage format markup
	ParentID string // optional
}
