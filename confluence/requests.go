package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// CurrentUser return current user information
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get current user endpoint: %w", err)
	}

	var user User
	if err := api.getJSON(ctx, ep, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*AllSpaces, error) {
	ep, err := api.getSpacesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	var allSpaces AllSpaces
	if err := api.getJSON(ctx, ep, &allSpaces); err != nil {
		return nil, err
	}

	return &allSpaces, nil
}

// GetSpace fetches a single space, including its plain-text description.
func (api *API) GetSpace(ctx context.Context, key string) (*Space, error) {
	ep, err := api.getSpaceEndpoint(GetSpaceQuery{
		Key:    key,
		Expand: []string{"description.plain"},
	})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get space endpoint: %w", err)
	}

	var space Space
	if err := api.getJSON(ctx, ep, &space); err != nil {
		return nil, err
	}

	return &space, nil
}

func (api *API) CreateSpace(ctx context.Context, space CreateSpaceRequest) (*Space, error) {
	ep, err := api.createSpaceEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get create-space endpoint: %w", err)
	}

	var created Space
	if err := api.postJSON(ctx, ep, space, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (api *API) getContent(ctx context.Context, opts GetContentQuery) (*ContentList, error) {
	ep, err := api.getContentEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get content endpoint: %w", err)
	}

	var contentList ContentList
	if err := api.getJSON(ctx, ep, &contentList); err != nil {
		return nil, err
	}

	return &contentList, nil
}

func (api *API) GetContentByID(ctx context.Context, opts GetContentByIDQuery) (*Content, error) {
	ep, err := api.getContentByIDEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single content endpoint: %w", err)
	}

	var content Content
	if err := api.getJSON(ctx, ep, &content); err != nil {
		return nil, err
	}

	return &content, nil
}

// CreatePage creates a page in the given space.  If ParentID is set, the page is nested under it.
func (api *API) CreatePage(ctx context.Context, page CreatePageRequest) (*Content, error) {
	if page.SpaceKey == "" {
		return nil, fmt.Errorf("confluence: please provide space key to create page %q", page.Title)
	}

	payload := CreateContentRequest{
		Type:  "page",
		Title: page.Title,
		Space: &SpaceRef{Key: page.SpaceKey},
		Body: Body{
			Storage: Storage{
				Value:          page.Body,
				Representation: "storage",
			},
		},
	}
	if page.ParentID != "" {
		payload.Ancestors = []Ancestor{{ID: page.ParentID}}
	}

	return api.createContent(ctx, payload)
}

// CreateComment adds a top-level comment to a page.
func (api *API) CreateComment(ctx context.Context, pageID string, body string) (*Content, error) {
	if pageID == "" {
		return nil, fmt.Errorf("confluence: please provide page ID to comment on")
	}

	return api.createContent(ctx, CreateContentRequest{
		Type: "comment",
		Container: &Container{
			ID:   pageID,
			Type: "page",
		},
		Body: Body{
			Storage: Storage{
				Value:          body,
				Representation: "storage",
			},
		},
	})
}

func (api *API) createContent(ctx context.Context, payload CreateContentRequest) (*Content, error) {
	ep, err := api.createContentEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get create-content endpoint: %w", err)
	}

	var created Content
	if err := api.postJSON(ctx, ep, payload, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (api *API) getLabels(ctx context.Context, opts ChildContentQuery) (*LabelList, error) {
	ep, err := api.labelsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get labels endpoint: %w", err)
	}

	var labels LabelList
	if err := api.getJSON(ctx, ep, &labels); err != nil {
		return nil, err
	}

	return &labels, nil
}

// AddLabels attaches all the given (global) labels to a page in one request.
func (api *API) AddLabels(ctx context.Context, pageID string, names []string) error {
	ep, err := api.labelsEndpoint(ChildContentQuery{ID: pageID})
	if err != nil {
		return fmt.Errorf("confluence: couldn't get labels endpoint: %w", err)
	}

	payload := make([]Label, 0, len(names))
	for _, name := range names {
		payload = append(payload, Label{Prefix: "global", Name: name})
	}

	var labels LabelList
	return api.postJSON(ctx, ep, payload, &labels)
}

func (api *API) getChildContent(ctx context.Context, ep *url.URL) (*ContentList, error) {
	var contentList ContentList
	if err := api.getJSON(ctx, ep, &contentList); err != nil {
		return nil, err
	}

	return &contentList, nil
}

// DownloadAttachment fetches the bytes of one attachment.  This takes two requests: one to look up
// the attachment's download link, and one to fetch it.
func (api *API) DownloadAttachment(ctx context.Context, attachmentID string) ([]byte, error) {
	attachment, err := api.GetContentByID(ctx, GetContentByIDQuery{ID: attachmentID})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't look up attachment %s: %w", attachmentID, err)
	}

	ep, err := api.downloadEndpoint(attachment.Links.Download)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve download of attachment %s: %w", attachmentID, err)
	}

	header := http.Header{}
	header.Set("Accept", "application/octet-stream")

	data, err := api.do(ctx, http.MethodGet, ep, nil, header)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't download attachment %s: %w", attachmentID, err)
	}

	return data, nil
}

// UploadAttachment attaches a file to a page, under the given filename.
func (api *API) UploadAttachment(ctx context.Context, pageID string, filename string, data []byte) ([]Content, error) {
	ep, err := api.attachmentsEndpoint(ChildContentQuery{ID: pageID})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get attachments endpoint: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("confluence: couldn't write form file: %w", err)
	}
	if err := mw.WriteField("minorEdit", "true"); err != nil {
		return nil, fmt.Errorf("confluence: couldn't write form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't finish multipart body: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", mw.FormDataContentType())
	// Confluence refuses multipart uploads without this XSRF opt-out.
	header.Set("X-Atlassian-Token", "no-check")

	body, err := api.do(ctx, http.MethodPost, ep, &buf, header)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't upload attachment %s: %w", filename, err)
	}

	var uploaded ContentList
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return uploaded.Results, nil
}

func (api *API) getJSON(ctx context.Context, ep *url.URL, into any) error {
	body, err := api.request(ctx, ep)
	if err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return nil
}

func (api *API) postJSON(ctx context.Context, ep *url.URL, payload any, into any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("confluence: couldn't encode json payload: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	body, err := api.do(ctx, http.MethodPost, ep, bytes.NewReader(data), header)
	if err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return nil
}

// Request implements the basic Request function
func (api *API) request(ctx context.Context, url *url.URL) ([]byte, error) {
	return api.do(ctx, http.MethodGet, url, nil, nil)
}

func (api *API) do(ctx context.Context, method string, url *url.URL, body io.Reader, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	for k, vs := range header {
		req.Header[k] = vs
	}

	// if user & token are not set, do not add authorization header
	if api.username != "" && api.token != "" {
		req.SetBasicAuth(api.username, api.token)
	} else if api.token != "" {
		req.Header.Set("Authorization", "Bearer "+api.token)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return respBody, nil
	}

	return nil, newStatusError(response, url.String(), respBody)
}
