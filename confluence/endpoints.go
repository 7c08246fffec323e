package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getSpacesEndpoint returns the (v1) API endpoint to list spaces
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
func (a *API) getSpacesEndpoint(opts SpacesQuery) (*url.URL, error) {
	return a.endpointWithQuery("/wiki/rest/api/space", opts)
}

// getSpaceEndpoint returns the (v1) API endpoint to fetch one space by key
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-spacekey-get
func (a *API) getSpaceEndpoint(opts GetSpaceQuery) (*url.URL, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("confluence: please provide key to get space")
	}

	return a.endpointWithQuery(fmt.Sprintf("/wiki/rest/api/space/%s", url.PathEscape(opts.Key)), opts)
}

// createSpaceEndpoint returns the (v1) API endpoint to create a space
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-post
func (a *API) createSpaceEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/wiki/rest/api/space")
}

// getContentEndpoint returns the (v1) API endpoint to list content, e.g. all pages in a space
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
func (a *API) getContentEndpoint(opts GetContentQuery) (*url.URL, error) {
	return a.endpointWithQuery("/wiki/rest/api/content", opts)
}

// getContentByIDEndpoint returns the (v1) API endpoint to fetch one piece of content
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
func (a *API) getContentByIDEndpoint(opts GetContentByIDQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to get content by ID")
	}

	return a.endpointWithQuery(fmt.Sprintf("/wiki/rest/api/content/%s", url.PathEscape(opts.ID)), opts)
}

// createContentEndpoint returns the (v1) API endpoint used to create pages and comments alike
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-post
func (a *API) createContentEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/wiki/rest/api/content")
}

// labelsEndpoint returns the (v1) API endpoint for a page's labels, for both GET and POST
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-labels/#api-wiki-rest-api-content-id-label-get
func (a *API) labelsEndpoint(opts ChildContentQuery) (*url.URL, error) {
	return a.childEndpoint("label", opts)
}

// attachmentsEndpoint returns the (v1) API endpoint for a page's attachments, for both GET and POST
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/#api-wiki-rest-api-content-id-child-attachment-get
func (a *API) attachmentsEndpoint(opts ChildContentQuery) (*url.URL, error) {
	return a.childEndpoint("child/attachment", opts)
}

// commentsEndpoint returns the (v1) API endpoint to list a page's comments
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---children-and-descendants/#api-wiki-rest-api-content-id-child-comment-get
func (a *API) commentsEndpoint(opts ChildContentQuery) (*url.URL, error) {
	return a.childEndpoint("child/comment", opts)
}

// downloadEndpoint turns the '_links.download' value of an attachment into something we can GET.
// The link is relative to the /wiki context path.
func (a *API) downloadEndpoint(link string) (*url.URL, error) {
	if link == "" {
		return nil, fmt.Errorf("confluence: attachment has no download link")
	}

	return a.resolveEndpoint("/wiki" + link)
}

// getCurrentUserEndpoint returns the (v1) API endpoint to query current user
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("/wiki/rest/api/user/current")
}

func (a *API) childEndpoint(child string, opts ChildContentQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide page ID to list %s", child)
	}

	return a.endpointWithQuery(fmt.Sprintf("/wiki/rest/api/content/%s/%s", url.PathEscape(opts.ID), child), opts)
}

func (a *API) endpointWithQuery(endpoint string, opts any) (*url.URL, error) {
	ep, err := a.resolveEndpoint(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}
