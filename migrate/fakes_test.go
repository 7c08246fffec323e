package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/toothbrush/confluence-migrate/confluence"
)

var errBoom = errors.New("boom")

type fakeSource struct {
	spaces   map[string]*confluence.Space
	spaceErr error

	pages    map[string][]confluence.Content
	pagesErr error

	labels      map[string][]string
	labelsErr   map[string]error
	attachments map[string][]confluence.Content
	attachErr   map[string]error
	files       map[string][]byte
	downloadErr map[string]error
	comments    map[string][]confluence.Content
	commentsErr map[string]error

	mu        sync.Mutex
	downloads []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		spaces:      map[string]*confluence.Space{},
		pages:       map[string][]confluence.Content{},
		labels:      map[string][]string{},
		labelsErr:   map[string]error{},
		attachments: map[string][]confluence.Content{},
		attachErr:   map[string]error{},
		files:       map[string][]byte{},
		downloadErr: map[string]error{},
		comments:    map[string][]confluence.Content{},
		commentsErr: map[string]error{},
	}
}

func (s *fakeSource) GetSpace(ctx context.Context, key string) (*confluence.Space, error) {
	if s.spaceErr != nil {
		return nil, s.spaceErr
	}
	space, ok := s.spaces[key]
	if !ok {
		return nil, fmt.Errorf("no space %s", key)
	}
	return space, nil
}

func (s *fakeSource) ListAllPagesInSpace(ctx context.Context, spaceKey string, pageSize int) ([]confluence.Content, error) {
	if s.pagesErr != nil {
		return nil, s.pagesErr
	}
	return s.pages[spaceKey], nil
}

func (s *fakeSource) GetLabels(ctx context.Context, pageID string) ([]string, error) {
	return s.labels[pageID], s.labelsErr[pageID]
}

func (s *fakeSource) GetAttachments(ctx context.Context, pageID string) ([]confluence.Content, error) {
	return s.attachments[pageID], s.attachErr[pageID]
}

func (s *fakeSource) DownloadAttachment(ctx context.Context, attachmentID string) ([]byte, error) {
	s.mu.Lock()
	s.downloads = append(s.downloads, attachmentID)
	s.mu.Unlock()

	if err := s.downloadErr[attachmentID]; err != nil {
		return nil, err
	}
	return s.files[attachmentID], nil
}

func (s *fakeSource) GetComments(ctx context.Context, pageID string) ([]confluence.Content, error) {
	return s.comments[pageID], s.commentsErr[pageID]
}

type createdPage struct {
	confluence.CreatePageRequest
	ID string
}

type upload struct {
	PageID   string
	Filename string
	Data     []byte
}

type fakeDestination struct {
	mu sync.Mutex

	spaces         map[string]confluence.Space
	listErr        error
	listCalls      int
	createSpaceErr error
	createdSpaces  []confluence.CreateSpaceRequest

	failPages map[string]bool
	noID      map[string]bool
	pages     []createdPage

	labelErr error
	labels   map[string][]string

	uploadErr   map[string]error
	uploadDelay time.Duration
	uploads     []upload
	active      int
	maxActive   int

	commentErr map[string]error
	comments   map[string][]string
}

func newFakeDestination() *fakeDestination {
	return &fakeDestination{
		spaces:     map[string]confluence.Space{},
		failPages:  map[string]bool{},
		noID:       map[string]bool{},
		labels:     map[string][]string{},
		uploadErr:  map[string]error{},
		commentErr: map[string]error{},
		comments:   map[string][]string{},
	}
}

func (d *fakeDestination) ListAllSpaces(ctx context.Context, orgName string, includePersonal bool) (map[string]confluence.Space, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listCalls++
	if d.listErr != nil {
		return nil, d.listErr
	}
	spaces := make(map[string]confluence.Space, len(d.spaces))
	for k, v := range d.spaces {
		spaces[k] = v
	}
	return spaces, nil
}

func (d *fakeDestination) CreateSpace(ctx context.Context, space confluence.CreateSpaceRequest) (*confluence.Space, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.createdSpaces = append(d.createdSpaces, space)
	if d.createSpaceErr != nil {
		return nil, d.createSpaceErr
	}
	created := confluence.Space{Key: space.Key, Name: space.Name}
	d.spaces[space.Key] = created
	return &created, nil
}

func (d *fakeDestination) CreatePage(ctx context.Context, page confluence.CreatePageRequest) (*confluence.Content, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failPages[page.Title] {
		return nil, errBoom
	}
	if d.noID[page.Title] {
		return &confluence.Content{}, nil
	}
	id := fmt.Sprintf("d%d", len(d.pages)+1)
	d.pages = append(d.pages, createdPage{CreatePageRequest: page, ID: id})
	return &confluence.Content{ID: id, Title: page.Title}, nil
}

func (d *fakeDestination) AddLabels(ctx context.Context, pageID string, names []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.labelErr != nil {
		return d.labelErr
	}
	d.labels[pageID] = append(d.labels[pageID], names...)
	return nil
}

func (d *fakeDestination) UploadAttachment(ctx context.Context, pageID string, filename string, data []byte) ([]confluence.Content, error) {
	d.mu.Lock()
	d.active++
	if d.active > d.maxActive {
		d.maxActive = d.active
	}
	d.mu.Unlock()

	time.Sleep(d.uploadDelay)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.active--

	if err := d.uploadErr[filename]; err != nil {
		return nil, err
	}
	d.uploads = append(d.uploads, upload{PageID: pageID, Filename: filename, Data: data})
	return []confluence.Content{{ID: "att-" + filename, Title: filename}}, nil
}

func (d *fakeDestination) CreateComment(ctx context.Context, pageID string, body string) (*confluence.Content, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.commentErr[body]; err != nil {
		return nil, err
	}
	d.comments[pageID] = append(d.comments[pageID], body)
	return &confluence.Content{ID: fmt.Sprintf("c%d", len(d.comments[pageID])), Type: "comment"}, nil
}

// createdByTitle finds the destination copy of a page.
func (d *fakeDestination) createdByTitle(title string) (createdPage, bool) {
	for _, p := range d.pages {
		if p.Title == title {
			return p, true
		}
	}
	return createdPage{}, false
}

func newTestMigrator(src *fakeSource, dst *fakeDestination) *Migrator {
	return &Migrator{
		Source:         src,
		Destination:    dst,
		DestinationOrg: "dest",
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testPage(id, title string, ancestors ...string) confluence.Content {
	p := confluence.Content{
		ID:    id,
		Type:  "page",
		Title: title,
		Body: confluence.Body{
			Storage: confluence.Storage{
				Value:          fmt.Sprintf("<p>%s</p>", title),
				Representation: "storage",
			},
		},
	}
	for _, a := range ancestors {
		p.Ancestors = append(p.Ancestors, confluence.Ancestor{ID: a})
	}
	return p
}
