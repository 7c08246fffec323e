package migrate

import (
	"context"
	"fmt"

	"github.com/toothbrush/confluence-migrate/confluence"
	"golang.org/x/exp/slices"
)

// IDRemap maps source page IDs to the IDs of their copies in the destination.  It lives for one
// space migration and only ever grows.
type IDRemap struct {
	ids map[string]string
}

func NewIDRemap() *IDRemap {
	return &IDRemap{ids: make(map[string]string)}
}

// Record remembers where a source page ended up.  A source ID can only be recorded once.
func (r *IDRemap) Record(sourceID, destID string) error {
	if sourceID == "" || destID == "" {
		return fmt.Errorf("migrate: refusing to record empty id mapping %q -> %q", sourceID, destID)
	}
	if existing, ok := r.ids[sourceID]; ok {
		return fmt.Errorf("migrate: source page %s already mapped to %s", sourceID, existing)
	}
	r.ids[sourceID] = destID
	return nil
}

func (r *IDRemap) Lookup(sourceID string) (string, bool) {
	id, ok := r.ids[sourceID]
	return id, ok
}

func (r *IDRemap) Len() int {
	return len(r.ids)
}

// OrderByDepth returns the pages sorted by the length of their ancestor chain, root pages first.
// Pages of equal depth keep the order they were listed in.  Since a parent is always exactly one
// level shallower than its children, walking the result creates every parent before its children.
func OrderByDepth(pages []confluence.Content) []confluence.Content {
	ordered := slices.Clone(pages)
	slices.SortStableFunc(ordered, func(a, b confluence.Content) int {
		return len(a.Ancestors) - len(b.Ancestors)
	})
	return ordered
}

// parentFor works out the destination parent of a page.  ok is false when the page has a parent
// in the source that we can't place it under, in which case it goes to the root of the space.
func parentFor(page confluence.Content, remap *IDRemap) (parentID string, ok bool) {
	sourceParent := page.ParentID()
	if sourceParent == "" {
		return "", true
	}

	return remap.Lookup(sourceParent)
}

func (m *Migrator) migratePages(ctx context.Context, spaceKey string, result *SpaceResult) {
	logger := m.logger().With("space", spaceKey)

	pages, err := m.Source.ListAllPagesInSpace(ctx, spaceKey, m.pageSize())
	if err != nil {
		logger.Error("Couldn't list source pages", "err", err)
		result.fail(FetchFailure, "", "page list", err)
		return
	}
	logger.Info("Found source pages", "count", len(pages))

	ordered := OrderByDepth(pages)
	remap := NewIDRemap()
	attempted := make(map[string]bool, len(ordered))

	progress := m.newProgress(spaceKey, len(ordered))
	defer progress.Done()

	for _, page := range ordered {
		m.migratePage(ctx, spaceKey, page, remap, attempted, result)
		progress.Increment()
	}
}

func (m *Migrator) migratePage(ctx context.Context, spaceKey string, page confluence.Content, remap *IDRemap, attempted map[string]bool, result *SpaceResult) {
	logger := m.logger().With("space", spaceKey, "page", page.Title)

	if page.ID == "" {
		logger.Warn("Skipping page without an id")
		result.warn("skipped page %q: source listing had no id", page.Title)
		return
	}
	if attempted[page.ID] {
		logger.Warn("Skipping duplicate page", "id", page.ID)
		result.warn("skipped page %q: id %s listed more than once", page.Title, page.ID)
		return
	}
	attempted[page.ID] = true

	parentID, ok := parentFor(page, remap)
	if !ok {
		logger.Warn("Parent not migrated, placing page at the root", "parent", page.ParentID())
		result.warn("page %q placed at space root: parent %s was not migrated", page.Title, page.ParentID())
	}

	created, err := m.Destination.CreatePage(ctx, confluence.CreatePageRequest{
		SpaceKey: spaceKey,
		Title:    page.Title,
		Body:     page.Body.Storage.Value,
		ParentID: parentID,
	})
	if err == nil && (created == nil || created.ID == "") {
		err = fmt.Errorf("migrate: destination returned no page id")
	}
	if err != nil {
		logger.Error("Couldn't create page", "err", err)
		result.fail(CreateFailure, page.Title, page.Title, err)
		return
	}

	if err := remap.Record(page.ID, created.ID); err != nil {
		logger.Error("Couldn't record page mapping", "err", err)
		result.fail(CreateFailure, page.Title, page.Title, err)
		return
	}
	result.Pages++
	logger.Log(ctx, m.pageLogLevel(), "Created page", "id", created.ID, "parent", parentID)

	m.enrichPage(ctx, page, created.ID, result)
}
