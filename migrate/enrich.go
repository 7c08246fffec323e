package migrate

import (
	"context"
	"fmt"

	"github.com/toothbrush/confluence-migrate/confluence"
	"golang.org/x/sync/errgroup"
)

// enrichPage copies labels, attachments and comments of a migrated page.  None of these can undo
// the page itself: whatever fails is recorded and we move on.
func (m *Migrator) enrichPage(ctx context.Context, page confluence.Content, destID string, result *SpaceResult) {
	m.copyLabels(ctx, page, destID, result)
	attachments, listed := m.copyAttachments(ctx, page, destID, result)
	m.copyComments(ctx, page, destID, result)
	if listed {
		m.checkAttachmentReferences(page, attachments, result)
	}
}

func (m *Migrator) copyLabels(ctx context.Context, page confluence.Content, destID string, result *SpaceResult) {
	logger := m.logger().With("page", page.Title)

	labels, err := m.Source.GetLabels(ctx, page.ID)
	if err != nil {
		logger.Warn("Couldn't fetch labels", "err", err)
		result.fail(FetchFailure, page.Title, "labels", err)
		return
	}
	if len(labels) == 0 {
		return
	}

	if err := m.Destination.AddLabels(ctx, destID, labels); err != nil {
		logger.Warn("Couldn't add labels", "labels", labels, "err", err)
		result.fail(PartialTransferFailure, page.Title, "labels", err)
		return
	}

	result.Labels += len(labels)
	logger.Debug("Added labels", "labels", labels)
}

// copyAttachments moves every attachment of the page across, up to m.Workers at a time.  Outcomes
// are collected in source order once all transfers for the page are done.  It returns the source
// attachment list, and false if that couldn't be fetched.
func (m *Migrator) copyAttachments(ctx context.Context, page confluence.Content, destID string, result *SpaceResult) ([]confluence.Content, bool) {
	logger := m.logger().With("page", page.Title)

	attachments, err := m.Source.GetAttachments(ctx, page.ID)
	if err != nil {
		logger.Warn("Couldn't fetch attachment list", "err", err)
		result.fail(FetchFailure, page.Title, "attachments", err)
		return nil, false
	}

	outcomes := make([]error, len(attachments))

	var grp errgroup.Group
	grp.SetLimit(m.workers())
	for i, attachment := range attachments {
		i, attachment := i, attachment
		grp.Go(func() error {
			// never return the error: one broken attachment mustn't stop its siblings.
			outcomes[i] = m.copyAttachment(ctx, attachment, destID)
			return nil
		})
	}
	_ = grp.Wait()

	for i, err := range outcomes {
		name := attachments[i].Title
		if err != nil {
			logger.Warn("Couldn't copy attachment", "attachment", name, "err", err)
			result.fail(PartialTransferFailure, page.Title, name, err)
			continue
		}
		result.Attachments++
		logger.Debug("Copied attachment", "attachment", name)
	}

	return attachments, true
}

func (m *Migrator) copyAttachment(ctx context.Context, attachment confluence.Content, destID string) error {
	data, err := m.Source.DownloadAttachment(ctx, attachment.ID)
	if err != nil {
		return fmt.Errorf("migrate: download failed: %w", err)
	}

	if _, err := m.Destination.UploadAttachment(ctx, destID, attachment.Title, data); err != nil {
		return fmt.Errorf("migrate: upload failed: %w", err)
	}

	return nil
}

// copyComments recreates the page's comments one by one, in the order the source lists them.
func (m *Migrator) copyComments(ctx context.Context, page confluence.Content, destID string, result *SpaceResult) {
	logger := m.logger().With("page", page.Title)

	comments, err := m.Source.GetComments(ctx, page.ID)
	if err != nil {
		logger.Warn("Couldn't fetch comments", "err", err)
		result.fail(FetchFailure, page.Title, "comments", err)
		return
	}

	for i, comment := range comments {
		if _, err := m.Destination.CreateComment(ctx, destID, comment.Body.Storage.Value); err != nil {
			item := fmt.Sprintf("comment %d", i+1)
			logger.Warn("Couldn't create comment", "comment", i+1, "err", err)
			result.fail(CreateFailure, page.Title, item, err)
			continue
		}
		result.Comments++
	}
}
