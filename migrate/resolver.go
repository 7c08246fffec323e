package migrate

import (
	"context"
	"fmt"

	"github.com/toothbrush/confluence-migrate/confluence"
)

// Used when the source space can't tell us its own description.
const defaultSpaceDescription = "Migrated Space!"

// resolveSpace makes sure the destination has a space with the given key.  The destination's space
// list is fetched fresh every time, since someone may be creating spaces there while we run.
//
// A space we fail to create is recorded, but we still go on to migrate its pages: if the space does
// exist after all (say, it was created between our listing and our create call), the pages land in
// it, and if it doesn't, each page fails on its own.
func (m *Migrator) resolveSpace(ctx context.Context, spaceKey string, result *SpaceResult) {
	logger := m.logger().With("space", spaceKey)

	existing, err := m.Destination.ListAllSpaces(ctx, m.DestinationOrg, true)
	if err != nil {
		logger.Error("Couldn't list destination spaces, assuming space is absent", "err", err)
		result.fail(FetchFailure, "", "destination space list", err)
	}

	if _, ok := existing[spaceKey]; ok {
		logger.Info("Space already exists in destination")
		return
	}

	name, description := m.describeSpace(ctx, spaceKey, result)

	_, err = m.Destination.CreateSpace(ctx, confluence.CreateSpaceRequest{
		Key:  spaceKey,
		Name: name,
		Description: confluence.SpaceDescription{
			Plain: &confluence.Storage{
				Value:          description,
				Representation: "plain",
			},
		},
	})
	if err != nil {
		logger.Error("Couldn't create destination space", "err", err)
		result.fail(CreateFailure, "", fmt.Sprintf("space %s", spaceKey), err)
		return
	}

	result.SpaceCreated = true
	logger.Info("Created destination space", "name", name)
}

// describeSpace returns the name and description to give a new destination space.  Failing to
// fetch them from the source is not fatal: we fall back to the key and a stock description.
func (m *Migrator) describeSpace(ctx context.Context, spaceKey string, result *SpaceResult) (string, string) {
	name, description := spaceKey, defaultSpaceDescription

	space, err := m.Source.GetSpace(ctx, spaceKey)
	if err != nil {
		m.logger().Warn("Couldn't fetch source space details, using defaults", "space", spaceKey, "err", err)
		result.warn("source space %s details unavailable, using default name and description: %v", spaceKey, err)
		return name, description
	}

	if space.Name != "" {
		name = space.Name
	}
	if d := space.PlainDescription(); d != "" {
		description = d
	}

	return name, description
}
