package migrate

import (
	"context"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/toothbrush/confluence-migrate/confluence"
)

const excerptLength = 72

// SpacePlan describes what a migration of one space would do.
type SpacePlan struct {
	SpaceKey string `yaml:"space"`
	// Whether the space is already present in the destination.  False if we couldn't tell.
	Exists bool          `yaml:"exists"`
	Pages  []PlannedPage `yaml:"pages"`
	// Anything that went wrong while looking.
	Problems []string `yaml:"problems,omitempty"`
}

// PlannedPage is one page, in the order it would be created.
type PlannedPage struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Depth int    `yaml:"depth"`
	// Source ID of the page this one would be created under; empty for the space root.
	ParentID string `yaml:"parent,omitempty"`
	// Set when the page has a parent in the source that won't be migrated.
	Orphaned bool   `yaml:"orphaned,omitempty"`
	Excerpt  string `yaml:"excerpt,omitempty"`
}

// Plan walks the selected source spaces without writing anything to the destination.
func (m *Migrator) Plan(ctx context.Context, spaceKeys []string) ([]SpacePlan, error) {
	if err := ValidateSelection(spaceKeys); err != nil {
		return nil, err
	}

	existing, listErr := m.Destination.ListAllSpaces(ctx, m.DestinationOrg, true)
	if listErr != nil {
		m.logger().Warn("Couldn't list destination spaces", "err", listErr)
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(mdplugin.GitHubFlavored())

	plans := make([]SpacePlan, 0, len(spaceKeys))
	for _, key := range spaceKeys {
		plan := SpacePlan{SpaceKey: key, Pages: []PlannedPage{}}
		if listErr != nil {
			plan.Problems = append(plan.Problems, "destination space list: "+listErr.Error())
		}
		_, plan.Exists = existing[key]

		pages, err := m.Source.ListAllPagesInSpace(ctx, key, m.pageSize())
		if err != nil {
			plan.Problems = append(plan.Problems, "page list: "+err.Error())
			plans = append(plans, plan)
			continue
		}

		planned := make(map[string]bool, len(pages))
		for _, page := range OrderByDepth(pages) {
			if page.ID == "" || planned[page.ID] {
				plan.Problems = append(plan.Problems, "skipping page without usable id: "+page.Title)
				continue
			}
			planned[page.ID] = true

			p := PlannedPage{
				ID:      page.ID,
				Title:   page.Title,
				Depth:   len(page.Ancestors),
				Excerpt: excerpt(converter, page),
			}
			if parent := page.ParentID(); parent != "" {
				if planned[parent] {
					p.ParentID = parent
				} else {
					p.Orphaned = true
				}
			}
			plan.Pages = append(plan.Pages, p)
		}

		plans = append(plans, plan)
	}

	return plans, nil
}

// excerpt renders the start of a page body as a single line of Markdown.
func excerpt(converter *md.Converter, page confluence.Content) string {
	if page.Body.Storage.Value == "" {
		return ""
	}

	markdown, err := converter.ConvertString(page.Body.Storage.Value)
	if err != nil {
		return ""
	}

	line := strings.Join(strings.Fields(markdown), " ")
	runes := []rune(line)
	if len(runes) > excerptLength {
		return string(runes[:excerptLength-1]) + "…"
	}
	return line
}
