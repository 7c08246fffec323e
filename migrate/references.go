package migrate

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/toothbrush/confluence-migrate/confluence"
)

// ReferencedAttachments returns the filenames a storage-format body refers to through
// <ri:attachment ri:filename="..."> that live on the page itself.  References to attachments of
// other pages (those carrying a nested <ri:page>) are left out.
func ReferencedAttachments(storage string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(storage))
	if err != nil {
		return nil, fmt.Errorf("migrate: couldn't parse storage format: %w", err)
	}

	names := []string{}
	seen := map[string]bool{}

	// The HTML parser keeps the namespace prefix as part of the tag name, which CSS selectors can't
	// express without escaping, so just look at every element.
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) != "ri:attachment" {
			return
		}
		name, ok := s.Attr("ri:filename")
		if !ok || name == "" || seen[name] {
			return
		}

		// Code and no-format macros keep their text in CDATA, which the HTML parser doesn't
		// understand, so anything that looks like markup in there is just text.
		quoted := s.Parents().FilterFunction(func(_ int, parent *goquery.Selection) bool {
			return goquery.NodeName(parent) == "ac:plain-text-body"
		})
		if quoted.Length() > 0 {
			return
		}

		elsewhere := s.Children().FilterFunction(func(_ int, child *goquery.Selection) bool {
			return goquery.NodeName(child) == "ri:page" || goquery.NodeName(child) == "ri:blog-post"
		})
		if elsewhere.Length() > 0 {
			return
		}

		seen[name] = true
		names = append(names, name)
	})

	return names, nil
}

// checkAttachmentReferences warns about bodies that embed attachments the page doesn't have; those
// would render as broken images in the destination.
func (m *Migrator) checkAttachmentReferences(page confluence.Content, attachments []confluence.Content, result *SpaceResult) {
	referenced, err := ReferencedAttachments(page.Body.Storage.Value)
	if err != nil {
		m.logger().Debug("Couldn't scan page body", "page", page.Title, "err", err)
		return
	}

	present := make(map[string]bool, len(attachments))
	for _, a := range attachments {
		present[a.Title] = true
	}

	for _, name := range referenced {
		if !present[name] {
			m.logger().Warn("Page references a missing attachment", "page", page.Title, "attachment", name)
			result.warn("page %q references attachment %q which the source page doesn't carry", page.Title, name)
		}
	}
}
