package migrate

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned before any network traffic when the space selection is unusable.
var ErrInvalidInput = errors.New("migrate: invalid input")

type FailureKind int

const (
	// FetchFailure means a listing or detail fetch failed; we carried on with less data.
	FetchFailure FailureKind = iota + 1
	// CreateFailure means the destination rejected a space, page or comment.
	CreateFailure
	// PartialTransferFailure means an attachment or label copy failed for an otherwise migrated page.
	PartialTransferFailure
)

func (k FailureKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch"
	case CreateFailure:
		return "create"
	case PartialTransferFailure:
		return "partial-transfer"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

func (k FailureKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// ItemFailure records one thing that didn't make it across.
type ItemFailure struct {
	Kind FailureKind `yaml:"kind"`
	// Title of the page the item belongs to, if any.
	Page string `yaml:"page,omitempty"`
	// What failed: a page title, an attachment filename, "labels", ...
	Item   string `yaml:"item"`
	Reason string `yaml:"reason"`
}

func (f ItemFailure) String() string {
	if f.Page != "" && f.Page != f.Item {
		return fmt.Sprintf("%s: %s (page %q): %s", f.Kind, f.Item, f.Page, f.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", f.Kind, f.Item, f.Reason)
}

// SpaceResult is the outcome of migrating one space.
type SpaceResult struct {
	SpaceKey     string `yaml:"space"`
	SpaceCreated bool   `yaml:"space-created"`

	Pages       int `yaml:"pages"`
	Attachments int `yaml:"attachments"`
	Labels      int `yaml:"labels"`
	Comments    int `yaml:"comments"`

	Failures []ItemFailure `yaml:"failures,omitempty"`

	// Things that went through, but not quite as in the source: pages placed at the root
	// because their parent didn't make it, a missing source space description, and so on.
	Warnings []string `yaml:"warnings,omitempty"`
}

// OK reports whether nothing failed.  Warnings don't count.
func (r SpaceResult) OK() bool {
	return len(r.Failures) == 0
}

func (r *SpaceResult) fail(kind FailureKind, page string, item string, err error) {
	r.Failures = append(r.Failures, ItemFailure{
		Kind:   kind,
		Page:   page,
		Item:   item,
		Reason: err.Error(),
	})
}

func (r *SpaceResult) warn(format string, a ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, a...))
}
