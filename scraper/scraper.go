// Package scraper defines the capability a target platform adapter must
// implement and a registry the CLI resolves adapters from by name. The
// pipeline phases depend only on these interfaces, never on a concrete
// site.
package scraper

import (
	"strings"

	"github.com/grupokc/rpa-reclutamiento/browser"
	"github.com/grupokc/rpa-reclutamiento/config"
	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

// ListingSource walks a site's paginated search results one partition at a
// time. The harvester drives it.
type ListingSource interface {
	// OpenPartition applies the keyword and one partition filter and lands
	// on the first results page. An error here means the whole partition is
	// skipped.
	OpenPartition(keyword string, p config.Partition) error
	// PageStubs extracts the stub candidates visible on the current page.
	PageStubs() ([]models.Candidate, error)
	// NextPage advances to the next results page, returning false when the
	// pagination is exhausted.
	NextPage() (bool, error)
}

// DetailSource fetches the raw representation of one profile's detail
// view. The enrichment worker drives it.
type DetailSource interface {
	// FetchDetail returns the detail page HTML for a profile URL. On a
	// timeout it returns whatever content was captured along with the
	// error, so the caller can parse the partial page.
	FetchDetail(url string) (string, error)
}

// Site bundles everything one target platform implements.
type Site interface {
	Name() string
	Login() error
	Logout()
	ListingSource
	DetailSource
}

// Factory builds a Site bound to a live browser session.
type Factory func(sess *browser.Session, cfg *config.Config, logger *utils.Logger) Site

var registry = map[string]Factory{}

// Register adds a site factory under the given name.
func Register(name string, f Factory) {
	registry[strings.ToLower(name)] = f
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}
