package publish

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"qrmenu/internal/design"
	artifactrepo "qrmenu/internal/gateway/repository/artifact"
	layoutrepo "qrmenu/internal/gateway/repository/layout"
)

const (
	pageName        = "index.html"
	pageContentType = "text/html; charset=utf-8"
	maxAttempts     = 3
)

var ErrEmptyDocument = errors.New("cannot publish an empty menu")

// Result describes one published version.
type Result struct {
	LayoutID string `json:"layoutId"`
	Version  int    `json:"version"`
	URL      string `json:"url"`
}

// Publisher turns an edited Document into a public menu page.
type Publisher struct {
	layouts layoutrepo.Store
	pages   artifactrepo.Store
	policy  *bluemonday.Policy
	baseURL string
}

// NewPublisher stores layouts in layouts and rendered pages in pages. baseURL
// is used for the public link when the page store cannot hand out URLs.
func NewPublisher(layouts layoutrepo.Store, pages artifactrepo.Store, baseURL string) *Publisher {
	return &Publisher{
		layouts: layouts,
		pages:   pages,
		policy:  Policy(),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Policy allows user-generated markup plus class/id/style attributes and
// data-* tags the menu templates rely on.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowDataAttributes()
	p.AllowAttrs("style").Globally()
	p.AllowElements("section", "header", "footer", "main", "article", "nav", "figure", "figcaption")
	return p
}

// Sanitize cleans markup and makes the stylesheet safe to inline.
func (p *Publisher) Sanitize(doc design.Document) design.Document {
	return design.Document{
		Markup:     p.policy.Sanitize(doc.Markup),
		Stylesheet: neutralizeStyle(doc.Stylesheet),
	}
}

var styleClose = regexp.MustCompile(`(?i)</style`)

func neutralizeStyle(css string) string {
	return styleClose.ReplaceAllString(css, `<\/style`)
}

// Publish saves a new layout version and writes its page to
// <restaurantID>/v<version>/index.html.
func (p *Publisher) Publish(ctx context.Context, restaurantID, title string, doc design.Document) (Result, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return Result{}, fmt.Errorf("restaurant_id is required")
	}
	clean := p.Sanitize(doc)
	if strings.TrimSpace(clean.Markup) == "" {
		return Result{}, ErrEmptyDocument
	}

	id, version, err := p.saveVersion(ctx, restaurantID, clean, true)
	if err != nil {
		return Result{}, err
	}

	path := pagePath(version)
	if err := p.pages.Put(ctx, restaurantID, path, []byte(Render(title, clean)), pageContentType); err != nil {
		return Result{}, fmt.Errorf("store page: %w", err)
	}
	url, err := p.pages.GetURL(ctx, restaurantID, path)
	if err != nil {
		log.Printf("publish: page url for %s: %v", restaurantID, err)
	}
	if url == "" {
		url = p.baseURL + "/menu/" + restaurantID
	}
	log.Printf("publish: %s v%d (%s)", restaurantID, version, id)
	return Result{LayoutID: id, Version: version, URL: url}, nil
}

// SaveDraft stores doc as a new unpublished version. The public page is not
// touched.
func (p *Publisher) SaveDraft(ctx context.Context, restaurantID string, doc design.Document) (Result, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return Result{}, fmt.Errorf("restaurant_id is required")
	}
	id, version, err := p.saveVersion(ctx, restaurantID, p.Sanitize(doc), false)
	if err != nil {
		return Result{}, err
	}
	return Result{LayoutID: id, Version: version}, nil
}

// saveVersion stores doc as latest+1, retrying when a concurrent save took
// the version first.
func (p *Publisher) saveVersion(ctx context.Context, restaurantID string, doc design.Document, published bool) (string, int, error) {
	for attempt := 1; ; attempt++ {
		latest, err := p.layouts.LatestVersion(ctx, restaurantID)
		if err != nil {
			return "", 0, fmt.Errorf("latest version: %w", err)
		}
		version := latest + 1
		id, err := p.layouts.Save(ctx, layoutrepo.Layout{
			RestaurantID: restaurantID,
			Markup:       doc.Markup,
			Stylesheet:   doc.Stylesheet,
			Version:      version,
			Published:    published,
		})
		if err == nil {
			return id, version, nil
		}
		if !errors.Is(err, layoutrepo.ErrVersionConflict) || attempt >= maxAttempts {
			return "", 0, fmt.Errorf("save layout: %w", err)
		}
		log.Printf("publish: version %d for %s taken, retrying", version, restaurantID)
	}
}

// Page returns the current public page for a restaurant. When the stored page
// is missing it is rendered again from the published layout.
func (p *Publisher) Page(ctx context.Context, restaurantID, title string) ([]byte, error) {
	l, err := p.layouts.GetPublished(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	obj, err := p.pages.Get(ctx, l.RestaurantID, pagePath(l.Version))
	if err == nil {
		return obj.Content, nil
	}
	if !errors.Is(err, artifactrepo.ErrNotFound) {
		log.Printf("publish: page %s v%d: %v", l.RestaurantID, l.Version, err)
	}
	return []byte(Render(title, design.Document{Markup: l.Markup, Stylesheet: l.Stylesheet})), nil
}

func pagePath(version int) string { return fmt.Sprintf("v%d/%s", version, pageName) }

// Render wraps an already sanitised document in a standalone page.
func Render(title string, doc design.Document) string {
	if strings.TrimSpace(title) == "" {
		title = "Menu"
	}
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("<style>\n" + doc.Stylesheet + "\n</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(doc.Markup)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
