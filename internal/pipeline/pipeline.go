package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/kevinmichaelchen/googl-hunt/internal/config"
	"github.com/kevinmichaelchen/googl-hunt/internal/github"
	"github.com/kevinmichaelchen/googl-hunt/internal/logging"
	"github.com/kevinmichaelchen/googl-hunt/internal/models"
	"github.com/kevinmichaelchen/googl-hunt/internal/persist"
	"github.com/kevinmichaelchen/googl-hunt/internal/request"
)

type Options struct {
	// Cached reads items from persist.CacheFile instead of calling GitHub.
	Cached bool
	// Resolve follows every goo.gl link among the results, one at a time.
	Resolve bool
	// Out receives the printed results. Defaults to os.Stdout.
	Out io.Writer
	// HTTP carries every call. Defaults to request.NewClient().
	HTTP *request.Client
}

// Run searches GitHub for goo.gl links and prints the matching items.
func Run(ctx context.Context, cfg *config.Config, opts Options) ([]models.CodeResult, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.HTTP == nil {
		opts.HTTP = request.NewClient()
	}
	store := persist.New(cfg.OutputDir)
	gh := github.NewClient(cfg.GitHubToken, cfg.GitHubAPIURL, opts.HTTP, store)

	items, err := loadItems(ctx, gh, store, opts.Cached)
	if err != nil {
		return nil, err
	}

	printItems(opts.Out, items)

	if opts.Resolve {
		resolveLinks(ctx, gh, opts.Out, items)
	}
	return items, nil
}

func loadItems(ctx context.Context, gh *github.Client, store *persist.Store, cached bool) ([]models.CodeResult, error) {
	logger := logging.FromContext(ctx)

	if cached {
		logger.Info("reading cached search response", "file", persist.CacheFile)
		data, err := store.Read(ctx, persist.CacheFile)
		if err != nil {
			return nil, err
		}
		return github.ParseItems(data)
	}

	logger.Info("searching GitHub code", "query", github.SearchQuery)
	resp, err := gh.SearchRaw(ctx)
	if err != nil {
		return nil, err
	}
	items, err := github.ParseItems(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Info("search complete", "items", len(items))

	if err := store.Write(ctx, persist.CacheFile, resp); err != nil {
		logger.Warn("could not update cache", "file", persist.CacheFile, "err", err)
	}
	return items, nil
}

func printItems(w io.Writer, items []models.CodeResult) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, it.Repository.FullName, it.Path)
		if it.HTMLURL != "" {
			fmt.Fprintf(w, "   %s\n", it.HTMLURL)
		}
	}
}

func resolveLinks(ctx context.Context, gh *github.Client, w io.Writer, items []models.CodeResult) {
	logger := logging.FromContext(ctx)
	for _, link := range shortLinks(items) {
		dest, err := gh.ResolveDestination(ctx, link)
		if err != nil {
			logger.Warn("could not resolve", "url", link, "err", err)
			continue
		}
		fmt.Fprintf(w, "%s -> %s\n", link, dest)
	}
}

var shortLinkPattern = regexp.MustCompile(`https?://goo\.gl/[A-Za-z0-9_\-/]+`)

// shortLinks collects the distinct goo.gl URLs quoted in the items' matched
// fragments, in the order they first appear.
func shortLinks(items []models.CodeResult) []string {
	seen := map[string]bool{}
	var links []string
	for _, it := range items {
		for _, m := range it.TextMatches {
			for _, link := range shortLinkPattern.FindAllString(m.Fragment, -1) {
				if seen[link] {
					continue
				}
				seen[link] = true
				links = append(links, link)
			}
		}
	}
	return links
}
