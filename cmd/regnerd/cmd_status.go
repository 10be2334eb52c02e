package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"regnerd/internal/cache"
	"regnerd/internal/openfda"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// statusCmd reports credential tier, cache state, and endpoint health
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show API credential tier, cache state, and endpoint health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🩺 regNERD status"))
	fmt.Println()

	// Credentials
	source := cfg.KeySource(apiKey)
	tier := "240 requests/minute (keyed)"
	if cfg.ResolveAPIKey(apiKey) == "" {
		tier = "40 requests/minute (anonymous)"
	}
	fmt.Println(kv("API key source", source))
	fmt.Println(kv("Rate tier", tier))

	dashCreds := "not configured"
	if cfg.Dashboard.AuthUser != "" && cfg.Dashboard.AuthKey != "" {
		dashCreds = "configured (" + cfg.Dashboard.AuthUser + ")"
	}
	fmt.Println(kv("Dashboard auth", dashCreds))
	fmt.Println()

	// Cache
	if cfg.Cache.Enabled {
		store, err := cache.Open(cachePath(), cfg.GetCacheTTL())
		if err != nil {
			fmt.Println(kv("Cache", warnStyle.Render("unavailable: "+err.Error())))
		} else {
			defer store.Close()
			if st, err := store.Stats(); err == nil {
				fmt.Println(kv("Cache", fmt.Sprintf("%d entries (%d expired), %d bytes",
					st.Entries, st.Expired, st.TotalSize)))
				fmt.Println(kv("Cache path", st.Path))
			}
		}
	} else {
		fmt.Println(kv("Cache", "disabled"))
	}
	fmt.Println()

	// Endpoint health, probed in parallel
	client, store, err := newAPIClient()
	if err != nil {
		return err
	}
	defer store.Close()

	type probe struct {
		endpoint openfda.Endpoint
		took     time.Duration
		err      error
	}

	endpoints := openfda.AllEndpoints()
	results := make([]probe, 0, len(endpoints))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(4)
	for _, e := range endpoints {
		g.Go(func() error {
			start := time.Now()
			err := client.Ping(ctx, e)
			mu.Lock()
			results = append(results, probe{e, time.Since(start), err})
			mu.Unlock()
			return nil // collect failures, don't abort the group
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].endpoint < results[j].endpoint })

	fmt.Println(headerStyle.Render("openFDA endpoints"))
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("  %-28s %s\n", r.endpoint, errorStyle.Render("✗ "+r.err.Error()))
			continue
		}
		fmt.Printf("  %-28s ✓ %s\n", r.endpoint, dimStyle.Render(r.took.Round(time.Millisecond).String()))
	}
	return nil
}
