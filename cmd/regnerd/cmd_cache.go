package main

import (
	"fmt"

	"regnerd/internal/cache"

	"github.com/spf13/cobra"
)

// cacheCmd groups the response cache commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the openFDA response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cachePath(), cfg.GetCacheTTL())
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats()
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("🗄  Response cache"))
		fmt.Println()
		fmt.Println(kv("Path", st.Path))
		fmt.Println(kv("Entries", fmt.Sprintf("%d", st.Entries)))
		fmt.Println(kv("Expired", fmt.Sprintf("%d", st.Expired)))
		fmt.Println(kv("Size", fmt.Sprintf("%d bytes", st.TotalSize)))
		fmt.Println(kv("TTL", cfg.GetCacheTTL().String()))
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cachePath(), cfg.GetCacheTTL())
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge()
		if err != nil {
			return err
		}
		fmt.Printf("✅ purged %d expired entr(ies)\n", n)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cachePath(), cfg.GetCacheTTL())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("✅ cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
