// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	topicFlag    string
	settingsFile string
	apiKey       string
	endpointFlag string
)

var rootCmd = &cobra.Command{
	Use:   "nightshift",
	Short: "Generates and publishes one issue of the digest",
	Long: `Commissions every section of the digest from the configured text
backends, ingests the newest deep-dive bundle from the studio inbox, and
publishes the assembled issue (live plus a dated archive copy).`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := ensureConfigExists(); err != nil {
			log.Fatalf("Failed to prepare config: %v", err)
		}

		settings, err := LoadSettings(settingsFile)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		if endpointFlag != "" {
			settings.Backends.Secondary.Endpoint = endpointFlag
		}
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}

		ctx, cancel := context.WithTimeout(context.Background(), settings.RunTimeout())
		defer cancel()

		var primary Backend
		if apiKey != "" {
			gemini, err := NewGeminiBackend(ctx, apiKey, settings.Backends.Primary.Model, systemInstruction)
			if err != nil {
				log.Printf("✗ Primary backend unavailable, running on secondary only: %v", err)
			} else {
				primary = gemini
			}
		} else {
			log.Printf("✗ No GEMINI_API_KEY set; running on secondary backend only")
		}
		secondary := NewLocalBackend(settings.Backends.Secondary.Endpoint, settings.Backends.Secondary.Model)

		router := NewRouter(primary, secondary, settings.BackendTimeout())
		commissioner := NewCommissioner(router, settings.Concurrency)

		var store AssetStore
		if settings.Bucket != "" {
			bucketStore, err := NewBucketStore(ctx, settings.Bucket)
			if err != nil {
				log.Printf("✗ Remote storage unavailable, assets stay local: %v", err)
			} else {
				defer bucketStore.Close()
				store = bucketStore
			}
		}
		library := NewLibrary(settings.Paths.Inbox, store)

		press := NewPressRun(commissioner, library, settings)
		topic := PickTopic(topicFlag, settings.Paths.NewsDump)

		if err := press.Run(ctx, topic); err != nil {
			log.Fatalf("Press run failed: %v", err)
		}
		log.Printf("✓ Press run complete")
	},
}

var uploadAssetsCmd = &cobra.Command{
	Use:   "upload-assets [dir]",
	Short: "Upload the local art library to the bucket's static prefix",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := LoadSettings(settingsFile)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		dir := settings.Paths.ArtDir
		if len(args) > 0 {
			dir = args[0]
		}
		if settings.Bucket == "" {
			log.Fatal("No bucket configured; set 'bucket' in settings.yaml")
		}

		ctx := context.Background()
		store, err := NewBucketStore(ctx, settings.Bucket)
		if err != nil {
			log.Fatalf("Failed to connect to storage: %v", err)
		}
		defer store.Close()

		urls, err := UploadArtDir(ctx, store, dir)
		if err != nil {
			log.Fatalf("Upload failed: %v", err)
		}

		log.Printf("✓ Uploaded %d assets", len(urls))
		for _, url := range urls {
			fmt.Printf("[%s]: %q\n", manifestTag(url), url)
		}
	},
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Write a manifest of the bucket's static assets",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := LoadSettings(settingsFile)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		if settings.Bucket == "" {
			log.Fatal("No bucket configured; set 'bucket' in settings.yaml")
		}

		ctx := context.Background()
		store, err := NewBucketStore(ctx, settings.Bucket)
		if err != nil {
			log.Fatalf("Failed to connect to storage: %v", err)
		}
		defer store.Close()

		urls, err := store.List(ctx, staticAssetPrefix+"/")
		if err != nil {
			log.Fatalf("Listing failed: %v", err)
		}

		manifestPath := "asset_manifest.txt"
		if err := WriteManifest(urls, manifestPath); err != nil {
			log.Fatalf("Writing manifest failed: %v", err)
		}
		log.Printf("✓ Inventory complete: %d assets, manifest at %s", len(urls), manifestPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Path to settings file (default .nightshift/settings.yaml)")
	rootCmd.Flags().StringVar(&topicFlag, "topic", "", "Editorial topic (default: freshest scout headline)")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Primary backend API key (or GEMINI_API_KEY)")
	rootCmd.Flags().StringVar(&endpointFlag, "endpoint", "", "Secondary backend endpoint override")

	rootCmd.AddCommand(uploadAssetsCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
