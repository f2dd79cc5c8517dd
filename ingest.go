// ingest.go
package main

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// The studio exports long-form "deep dive" submissions as zip bundles
// dropped into an inbox. Each bundle carries, at some depth, a metadata file
// and a body file, optionally with an images directory next to them.
const (
	scratchDirName     = "TEMP_LATEST_EXPORT"
	archiveDirName     = "ARCHIVE"
	bundleMetadataFile = "metadata.json"
	bundleContentFile  = "content.md"
	bundleImagesDir    = "images"

	// localAssetPrefix is the static-asset path the site serves when remote
	// sync is unavailable.
	localAssetPrefix = "/deep_dive_assets/"
	// remoteAssetPrefix is where synced bundle images land in the bucket.
	remoteAssetPrefix = "deep-dive-assets"
)

const libraryAuthor = "The Archivist"

// Library ingests the newest bundle from the inbox and turns it into the
// issue's deep-dive section. One run processes at most one bundle:
// scan → extract → validate → sync assets → archive the source zip.
//
// A bundle that fails validation stays in the inbox for the operator to fix;
// it is never archived and never retried within the same run. Asset sync is
// best-effort and falls back to the local static path.
type Library struct {
	inbox string
	store AssetStore // nil when no bucket is configured
	now   func() time.Time
}

func NewLibrary(inbox string, store AssetStore) *Library {
	return &Library{inbox: inbox, store: store, now: time.Now}
}

// Sync runs one ingestion pass and always produces a record: a real one from
// the bundle, or a degraded "offline"/"incomplete" record when there is
// nothing to ingest or the bundle is unusable.
func (l *Library) Sync(ctx context.Context) Record {
	zipPath, err := l.newestBundle()
	if err != nil || zipPath == "" {
		log.Printf("  (no deep dive bundle in inbox)")
		return l.degradedRecord("Library Offline", "No valid deep dive bundle found in the inbox.")
	}
	log.Printf("→ Ingesting bundle: %s", filepath.Base(zipPath))

	contentRoot, err := l.extract(zipPath)
	if err != nil {
		log.Printf("✗ Extraction failed: %v", err)
		return l.degradedRecord("Library Offline", "Bundle extraction failed.")
	}

	metaPath, contentPath, imagesDir := findBundleFiles(contentRoot)
	if metaPath == "" || contentPath == "" {
		log.Printf("✗ Bundle incomplete: missing %s or %s; leaving zip in inbox", bundleMetadataFile, bundleContentFile)
		return l.degradedRecord("Library Incomplete", "Export archive is missing metadata.json or content.md.")
	}

	metadata, err := readBundleMetadata(metaPath)
	if err != nil {
		log.Printf("✗ Bundle incomplete: unreadable metadata: %v", err)
		return l.degradedRecord("Library Incomplete", "Export archive carries unreadable metadata.")
	}
	body, err := os.ReadFile(contentPath)
	if err != nil {
		log.Printf("✗ Bundle incomplete: unreadable content: %v", err)
		return l.degradedRecord("Library Incomplete", "Export archive carries unreadable content.")
	}

	imageRef := localAssetPrefix
	if imagesDir != "" && l.store != nil {
		if remote, err := l.syncAssets(ctx, imagesDir); err != nil {
			log.Printf("✗ Asset sync failed, reverting to local path: %v", err)
		} else {
			imageRef = remote
			log.Printf("✓ Assets synced to remote storage")
		}
	} else if imagesDir != "" {
		log.Printf("  (skipping remote sync, no bucket configured)")
	}

	if err := l.archiveBundle(zipPath); err != nil {
		log.Printf("✗ Could not archive bundle: %v", err)
	} else {
		log.Printf("✓ Archived bundle: %s", filepath.Base(zipPath))
	}

	return Record{
		Fields: map[string]string{
			"title": stringField(metadata, "Topic/Subject", "Remarkable Find"),
			"body":  Normalize(string(body)),
		},
		Author:      stringField(metadata, "Author", libraryAuthor),
		Category:    "library",
		GeneratedAt: l.now().Format(time.RFC3339),
		Image:       imageRef,
	}
}

func (l *Library) degradedRecord(title, body string) Record {
	return Record{
		Fields:      map[string]string{"title": title, "body": body},
		Author:      libraryAuthor,
		Category:    "library",
		GeneratedAt: l.now().Format(time.RFC3339),
		Degraded:    true,
	}
}

// newestBundle picks the most recently modified zip in the inbox. An empty
// path with nil error means the inbox has no candidates.
func (l *Library) newestBundle() (string, error) {
	entries, err := os.ReadDir(l.inbox)
	if err != nil {
		return "", fmt.Errorf("reading inbox: %w", err)
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(l.inbox, e.Name())
			newestMod = info.ModTime()
		}
	}
	return newest, nil
}

// extract unpacks the bundle into the scratch directory, clearing any
// leftovers from a prior (possibly crashed) run first so re-runs never see
// stale state.
func (l *Library) extract(zipPath string) (string, error) {
	scratch := filepath.Join(l.inbox, scratchDirName)
	if err := os.RemoveAll(scratch); err != nil {
		return "", fmt.Errorf("clearing scratch directory: %w", err)
	}
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	if err := unzip(zipPath, scratch); err != nil {
		return "", err
	}
	return scratch, nil
}

// syncAssets uploads every image in the bundle to the bucket and returns the
// public URL prefix the issue should reference.
func (l *Library) syncAssets(ctx context.Context, imagesDir string) (string, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return "", fmt.Errorf("reading images directory: %w", err)
	}

	prefix := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		localPath := filepath.Join(imagesDir, e.Name())
		url, err := l.store.Upload(ctx, localPath, remoteAssetPrefix+"/"+e.Name())
		if err != nil {
			return "", fmt.Errorf("uploading %s: %w", e.Name(), err)
		}
		prefix = strings.TrimSuffix(url, e.Name())
	}
	if prefix == "" {
		return "", fmt.Errorf("images directory is empty")
	}
	return prefix, nil
}

// archiveBundle moves (never copies) the consumed zip into a dated archive
// directory, so the inbox cannot grow unboundedly and the archive stays a
// faithful log of ingested inputs.
func (l *Library) archiveBundle(zipPath string) error {
	dated := filepath.Join(l.inbox, archiveDirName, l.now().Format("2006-01-02"))
	if err := os.MkdirAll(dated, 0755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	return os.Rename(zipPath, filepath.Join(dated, filepath.Base(zipPath)))
}

// findBundleFiles locates the first directory in the extracted tree that
// holds both required files, plus its optional images directory.
func findBundleFiles(root string) (metaPath, contentPath, imagesDir string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil
		}
		var hasMeta, hasContent, hasImages bool
		for _, e := range entries {
			switch {
			case e.Name() == bundleMetadataFile:
				hasMeta = true
			case e.Name() == bundleContentFile:
				hasContent = true
			case e.Name() == bundleImagesDir && e.IsDir():
				hasImages = true
			}
		}
		if hasMeta && hasContent {
			metaPath = filepath.Join(path, bundleMetadataFile)
			contentPath = filepath.Join(path, bundleContentFile)
			if hasImages {
				imagesDir = filepath.Join(path, bundleImagesDir)
			}
			return fs.SkipAll
		}
		return nil
	})
	return metaPath, contentPath, imagesDir
}

func readBundleMetadata(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var metadata map[string]any
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

func stringField(metadata map[string]any, key, fallback string) string {
	if v, ok := metadata[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// unzip extracts an archive, refusing entries that would escape dest.
func unzip(src, dest string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		target := filepath.Join(dest, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
