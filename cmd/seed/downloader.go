package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/preseasonhq/backoffice/internal/config"
	"github.com/preseasonhq/backoffice/internal/storage"
)

func downloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "storage-endpoint",
			Usage:   "S3-compatible storage endpoint",
			EnvVars: []string{"STORAGE_ENDPOINT"},
		},
		&cli.StringFlag{
			Name:    "storage-access-key",
			Usage:   "Storage access key",
			EnvVars: []string{"STORAGE_ACCESS_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-secret-key",
			Usage:   "Storage secret key",
			EnvVars: []string{"STORAGE_SECRET_KEY"},
		},
		&cli.StringFlag{
			Name:    "storage-bucket",
			Usage:   "Storage bucket holding seed files",
			EnvVars: []string{"STORAGE_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "storage-region",
			Usage:   "Storage region",
			EnvVars: []string{"STORAGE_REGION"},
		},
		&cli.BoolFlag{
			Name:    "storage-use-ssl",
			Usage:   "Use TLS when talking to storage",
			Value:   true,
			EnvVars: []string{"STORAGE_USE_SSL"},
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Object key prefix to download",
			Value: "seeds/",
		},
		&cli.StringFlag{
			Name:  "dest-dir",
			Usage: "Local directory to download into",
			Value: "./data/seeds",
		},
	}
}

func downloadSeedFiles(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.StorageConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	prefix := strings.TrimSpace(c.String("prefix"))
	destDir := c.String("dest-dir")

	objects, err := client.ListObjects(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to list objects for prefix %s: %w", prefix, err)
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("no CSV files found for prefix %s", prefix)
	}
	sort.Strings(keys)

	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(prefix, key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("failed to prepare directory for %s: %w", localPath, err)
		}
		if err := client.DownloadObject(ctx, key, localPath); err != nil {
			return err
		}
		log.Printf("Downloaded %s -> %s", key, localPath)
	}

	log.Printf("Downloaded %d seed files", len(keys))
	return nil
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
