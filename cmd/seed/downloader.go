package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/storage"
	"github.com/andresuchdata/retail-forecast/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "storage-endpoint", EnvVars: []string{"STORAGE_ENDPOINT"}, Usage: "S3-compatible endpoint"},
		&cli.StringFlag{Name: "storage-access-key", EnvVars: []string{"STORAGE_ACCESS_KEY"}},
		&cli.StringFlag{Name: "storage-secret-key", EnvVars: []string{"STORAGE_SECRET_KEY"}},
		&cli.StringFlag{Name: "storage-bucket", EnvVars: []string{"STORAGE_BUCKET"}},
		&cli.StringFlag{Name: "storage-region", EnvVars: []string{"STORAGE_REGION"}, Value: "us-east-1"},
		&cli.BoolFlag{Name: "storage-use-ssl", EnvVars: []string{"STORAGE_USE_SSL"}},
		&cli.StringFlag{Name: "dataset-prefix", EnvVars: []string{"DATASET_PREFIX"}, Value: "datasets/", Usage: "Object prefix holding dataset files"},
		&cli.StringFlag{Name: "dataset-key", Usage: "Single object key to download, relative to the prefix"},
		&cli.StringFlag{Name: "download-dir", Value: "./data/tmp/datasets", Usage: "Local directory for downloaded files"},
	}
}

func downloadOnly(c *cli.Context) error {
	paths, err := downloadDataset(c)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Log.Info().Str("path", p).Msg("Downloaded dataset file")
	}
	return nil
}

func downloadDataset(c *cli.Context) ([]string, error) {
	client, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return nil, err
	}

	destDir := c.String("download-dir")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure download dir %s: %w", destDir, err)
	}

	prefix := strings.TrimSpace(c.String("dataset-prefix"))
	var keys []string
	if override := c.String("dataset-key"); override != "" {
		keys = []string{resolveObjectKey(prefix, override)}
	} else {
		objects, err := client.ListObjects(c.Context, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects for prefix %s: %w", prefix, err)
		}
		keys = datasetKeys(objects)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no dataset files found for prefix %s", prefix)
	}

	localPaths := make([]string, 0, len(keys))
	for _, key := range keys {
		localPath := filepath.Join(destDir, objectRelativePath(prefix, key))
		if err := client.DownloadObject(c.Context, key, localPath); err != nil {
			return nil, err
		}
		localPaths = append(localPaths, localPath)
	}

	sort.Strings(localPaths)
	return localPaths, nil
}

func datasetKeys(objects []storage.ObjectInfo) []string {
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		switch strings.ToLower(path.Ext(obj.Key)) {
		case ".xlsx", ".csv":
			keys = append(keys, obj.Key)
		}
	}
	return keys
}

func resolveObjectKey(prefix, override string) string {
	if prefix == "" {
		return strings.TrimPrefix(override, "/")
	}

	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	overrideTrimmed := strings.TrimPrefix(strings.TrimSpace(override), "/")

	if strings.HasPrefix(overrideTrimmed, prefixTrimmed) {
		return overrideTrimmed
	}
	return prefixTrimmed + "/" + overrideTrimmed
}

func objectRelativePath(prefix, key string) string {
	rel := strings.TrimPrefix(key, strings.TrimSuffix(prefix, "/"))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		rel = path.Base(key)
	}
	return filepath.FromSlash(rel)
}
