package textsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"search-indexer/core/reconcile"
	"search-indexer/core/storage"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrReportNotFound is returned when no archived report matches a run id.
var ErrReportNotFound = errors.New("report not found")

const reportSuffix = ".json.gz"

// ReportObject describes one archived run report.
type ReportObject struct {
	Key          string    `json:"key"`
	RunID        string    `json:"run_id"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ReportArchive stores run reports as gzipped JSON objects.
// It implements reconcile.ReportSink.
type ReportArchive struct {
	client    storage.Client
	bucket    string
	prefix    string
	retention int
	logger    *zap.Logger
}

// NewReportArchive creates an archive under prefix. A retention <= 0 keeps every report.
func NewReportArchive(client storage.Client, bucket, prefix string, retention int, logger *zap.Logger) *ReportArchive {
	return &ReportArchive{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		retention: retention,
		logger:    logger,
	}
}

// objectKey sorts chronologically: the start time leads the name.
func (a *ReportArchive) objectKey(report *reconcile.RunReport) string {
	name := report.StartedAt.UTC().Format("20060102T150405.000000000Z") + "_" + report.RunID + reportSuffix
	return path.Join(a.prefix, name)
}

// Save implements reconcile.ReportSink. Skipped runs are not archived.
func (a *ReportArchive) Save(ctx context.Context, report *reconcile.RunReport) error {
	if report.Skipped {
		return nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress report: %w", err)
	}

	key := a.objectKey(report)
	_, err := a.client.PutObject(ctx, a.bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType:     "application/json",
		ContentEncoding: "gzip",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	if err := a.Prune(ctx); err != nil {
		a.logger.Warn("Failed to prune archived reports", zap.Error(err))
	}
	return nil
}

// List returns the archived reports, newest first. A limit <= 0 returns all.
func (a *ReportArchive) List(ctx context.Context, limit int) ([]ReportObject, error) {
	objects, err := a.list(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key > objects[j].Key })
	if limit > 0 && len(objects) > limit {
		objects = objects[:limit]
	}
	return objects, nil
}

// Get downloads the report of runID.
func (a *ReportArchive) Get(ctx context.Context, runID string) (*reconcile.RunReport, error) {
	objects, err := a.list(ctx)
	if err != nil {
		return nil, err
	}

	var key string
	for _, obj := range objects {
		if obj.RunID == runID {
			key = obj.Key
			break
		}
	}
	if key == "" {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, runID)
	}

	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download report %s: %w", key, err)
	}
	defer obj.Close()

	zr, err := gzip.NewReader(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", key, err)
	}
	defer zr.Close()

	var report reconcile.RunReport
	if err := json.NewDecoder(zr).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", key, err)
	}
	return &report, nil
}

// Prune removes the oldest reports beyond the retention count in one batch.
func (a *ReportArchive) Prune(ctx context.Context) error {
	if a.retention <= 0 {
		return nil
	}

	objects, err := a.list(ctx)
	if err != nil {
		return err
	}
	if len(objects) <= a.retention {
		return nil
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	stale := objects[:len(objects)-a.retention]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- minio.ObjectInfo{Key: obj.Key}
	}
	close(objectsCh)

	var failed []string
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", rErr.ObjectName, rErr.Err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to remove %d reports: %v", len(failed), failed)
	}

	a.logger.Debug("Pruned archived reports", zap.Int("removed", len(stale)))
	return nil
}

func (a *ReportArchive) list(ctx context.Context) ([]ReportObject, error) {
	var out []ReportObject
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: a.prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		runID, ok := runIDFromKey(obj.Key)
		if !ok {
			continue
		}
		out = append(out, ReportObject{
			Key:          obj.Key,
			RunID:        runID,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return out, nil
}

// runIDFromKey extracts the run id from <prefix>/<timestamp>_<run id>.json.gz.
func runIDFromKey(key string) (string, bool) {
	name := path.Base(key)
	if !strings.HasSuffix(name, reportSuffix) {
		return "", false
	}
	_, runID, ok := strings.Cut(strings.TrimSuffix(name, reportSuffix), "_")
	if !ok || runID == "" {
		return "", false
	}
	return runID, true
}
