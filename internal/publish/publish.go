// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hackerinthewoods/sitectl/internal/cacheutil"
	"github.com/hackerinthewoods/sitectl/internal/log"
	"github.com/hackerinthewoods/sitectl/internal/site"
)

// DefaultConcurrency is the number of uploads in flight when none is set.
const DefaultConcurrency = 8

// ErrEmptyBuild is returned when the build directory holds no files.
var ErrEmptyBuild = errors.New("build directory is empty")

// Uploader is the subset of the S3 client used to publish objects.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Invalidator is the subset of the CloudFront client used to flush caches.
type Invalidator interface {
	CreateInvalidation(ctx context.Context, in *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// Request is one publish run.
type Request struct {
	BuildDir       string
	Bucket         string
	DistributionID string
	CacheControl   string
	Paths          []string
}

// FromAction builds a Request from the topology's deployment action and the
// physical names the stack reported.
func FromAction(a *site.DeploymentAction, bucket, distributionID string) Request {
	return Request{
		BuildDir:       a.Source,
		Bucket:         bucket,
		DistributionID: distributionID,
		CacheControl:   a.CacheControl.String(),
		Paths:          a.Paths,
	}
}

// File is a build artifact and the object key it publishes to.
type File struct {
	Path string
	Key  string
	Size int64
}

// Summary reports what a publish run did.
type Summary struct {
	Files          int
	Uploaded       int
	Skipped        int
	Bytes          int64
	InvalidationID string
	Elapsed        time.Duration
}

func (s Summary) String() string {
	msg := fmt.Sprintf("uploaded %d of %d files (%s)", s.Uploaded, s.Files, humanize.Bytes(uint64(s.Bytes))) //nolint:gosec
	if s.Skipped > 0 {
		msg += fmt.Sprintf(", %d unchanged", s.Skipped)
	}
	if s.InvalidationID != "" {
		msg += ", invalidation " + s.InvalidationID
	}
	return msg + " in " + s.Elapsed.Round(time.Millisecond).String()
}

// Publisher uploads a build directory and invalidates the distribution.
type Publisher struct {
	S3         Uploader
	CloudFront Invalidator
	// Concurrency bounds uploads in flight. Zero means DefaultConcurrency.
	Concurrency int
	// Incremental skips files whose digest matches the last publish.
	Incremental bool
	// OnProgress, when set, is called after each file is handled.
	OnProgress func(done, total int)
}

// Publish uploads every file below req.BuildDir. Existing objects that have
// no local counterpart are left alone.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Summary, error) {
	start := time.Now()

	if req.Bucket == "" {
		return nil, errors.New("no destination bucket")
	}
	files, err := Walk(req.BuildDir)
	if err != nil {
		return nil, err
	}

	manifest, err := cacheutil.Load(req.Bucket)
	if err != nil {
		return nil, err
	}

	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var uploaded, skipped, done atomic.Int64
	var bytes atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, f := range files {
		g.Go(func() error {
			defer func() {
				n := done.Add(1)
				if p.OnProgress != nil {
					p.OnProgress(int(n), len(files))
				}
			}()

			digest, err := digestFile(f.Path)
			if err != nil {
				return err
			}
			if p.Incremental && manifest.Unchanged(f.Key, digest) {
				log.Tracef("unchanged: key=%s", f.Key)
				skipped.Add(1)
				return nil
			}

			if err := p.put(gctx, req, f); err != nil {
				return err
			}
			manifest.Record(f.Key, digest)
			uploaded.Add(1)
			bytes.Add(f.Size)
			return nil
		})
	}
	uploadErr := g.Wait()

	// Whatever made it up is remembered even when a later upload failed.
	if err := manifest.Save(); err != nil {
		log.WithError(err).Warnf("failed to save publish cache")
	}
	if uploadErr != nil {
		return nil, uploadErr
	}

	s := &Summary{
		Files:    len(files),
		Uploaded: int(uploaded.Load()),
		Skipped:  int(skipped.Load()),
		Bytes:    bytes.Load(),
	}

	if s.Uploaded > 0 && req.DistributionID != "" {
		id, err := p.invalidate(ctx, req)
		if err != nil {
			return nil, err
		}
		s.InvalidationID = id
	} else {
		log.Debugf("skipping invalidation: uploaded=%d distribution=%q", s.Uploaded, req.DistributionID)
	}

	s.Elapsed = time.Since(start)
	log.Infof("publish: %s", s)
	return s, nil
}

func (p *Publisher) put(ctx context.Context, req Request, f File) error {
	fh, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer fh.Close()

	in := &s3.PutObjectInput{
		Bucket:        awsv2.String(req.Bucket),
		Key:           awsv2.String(f.Key),
		Body:          fh,
		ContentLength: awsv2.Int64(f.Size),
		ContentType:   awsv2.String(ContentType(f.Key)),
	}
	if req.CacheControl != "" {
		in.CacheControl = awsv2.String(req.CacheControl)
	}

	if _, err := p.S3.PutObject(ctx, in); err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", f.Path, req.Bucket, f.Key, err)
	}
	log.Debugf("uploaded: key=%s size=%d", f.Key, f.Size)
	return nil
}

func (p *Publisher) invalidate(ctx context.Context, req Request) (string, error) {
	paths := req.Paths
	if len(paths) == 0 {
		paths = []string{"/*"}
	}

	out, err := p.CloudFront.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: awsv2.String(req.DistributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: awsv2.String(fmt.Sprintf("sitectl-%d", time.Now().UnixNano())),
			Paths: &cftypes.Paths{
				Quantity: awsv2.Int32(int32(len(paths))), //nolint:gosec
				Items:    paths,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to invalidate distribution %s: %w", req.DistributionID, err)
	}
	if out.Invalidation == nil {
		return "", nil
	}
	return awsv2.ToString(out.Invalidation.Id), nil
}

// Walk lists the regular files below dir, keyed by their slash separated path
// relative to dir and sorted by key.
func Walk(dir string) ([]File, error) {
	if dir == "" {
		return nil, errors.New("no build directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build directory %s is not a directory", dir)
	}

	var files []File
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: path, Key: filepath.ToSlash(rel), Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBuild, dir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// ContentType guesses the object content type from the key's extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func digestFile(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer fh.Close()
	return cacheutil.Digest(fh)
}
