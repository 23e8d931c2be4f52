// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackerinthewoods/sitectl/internal/site"
)

type putCall struct {
	key, contentType, cacheControl, body string
}

type fakeS3 struct {
	mu    sync.Mutex
	puts  map[string]putCall
	failK string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := awsv2.ToString(in.Key)
	if key == f.failK {
		return nil, errors.New("access denied")
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.puts == nil {
		f.puts = map[string]putCall{}
	}
	f.puts[key] = putCall{
		key:          key,
		contentType:  awsv2.ToString(in.ContentType),
		cacheControl: awsv2.ToString(in.CacheControl),
		body:         string(b),
	}
	return &s3.PutObjectOutput{}, nil
}

type fakeCloudFront struct {
	calls []*cloudfront.CreateInvalidationInput
	err   error
}

func (f *fakeCloudFront) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, in)
	return &cloudfront.CreateInvalidationOutput{Invalidation: &cftypes.Invalidation{Id: awsv2.String("I2J3K4")}}, nil
}

func writeBuild(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	return dir
}

func request(dir string) Request {
	return FromAction(&site.DeploymentAction{
		Source:       dir,
		Paths:        []string{"/*"},
		CacheControl: site.DeploymentCacheControl,
	}, "assets", "E123")
}

func TestPublish_UploadsAndInvalidates(t *testing.T) {
	t.Setenv("SITECTL_CACHE_DIR", t.TempDir())
	dir := writeBuild(t, map[string]string{
		"index.html":     "<h1>hi</h1>",
		"404/index.html": "gone",
		"css/site.css":   "body{}",
		"blob.zzzq":      "??",
	})

	up := &fakeS3{}
	cf := &fakeCloudFront{}
	var progress []int
	var mu sync.Mutex
	p := &Publisher{S3: up, CloudFront: cf, Concurrency: 2, OnProgress: func(done, _ int) {
		mu.Lock()
		progress = append(progress, done)
		mu.Unlock()
	}}

	s, err := p.Publish(context.Background(), request(dir))
	require.NoError(t, err)

	assert.Equal(t, 4, s.Files)
	assert.Equal(t, 4, s.Uploaded)
	assert.Equal(t, 0, s.Skipped)
	assert.Equal(t, int64(len("<h1>hi</h1>")+len("gone")+len("body{}")+len("??")), s.Bytes)
	assert.Equal(t, "I2J3K4", s.InvalidationID)
	assert.Len(t, progress, 4)

	require.Len(t, up.puts, 4)
	for _, c := range up.puts {
		assert.Equal(t, "public, max-age=86400", c.cacheControl, c.key)
	}
	assert.Equal(t, "<h1>hi</h1>", up.puts["index.html"].body)
	assert.Contains(t, up.puts["404/index.html"].contentType, "text/html")
	assert.Equal(t, "application/octet-stream", up.puts["blob.zzzq"].contentType)

	require.Len(t, cf.calls, 1)
	batch := cf.calls[0].InvalidationBatch
	assert.Equal(t, "E123", awsv2.ToString(cf.calls[0].DistributionId))
	assert.Equal(t, []string{"/*"}, batch.Paths.Items)
	assert.Equal(t, int32(1), awsv2.ToInt32(batch.Paths.Quantity))
	assert.True(t, strings.HasPrefix(awsv2.ToString(batch.CallerReference), "sitectl-"))
}

func TestPublish_Incremental(t *testing.T) {
	t.Setenv("SITECTL_CACHE_DIR", t.TempDir())
	t.Setenv("SITECTL_CACHE", "1")
	dir := writeBuild(t, map[string]string{"index.html": "v1", "app.js": "x"})

	cf := &fakeCloudFront{}
	p := &Publisher{S3: &fakeS3{}, CloudFront: cf, Incremental: true}
	_, err := p.Publish(context.Background(), request(dir))
	require.NoError(t, err)

	up := &fakeS3{}
	p.S3 = up
	s, err := p.Publish(context.Background(), request(dir))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Uploaded)
	assert.Equal(t, 2, s.Skipped)
	assert.Empty(t, s.InvalidationID)
	assert.Len(t, cf.calls, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("v2"), 0o600))
	s, err = p.Publish(context.Background(), request(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Uploaded)
	assert.Equal(t, 1, s.Skipped)
	assert.Contains(t, up.puts, "index.html")
	assert.Len(t, cf.calls, 2)
}

func TestPublish_FullUploadIgnoresCache(t *testing.T) {
	t.Setenv("SITECTL_CACHE_DIR", t.TempDir())
	dir := writeBuild(t, map[string]string{"index.html": "v1"})

	p := &Publisher{S3: &fakeS3{}, CloudFront: &fakeCloudFront{}}
	_, err := p.Publish(context.Background(), request(dir))
	require.NoError(t, err)

	s, err := p.Publish(context.Background(), request(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Uploaded)
}

func TestPublish_UploadError(t *testing.T) {
	t.Setenv("SITECTL_CACHE_DIR", t.TempDir())
	dir := writeBuild(t, map[string]string{"index.html": "a", "bad.txt": "b"})

	cf := &fakeCloudFront{}
	p := &Publisher{S3: &fakeS3{failK: "bad.txt"}, CloudFront: cf}
	_, err := p.Publish(context.Background(), request(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")
	assert.Empty(t, cf.calls)
}

func TestPublish_InvalidationError(t *testing.T) {
	t.Setenv("SITECTL_CACHE_DIR", t.TempDir())
	dir := writeBuild(t, map[string]string{"index.html": "a"})

	p := &Publisher{S3: &fakeS3{}, CloudFront: &fakeCloudFront{err: errors.New("throttled")}}
	_, err := p.Publish(context.Background(), request(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E123")
}

func TestPublish_NoBucket(t *testing.T) {
	dir := writeBuild(t, map[string]string{"index.html": "a"})
	req := request(dir)
	req.Bucket = ""

	_, err := (&Publisher{}).Publish(context.Background(), req)
	assert.Error(t, err)
}

func TestWalk(t *testing.T) {
	dir := writeBuild(t, map[string]string{"b.txt": "1", "a/z.txt": "22"})

	files, err := Walk(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a/z.txt", files[0].Key)
	assert.Equal(t, int64(2), files[0].Size)
	assert.Equal(t, "b.txt", files[1].Key)
}

func TestWalk_Errors(t *testing.T) {
	_, err := Walk("")
	assert.Error(t, err)

	_, err = Walk(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Walk(t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyBuild)

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0o600))
	_, err = Walk(f)
	assert.Error(t, err)
}

func TestSummaryString(t *testing.T) {
	s := Summary{Files: 3, Uploaded: 2, Skipped: 1, Bytes: 2048, InvalidationID: "I1"}
	assert.Equal(t, "uploaded 2 of 3 files (2.0 kB), 1 unchanged, invalidation I1 in 0s", s.String())
}
