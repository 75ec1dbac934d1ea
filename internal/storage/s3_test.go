package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
	"trd/internal/testutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func newTestS3Store(t *testing.T, client *fakeS3) *S3Store {
	t.Helper()
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return newS3Store(client, "bucket", "trendradar", c, &testutil.MockLogger{})
}

func TestS3Store_SaveAndLatest(t *testing.T) {
	client := newFakeS3()
	s := newTestS3Store(t, client)
	ctx := context.Background()

	snap := testSnapshot(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC), "a")
	require.NoError(t, s.Save(ctx, snap))

	assert.Contains(t, client.objects, "bucket/trendradar/2025-03-01/093000.json.zst")
	assert.Contains(t, client.objects, "bucket/trendradar/latest.json.zst")

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, latest)
}

func TestS3Store_LatestMissing(t *testing.T) {
	s := newTestS3Store(t, newFakeS3())

	latest, err := s.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestS3Store_PutError(t *testing.T) {
	client := newFakeS3()
	client.putErr = errors.New("access denied")
	s := newTestS3Store(t, client)

	err := s.Save(context.Background(), testSnapshot(time.Now(), "a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
