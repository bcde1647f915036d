package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshelf/backend/internal/config"
)

type recordingUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (u *recordingUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	u.input = input
	if input.Body != nil {
		data, err := io.ReadAll(input.Body)
		if err != nil {
			return nil, err
		}
		u.body = string(data)
	}
	return &manager.UploadOutput{}, u.err
}

func TestSaveUploadsWithContentType(t *testing.T) {
	up := &recordingUploader{}
	store := newS3Storage(up, config.ObjectStoreConfig{Bucket: "thumbs", PublicBaseURL: "https://cdn.test/"})

	location, err := store.Save(context.Background(), "/images/abc.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test/images/abc.png", location)
	assert.Equal(t, "thumbs", aws.ToString(up.input.Bucket))
	assert.Equal(t, "images/abc.png", aws.ToString(up.input.Key))
	assert.Equal(t, "image/png", aws.ToString(up.input.ContentType))
	assert.Equal(t, "png-bytes", up.body)
}

func TestSaveDerivesPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ObjectStoreConfig
		want string
	}{
		{name: "aws", cfg: config.ObjectStoreConfig{Bucket: "thumbs", Region: "eu-west-1"}, want: "https://thumbs.s3.eu-west-1.amazonaws.com/images/a.jpg"},
		{name: "custom endpoint", cfg: config.ObjectStoreConfig{Bucket: "thumbs", Endpoint: "http://localhost:9000/"}, want: "http://localhost:9000/thumbs/images/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newS3Storage(&recordingUploader{}, tt.cfg)
			location, err := store.Save(context.Background(), "images/a.jpg", strings.NewReader("x"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, location)
		})
	}
}

func TestSaveErrors(t *testing.T) {
	store := newS3Storage(&recordingUploader{}, config.ObjectStoreConfig{Bucket: "thumbs"})
	_, err := store.Save(context.Background(), "/", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyKey)

	failing := newS3Storage(&recordingUploader{err: errors.New("access denied")}, config.ObjectStoreConfig{Bucket: "thumbs"})
	_, err = failing.Save(context.Background(), "images/a.jpg", strings.NewReader("x"))
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.ObjectStoreConfig{Region: "us-east-1"})
	assert.Error(t, err)
}
