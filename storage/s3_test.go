package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct {
	lastInput *s3.GetObjectInput
	url       string
	err       error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: f.url}, nil
}

func newTestStore(putter *fakePutter, presigner *fakePresigner) *S3Store {
	return NewWithClients(&Config{
		Region: "us-east-1",
		Bucket: "resumes-bucket",
	}, putter, presigner)
}

func TestS3StoreStore(t *testing.T) {
	t.Run("uploads the blob and returns the presigned URL", func(t *testing.T) {
		putter := &fakePutter{}
		presigner := &fakePresigner{url: "https://resumes-bucket.s3.amazonaws.com/resumes/some-key?sig=abc"}
		store := newTestStore(putter, presigner)

		url, err := store.Store(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("%PDF-1.4 fake"))
		require.NoError(t, err)
		assert.Equal(t, presigner.url, url)

		require.NotNil(t, putter.lastInput)
		assert.Equal(t, "resumes-bucket", aws.ToString(putter.lastInput.Bucket))
		assert.Equal(t, "application/pdf", aws.ToString(putter.lastInput.ContentType))

		body, err := io.ReadAll(putter.lastInput.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(body))

		require.NotNil(t, presigner.lastInput)
		assert.Equal(t, aws.ToString(putter.lastInput.Key), aws.ToString(presigner.lastInput.Key))
	})

	t.Run("keys are namespaced and keep the original filename", func(t *testing.T) {
		putter := &fakePutter{}
		presigner := &fakePresigner{url: "https://example.com/signed"}
		store := newTestStore(putter, presigner)

		_, err := store.Store(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("x"))
		require.NoError(t, err)

		key := aws.ToString(putter.lastInput.Key)
		assert.True(t, strings.HasPrefix(key, "resumes/"))
		assert.True(t, strings.HasSuffix(key, "-resume.pdf"))
	})

	t.Run("repeated uploads of the same filename get distinct keys", func(t *testing.T) {
		putter := &fakePutter{}
		presigner := &fakePresigner{url: "https://example.com/signed"}
		store := newTestStore(putter, presigner)

		_, err := store.Store(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("x"))
		require.NoError(t, err)
		first := aws.ToString(putter.lastInput.Key)

		_, err = store.Store(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("x"))
		require.NoError(t, err)
		second := aws.ToString(putter.lastInput.Key)

		assert.NotEqual(t, first, second)
	})

	t.Run("upload failure surfaces", func(t *testing.T) {
		putter := &fakePutter{err: errors.New("boom")}
		presigner := &fakePresigner{url: "https://example.com/signed"}
		store := newTestStore(putter, presigner)

		url, err := store.Store(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("x"))
		assert.Empty(t, url)
		assert.ErrorContains(t, err, "failed to upload resume")

		assert.Nil(t, presigner.lastInput)
	})

	t.Run("presign failure surfaces", func(t *testing.T) {
		putter := &fakePutter{}
		presigner := &fakePresigner{err: errors.New("boom")}
		store := newTestStore(putter, presigner)

		url, err := store.Store(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("x"))
		assert.Empty(t, url)
		assert.ErrorContains(t, err, "failed to presign resume URL")
	})
}
