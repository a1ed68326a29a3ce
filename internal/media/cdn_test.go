package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"loyalty_backend/internal/config"
	"loyalty_backend/internal/domain"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	params []uploader.UploadParams
	data   []string
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = append(f.params, params)
	if r, ok := file.(io.Reader); ok {
		b, _ := io.ReadAll(r)
		f.data = append(f.data, string(b))
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestClient(up uploadAPI) *Client {
	return &Client{
		api:         up,
		folder:      "loyalty",
		placeholder: "https://cdn.example.com/placeholder.png",
		newID:       func() string { return "fixed-id" },
	}
}

func TestUpload_SendsFolderAndPublicID(t *testing.T) {
	fake := &fakeUploader{result: &uploader.UploadResult{
		PublicID:  "loyalty/fixed-id",
		SecureURL: "https://res.cloudinary.com/demo/image/upload/loyalty/fixed-id.png",
	}}

	url, err := newTestClient(fake).Upload(context.Background(), "/tmp/upload/avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/loyalty/fixed-id.png", url)

	require.Len(t, fake.params, 1)
	assert.Equal(t, "loyalty", fake.params[0].Folder)
	assert.Equal(t, "fixed-id", fake.params[0].PublicID)
	assert.Equal(t, []string{"png-bytes"}, fake.data)
}

func TestUpload_Placeholder(t *testing.T) {
	fake := &fakeUploader{}
	c := newTestClient(fake)

	url, err := c.Upload(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/placeholder.png", url)

	url, err = c.UploadFile(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, c.Placeholder(), url)
	assert.Empty(t, fake.params)

	unconfigured, err := NewClient(config.CDNConfig{Folder: "loyalty", PlaceholderURL: "https://cdn.example.com/placeholder.png"})
	require.NoError(t, err)
	url, err = unconfigured.Upload(context.Background(), "a.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, c.Placeholder(), url)
}

func TestUpload_TransportFailure(t *testing.T) {
	c := newTestClient(&fakeUploader{err: errors.New("connection reset")})

	_, err := c.Upload(context.Background(), "a.png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUpload_APIErrorInResult(t *testing.T) {
	c := newTestClient(&fakeUploader{result: &uploader.UploadResult{
		Error: api.ErrorResp{Message: "Invalid Signature"},
	}})

	_, err := c.Upload(context.Background(), "a.png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestUpload_MissingSecureURL(t *testing.T) {
	c := newTestClient(&fakeUploader{result: &uploader.UploadResult{}})

	_, err := c.Upload(context.Background(), "a.png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestNewClient_WithCredentials(t *testing.T) {
	c, err := NewClient(config.CDNConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "loyalty"})
	require.NoError(t, err)
	assert.NotNil(t, c.api)
}
