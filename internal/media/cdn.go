// Package media uploads user and catalog images to Cloudinary.
package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"loyalty_backend/internal/config"
	"loyalty_backend/internal/domain"
	"loyalty_backend/internal/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// uploadAPI is the part of the Cloudinary upload API used here.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Client uploads to one Cloudinary folder. Without credentials every upload
// yields the placeholder image.
type Client struct {
	api         uploadAPI
	folder      string
	placeholder string
	newID       func() string
}

func NewClient(cfg config.CDNConfig) (*Client, error) {
	c := &Client{
		folder:      cfg.Folder,
		placeholder: cfg.PlaceholderURL,
		newID:       uuid.NewString,
	}
	if cfg.CloudName == "" {
		return c, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	c.api = &cld.Upload
	return c, nil
}

func (c *Client) Placeholder() string {
	return c.placeholder
}

// Upload sends one file and returns its secure URL. A nil reader, or a client
// without credentials, yields the placeholder image.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if r == nil {
		return c.placeholder, nil
	}
	if c.api == nil {
		logger.WithContext(ctx).Warn("cdn not configured, using placeholder", "file", filename)
		return c.placeholder, nil
	}

	publicID := c.newID()
	res, err := c.api.Upload(ctx, r, uploader.UploadParams{
		Folder:   c.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: cdn upload: %v", domain.ErrUpstream, err)
	}
	// API-level failures arrive in the result, not as an error
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: cdn upload: %s", domain.ErrUpstream, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: cdn response has no secure_url", domain.ErrUpstream)
	}

	logger.WithContext(ctx).Debug("uploaded file", "file", filename, "public_id", res.PublicID, "url", res.SecureURL)
	return res.SecureURL, nil
}

// UploadFile uploads a multipart file header; nil means no file was sent.
func (c *Client) UploadFile(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return c.placeholder, nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", domain.ErrInvalidArgument, err)
	}
	defer f.Close()
	return c.Upload(ctx, fh.Filename, f)
}
