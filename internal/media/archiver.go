package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"boothvoice/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const graphAPIBase = "https://graph.facebook.com/v17.0"

// Archiver copies inbound WhatsApp media into durable object storage.
// Provider media ids expire after a short window, so evidence photos are
// fetched and re-uploaded as soon as they arrive.
type Archiver struct {
	logger *logrus.Logger
	client *http.Client
	s3     *s3.Client

	token  string
	bucket string
}

func NewArchiver(logger *logrus.Logger, s3Client *s3.Client, config *types.Config) *Archiver {
	return &Archiver{
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
		s3:     s3Client,
		token:  config.WhatsAppToken,
		bucket: config.MediaBucket,
	}
}

// Archive downloads the media object behind a provider id and uploads it
// to the bucket, returning the storage key. Without a configured bucket
// the provider id is returned unchanged.
func (a *Archiver) Archive(ctx context.Context, mediaID string) (string, error) {
	if a.bucket == "" || mediaID == "" {
		return mediaID, nil
	}

	downloadURL, contentType, err := a.resolve(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("resolve media %s: %w", mediaID, err)
	}

	body, err := a.download(ctx, downloadURL)
	if err != nil {
		return "", fmt.Errorf("download media %s: %w", mediaID, err)
	}
	defer body.Close()

	key := fmt.Sprintf("evidence/%s/%s", time.Now().UTC().Format("2006/01/02"), uuid.NewString())

	_, err = a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload media %s: %w", mediaID, err)
	}

	a.logger.WithFields(logrus.Fields{
		"media_id": mediaID,
		"key":      key,
	}).Info("archived evidence photo")

	return key, nil
}

// resolve exchanges a media id for its short-lived download URL.
func (a *Archiver) resolve(ctx context.Context, mediaID string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", graphAPIBase, mediaID), nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)

	res, err := a.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("media lookup returned %d", res.StatusCode)
	}

	var meta struct {
		URL      string `json:"url"`
		MimeType string `json:"mime_type"`
	}
	if err := json.NewDecoder(res.Body).Decode(&meta); err != nil {
		return "", "", fmt.Errorf("decode media metadata: %w", err)
	}

	contentType := meta.MimeType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return meta.URL, contentType, nil
}

func (a *Archiver) download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)

	res, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("media download returned %d", res.StatusCode)
	}

	return res.Body, nil
}
