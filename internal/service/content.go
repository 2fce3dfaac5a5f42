package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/models"
	"github.com/crownhub/crowns-be/internal/storage"
)

// BlobStore holds uploaded media.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFor(url string) string
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ContentService manages creator uploads.
type ContentService struct {
	accounts storage.AccountStore
	content  storage.ContentStore
	blobs    BlobStore
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewContentService constructs the service.
func NewContentService(accounts storage.AccountStore, content storage.ContentStore, blobs BlobStore, log logrus.FieldLogger) *ContentService {
	return &ContentService{accounts: accounts, content: content, blobs: blobs, now: time.Now, log: log}
}

// UploadInput is one media file with its caption.
type UploadInput struct {
	Filename  string
	MediaType string
	Caption   string
	Body      io.Reader
}

// Upload stores the media and records it under the caller, who must be an active creator.
func (s *ContentService) Upload(ctx context.Context, caller models.Principal, in UploadInput) (models.ContentItem, error) {
	if caller.Anonymous() {
		return models.ContentItem{}, ErrAuth
	}
	if in.Body == nil || strings.TrimSpace(in.Filename) == "" {
		return models.ContentItem{}, invalid("a file is required")
	}
	owner, err := s.accounts.FindAccount(ctx, caller.AccountID)
	if err != nil {
		return models.ContentItem{}, fromStorage(err, "account")
	}
	if !owner.IsActiveCreator() {
		return models.ContentItem{}, fmt.Errorf("%w: creator account is not active", ErrPermission)
	}

	key := fmt.Sprintf("content/%s/%d_%s", owner.ID, s.now().UnixNano(), sanitizeName(in.Filename))
	url, err := s.blobs.Put(ctx, key, in.Body)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("store media: %w", err)
	}

	item, err := s.content.CreateContent(ctx, models.ContentItem{
		OwnerID:   owner.ID,
		MediaURL:  url,
		MediaType: in.MediaType,
		Caption:   strings.TrimSpace(in.Caption),
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.WithError(delErr).WithField("key", key).Warn("orphaned media after failed insert")
		}
		return models.ContentItem{}, fromStorage(err, "content")
	}
	s.log.WithFields(logrus.Fields{"content_id": item.ID, "owner_id": owner.ID}).Info("content uploaded")
	return item, nil
}

// Delete removes an item; only its owner may do so.
func (s *ContentService) Delete(ctx context.Context, caller models.Principal, id string) error {
	if caller.Anonymous() {
		return ErrAuth
	}
	item, err := s.content.FindContent(ctx, id)
	if err != nil {
		return fromStorage(err, "content")
	}
	if item.OwnerID != caller.AccountID {
		return fmt.Errorf("%w: only the owner can delete this content", ErrPermission)
	}
	if err := s.content.DeleteContent(ctx, id); err != nil {
		return fromStorage(err, "content")
	}
	if key := s.blobs.KeyFor(item.MediaURL); key != "" {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("delete media")
		}
	}
	s.log.WithFields(logrus.Fields{"content_id": id, "owner_id": caller.AccountID}).Info("content deleted")
	return nil
}

func sanitizeName(name string) string {
	base := unsafeName.ReplaceAllString(filepath.Base(name), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "upload"
	}
	return base
}
