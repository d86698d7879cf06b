package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/sharing"
	"github.com/google/uuid"
)

// DropboxUploader stores exported reports and profile photos in Dropbox and
// hands back a direct-download link.
type DropboxUploader struct {
	folder  string
	files   files.Client
	sharing sharing.Client
	now     func() time.Time
}

// NewDropboxUploader returns nil when token is empty so callers can treat
// "not configured" as a nil uploader. Empty apiURL/contentURL keep the SDK's
// own endpoints.
func NewDropboxUploader(token, folder, apiURL, contentURL string) *DropboxUploader {
	if token == "" {
		return nil
	}
	cfg := dropbox.Config{
		Token:    token,
		LogLevel: dropbox.LogOff,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
	if apiURL != "" || contentURL != "" {
		cfg.URLGenerator = endpointURL(apiURL, contentURL)
	}
	return &DropboxUploader{
		folder:  strings.TrimRight(folder, "/"),
		files:   files.New(cfg),
		sharing: sharing.New(cfg),
		now:     time.Now,
	}
}

// endpointURL routes content-host calls (uploads) to contentURL and
// everything else to apiURL.
func endpointURL(apiURL, contentURL string) func(hostType, namespace, route string) string {
	apiURL, contentURL = strings.TrimRight(apiURL, "/"), strings.TrimRight(contentURL, "/")
	return func(hostType, namespace, route string) string {
		base := apiURL
		if hostType == "content" {
			base = contentURL
		}
		return fmt.Sprintf("%s/2/%s/%s", base, namespace, route)
	}
}

// UploadReport places data under <folder>/<yyyy>/<mm>/<uuid>_<name>.
func (d *DropboxUploader) UploadReport(ctx context.Context, name string, data []byte) (string, error) {
	dir := path.Join(d.folder, d.now().Format("2006/01"))
	return d.Upload(ctx, dir, name, data)
}

// Upload stores data at dir/<uuid>_<name> and returns its ?dl=1 link.
// The SDK has no context support; ctx is only checked before starting.
func (d *DropboxUploader) Upload(ctx context.Context, dir, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := path.Join("/", dir, uuid.NewString()+"_"+name)

	arg := files.NewUploadArg(dst)
	arg.Mode = &files.WriteMode{Tagged: dropbox.Tagged{Tag: files.WriteModeOverwrite}}
	arg.Autorename = true
	if _, err := d.files.Upload(arg, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("dropbox upload %s: %w", dst, err)
	}

	link, err := d.sharedLink(dst)
	if err != nil {
		return "", fmt.Errorf("dropbox share %s: %w", dst, err)
	}
	return DirectLink(link), nil
}

// sharedLink creates a link for dst, reusing the existing one when Dropbox
// reports shared_link_already_exists.
func (d *DropboxUploader) sharedLink(dst string) (string, error) {
	created, err := d.sharing.CreateSharedLinkWithSettings(sharing.NewCreateSharedLinkWithSettingsArg(dst))
	if err == nil {
		return linkURL(created), nil
	}
	if !strings.Contains(err.Error(), "shared_link_already_exists") {
		return "", err
	}

	arg := sharing.NewListSharedLinksArg()
	arg.Path = dst
	arg.DirectOnly = true
	list, err := d.sharing.ListSharedLinks(arg)
	if err != nil {
		return "", err
	}
	for _, l := range list.Links {
		if u := linkURL(l); u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("no shared link for %s", dst)
}

func linkURL(m sharing.IsSharedLinkMetadata) string {
	switch l := m.(type) {
	case *sharing.FileLinkMetadata:
		return l.Url
	case *sharing.FolderLinkMetadata:
		return l.Url
	case *sharing.SharedLinkMetadata:
		return l.Url
	}
	return ""
}

// DirectLink turns a Dropbox preview link into a direct download link.
func DirectLink(url string) string {
	if strings.Contains(url, "?dl=0") {
		return strings.Replace(url, "?dl=0", "?dl=1", 1)
	}
	if !strings.Contains(url, "dl=1") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		return url + sep + "dl=1"
	}
	return url
}
