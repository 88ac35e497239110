// Package distribution defines the publishing boundary: a finished video
// plus its metadata goes out, a platform id comes back.
package distribution

import "context"

type UploadRequest struct {
	FilePath    string
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	ChannelID   string
	Privacy     string
	MadeForKids bool
}

type UploadResponse struct {
	ID       string
	URL      string
	Platform string
}

type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error)
	Platform() string
}
