package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Upload sends an image to the upload endpoint and returns its public URL.
func (s *Session) Upload(ctx context.Context, filename, mime string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mime)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("creating upload part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("writing upload part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp struct {
		ImgURL string `json:"imgUrl"`
		URL    string `json:"url"`
	}
	if _, err := s.c.send(req, s.token, &resp); err != nil {
		return "", err
	}

	url := resp.ImgURL
	if url == "" {
		url = resp.URL
	}
	if url == "" {
		return "", errors.New("upload response carried no image url")
	}
	return url, nil
}
