package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"faros-cli/internal/model"
)

func (c *Client) ListFiles(ctx context.Context, taskID string) ([]model.FileAttachment, error) {
	var files []model.FileAttachment
	path := "/tasks/" + url.PathEscape(taskID) + "/files"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadFile streams the reader as a multipart upload. name is the filename
// reported to the server; the attachment record comes back server-assigned.
func (c *Client) UploadFile(ctx context.Context, taskID, name string, r io.Reader) (model.FileAttachment, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(name))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	u := c.baseURL + "/tasks/" + url.PathEscape(taskID) + "/files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, pr)
	if err != nil {
		return model.FileAttachment{}, fmt.Errorf("upload file: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.decorate(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		if IsCanceled(err) {
			return model.FileAttachment{}, err
		}
		return model.FileAttachment{}, fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.FileAttachment{}, decodeError(resp)
	}

	var out model.FileAttachment
	if err := decodeJSON(resp.Body, &out); err != nil {
		return model.FileAttachment{}, fmt.Errorf("upload file: decode response: %w", err)
	}
	return out, nil
}

// DownloadFile writes the raw file bytes to w.
func (c *Client) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	u := c.baseURL + "/files/" + url.PathEscape(fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("download file: build request: %w", err)
	}
	c.decorate(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		if IsCanceled(err) {
			return err
		}
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	return nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.do(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), nil, nil, nil)
}
