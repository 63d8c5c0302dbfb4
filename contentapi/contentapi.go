// Package contentapi is a client for the content endpoint, the remote service
// that stores albums, tracks, videos, and lyrics for the archive
package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.senan.xyz/musicarchive/content"
)

var (
	ErrRequest = errors.New("content endpoint request failed")
	ErrStatus  = errors.New("content endpoint bad status")
	ErrDecode  = errors.New("content endpoint bad response")
)

const (
	pathParam = "path"

	listAlbums = "albums"
	listVideos = "videos"
	listLyrics = "lyrics"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return NewClientCustom(http.DefaultClient, baseURL)
}

func NewClientCustom(httpClient *http.Client, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Create sends one record to the endpoint. Any decoded reply is returned as
// is, including one with a falsy `success`. Deciding what a rejection means
// is up to the caller. Transport, status, and decode failures are errors
func (c *Client) Create(ctx context.Context, rec content.Record) (content.Result, error) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(rec); err != nil {
		return content.Result{}, fmt.Errorf("encode %s: %w", rec.Kind(), err)
	}
	var res content.Result
	if err := c.do(ctx, http.MethodPost, rec.Kind().Path(), &body, &res); err != nil {
		return content.Result{}, err
	}
	return res, nil
}

func (c *Client) Albums(ctx context.Context) ([]*content.CatalogAlbum, error) {
	var albums []*content.CatalogAlbum
	if err := c.do(ctx, http.MethodGet, listAlbums, nil, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *Client) Videos(ctx context.Context) ([]*content.CatalogVideo, error) {
	var videos []*content.CatalogVideo
	if err := c.do(ctx, http.MethodGet, listVideos, nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *Client) Lyrics(ctx context.Context) ([]*content.CatalogLyric, error) {
	var lyrics []*content.CatalogLyric
	if err := c.do(ctx, http.MethodGet, listLyrics, nil, &lyrics); err != nil {
		return nil, err
	}
	return lyrics, nil
}

func (c *Client) endpointURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	params := u.Query()
	params.Set(pathParam, path)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dest any) error {
	reqURL, err := c.endpointURL(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrRequest, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBytes, _ := httputil.DumpResponse(resp, true)
		log.Printf("received bad content endpoint response:\n%s", string(respBytes))
		return fmt.Errorf("%s %s: %d: %w", method, path, resp.StatusCode, ErrStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDecode, method, path, err)
	}
	return nil
}
