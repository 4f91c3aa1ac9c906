package models

import "io"

// File — загружаемый файл. Reader читается ровно один раз.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ImageFormat struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UploadedFile — элемент ответа POST /upload.
type UploadedFile struct {
	ID      ID                     `json:"id"`
	Name    string                 `json:"name"`
	URL     string                 `json:"url"`
	Mime    string                 `json:"mime"`
	Size    float64                `json:"size"`
	Width   int                    `json:"width,omitempty"`
	Height  int                    `json:"height,omitempty"`
	Formats map[string]ImageFormat `json:"formats,omitempty"`
}
