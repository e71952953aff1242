package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/oltenita/imobilia-market/internal/core/ports"
)

const (
	formFieldImages     = "images"
	formFieldKeptImages = "keptImages"
)

// --- Request → Service input ---

func (r createListingRequest) fields() ports.ListingFields {
	return ports.ListingFields{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price.String(),
		Category:    r.Category,
		Transaction: r.Transaction,
		Location:    r.Location,
		Rooms:       r.Rooms.String(),
		Status:      r.Status,
	}
}

func (r updateListingRequest) fields() ports.ListingFields {
	return ports.ListingFields{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price.String(),
		Category:    r.Category,
		Transaction: r.Transaction,
		Location:    r.Location,
		Rooms:       r.Rooms.String(),
		Status:      r.Status,
	}
}

// keptImagesFromJSON accepts the list either as a JSON array or as a string
// holding the serialized array. An absent field yields "".
func keptImagesFromJSON(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// keptImagesFromForm returns the keptImages form value, or "" when the field
// is absent.
func keptImagesFromForm(form *multipart.Form) string {
	if form == nil {
		return ""
	}
	if values := form.Value[formFieldKeptImages]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func toUploads(files []*multipart.FileHeader) []ports.ImageUpload {
	uploads := make([]ports.ImageUpload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, ports.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return uploads
}
