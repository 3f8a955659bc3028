package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bible-bee-api/internal/models"
)

// DecodeBundle reads a JSON text bundle. Field validation is left to the
// import service.
func DecodeBundle(r io.Reader) (*models.JsonTextUpload, error) {
	var upload models.JsonTextUpload
	if err := json.NewDecoder(r).Decode(&upload); err != nil {
		return nil, fmt.Errorf("%w: decode text bundle: %v", ErrInvalidFile, err)
	}
	return &upload, nil
}
