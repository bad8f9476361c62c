package request

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/ajg/form"
	"github.com/go-chi/render"
)

// multipartOverhead leaves room for the text fields next to the file part.
const multipartOverhead = 1 << 20

func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// Decode fills dst from a multipart form (form tags) or a JSON body (json tags).
// For multipart requests the body is capped at maxFileSize plus a small overhead.
func Decode(w http.ResponseWriter, r *http.Request, dst any, maxFileSize int64) error {
	if !IsMultipart(r) {
		return render.DecodeJSON(r.Body, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxFileSize + multipartOverhead); err != nil {
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}

	decoder := form.NewDecoder(nil)
	decoder.IgnoreUnknownKeys(true)

	if err := decoder.DecodeValues(dst, r.MultipartForm.Value); err != nil {
		return fmt.Errorf("failed to decode form values: %w", err)
	}

	return nil
}

// FormFile returns the named file of an already parsed multipart request.
// ok is false when the request carries no such file.
func FormFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool, error) {
	if r.MultipartForm == nil {
		return nil, nil, false, nil
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}

	return file, header, true, nil
}
