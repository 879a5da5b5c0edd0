package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxFormBytes caps urlencoded bodies.
const maxFormBytes = 1 << 20

// ParseForm reads the urlencoded body of r.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	if r.Body != nil && w != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	}
	if err := r.ParseForm(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form submission")
	}
	return nil
}

// FormString returns the trimmed form value, cut to maxLen bytes when maxLen > 0.
func FormString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.PostFormValue(key), maxLen)
}

// FormBool reads an HTML checkbox.
func FormBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.PostFormValue(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// URLParamUUID parses a chi route parameter. Malformed identifiers are
// reported as not found, the same as unknown ones.
func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found").
			WithDetails(map[string]any{"param": key})
	}
	return id, nil
}

// IsAJAX reports whether the client expects a JSON or fragment response.
func IsAJAX(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return r.URL.Query().Get("ajax") != ""
}
