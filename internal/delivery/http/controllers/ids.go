package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"giftregistry/internal/delivery/http/helpers"
)

// pathUUID reads a UUID path parameter. On failure it writes a 400 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	if err := uuid.Validate(v); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, fmt.Sprintf("%s must be a UUID", name))
		return "", false
	}
	return v, true
}
