package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/baresto/baresto-api/models"
	"github.com/baresto/baresto-api/services"
	"github.com/baresto/baresto-api/utils"
	"github.com/google/uuid"
)

const maxDocumentBytes = 1 << 20

// OwnerResolver decides which owner email a scoped listing is filtered by
type OwnerResolver interface {
	Resolve(ctx context.Context, requested string) (string, error)
}

// decodeDocument reads a JSON object body into a new document. An email
// field, when present, must be a valid address.
func decodeDocument(r *http.Request) (*models.Document, error) {
	if r.Body == nil {
		return nil, services.ErrInvalidInput.WithDetail("body", "required")
	}

	var fields map[string]interface{}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes))
	if err := dec.Decode(&fields); err != nil {
		if err == io.EOF {
			return nil, services.ErrInvalidInput.WithDetail("body", "required")
		}
		return nil, services.ErrInvalidInput.WithDetail("body", "must be a JSON object")
	}
	if fields == nil {
		return nil, services.ErrInvalidInput.WithDetail("body", "must be a JSON object")
	}

	if v, ok := fields["email"]; ok {
		email, isString := v.(string)
		if !isString || utils.ValidateEmail(email) != nil {
			return nil, services.ErrInvalidEmail.WithDetail("email", "must be a valid email address")
		}
	}

	return models.NewDocument(fields), nil
}

// parseDocumentID parses a path id
func parseDocumentID(raw string) (uuid.UUID, error) {
	id, err := utils.ValidateUUID(raw)
	if err != nil {
		return uuid.Nil, services.ErrInvalidID.WithDetail("id", raw)
	}
	return id, nil
}

// writeDocuments writes a bare JSON array, never null
func writeDocuments(w http.ResponseWriter, docs []*models.Document) error {
	if docs == nil {
		docs = []*models.Document{}
	}
	return utils.WriteJSON(w, http.StatusOK, docs)
}
