package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/model"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/orders"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/status"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps service failures onto HTTP statuses. Client-side
// transition guards map to 409; remote rejections to 422 since the request
// was well-formed but refused; transport failures to 502.
func writeServiceError(w http.ResponseWriter, err error) {
	var illegal *status.IllegalTransitionError
	switch {
	case errors.As(err, &illegal):
		writeJSON(w, http.StatusConflict, map[string]string{"error": illegal.Error()})
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrDriverRequired):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case gateway.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case gateway.IsRejected(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": gatewayMessage(err)})
	case gateway.IsUnavailable(err):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func gatewayMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return "request rejected"
}
