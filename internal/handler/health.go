package handler

import (
	"net/http"
	"time"

	"github.com/FTI-LMS/LMS/internal/httputil"
)

// ServiceName is reported by the health endpoint
const ServiceName = "lms-catalog"

// Health reports liveness. It does not check the store or remote services.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
	})
}
