package handler

import (
	"net/http"

	"github.com/tips-admin-api/internal/transport/http/middleware"
)

// CurrentSession reports the session state the page guards will see.
func CurrentSession(w http.ResponseWriter, r *http.Request) {
	st := middleware.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, SessionEnvelope{LoggedIn: st.LoggedIn(), Session: st})
}
