package handle

import (
	"context"
	"net/http"
	"time"

	"ride-admin/internal/board/core/services"
	"ride-admin/internal/mylogger"
)

// ImportsHandler drives the CSV driver-import wizard.
type ImportsHandler struct {
	importer *services.Importer
	session  *services.BoardSession
	mylog    mylogger.Logger
}

func NewImportsHandler(mylog mylogger.Logger, importer *services.Importer, session *services.BoardSession) *ImportsHandler {
	return &ImportsHandler{importer: importer, session: session, mylog: mylog}
}

// ImportDrivers accepts the CSV either as a multipart "file" part or as the
// raw request body.
func (h *ImportsHandler) ImportDrivers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := r.Body
		if file, _, err := r.FormFile("file"); err == nil {
			defer file.Close()
			body = file
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		report, err := h.importer.Run(ctx, body)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		if report.Accepted > 0 {
			q := h.session.Queries()
			q.Invalidate(services.GroupPendingDrivers)
			q.Invalidate(services.GroupAdminStats)
		}
		jsonResponse(w, http.StatusOK, report)
	}
}

func (h *ImportsHandler) Template() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="driver_import_template.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(h.importer.Template()))
	}
}
