package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/platewise/staffhub-backend/internal/middleware"
	"github.com/platewise/staffhub-backend/internal/store"
)

type hoursReportResponse struct {
	From time.Time              `json:"from"`
	To   time.Time              `json:"to"`
	Rows []store.HoursReportRow `json:"rows"`
}

func (s *Server) GetHoursReport(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	from, to, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr(err.Error(), nil))
		return
	}

	rows, err := s.db.Store().HoursReport(r.Context(), restaurantID, from, to)
	if err != nil {
		logger.Error("Failed to build hours report", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	writeJSON(w, http.StatusOK, hoursReportResponse{From: from, To: to, Rows: rows})
}

// ExportHoursReport streams the same report as a CSV attachment.
func (s *Server) ExportHoursReport(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	restaurantID, ok := restaurantScope(w, r)
	if !ok {
		return
	}
	from, to, err := parseTimeRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ValidationErr(err.Error(), nil))
		return
	}

	rows, err := s.db.Store().HoursReport(r.Context(), restaurantID, from, to)
	if err != nil {
		logger.Error("Failed to build hours report", "restaurant_id", restaurantID, "error", err)
		writeError(w, http.StatusInternalServerError, InternalError("An unexpected error occurred."))
		return
	}

	filename := fmt.Sprintf("hours-%s-%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"user_id", "email", "name", "total_minutes", "total_hours", "entries"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.UserID.String(),
			row.Email,
			row.Name,
			fmt.Sprintf("%d", row.TotalMinutes),
			fmt.Sprintf("%.2f", float64(row.TotalMinutes)/60),
			fmt.Sprintf("%d", row.Entries),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logger.Error("Failed to write CSV export", "restaurant_id", restaurantID, "error", err)
	}
}
