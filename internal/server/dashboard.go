package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"boothvoice/internal/bot"
	"boothvoice/pkg/types"

	"github.com/sirupsen/logrus"
)

type statCard struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Value string `json:"value"`
	Trend string `json:"trend"`
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalVoters, err := s.voterRepo.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to count voters")
		s.internalServerError(w)
		return
	}

	openIssues, err := s.grievanceRepo.CountByStatus(ctx, types.StatusOpen)
	if err != nil {
		s.logger.WithError(err).Error("failed to count open grievances")
		s.internalServerError(w)
		return
	}

	suggestions, err := s.memberRepo.CountByType(ctx, types.TypeSuggestion)
	if err != nil {
		s.logger.WithError(err).Error("failed to count suggestions")
		s.internalServerError(w)
		return
	}

	volunteers, err := s.memberRepo.CountByType(ctx, types.TypeVolunteer)
	if err != nil {
		s.logger.WithError(err).Error("failed to count volunteers")
		s.internalServerError(w)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string][]statCard{
		"stats": {
			{ID: 1, Title: "Total Voters Registered", Value: strconv.FormatInt(totalVoters, 10), Trend: "Database link active"},
			{ID: 2, Title: "Open Grievances", Value: strconv.FormatInt(openIssues, 10), Trend: "Live from database"},
			{ID: 3, Title: "Suggestions Received", Value: strconv.FormatInt(suggestions, 10), Trend: "Live from database"},
			{ID: 4, Title: "Active Volunteers", Value: strconv.FormatInt(volunteers, 10), Trend: "Live from database"},
		},
	})
}

type grievanceRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Booth       string `json:"booth"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

func (s *Service) handleRecentGrievances(w http.ResponseWriter, r *http.Request) {
	s.listGrievances(w, r, 10, false)
}

func (s *Service) handleAllGrievances(w http.ResponseWriter, r *http.Request) {
	s.listGrievances(w, r, 100, true)
}

func (s *Service) listGrievances(w http.ResponseWriter, r *http.Request, limit uint64, withDescription bool) {
	grievances, err := s.grievanceRepo.Recent(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to load recent grievances")
		s.internalServerError(w)
		return
	}

	rows := make([]grievanceRow, 0, len(grievances))
	for _, g := range grievances {
		row := grievanceRow{
			ID:       g.ReferenceID,
			Name:     g.Name,
			Booth:    g.Booth,
			Category: bot.CategoryLabel(g.Category),
			Status:   string(g.Status),
			Date:     g.SubmittedOn,
		}
		if withDescription {
			row.Description = g.Description
		}
		rows = append(rows, row)
	}

	s.respondJSON(w, http.StatusOK, map[string][]grievanceRow{"grievances": rows})
}

type suggestionRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Booth      string `json:"booth"`
	Suggestion string `json:"suggestion"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

func (s *Service) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	requests, err := s.memberRepo.RecentByType(r.Context(), types.TypeSuggestion, 100)
	if err != nil {
		s.logger.WithError(err).Error("failed to load suggestions")
		s.internalServerError(w)
		return
	}

	rows := make([]suggestionRow, 0, len(requests))
	for _, req := range requests {
		rows = append(rows, suggestionRow{
			ID:         req.ReferenceID,
			Name:       req.Name,
			Booth:      req.Booth,
			Suggestion: req.Suggestion,
			Status:     string(req.Status),
			Date:       req.SubmittedOn,
		})
	}

	s.respondJSON(w, http.StatusOK, map[string][]suggestionRow{"suggestions": rows})
}

type volunteerRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Booth  string `json:"booth"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

func (s *Service) handleVolunteers(w http.ResponseWriter, r *http.Request) {
	requests, err := s.memberRepo.RecentByType(r.Context(), types.TypeVolunteer, 100)
	if err != nil {
		s.logger.WithError(err).Error("failed to load volunteers")
		s.internalServerError(w)
		return
	}

	rows := make([]volunteerRow, 0, len(requests))
	for _, req := range requests {
		rows = append(rows, volunteerRow{
			ID:     req.ReferenceID,
			Name:   req.Name,
			Booth:  req.Booth,
			Role:   bot.CategoryLabel(req.Role),
			Status: string(req.Status),
			Date:   req.SubmittedOn,
		})
	}

	s.respondJSON(w, http.StatusOK, map[string][]volunteerRow{"volunteers": rows})
}

type boothAnalyticsRow struct {
	Booth  string `json:"booth"`
	Issues int64  `json:"issues"`
}

func (s *Service) handleBoothAnalytics(w http.ResponseWriter, r *http.Request) {
	activity, err := s.grievanceRepo.BoothAnalytics(r.Context(), 15)
	if err != nil {
		s.logger.WithError(err).Error("failed to load booth analytics")
		s.internalServerError(w)
		return
	}

	rows := make([]boothAnalyticsRow, 0, len(activity))
	for _, a := range activity {
		if a.Booth == "" {
			continue
		}
		rows = append(rows, boothAnalyticsRow{Booth: a.Booth, Issues: a.Issues})
	}

	s.respondJSON(w, http.StatusOK, map[string][]boothAnalyticsRow{"analytics": rows})
}

type voterRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Booth  string `json:"booth"`
	Source string `json:"source"`
	Status string `json:"status"`
}

func (s *Service) handleVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := s.voterRepo.Recent(r.Context(), 200)
	if err != nil {
		s.logger.WithError(err).Error("failed to load voters")
		s.internalServerError(w)
		return
	}

	rows := make([]voterRow, 0, len(voters))
	for _, v := range voters {
		rows = append(rows, voterRow{
			ID:     v.VoterID,
			Name:   v.Name,
			Booth:  v.PartNumber,
			Source: v.Source,
			Status: string(v.Status),
		})
	}

	s.respondJSON(w, http.StatusOK, map[string][]voterRow{"voters": rows})
}

type updateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// handleUpdateStatus changes a submission's status from the dashboard
// and notifies the submitter on WhatsApp.
func (s *Service) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.WithError(err).Error("failed to decode status update request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if req.ID == "" || req.Status == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	status := types.SubmissionStatus(req.Status)

	var phone string
	grievance, err := s.grievanceRepo.ByReference(ctx, req.ID)
	switch {
	case err == nil:
		if err := s.grievanceRepo.UpdateStatus(ctx, req.ID, status); err != nil {
			s.logger.WithError(err).WithField("reference_id", req.ID).Error("failed to update grievance status")
			s.internalServerError(w)
			return
		}
		phone = grievance.Phone

	case errors.Is(err, types.ErrGrievanceNotFound):
		request, err := s.memberRepo.ByReference(ctx, req.ID)
		if err != nil {
			if errors.Is(err, types.ErrMemberRequestNotFound) {
				s.logger.WithField("reference_id", req.ID).Warn("status update for unknown reference")
				s.respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
				return
			}
			s.logger.WithError(err).WithField("reference_id", req.ID).Error("failed to load member request")
			s.internalServerError(w)
			return
		}

		if err := s.memberRepo.UpdateStatus(ctx, req.ID, status); err != nil {
			s.logger.WithError(err).WithField("reference_id", req.ID).Error("failed to update member request status")
			s.internalServerError(w)
			return
		}
		phone = request.Phone

	default:
		s.logger.WithError(err).WithField("reference_id", req.ID).Error("failed to load grievance")
		s.internalServerError(w)
		return
	}

	if phone != "" {
		msg := fmt.Sprintf("🔔 *Constituency Update*\n\nYour reported issue/suggestion (ID: %s) status has been changed to: *%s*.\n\nThank you for your engagement.\n_%s Team_",
			req.ID, req.Status, s.config.Profile.Constituency)
		if err := s.sender.SendText(ctx, phone, msg); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"reference_id": req.ID,
				"phone":        phone,
			}).Error("failed to send status notification")
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
