package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/packflow/packflow/internal/app/auditsync"
	"github.com/packflow/packflow/internal/app/staff"
	"github.com/packflow/packflow/internal/app/taskaction"
	"github.com/packflow/packflow/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard.Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	noStore(w)
	s.writeData(w, http.StatusOK, mapDashboard(*d))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.taskInfo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, mapTask(*task))
}

type taskActionRequest struct {
	TaskID     string `json:"task_id"`
	Action     string `json:"action"`
	OperatorID string `json:"operator_id"`
	Payload    struct {
		Weight     string `json:"weight"`
		Dimensions string `json:"dimensions"`
		ErrorType  string `json:"error_type"`
		Reason     string `json:"reason"`
		Notes      string `json:"notes"`
	} `json:"payload"`
}

func (s *Server) handleTaskAction(w http.ResponseWriter, r *http.Request) {
	var req taskActionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.TaskID == "" || req.Action == "" {
		s.writeError(w, fmt.Errorf("task_id and action are required: %w", model.ErrNotValid))
		return
	}

	res, err := s.taskAction.Apply(r.Context(), taskaction.ApplyOptions{
		TaskID:     req.TaskID,
		Action:     model.TaskAction(req.Action),
		OperatorID: req.OperatorID,
		Payload: model.ActionPayload{
			Weight:     req.Payload.Weight,
			Dimensions: req.Payload.Dimensions,
			ErrorType:  req.Payload.ErrorType,
			Reason:     req.Payload.Reason,
			Notes:      req.Payload.Notes,
		},
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("X-Action-Performed", req.Action)
	w.Header().Set("X-Last-Modified", res.Task.LastModified.Format(time.RFC3339))
	s.writeData(w, http.StatusOK, actionResultJSON{Task: mapTask(*res.Task), AuditStatus: string(res.Audit)})
}

type checklistRequest struct {
	ChecklistJSON string `json:"checklist_json"`
}

func (s *Server) handleUpdateChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklistRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	task, err := s.taskInfo.UpdateChecklist(r.Context(), chi.URLParam(r, "id"), req.ChecklistJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, mapTask(*task))
}

func (s *Server) handleTaskHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.taskInfo.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]auditEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapAuditEntry(e))
	}
	s.writeData(w, http.StatusOK, out)
}

func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := s.staff.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]staffJSON, 0, len(members))
	for _, m := range members {
		out = append(out, mapStaff(m))
	}

	noStore(w)
	s.writeData(w, http.StatusOK, out)
}

func (s *Server) handleGetStaff(w http.ResponseWriter, r *http.Request) {
	member, err := s.staff.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	noStore(w)
	s.writeData(w, http.StatusOK, mapStaff(*member))
}

type createStaffRequest struct {
	Name    string `json:"name"`
	StaffID string `json:"staff_id"`
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	member, err := s.staff.Create(r.Context(), staff.CreateOptions{Name: req.Name, StaffID: req.StaffID})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusCreated, mapStaff(*member))
}

type updateStaffRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	var req updateStaffRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	member, err := s.staff.Update(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, mapStaff(*member))
}

func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := s.staff.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeMessage(w, http.StatusOK, "staff member deleted")
}

type checkInRequest struct {
	StaffID string `json:"staffId"`
	Action  string `json:"action"`
}

func (s *Server) handleStaffCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	event, err := s.staff.CheckIn(r.Context(), req.StaffID, req.Action)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, mapCheckEvent(*event))
}

type reportIssueRequest struct {
	TaskID      string `json:"task_id"`
	OperatorID  string `json:"operator_id"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
}

func (s *Server) handleReportIssue(w http.ResponseWriter, r *http.Request) {
	var req reportIssueRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.taskAction.ReportIssue(r.Context(), taskaction.ReportIssueOptions{
		TaskID:      req.TaskID,
		OperatorID:  req.OperatorID,
		IssueType:   req.IssueType,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeData(w, http.StatusOK, actionResultJSON{Task: mapTask(*res.Task), AuditStatus: string(res.Audit)})
}

type auditSyncRequest struct {
	Logs []auditSyncLog `json:"logs"`
}

type auditSyncLog struct {
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action_type"`
	StaffID   string    `json:"staff_id"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) handleAuditSync(w http.ResponseWriter, r *http.Request) {
	var req auditSyncRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]auditsync.IncomingEntry, 0, len(req.Logs))
	for _, l := range req.Logs {
		entries = append(entries, auditsync.IncomingEntry{
			TaskID:    l.TaskID,
			Action:    l.Action,
			StaffID:   l.StaffID,
			OldValue:  l.OldValue,
			NewValue:  l.NewValue,
			Details:   l.Details,
			Timestamp: l.Timestamp,
		})
	}

	res, err := s.auditSync.Sync(r.Context(), entries)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if res.Failed > 0 {
		status = http.StatusMultiStatus
	}
	s.writeData(w, status, mapSyncResult(*res))
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", model.ErrNotValid)
	}
	return nil
}
