package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aadipatodia/Scheduler/internal/domain"
	"github.com/aadipatodia/Scheduler/internal/importer"
	"github.com/aadipatodia/Scheduler/internal/repository"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

// Goals

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	g := &domain.Goal{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.GoalStatus(req.Status),
	}
	if req.TargetDate != nil && *req.TargetDate != "" {
		d, err := parseDate(*req.TargetDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		g.TargetDate = &d
	}
	if err := s.svc.Goals.Create(c.Request.Context(), g); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, newGoalResponse(g))
}

func (s *Server) handleListGoals(c *gin.Context) {
	goals, err := s.svc.Goals.List(c.Request.Context(), domain.GoalStatus(c.Query("status")))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g))
	}
	ok(c, http.StatusOK, out)
}

func (s *Server) handleGetGoal(c *gin.Context) {
	g, err := s.svc.Goals.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newGoalResponse(g))
}

func (s *Server) handleUpdateGoal(c *gin.Context) {
	var patch goalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	g, err := s.svc.Goals.GetByID(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if patch.Title != nil {
		g.Title = *patch.Title
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.Status != nil {
		g.Status = domain.GoalStatus(*patch.Status)
	}
	if patch.TargetDate != nil {
		if *patch.TargetDate == "" {
			g.TargetDate = nil
		} else {
			d, err := parseDate(*patch.TargetDate)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			g.TargetDate = &d
		}
	}
	if err := s.svc.Goals.Update(ctx, g); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newGoalResponse(g))
}

func (s *Server) handleDeleteGoal(c *gin.Context) {
	if err := s.svc.Goals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGoalProgress(c *gin.Context) {
	gp, err := s.svc.Stats.GoalProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newProgressResponse(gp))
}

// Roadmaps

func (s *Server) handleGenerateRoadmap(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	rm, err := s.svc.Roadmaps.Generate(c.Request.Context(), c.Param("id"), req.Context)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, newRoadmapResponse(rm))
}

func (s *Server) handleGetRoadmap(c *gin.Context) {
	rm, err := s.svc.Roadmaps.GetByGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newRoadmapResponse(rm))
}

func (s *Server) handleImportRoadmap(c *gin.Context) {
	var file importer.PhaseFile
	if err := c.ShouldBindJSON(&file); err != nil {
		badRequest(c, err.Error())
		return
	}
	rm, err := s.svc.Roadmaps.ImportPhaseFile(c.Request.Context(), c.Param("id"), &file)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, newRoadmapResponse(rm))
}

func (s *Server) handlePreviewSchedule(c *gin.Context) {
	p, err := s.svc.Roadmaps.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newPreviewResponse(p))
}

func (s *Server) handleApproveRoadmap(c *gin.Context) {
	res, err := s.svc.Roadmaps.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newApprovalResponse(res))
}

func (s *Server) handleRefineRoadmap(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rm, err := s.svc.Roadmaps.Refine(c.Request.Context(), c.Param("id"), req.Feedback)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newRoadmapResponse(rm))
}

// Tasks

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	t := &domain.Task{
		GoalID:      req.GoalID,
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.TaskCategory(req.Category),
		Status:      domain.TaskDue,
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.ScheduledDate != nil && *req.ScheduledDate != "" {
		d, err := parseDate(*req.ScheduledDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		t.ScheduledDate = &d
	}
	if err := s.svc.Tasks.Create(c.Request.Context(), t); err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, newTaskResponse(t))
}

func (s *Server) handleListTasks(c *gin.Context) {
	filter := repository.TaskFilter{
		GoalID: c.Query("goal_id"),
		Source: domain.TaskSource(c.Query("source")),
	}
	if raw := c.Query("status"); raw != "" {
		st, valid := domain.ParseTaskStatus(strings.ToLower(raw))
		if !valid {
			badRequest(c, "invalid status "+raw)
			return
		}
		filter.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.From = &d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.To = &d
	}
	tasks, err := s.svc.Tasks.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newTaskResponses(tasks))
}

func (s *Server) handleToday(c *gin.Context) {
	day := s.now()
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		day = d
	}
	view, err := s.svc.Tasks.Today(c.Request.Context(), day)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, dayResponse{
		Date:   view.Date.Format(dateLayout),
		Tasks:  newTaskResponses(view.Tasks),
		Counts: newCountsResponse(view.Counts),
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.svc.Tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newTaskResponse(t))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch taskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	upd, err := patch.toUpdate()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	t, err := s.svc.Tasks.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newTaskResponse(t))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.svc.Tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTaskHistory(c *gin.Context) {
	entries, err := s.svc.Tasks.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newAuditResponses(entries))
}

// Recalibration and stats

func (s *Server) handleRecalibrate(c *gin.Context) {
	rec, err := s.svc.Recalibration.RecalibrateGoal(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newRecalibrationResponse(rec))
}

func (s *Server) handleListRecalibrations(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := s.svc.Goals.GetByID(ctx, c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	logs, err := s.svc.Recalibration.ListLogs(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	out := make([]*recalibrationLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, newRecalibrationLogResponse(l))
	}
	ok(c, http.StatusOK, out)
}

func (s *Server) handleOverview(c *gin.Context) {
	ov, err := s.svc.Stats.Overview(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	ok(c, http.StatusOK, newOverviewResponse(ov))
}
