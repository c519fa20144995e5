package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/resume/model"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes", h.list)
	rg.POST("/resumes", h.create)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/skills", h.addSkill)
	rg.DELETE("/resumes/:id/skills/:skill", h.removeSkill)
	rg.POST("/resumes/:id/experience", h.addExperience)
	rg.POST("/resumes/:id/education", h.addEducation)
	rg.GET("/resumes/:id/score", h.score)
	rg.POST("/resumes/:id/optimize", h.optimize)
	rg.POST("/resumes/:id/apply-skills", h.applySkills)

	rg.POST("/score", h.scoreStateless)
	rg.POST("/optimize", h.optimizeStateless)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	recs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err, "failed to list resumes")
		return
	}
	out := make([]ResumeSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toSummary(rec))
	}
	respond.OK(c, gin.H{"resumes": out, "limit": limit, "offset": offset})
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BindError(c, err)
			return
		}
	}

	rec, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:      req.Title,
		TemplateID: req.TemplateID,
		IsPublic:   req.IsPublic,
		Data:       req.Data,
	})
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	c.Set(middleware.ResumeIDKey, rec.ID)
	respond.Created(c, toResponse(rec))
}

func (h *Handler) get(c *gin.Context) {
	id := resumeID(c)
	rec, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to fetch resume")
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) update(c *gin.Context) {
	id := resumeID(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, UpdateInput{
		Title:      req.Title,
		TemplateID: req.TemplateID,
		IsPublic:   req.IsPublic,
		Data:       req.Data,
	})
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) delete(c *gin.Context) {
	id := resumeID(c)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) addSkill(c *gin.Context) {
	id := resumeID(c)

	var req skillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, err := h.Svc.AddSkill(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Skill)
	if err != nil {
		writeError(c, err, "failed to add skill")
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) removeSkill(c *gin.Context) {
	id := resumeID(c)
	rec, err := h.Svc.RemoveSkill(c.Request.Context(), middleware.UserIDFromContext(c), id, c.Param("skill"))
	if err != nil {
		writeError(c, err, "failed to remove skill")
		return
	}
	respond.OK(c, toResponse(rec))
}

func (h *Handler) addExperience(c *gin.Context) {
	id := resumeID(c)

	var req model.Experience
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, entryID, err := h.Svc.AddExperience(c.Request.Context(), middleware.UserIDFromContext(c), id, req)
	if err != nil {
		writeError(c, err, "failed to add experience")
		return
	}
	respond.Created(c, gin.H{"entryId": entryID, "resume": toResponse(rec)})
}

func (h *Handler) addEducation(c *gin.Context) {
	id := resumeID(c)

	var req model.Education
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, entryID, err := h.Svc.AddEducation(c.Request.Context(), middleware.UserIDFromContext(c), id, req)
	if err != nil {
		writeError(c, err, "failed to add education")
		return
	}
	respond.Created(c, gin.H{"entryId": entryID, "resume": toResponse(rec)})
}

func (h *Handler) score(c *gin.Context) {
	id := resumeID(c)
	report, err := h.Svc.Score(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err, "failed to score resume")
		return
	}
	respond.OK(c, report)
}

func (h *Handler) optimize(c *gin.Context) {
	id := resumeID(c)

	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	if req.JobDescriptionID != "" {
		c.Set(middleware.JobDescriptionIDKey, req.JobDescriptionID)
	}

	out, err := h.Svc.Optimize(c.Request.Context(), middleware.UserIDFromContext(c), id, OptimizeInput{
		JobDescription:   req.JobDescription,
		JobDescriptionID: req.JobDescriptionID,
	})
	if err != nil {
		writeError(c, err, "failed to optimize resume")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) applySkills(c *gin.Context) {
	id := resumeID(c)

	var req applySkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	rec, added, err := h.Svc.ApplySkills(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Skills)
	if err != nil {
		writeError(c, err, "failed to apply skills")
		return
	}
	respond.OK(c, gin.H{"added": added, "resume": toResponse(rec)})
}

func (h *Handler) scoreStateless(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	report, err := h.Svc.ScoreResume(*req.Resume)
	if err != nil {
		writeError(c, err, "failed to score resume")
		return
	}
	respond.OK(c, report)
}

func (h *Handler) optimizeStateless(c *gin.Context) {
	var req statelessOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	out, err := h.Svc.OptimizeResume(*req.Resume, req.JobDescription)
	if err != nil {
		writeError(c, err, "failed to optimize resume")
		return
	}
	respond.OK(c, out)
}

func resumeID(c *gin.Context) string {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	return id
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrJobDescriptionNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job description not found", nil)
	case errors.Is(err, ErrEntryNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "entry not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
