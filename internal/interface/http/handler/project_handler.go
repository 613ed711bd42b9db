package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/barter-backend/internal/interface/http/dto"
	"github.com/ignatzorin/barter-backend/internal/interface/http/response"
	"github.com/ignatzorin/barter-backend/internal/usecase/project"
)

type ProjectHandler struct {
	createProjectUC *project.CreateProjectUseCase
	listProjectsUC  *project.ListProjectsUseCase
	getProjectUC    *project.GetProjectUseCase
	updateStatusUC  *project.UpdateProjectStatusUseCase
	deleteProjectUC *project.DeleteProjectUseCase
}

func NewProjectHandler(
	createProjectUC *project.CreateProjectUseCase,
	listProjectsUC *project.ListProjectsUseCase,
	getProjectUC *project.GetProjectUseCase,
	updateStatusUC *project.UpdateProjectStatusUseCase,
	deleteProjectUC *project.DeleteProjectUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		createProjectUC: createProjectUC,
		listProjectsUC:  listProjectsUC,
		getProjectUC:    getProjectUC,
		updateStatusUC:  updateStatusUC,
		deleteProjectUC: deleteProjectUC,
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.createProjectUC.Execute(c.Request.Context(), req.ToInput(userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProjectResponse(created))
}

// ListProjects возвращает открытые проекты. Фильтры: ?skill= и ?paymentMethod=.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.listProjectsUC.ListOpen(c.Request.Context(), project.ListFilter{
		Skill:         c.Query("skill"),
		PaymentMethod: c.Query("paymentMethod"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectWithClientResponses(projects))
}

func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	projects, err := h.listProjectsUC.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectWithClientResponses(projects))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	p, err := h.getProjectUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectWithClientResponse(p, true))
}

func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	var req dto.UpdateProjectStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.updateStatusUC.Execute(c.Request.Context(), projectID, userID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectWithClientResponse(updated, true))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "id", "некорректный ID проекта")
	if !ok {
		return
	}

	if err := h.deleteProjectUC.Execute(c.Request.Context(), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "проект удалён")
}
