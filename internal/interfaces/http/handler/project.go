package handler

import (
	"github.com/gin-gonic/gin"
	projectapp "github.com/servicehub/admin/internal/application/project"
)

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create godoc
// @ID           createProject
// @Summary      Open a project
// @Description  With product_id the product's tasks are copied and its price becomes the default budget
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateProjectRequest true "Project"
// @Success      201 {object} dto.Response{data=projectapp.ProjectResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var req projectapp.CreateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.CreatedBy = optionalUserID(c)

	project, err := h.projectService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, project)
}

// GetByID godoc
// @ID           getProjectById
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// List godoc
// @ID           listProjects
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        search     query string false "Code or name"
// @Param        status     query string false "planning, active, on_hold, completed or cancelled"
// @Param        company_id query string false "Company ID" format(uuid)
// @Param        order_by   query string false "code, name, due_date or created_at"
// @Param        order_dir  query string false "asc or desc"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]projectapp.ProjectListResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}

	var filter projectapp.ProjectListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	projects, total, err := h.projectService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, projects, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProject
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id      path string true "Project ID" format(uuid)
// @Param        request body projectapp.UpdateProjectRequest true "Changes"
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "project")
	if !ok {
		return
	}

	var req projectapp.UpdateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// Delete godoc
// @ID           deleteProject
// @Summary      Delete a project
// @Tags         projects
// @Param        id path string true "Project ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Start godoc
// @ID           startProject
// @Summary      Move a planned project to active
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /projects/{id}/start [post]
func (h *ProjectHandler) Start(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "project", h.projectService.Start)
}

// Hold godoc
// @ID           holdProject
// @Summary      Put an active project on hold
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/hold [post]
func (h *ProjectHandler) Hold(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "project", h.projectService.Hold)
}

// Resume godoc
// @ID           resumeProject
// @Summary      Resume a project on hold
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/resume [post]
func (h *ProjectHandler) Resume(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "project", h.projectService.Resume)
}

// Complete godoc
// @ID           completeProject
// @Summary      Complete a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/complete [post]
func (h *ProjectHandler) Complete(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "project", h.projectService.Complete)
}

// Cancel godoc
// @ID           cancelProject
// @Summary      Cancel a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/cancel [post]
func (h *ProjectHandler) Cancel(c *gin.Context) {
	runLifecycle(&h.BaseHandler, c, "project", h.projectService.Cancel)
}

// AddTask godoc
// @ID           addProjectTask
// @Summary      Add a task to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id      path string true "Project ID" format(uuid)
// @Param        request body projectapp.AddTaskRequest true "Task"
// @Success      201 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/tasks [post]
func (h *ProjectHandler) AddTask(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "project")
	if !ok {
		return
	}

	var req projectapp.AddTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.AddTask(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, project)
}

// SetTaskStatus godoc
// @ID           setProjectTaskStatus
// @Summary      Move a task to todo, in_progress or done
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id      path string true "Project ID" format(uuid)
// @Param        taskId  path string true "Task ID" format(uuid)
// @Param        request body projectapp.SetTaskStatusRequest true "Status"
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/tasks/{taskId}/status [put]
func (h *ProjectHandler) SetTaskStatus(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "project")
	if !ok {
		return
	}
	taskID, ok := h.uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	var req projectapp.SetTaskStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	project, err := h.projectService.SetTaskStatus(c.Request.Context(), tenantID, id, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// RemoveTask godoc
// @ID           removeProjectTask
// @Summary      Remove a task
// @Tags         projects
// @Produce      json
// @Param        id     path string true "Project ID" format(uuid)
// @Param        taskId path string true "Task ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id}/tasks/{taskId} [delete]
func (h *ProjectHandler) RemoveTask(c *gin.Context) {
	tenantID, ok := h.tenantOrAbort(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id", "project")
	if !ok {
		return
	}
	taskID, ok := h.uuidParam(c, "taskId", "task")
	if !ok {
		return
	}

	project, err := h.projectService.RemoveTask(c.Request.Context(), tenantID, id, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}
