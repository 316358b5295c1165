package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"

	"github.com/labstack/echo/v4"
)

type IProjectService interface {
	ListProjects(ctx context.Context, userID string) ([]model.CapstoneProject, error)
	GetProject(ctx context.Context, userID, id string) (*model.CapstoneProject, error)
	ListProjectEvents(ctx context.Context, userID, id string) ([]model.ProjectEvent, error)
	ListEventsByStage(ctx context.Context, userID string, stage model.Stage) ([]model.ProjectEvent, error)
	DeleteProject(ctx context.Context, userID, id string) error
}

type ProjectAPI struct {
	projectService IProjectService
}

func NewProjectAPI(projectService IProjectService) *ProjectAPI {
	return &ProjectAPI{
		projectService: projectService,
	}
}

func (a *ProjectAPI) Setup(g *echo.Group) {
	g.GET("/projects", a.listProjects)
	g.GET("/projects/events", a.listEventsByStage)
	g.GET("/projects/:id", a.getProject)
	g.GET("/projects/:id/events", a.listProjectEvents)
	g.DELETE("/projects/:id", a.deleteProject)
}

func (a *ProjectAPI) listProjects(c echo.Context) error {

	ctx := c.Request().Context()

	projects, err := a.projectService.ListProjects(ctx, currentUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, projects)
}

func (a *ProjectAPI) getProject(c echo.Context) error {

	ctx := c.Request().Context()

	project, err := a.projectService.GetProject(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, project)
}

func (a *ProjectAPI) listProjectEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.projectService.ListProjectEvents(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, events)
}

func (a *ProjectAPI) listEventsByStage(c echo.Context) error {

	ctx := c.Request().Context()

	stage := model.Stage(c.QueryParam("stage"))
	events, err := a.projectService.ListEventsByStage(ctx, currentUserID(c), stage)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, events)
}

func (a *ProjectAPI) deleteProject(c echo.Context) error {

	ctx := c.Request().Context()

	if err := a.projectService.DeleteProject(ctx, currentUserID(c), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}

	return success(c, nil)
}
