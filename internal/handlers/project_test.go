package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-manager-api/internal/constants"
)

func (suite *HandlerTestSuite) TestCreateProject() {
	w := suite.request(http.MethodPost, "/proyectos", gin.H{"name": "Apollo", "description": "Moon"})

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("Apollo", body["name"])
	suite.Equal("Moon", body["description"])
	suite.Equal("active", body["status"])
	suite.NotEmpty(body["start_date"])
	suite.Nil(body["end_date"])
	suite.Equal([]interface{}{}, body["members"])

	w = suite.request(http.MethodPost, "/proyectos", gin.H{"name": "Apollo"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("DUPLICATE", suite.decode(w)["code"])

	w = suite.request(http.MethodPost, "/proyectos", gin.H{"name": "Ap"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_INPUT", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestListProjects_StatusFilter() {
	suite.createProject("Apollo")
	suite.create("/proyectos", gin.H{"name": "Gemini", "status": "paused"})

	w := suite.request(http.MethodGet, "/proyectos?status=paused", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("1", w.Header().Get(constants.TotalCountHeader))

	var projects []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &projects))
	suite.Require().Len(projects, 1)
	suite.Equal("Gemini", projects[0]["name"])

	w = suite.request(http.MethodGet, "/proyectos?status=archived", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateProject() {
	projectID := suite.create("/proyectos", gin.H{"name": "Apollo", "description": "Moon"})
	url := fmt.Sprintf("/proyectos/%d", projectID)

	w := suite.request(http.MethodPut, url, gin.H{"status": "completed", "end_date": "2030-01-01T00:00:00Z"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("completed", body["status"])
	suite.NotNil(body["end_date"])
	suite.Equal("Moon", body["description"])

	w = suite.request(http.MethodPut, url, `{"description": null, "end_date": null}`)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body = suite.decode(w)
	suite.Nil(body["description"])
	suite.Nil(body["end_date"])

	w = suite.request(http.MethodPut, url, `{"name": null}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestAssignAndUnassignUser() {
	projectID := suite.createProject("Apollo")
	anaID := suite.createUser("Ana", "ana@example.com")
	assignURL := fmt.Sprintf("/proyectos/%d/asignar_usuario", projectID)

	w := suite.request(http.MethodPost, assignURL, gin.H{"user_id": anaID})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("User 'Ana' assigned to project 'Apollo'", body["message"])
	data := body["data"].(map[string]interface{})
	suite.Equal(float64(projectID), data["project_id"])
	suite.Equal(float64(anaID), data["user_id"])
	suite.Equal("Apollo", data["project_name"])
	suite.Equal("Ana", data["user_name"])

	w = suite.request(http.MethodPost, assignURL, gin.H{"user_id": anaID})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_STATE", suite.decode(w)["code"])

	w = suite.request(http.MethodPost, assignURL, gin.H{"user_id": 999})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/proyectos/%d", projectID), nil)
	members := suite.decode(w)["members"].([]interface{})
	suite.Require().Len(members, 1)
	suite.Equal("Ana", members[0].(map[string]interface{})["name"])

	unassignURL := fmt.Sprintf("/proyectos/%d/desasignar_usuario/%d", projectID, anaID)
	w = suite.request(http.MethodDelete, unassignURL, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("User 'Ana' unassigned from project 'Apollo'", suite.decode(w)["message"])

	w = suite.request(http.MethodDelete, unassignURL, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_STATE", suite.decode(w)["code"])

	w = suite.request(http.MethodDelete, fmt.Sprintf("/proyectos/%d/desasignar_usuario/abc", projectID), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteProject_RemovesTasks() {
	projectID := suite.createProject("Apollo")
	taskID := suite.createTask(projectID, "Design")

	w := suite.request(http.MethodDelete, fmt.Sprintf("/proyectos/%d", projectID), nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/tareas/%d", taskID), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	// The name is free again
	suite.createProject("Apollo")
}
