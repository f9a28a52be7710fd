package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/project-manager-api/internal/constants"
)

func (suite *HandlerTestSuite) TestCreateUser_Success() {
	w := suite.request(http.MethodPost, "/usuarios", gin.H{"name": "Ana", "email": "ana@example.com"})

	suite.Equal(http.StatusCreated, w.Code)
	body := suite.decode(w)
	suite.Equal("Ana", body["name"])
	suite.Equal("ana@example.com", body["email"])
	suite.Equal("developer", body["role"])
	suite.NotEmpty(body["created_at"])
}

func (suite *HandlerTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser("Ana", "ana@example.com")

	w := suite.request(http.MethodPost, "/usuarios", gin.H{"name": "Other", "email": "ana@example.com"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("DUPLICATE", suite.decode(w)["code"])
}

func (suite *HandlerTestSuite) TestCreateUser_InvalidFields() {
	w := suite.request(http.MethodPost, "/usuarios", gin.H{"name": "A", "email": "not-an-email", "role": "owner"})

	suite.Equal(http.StatusBadRequest, w.Code)
	body := suite.decode(w)
	suite.Equal("INVALID_INPUT", body["code"])
	fields := body["fields"].(map[string]interface{})
	suite.Equal("must be at least 2 characters", fields["name"])
	suite.Equal("must be a valid email address", fields["email"])
	suite.Equal("must be one of: admin manager developer", fields["role"])
}

func (suite *HandlerTestSuite) TestCreateUser_WrongType() {
	w := suite.request(http.MethodPost, "/usuarios", `{"name": 42, "email": "ana@example.com"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w)["detail"], "name")
}

func (suite *HandlerTestSuite) TestListUsers_Pagination() {
	suite.createUser("Ana", "ana@example.com")
	suite.createUser("Ben", "ben@example.com")
	suite.createUser("Cleo", "cleo@example.com")

	w := suite.request(http.MethodGet, "/usuarios?skip=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("3", w.Header().Get(constants.TotalCountHeader))

	var users []map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &users))
	suite.Require().Len(users, 1)
	suite.Equal("Cleo", users[0]["name"])
}

func (suite *HandlerTestSuite) TestListUsers_EmptyIsArray() {
	w := suite.request(http.MethodGet, "/usuarios", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
}

func (suite *HandlerTestSuite) TestUpdateUser() {
	anaID := suite.createUser("Ana", "ana@example.com")
	suite.createUser("Ben", "ben@example.com")
	url := fmt.Sprintf("/usuarios/%d", anaID)

	w := suite.request(http.MethodPut, url, gin.H{"role": "manager"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := suite.decode(w)
	suite.Equal("manager", body["role"])
	suite.Equal("Ana", body["name"])

	// Keeping its own email is not a conflict
	w = suite.request(http.MethodPut, url, gin.H{"email": "ana@example.com"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPut, url, gin.H{"email": "ben@example.com"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("DUPLICATE", suite.decode(w)["code"])

	w = suite.request(http.MethodPut, url, `{"email": null}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPut, "/usuarios/999", gin.H{"name": "Nobody"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteUser() {
	anaID := suite.createUser("Ana", "ana@example.com")
	benID := suite.createUser("Ben", "ben@example.com")
	projectID := suite.createProject("Apollo")
	suite.assignMember(projectID, anaID)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/usuarios/%d", anaID), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INTEGRITY_VIOLATION", suite.decode(w)["code"])

	w = suite.request(http.MethodDelete, fmt.Sprintf("/usuarios/%d", benID), nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/usuarios/%d", benID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}
