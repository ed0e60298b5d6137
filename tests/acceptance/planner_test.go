package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
)

func (s *Suite) doJSON(method, path, token string, payload interface{}) *http.Response {
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) firstCategory(token string) *domain.Category {
	resp := s.doJSON("GET", "/api/categories", token, nil)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var categories []*domain.Category
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&categories))
	s.Require().NotEmpty(categories)
	return categories[0]
}

func (s *Suite) TestCategoryDetailIncludesProjects() {
	auth := s.register("category-detail@example.com", "Password123", "Category User")
	category := s.firstCategory(auth.AccessToken)

	createResp := s.doJSON("POST", "/api/projects", auth.AccessToken, dto.CreateProjectRequest{
		CategoryID: category.ID,
		Name:       "Quarterly review",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	getResp := s.doJSON("GET", "/api/categories/"+category.ID, auth.AccessToken, nil)
	defer getResp.Body.Close()
	s.Require().Equal(http.StatusOK, getResp.StatusCode)

	var detail map[string]interface{}
	s.Require().NoError(json.NewDecoder(getResp.Body).Decode(&detail))
	s.Equal(category.ID, detail["id"])
	s.Contains(detail, "details")

	projects, ok := detail["projects"].([]interface{})
	s.Require().True(ok)
	s.Require().Len(projects, 1)
}

func (s *Suite) TestProjectLifecycle() {
	auth := s.register("projects@example.com", "Password123", "Project User")
	category := s.firstCategory(auth.AccessToken)

	createResp := s.doJSON("POST", "/api/projects", auth.AccessToken, dto.CreateProjectRequest{
		CategoryID: category.ID,
		Name:       "Launch the workshop",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	var project domain.Project
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&project))
	s.NotEmpty(project.ID)
	s.Equal("Launch the workshop", project.Name)

	getResp := s.doJSON("GET", "/api/projects/"+project.ID, auth.AccessToken, nil)
	defer getResp.Body.Close()
	s.Require().Equal(http.StatusOK, getResp.StatusCode)

	var detail map[string]interface{}
	s.Require().NoError(json.NewDecoder(getResp.Body).Decode(&detail))
	s.Equal(project.ID, detail["id"])
	s.Contains(detail, "key_results")
	s.Contains(detail, "capture_items")
	s.Contains(detail, "rpm_blocks")
	s.Contains(detail, "actions")
	s.Contains(detail, "inspiration_items")

	starred := true
	patchResp := s.doJSON("PUT", "/api/projects/"+project.ID, auth.AccessToken, dto.ProjectPatch{
		IsStarred: &starred,
	})
	defer patchResp.Body.Close()
	s.Require().Equal(http.StatusOK, patchResp.StatusCode)

	var patched domain.Project
	s.Require().NoError(json.NewDecoder(patchResp.Body).Decode(&patched))
	s.True(patched.IsStarred)

	deleteResp := s.doJSON("DELETE", "/api/projects/"+project.ID, auth.AccessToken, nil)
	defer deleteResp.Body.Close()
	s.Equal(http.StatusOK, deleteResp.StatusCode)

	missingResp := s.doJSON("GET", "/api/projects/"+project.ID, auth.AccessToken, nil)
	defer missingResp.Body.Close()
	s.Equal(http.StatusNotFound, missingResp.StatusCode)
}

func (s *Suite) TestActionSchedulingAndPlanner() {
	auth := s.register("planner@example.com", "Password123", "Planner User")

	scheduledDate := "2026-03-02"
	createResp := s.doJSON("POST", "/api/actions", auth.AccessToken, dto.CreateActionRequest{
		Title:         "Prepare agenda",
		ScheduledDate: &scheduledDate,
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&action))
	s.NotEmpty(action.ID)
	s.Equal(5, action.DurationMinutes)

	plannerResp := s.doJSON("GET", "/api/planner?start_date=2026-03-01&end_date=2026-03-07", auth.AccessToken, nil)
	defer plannerResp.Body.Close()
	s.Require().Equal(http.StatusOK, plannerResp.StatusCode)

	var scheduled []*domain.Action
	s.Require().NoError(json.NewDecoder(plannerResp.Body).Decode(&scheduled))
	s.Require().Len(scheduled, 1)
	s.Equal(action.ID, scheduled[0].ID)

	outsideResp := s.doJSON("GET", "/api/planner?start_date=2026-03-08&end_date=2026-03-14", auth.AccessToken, nil)
	defer outsideResp.Body.Close()
	s.Require().Equal(http.StatusOK, outsideResp.StatusCode)

	var outside []*domain.Action
	s.Require().NoError(json.NewDecoder(outsideResp.Body).Decode(&outside))
	s.Empty(outside)
}

func (s *Suite) TestActionDuplicate() {
	auth := s.register("duplicate-action@example.com", "Password123", "Duplicate User")

	createResp := s.doJSON("POST", "/api/actions", auth.AccessToken, dto.CreateActionRequest{
		Title: "Call the venue",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&action))

	dupResp := s.doJSON("POST", "/api/actions/"+action.ID+"/duplicate", auth.AccessToken, nil)
	defer dupResp.Body.Close()
	s.Require().Equal(http.StatusCreated, dupResp.StatusCode)

	var dup domain.Action
	s.Require().NoError(json.NewDecoder(dupResp.Body).Decode(&dup))
	s.NotEqual(action.ID, dup.ID)
	s.Equal("Call the venue (copy)", dup.Title)
}

func (s *Suite) TestActionComplete() {
	auth := s.register("complete-action@example.com", "Password123", "Complete User")

	createResp := s.doJSON("POST", "/api/actions", auth.AccessToken, dto.CreateActionRequest{
		Title: "Send invites",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&action))

	completed := true
	patchResp := s.doJSON("PUT", "/api/actions/"+action.ID, auth.AccessToken, dto.ActionPatch{
		IsCompleted: &completed,
	})
	defer patchResp.Body.Close()
	s.Require().Equal(http.StatusOK, patchResp.StatusCode)

	var patched domain.Action
	s.Require().NoError(json.NewDecoder(patchResp.Body).Decode(&patched))
	s.True(patched.IsCompleted)
	s.NotNil(patched.CompletedAt)
}

func (s *Suite) TestBlockClaimsActions() {
	auth := s.register("blocks@example.com", "Password123", "Block User")

	createAction := s.doJSON("POST", "/api/actions", auth.AccessToken, dto.CreateActionRequest{
		Title: "Draft outline",
	})
	defer createAction.Body.Close()
	s.Require().Equal(http.StatusCreated, createAction.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createAction.Body).Decode(&action))

	createBlock := s.doJSON("POST", "/api/blocks", auth.AccessToken, dto.CreateBlockRequest{
		ResultTitle: "Workshop outline done",
		Purpose:     "Clarity before inviting speakers",
		ActionIDs:   []string{action.ID},
	})
	defer createBlock.Body.Close()
	s.Require().Equal(http.StatusCreated, createBlock.StatusCode)

	var block domain.Block
	s.Require().NoError(json.NewDecoder(createBlock.Body).Decode(&block))

	getBlock := s.doJSON("GET", "/api/blocks/"+block.ID, auth.AccessToken, nil)
	defer getBlock.Body.Close()
	s.Require().Equal(http.StatusOK, getBlock.StatusCode)

	var fetched domain.Block
	s.Require().NoError(json.NewDecoder(getBlock.Body).Decode(&fetched))
	s.Require().Len(fetched.Actions, 1)
	s.Equal(action.ID, fetched.Actions[0].ID)

	listBlocks := s.doJSON("GET", "/api/blocks", auth.AccessToken, nil)
	defer listBlocks.Body.Close()
	s.Require().Equal(http.StatusOK, listBlocks.StatusCode)

	var listed []*domain.Block
	s.Require().NoError(json.NewDecoder(listBlocks.Body).Decode(&listed))
	s.Require().Len(listed, 1)
	s.Require().Len(listed[0].Actions, 1)
	s.Equal(action.ID, listed[0].Actions[0].ID)

	deleteBlock := s.doJSON("DELETE", "/api/blocks/"+block.ID, auth.AccessToken, nil)
	defer deleteBlock.Body.Close()
	s.Require().Equal(http.StatusOK, deleteBlock.StatusCode)

	getAction := s.doJSON("GET", "/api/actions/"+action.ID, auth.AccessToken, nil)
	defer getAction.Body.Close()
	s.Require().Equal(http.StatusOK, getAction.StatusCode)

	var detached domain.Action
	s.Require().NoError(json.NewDecoder(getAction.Body).Decode(&detached))
	s.Nil(detached.BlockID, "Deleting a block should detach its actions, not delete them")
}

func (s *Suite) TestProjectCreateRejectsForeignCategory() {
	owner := s.register("category-owner@example.com", "Password123", "Category Owner")
	intruder := s.register("category-intruder@example.com", "Password123", "Intruder")
	category := s.firstCategory(owner.AccessToken)

	createResp := s.doJSON("POST", "/api/projects", intruder.AccessToken, dto.CreateProjectRequest{
		CategoryID: category.ID,
		Name:       "Not my category",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusBadRequest, createResp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&errResp))
	s.Equal("Invalid category", errResp.Error)
}

func (s *Suite) TestProjectDetailNestsBlockActions() {
	auth := s.register("project-blocks@example.com", "Password123", "Project Block User")
	category := s.firstCategory(auth.AccessToken)

	createProject := s.doJSON("POST", "/api/projects", auth.AccessToken, dto.CreateProjectRequest{
		CategoryID: category.ID,
		Name:       "Conference talk",
	})
	defer createProject.Body.Close()
	s.Require().Equal(http.StatusCreated, createProject.StatusCode)

	var project domain.Project
	s.Require().NoError(json.NewDecoder(createProject.Body).Decode(&project))

	createAction := s.doJSON("POST", "/api/actions", auth.AccessToken, dto.CreateActionRequest{
		Title:     "Write abstract",
		ProjectID: &project.ID,
	})
	defer createAction.Body.Close()
	s.Require().Equal(http.StatusCreated, createAction.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createAction.Body).Decode(&action))

	createBlock := s.doJSON("POST", "/api/blocks", auth.AccessToken, dto.CreateBlockRequest{
		ProjectID:   &project.ID,
		ResultTitle: "Abstract accepted",
		ActionIDs:   []string{action.ID},
	})
	defer createBlock.Body.Close()
	s.Require().Equal(http.StatusCreated, createBlock.StatusCode)

	getResp := s.doJSON("GET", "/api/projects/"+project.ID, auth.AccessToken, nil)
	defer getResp.Body.Close()
	s.Require().Equal(http.StatusOK, getResp.StatusCode)

	var detail struct {
		Blocks []*domain.Block `json:"rpm_blocks"`
	}
	s.Require().NoError(json.NewDecoder(getResp.Body).Decode(&detail))
	s.Require().Len(detail.Blocks, 1)
	s.Require().Len(detail.Blocks[0].Actions, 1)
	s.Equal(action.ID, detail.Blocks[0].Actions[0].ID)
}

func (s *Suite) TestKeyResultCreateRejectsForeignProject() {
	owner := s.register("kr-owner@example.com", "Password123", "KR Owner")
	intruder := s.register("kr-intruder@example.com", "Password123", "KR Intruder")
	category := s.firstCategory(owner.AccessToken)

	createProject := s.doJSON("POST", "/api/projects", owner.AccessToken, dto.CreateProjectRequest{
		CategoryID: category.ID,
		Name:       "Private project",
	})
	defer createProject.Body.Close()
	s.Require().Equal(http.StatusCreated, createProject.StatusCode)

	var project domain.Project
	s.Require().NoError(json.NewDecoder(createProject.Body).Decode(&project))

	createResp := s.doJSON("POST", "/api/key-results", intruder.AccessToken, dto.CreateKeyResultRequest{
		ProjectID: project.ID,
		Title:     "Not my project",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusBadRequest, createResp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&errResp))
	s.Equal("Invalid project", errResp.Error)
}

func (s *Suite) TestActionUpdateRejectsEmptyBody() {
	auth := s.register("empty-patch@example.com", "Password123", "Patch User")

	createResp := s.doJSON("POST", "/api/actions", auth.AccessToken, dto.CreateActionRequest{
		Title: "Review agenda",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&action))

	patchResp := s.doJSON("PUT", "/api/actions/"+action.ID, auth.AccessToken, struct{}{})
	defer patchResp.Body.Close()
	s.Require().Equal(http.StatusBadRequest, patchResp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(patchResp.Body).Decode(&errResp))
	s.Equal("No valid fields to update", errResp.Error)
}

func (s *Suite) TestUserIsolation() {
	first := s.register("owner@example.com", "Password123", "Owner")
	second := s.register("other@example.com", "Password123", "Other")

	createResp := s.doJSON("POST", "/api/actions", first.AccessToken, dto.CreateActionRequest{
		Title: "Private action",
	})
	defer createResp.Body.Close()
	s.Require().Equal(http.StatusCreated, createResp.StatusCode)

	var action domain.Action
	s.Require().NoError(json.NewDecoder(createResp.Body).Decode(&action))

	otherResp := s.doJSON("GET", "/api/actions/"+action.ID, second.AccessToken, nil)
	defer otherResp.Body.Close()
	s.Equal(http.StatusNotFound, otherResp.StatusCode)
}
