package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rpm-system/rpm-backend/internal/dto"
)

func (s *Suite) register(email, password, name string) *dto.AuthResponse {
	reqBody := dto.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Registration should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	return &authResp
}

func (s *Suite) TestRegister_Success() {
	reqBody := dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "Password123",
		Name:     "Test User",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.NotEmpty(authResp.RefreshToken)
	s.Equal("test@example.com", authResp.User.Email)
	s.Equal("Test User", authResp.User.Name)
	s.NotEmpty(authResp.User.ID)
}

func (s *Suite) TestRegister_ProvisionsDefaultCategories() {
	authResp := s.register("categories@example.com", "Password123", "Cat User")

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/categories", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var categories []map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&categories))
	s.NotEmpty(categories, "New accounts should start with default categories")
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("duplicate@example.com", "Password123", "First")

	reqBody := dto.RegisterRequest{
		Email:    "duplicate@example.com",
		Password: "Password123",
		Name:     "Second",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Email already registered", errResp.Error)
}

func (s *Suite) TestRegister_ShortPassword() {
	reqBody := dto.RegisterRequest{
		Email:    "short@example.com",
		Password: "12345",
		Name:     "Short",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Password must be at least 6 characters", errResp.Error)
}

func (s *Suite) TestRegister_MissingFields() {
	reqBody := dto.RegisterRequest{
		Email:    "missing@example.com",
		Password: "Password123",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Email, password, and name are required", errResp.Error)
}

func (s *Suite) TestLogin_Success() {
	s.register("login@example.com", "Password123", "Login User")

	loginReq := dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.AccessToken)
	s.NotEmpty(authResp.RefreshToken)
	s.Equal("login@example.com", authResp.User.Email)
}

func (s *Suite) TestLogin_InvalidCredentials() {
	loginReq := dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "wrongpassword",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Invalid email or password", errResp.Error)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com", "CorrectPassword123", "Wrong Pass")

	loginReq := dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Invalid email or password", errResp.Error)
}

func (s *Suite) TestGetMe_Success() {
	authResp := s.register("getme@example.com", "Password123", "Get Me")

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	err = json.NewDecoder(resp.Body).Decode(&userResp)
	s.Require().NoError(err)

	s.NotEmpty(userResp.ID)
	s.Equal("getme@example.com", userResp.Email)
	s.Equal("Get Me", userResp.Name)
	s.Equal("local", userResp.Provider)
	s.NotEmpty(userResp.CreatedAt)
}

func (s *Suite) TestGetMe_NoToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/auth/me", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Access token required", errResp.Error)
}

func (s *Suite) TestGetMe_InvalidToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Invalid token", errResp.Error)
}

func (s *Suite) TestRefresh_Success() {
	authResp := s.register("refresh@example.com", "Password123", "Refresh User")

	refreshReq := dto.RefreshRequest{RefreshToken: authResp.RefreshToken}
	body, _ := json.Marshal(refreshReq)

	resp, err := http.Post(
		s.BaseURL+"/api/auth/refresh",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var tokenResp dto.TokenPairResponse
	err = json.NewDecoder(resp.Body).Decode(&tokenResp)
	s.Require().NoError(err)

	s.NotEmpty(tokenResp.AccessToken)
	s.NotEmpty(tokenResp.RefreshToken)
	s.NotEqual(authResp.RefreshToken, tokenResp.RefreshToken)
}

func (s *Suite) TestRefresh_RotatedTokenIsSingleUse() {
	authResp := s.register("rotation@example.com", "Password123", "Rotation User")

	refreshReq := dto.RefreshRequest{RefreshToken: authResp.RefreshToken}
	body, _ := json.Marshal(refreshReq)
	first, err := http.Post(s.BaseURL+"/api/auth/refresh", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	first.Body.Close()
	s.Require().Equal(http.StatusOK, first.StatusCode)

	body, _ = json.Marshal(refreshReq)
	second, err := http.Post(s.BaseURL+"/api/auth/refresh", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer second.Body.Close()

	s.Equal(http.StatusUnauthorized, second.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(second.Body).Decode(&errResp)
	s.Equal("Invalid refresh token", errResp.Error)
}

func (s *Suite) TestRefresh_NoToken() {
	resp, err := http.Post(s.BaseURL+"/api/auth/refresh", "application/json", bytes.NewBufferString("{}"))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogout_Success() {
	authResp := s.register("logout@example.com", "Password123", "Logout User")

	logoutReq := dto.LogoutRequest{RefreshToken: authResp.RefreshToken}
	body, _ := json.Marshal(logoutReq)

	req, _ := http.NewRequest("POST", s.BaseURL+"/api/auth/logout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.True(successResp.Success)

	refreshReq := dto.RefreshRequest{RefreshToken: authResp.RefreshToken}
	body, _ = json.Marshal(refreshReq)
	refreshResp, err := http.Post(s.BaseURL+"/api/auth/refresh", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer refreshResp.Body.Close()

	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode, "Revoked refresh token should be rejected")
}

func (s *Suite) TestLogout_NoToken() {
	req, _ := http.NewRequest("POST", s.BaseURL+"/api/auth/logout", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestUpdateProfile() {
	authResp := s.register("profile@example.com", "Password123", "Old Name")

	newName := "New Name"
	patch := dto.ProfilePatch{Name: &newName}
	body, _ := json.Marshal(patch)

	req, _ := http.NewRequest("PUT", s.BaseURL+"/api/auth/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))
	s.Equal("New Name", userResp.Name)
}

func (s *Suite) TestCompleteFlow() {
	authResp := s.register("complete@example.com", "Password123", "Complete User")
	accessToken := authResp.AccessToken

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	refreshReq := dto.RefreshRequest{RefreshToken: authResp.RefreshToken}
	body, _ := json.Marshal(refreshReq)
	refreshResp, err := http.Post(s.BaseURL+"/api/auth/refresh", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusOK, refreshResp.StatusCode)

	var tokenResp dto.TokenPairResponse
	json.NewDecoder(refreshResp.Body).Decode(&tokenResp)

	logoutReq := dto.LogoutRequest{RefreshToken: tokenResp.RefreshToken}
	body, _ = json.Marshal(logoutReq)
	logoutHTTPReq, _ := http.NewRequest("POST", s.BaseURL+"/api/auth/logout", bytes.NewBuffer(body))
	logoutHTTPReq.Header.Set("Content-Type", "application/json")
	logoutHTTPReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tokenResp.AccessToken))
	logoutResp, err := http.DefaultClient.Do(logoutHTTPReq)
	s.Require().NoError(err)
	defer logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)
}
