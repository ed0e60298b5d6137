package acceptance

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rpm-system/rpm-backend/internal/dto"
)

func (s *Suite) uploadImage(token, fieldName, fileName string) *http.Response {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	s.Require().NoError(err)
	_, err = part.Write([]byte("not-a-real-png"))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest("POST", s.BaseURL+"/api/upload", &body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestUpload_Success() {
	auth := s.register("uploader@example.com", "Password123", "Uploader")

	resp := s.uploadImage(auth.AccessToken, "image", "cover.png")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var uploaded dto.UploadResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&uploaded))
	s.True(strings.HasPrefix(uploaded.URL, "/uploads/"))
	s.True(strings.HasSuffix(uploaded.URL, ".png"))
}

func (s *Suite) TestUpload_WrongFieldName() {
	auth := s.register("uploader-field@example.com", "Password123", "Uploader")

	resp := s.uploadImage(auth.AccessToken, "file", "cover.png")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("No file uploaded", errResp.Error)
}

func (s *Suite) TestUpload_UnsupportedExtension() {
	auth := s.register("uploader-ext@example.com", "Password123", "Uploader")

	resp := s.uploadImage(auth.AccessToken, "image", "payload.exe")
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
