package api

import (
	"net/http"

	"gymbros/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// WallpaperHandler issues presigned URLs for the profile wallpaper.
// The image bytes never pass through the server.
type WallpaperHandler struct {
	wallpaperService service.WallpaperService
}

func NewWallpaperHandler(wallpaperService service.WallpaperService) *WallpaperHandler {
	return &WallpaperHandler{wallpaperService: wallpaperService}
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type DownloadURLResponse struct {
	URL string `json:"url"`
}

// RequestUploadURL godoc
// @Summary Get a presigned URL to upload a wallpaper
// @Tags Wallpaper
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 503 {object} gin.H "File storage disabled"
// @Router /me/wallpaper/upload-url [post]
func (h *WallpaperHandler) RequestUploadURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	resp, err := h.wallpaperService.RequestUpload(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Attach an uploaded wallpaper to the profile
// @Tags Wallpaper
// @Accept json
// @Security SessionCookie
// @Param request body ConfirmUploadRequest true "Key from the upload URL response"
// @Success 204 "Confirmed"
// @Failure 404 {object} gin.H "Object not uploaded"
// @Router /me/wallpaper/confirm [post]
func (h *WallpaperHandler) ConfirmUpload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.wallpaperService.Confirm(c.Request.Context(), userID, req.ObjectKey); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWallpaper godoc
// @Summary Get a presigned download URL for the wallpaper
// @Tags Wallpaper
// @Produce json
// @Security SessionCookie
// @Success 200 {object} DownloadURLResponse
// @Failure 404 {object} gin.H "No wallpaper"
// @Router /me/wallpaper [get]
func (h *WallpaperHandler) GetWallpaper(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	url, err := h.wallpaperService.DownloadURL(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{URL: url})
}

// DeleteWallpaper godoc
// @Summary Remove the wallpaper
// @Tags Wallpaper
// @Security SessionCookie
// @Success 204 "Removed"
// @Router /me/wallpaper [delete]
func (h *WallpaperHandler) DeleteWallpaper(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.wallpaperService.Remove(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
