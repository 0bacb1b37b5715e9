package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"campusfind/services"
	"campusfind/utils"

	"github.com/gin-gonic/gin"
)

type ItemController struct {
	store      services.ItemStore
	submission *services.SubmissionService
	lifecycle  *services.LifecycleService
	maxUpload  int64
}

// NewItemController builds the item handlers. maxUploadSize caps the image
// part in bytes; zero or negative falls back to services.MaxImageSize.
func NewItemController(store services.ItemStore, submission *services.SubmissionService, lifecycle *services.LifecycleService, maxUploadSize int64) *ItemController {
	if maxUploadSize <= 0 {
		maxUploadSize = services.MaxImageSize
	}
	return &ItemController{
		store:      store,
		submission: submission,
		lifecycle:  lifecycle,
		maxUpload:  maxUploadSize,
	}
}

// SubmitItem accepts the multipart report form: itemType, itemName,
// description, dateLost (YYYY-MM-DD), roomNo, contact and an optional image.
func (ic *ItemController) SubmitItem(c *gin.Context) {
	rollNo := c.GetString("rollNo")
	if rollNo == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	// The image part is read first: a missing part means a photoless report,
	// but any other form error must not silently drop an attached photo.
	fileHeader, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		utils.BadRequestResponse(c, "Invalid image attachment", nil)
		return
	}

	req := services.SubmissionRequest{
		ReporterID:    rollNo,
		ItemType:      c.PostForm("itemType"),
		Name:          c.PostForm("itemName"),
		Description:   c.PostForm("description"),
		LocationLabel: c.PostForm("roomNo"),
		Contact:       c.PostForm("contact"),
	}

	if dateLost := c.PostForm("dateLost"); dateLost != "" {
		parsed, err := time.Parse("2006-01-02", dateLost)
		if err != nil {
			utils.BadRequestResponse(c, "dateLost must be a YYYY-MM-DD date", nil)
			return
		}
		req.DateLost = parsed
	}

	if fileHeader != nil {
		if fileHeader.Size > ic.maxUpload {
			utils.PayloadTooLargeResponse(c, fmt.Sprintf("Image is too large. Maximum size is %d bytes.", ic.maxUpload))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Invalid image upload", nil)
			return
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, ic.maxUpload+1))
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read image upload", nil)
			return
		}
		if int64(len(image)) > ic.maxUpload {
			utils.PayloadTooLargeResponse(c, fmt.Sprintf("Image is too large. Maximum size is %d bytes.", ic.maxUpload))
			return
		}

		req.Image = image
		req.ImageFilename = fileHeader.Filename
		req.ImageMimeType = fileHeader.Header.Get("Content-Type")
	}

	result, err := ic.submission.Submit(c.Request.Context(), req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Item posted successfully", result)
}

// ListItems serves the public listing. filter, sort and q are applied in a
// fixed order on top of the full item set; the two empty states are
// distinguished so the UI can tell an empty bulletin from an empty search.
func (ic *ItemController) ListItems(c *gin.Context) {
	filter, ok := services.ParseFilter(c.Query("filter"))
	if !ok {
		utils.BadRequestResponse(c, "filter must be one of: all, lost, found", nil)
		return
	}

	sortKey, ok := services.ParseSortKey(c.Query("sort"))
	if !ok {
		utils.BadRequestResponse(c, "sort must be one of: newest, oldest, name", nil)
		return
	}

	items, err := ic.store.List(c.Request.Context())
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	rendered := services.Render(items, filter, sortKey, c.Query("q"))

	// The board shows a clamped summary; GET /items/:id has the full text.
	// Search above still ran against the full description.
	for i := range rendered {
		rendered[i].Description = utils.TruncateWords(rendered[i].Description, utils.MaxDescriptionWords)
	}

	message := "Items retrieved"
	if len(rendered) == 0 {
		if len(items) == 0 {
			message = "No items posted yet"
		} else {
			message = "No items found"
		}
	}

	utils.SuccessResponse(c, message, gin.H{
		"items": rendered,
		"total": len(rendered),
	})
}

func (ic *ItemController) GetItem(c *gin.Context) {
	itemID := c.Param("id")
	if itemID == "" {
		utils.BadRequestResponse(c, "Item ID is required", nil)
		return
	}

	item, err := ic.store.Get(c.Request.Context(), itemID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Item retrieved", item)
}

// MarkFound retracts a report. Only the original reporter may do this; the
// irreversible-action confirmation happens in the UI before this request.
func (ic *ItemController) MarkFound(c *gin.Context) {
	itemID := c.Param("id")
	rollNo := c.GetString("rollNo")

	if rollNo == "" {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	if itemID == "" {
		utils.BadRequestResponse(c, "Item ID is required", nil)
		return
	}

	if err := ic.lifecycle.MarkFound(c.Request.Context(), itemID, rollNo); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Item marked as found and removed", nil)
}
