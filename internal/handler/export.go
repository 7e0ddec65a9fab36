package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"modqueue/internal/models"
	"modqueue/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler produces moderation reports for administrators.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeaders = []string{"ID", "Title", "Status", "Rejection Reason", "Author", "Created"}

func (h *ExportHandler) loadPosts(c *gin.Context) ([]models.Post, bool) {
	var posts []models.Post
	if err := h.DB.Preload("User").
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to load posts")
		return nil, false
	}
	return posts, true
}

func exportRow(p models.Post) []string {
	reason := ""
	if p.RejectionReason != nil {
		reason = *p.RejectionReason
	}
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Title,
		string(p.Status),
		reason,
		p.User.Email,
		p.CreatedAt.Format("2006-01-02"),
	}
}

// ExportCSV streams the moderation report as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	posts, ok := h.loadPosts(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, p := range posts {
		writer.Write(exportRow(p))
	}
}

// ExportXLSX streams the moderation report as an .xlsx workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	posts, ok := h.loadPosts(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Posts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, p := range posts {
		row := idx + 2
		for col, val := range exportRow(p) {
			cell := fmt.Sprintf("%c%d", 'A'+col, row)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 28)
	f.SetColWidth(sheetName, "F", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Message(c, http.StatusInternalServerError, "Failed to write workbook")
	}
}
