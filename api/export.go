package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"expense/models"
	"expense/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"ID", "Description", "Amount", "Category"}

// ExportHandler 导出处理器
type ExportHandler struct {
	svc *service.ExpenseService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(svc *service.ExpenseService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出消费记录为 CSV
// @Description 导出全部消费记录，金额保留两位小数
// @Tags 导出
// @Produce text/csv
// @Success 200 {file} file "CSV 文件"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c)
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以便 Excel 正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c)
		return
	}
	for _, e := range expenses {
		row := []string{
			fmt.Sprintf("%d", e.ID),
			e.Description,
			decimal.NewFromFloat(e.Amount).StringFixed(2),
			e.Category,
		}
		if err := writer.Write(row); err != nil {
			InternalError(c)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("生成 CSV 失败: %v", err)
		InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出消费记录为 Excel
// @Summary 导出消费记录为 Excel
// @Description 导出全部消费记录为 xlsx 文件，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Excel 文件"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	expenses, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c)
		return
	}

	buf, err := buildWorkbook(expenses)
	if err != nil {
		log.Printf("生成 Excel 失败: %v", err)
		InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename("xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func buildWorkbook(expenses []models.Expense) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		amount := decimal.NewFromFloat(e.Amount).Round(2)
		total = total.Add(amount)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{e.ID, e.Description, amount.InexactFloat64(), e.Category}); err != nil {
			return nil, err
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(2, len(expenses)+2)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, totalCell, &[]interface{}{"Total", total.InexactFloat64()}); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, err
	}
	if err := f.SetColStyle(sheet, "C", style); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func exportFilename(ext string) string {
	return fmt.Sprintf("expenses_%s.%s", time.Now().Format("20060102"), ext)
}
